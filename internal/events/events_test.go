package events

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

func TestMessageCarrier(t *testing.T) {
	msg := kafka.Message{}
	c := NewMessageCarrier(&msg)

	assert.Equal(t, "", c.Get("traceparent"))

	c.Set("traceparent", "a")
	c.Set("tracestate", "b")
	c.Set("traceparent", "c")

	assert.Equal(t, "c", c.Get("traceparent"))
	assert.ElementsMatch(t, []string{"traceparent", "tracestate"}, c.Keys())
	assert.Len(t, msg.Headers, 2)
}

func TestMessageCarrier_InjectsTraceContext(t *testing.T) {
	traceID, err := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	require.NoError(t, err)
	spanID, err := trace.SpanIDFromHex("00f067aa0ba902b7")
	require.NoError(t, err)
	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	})
	ctx := trace.ContextWithSpanContext(context.Background(), sc)

	msg := kafka.Message{}
	propagation.TraceContext{}.Inject(ctx, NewMessageCarrier(&msg))

	assert.Equal(t, "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01",
		NewMessageCarrier(&msg).Get("traceparent"))
}

func TestNew(t *testing.T) {
	ev := New(OrderCreated, map[string]int{"order_id": 7})

	assert.Equal(t, OrderCreated, ev.Type)
	assert.Len(t, ev.ID, 36)
	assert.False(t, ev.OccurredAt.IsZero())
	assert.Equal(t, "UTC", ev.OccurredAt.Location().String())
}

func TestNop(t *testing.T) {
	var p Publisher = Nop{}
	assert.NoError(t, p.PublishEvent(context.Background(), TopicOrders, "1", New(OrderCreated, nil)))
}

func TestProducer_PublishDoesNotWaitForBroker(t *testing.T) {
	p := NewProducer([]string{"127.0.0.1:1"})
	p.writer.MaxAttempts = 1
	t.Cleanup(func() { _ = p.Close() })

	require.True(t, p.writer.Async)

	start := time.Now()
	err := p.PublishEvent(context.Background(), TopicOrders, "1", New(OrderCreated, nil))
	require.NoError(t, err)
	assert.Less(t, time.Since(start), time.Second)
}

func TestLogDelivery(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })

	msgs := []kafka.Message{{Topic: TopicOrders, Key: []byte("9")}}

	logDelivery(msgs, nil)
	assert.Empty(t, buf.String())

	logDelivery(msgs, errors.New("dial tcp 127.0.0.1:1: connect: connection refused"))
	assert.Contains(t, buf.String(), `"msg":"kafka_publish_error"`)
	assert.Contains(t, buf.String(), `"topic":"`+TopicOrders+`"`)
	assert.Contains(t, buf.String(), `"key":"9"`)
}
