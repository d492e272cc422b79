//go:build integration

package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/storefront/internal/testutil"
)

func TestProducer_PublishEvent(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	brokers := testutil.SetupKafka(ctx, t)

	p := NewProducer(brokers)

	ev := New(OrderCreated, map[string]any{"order_id": 42})
	require.NoError(t, p.PublishEvent(ctx, TopicOrders, "42", ev))
	require.NoError(t, p.Close())

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     brokers,
		Topic:       TopicOrders,
		StartOffset: kafka.FirstOffset,
		MaxWait:     500 * time.Millisecond,
	})
	defer func() { _ = reader.Close() }()

	msg, err := reader.ReadMessage(ctx)
	require.NoError(t, err)
	assert.Equal(t, "42", string(msg.Key))

	var got Event
	require.NoError(t, json.Unmarshal(msg.Value, &got))
	assert.Equal(t, ev.ID, got.ID)
	assert.Equal(t, OrderCreated, got.Type)
}
