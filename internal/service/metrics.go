package service

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "storefront/service"

type orderMetrics struct {
	created      metric.Int64Counter
	transitions  metric.Int64Counter
	stockRejects metric.Int64Counter
}

// newOrderMetrics binds to the global MeterProvider; instruments that fail
// to register fall back to no-ops through otel.Handle.
func newOrderMetrics() orderMetrics {
	meter := otel.Meter(meterName)

	created, err := meter.Int64Counter("storefront.orders.created",
		metric.WithDescription("Orders committed"))
	if err != nil {
		otel.Handle(err)
	}
	transitions, err := meter.Int64Counter("storefront.orders.status_changes",
		metric.WithDescription("Order status updates by target status"))
	if err != nil {
		otel.Handle(err)
	}
	stockRejects, err := meter.Int64Counter("storefront.stock.insufficient",
		metric.WithDescription("Completions rejected for lack of stock"))
	if err != nil {
		otel.Handle(err)
	}

	return orderMetrics{created: created, transitions: transitions, stockRejects: stockRejects}
}
