package lifecycle

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "vehicle-customizer/internal/lifecycle"

func meter() metric.Meter {
	return otel.Meter(instrumentationName)
}

type metrics struct {
	started   metric.Int64Counter
	completed metric.Int64Counter
	failed    metric.Int64Counter
	stale     metric.Int64Counter
}

func newMetrics(m metric.Meter) (*metrics, error) {
	var (
		out metrics
		err error
	)
	out.started, err = m.Int64Counter(
		"lifecycle.loads.started",
		metric.WithDescription("Asset loads started"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating started counter: %w", err)
	}
	out.completed, err = m.Int64Counter(
		"lifecycle.loads.completed",
		metric.WithDescription("Asset loads that became the active vehicle"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating completed counter: %w", err)
	}
	out.failed, err = m.Int64Counter(
		"lifecycle.loads.failed",
		metric.WithDescription("Asset loads that failed for the active selection"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating failed counter: %w", err)
	}
	out.stale, err = m.Int64Counter(
		"lifecycle.loads.stale",
		metric.WithDescription("Completions discarded because a newer selection exists"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating stale counter: %w", err)
	}
	return &out, nil
}

func vehicleAttr(id int) metric.AddOption {
	return metric.WithAttributes(attribute.Int("vehicle", id))
}

func (m *metrics) add(c metric.Int64Counter, id int) {
	c.Add(context.Background(), 1, vehicleAttr(id))
}
