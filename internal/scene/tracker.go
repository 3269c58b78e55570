package scene

import (
	"context"
	"fmt"
	"sync/atomic"

	"go.opentelemetry.io/otel/metric"
)

// Tracker counts geometry and material allocations so callers can check
// that repeated asset switches do not grow resident resources.
// Safe for concurrent use: loads allocate off the main loop.
type Tracker struct {
	geometriesAllocated atomic.Int64
	geometriesDisposed  atomic.Int64
	materialsAllocated  atomic.Int64
	materialsDisposed   atomic.Int64
}

// Usage is a point-in-time copy of the tracker counters.
type Usage struct {
	GeometriesAllocated int64
	GeometriesDisposed  int64
	MaterialsAllocated  int64
	MaterialsDisposed   int64
}

// LiveGeometries is the number of geometries not yet disposed.
func (u Usage) LiveGeometries() int64 {
	return u.GeometriesAllocated - u.GeometriesDisposed
}

// LiveMaterials is the number of materials not yet disposed.
func (u Usage) LiveMaterials() int64 {
	return u.MaterialsAllocated - u.MaterialsDisposed
}

// NewTracker returns a zeroed tracker.
func NewTracker() *Tracker {
	return &Tracker{}
}

// Usage snapshots the counters. A nil tracker reports zero usage.
func (t *Tracker) Usage() Usage {
	if t == nil {
		return Usage{}
	}
	return Usage{
		GeometriesAllocated: t.geometriesAllocated.Load(),
		GeometriesDisposed:  t.geometriesDisposed.Load(),
		MaterialsAllocated:  t.materialsAllocated.Load(),
		MaterialsDisposed:   t.materialsDisposed.Load(),
	}
}

// Observe registers live-resource gauges on the given meter.
func (t *Tracker) Observe(m metric.Meter) error {
	geoms, err := m.Int64ObservableGauge(
		"scene.geometries.live",
		metric.WithDescription("Geometries allocated and not yet disposed"),
	)
	if err != nil {
		return fmt.Errorf("scene: creating geometry gauge: %w", err)
	}
	mats, err := m.Int64ObservableGauge(
		"scene.materials.live",
		metric.WithDescription("Materials allocated and not yet disposed"),
	)
	if err != nil {
		return fmt.Errorf("scene: creating material gauge: %w", err)
	}

	_, err = m.RegisterCallback(
		func(ctx context.Context, o metric.Observer) error {
			u := t.Usage()
			o.ObserveInt64(geoms, u.LiveGeometries())
			o.ObserveInt64(mats, u.LiveMaterials())
			return nil
		},
		geoms, mats,
	)
	if err != nil {
		return fmt.Errorf("scene: registering gauge callback: %w", err)
	}
	return nil
}

func (t *Tracker) geometryAllocated() {
	if t != nil {
		t.geometriesAllocated.Add(1)
	}
}

func (t *Tracker) geometryDisposed() {
	if t != nil {
		t.geometriesDisposed.Add(1)
	}
}

func (t *Tracker) materialAllocated() {
	if t != nil {
		t.materialsAllocated.Add(1)
	}
}

func (t *Tracker) materialDisposed() {
	if t != nil {
		t.materialsDisposed.Add(1)
	}
}
