// Package lifecycle owns the active vehicle. Every state change happens on
// the goroutine running Manager.Run; the public methods post commands to it
// and asset loads report back through a completion channel, so the newest
// selection always wins regardless of the order loads finish in.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/metric"

	"vehicle-customizer/internal/asset"
	"vehicle-customizer/internal/camera"
	"vehicle-customizer/internal/catalog"
	"vehicle-customizer/internal/normalize"
	"vehicle-customizer/internal/paint"
	"vehicle-customizer/internal/scene"
	"vehicle-customizer/internal/targeting"
	"vehicle-customizer/internal/texture"
)

var (
	// ErrUnknownVehicle is returned when selecting an id the catalog lacks.
	ErrUnknownVehicle = errors.New("lifecycle: unknown vehicle")
	// ErrClosed is returned by calls made after the manager stopped.
	ErrClosed = errors.New("lifecycle: manager closed")
	// ErrSuperseded is returned by SelectAndWait when a newer selection
	// replaced the one being waited on.
	ErrSuperseded = errors.New("lifecycle: selection superseded")
)

// Deps are the collaborators of a Manager. Catalog and Source are required.
type Deps struct {
	Catalog catalog.Catalog
	Source  asset.Source
	// Textures resolves the texture keys of loaded materials for the surface.
	Textures texture.Resolver
	// Surface receives the live view; nil discards it.
	Surface Surface
	// Colors overrides DefaultColors.
	Colors *ColorState
	Log    zerolog.Logger
	// Meter overrides the global OpenTelemetry meter.
	Meter metric.Meter
}

// Manager drives the select, load, normalize, classify, paint sequence.
type Manager struct {
	catalog  catalog.Catalog
	source   asset.Source
	textures texture.Resolver
	surface  Surface
	log      zerolog.Logger
	metrics  *metrics

	cmds    chan func()
	results chan completion
	stop    chan struct{}
	done    chan struct{}
	running atomic.Bool
	once    sync.Once

	// Owned by the loop goroutine.
	loadCtx    context.Context
	cancelLoad context.CancelFunc
	state      State
	token      uint64
	selected   bool
	vehicle    catalog.Descriptor
	colors     ColorState
	stage      scene.Stage
	cls        *targeting.Classification
	splits     int
	orbit      *camera.Orbit
	lastErr    error
	waiters    map[uint64][]chan outcome

	mu     sync.RWMutex
	status Status
}

type completion struct {
	asset.Result
	vehicle int
}

type outcome struct {
	status Status
	err    error
}

// New validates deps and builds an idle manager. Call Run to start it.
func New(deps Deps) (*Manager, error) {
	if deps.Source == nil {
		return nil, errors.New("lifecycle: no asset source")
	}
	if deps.Catalog.Len() == 0 {
		return nil, errors.New("lifecycle: empty catalog")
	}
	m := deps.Meter
	if m == nil {
		m = meter()
	}
	met, err := newMetrics(m)
	if err != nil {
		return nil, fmt.Errorf("lifecycle: %w", err)
	}
	surface := deps.Surface
	if surface == nil {
		surface = nopSurface{}
	}
	colors := DefaultColors()
	if deps.Colors != nil {
		colors = *deps.Colors
	}

	mgr := &Manager{
		catalog:  deps.Catalog,
		source:   deps.Source,
		textures: deps.Textures,
		surface:  surface,
		log:      deps.Log.With().Str("component", "lifecycle").Logger(),
		metrics:  met,
		cmds:     make(chan func()),
		results:  make(chan completion),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
		colors:   colors,
		orbit:    camera.NewOrbit(),
		waiters:  make(map[uint64][]chan outcome),
	}
	mgr.publish()
	return mgr, nil
}

// Run processes commands and load completions until ctx is cancelled or
// Close is called, then disposes the live fragment. It may be called once.
func (m *Manager) Run(ctx context.Context) error {
	if !m.running.CompareAndSwap(false, true) {
		return errors.New("lifecycle: already running")
	}
	defer close(m.done)

	loadCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	m.loadCtx = loadCtx

	m.log.Debug().Int("vehicles", m.catalog.Len()).Msg("manager started")
	for {
		select {
		case <-ctx.Done():
			m.shutdown()
			return ctx.Err()
		case <-m.stop:
			m.shutdown()
			return nil
		case fn := <-m.cmds:
			fn()
		case c := <-m.results:
			m.complete(c)
		}
	}
}

// Close stops the loop and disposes the live fragment. It waits for Run to
// return when Run is active.
func (m *Manager) Close() error {
	m.once.Do(func() { close(m.stop) })
	if m.running.Load() {
		<-m.done
	}
	return nil
}

// Select makes the vehicle with the given id the active selection and starts
// loading it. It returns once the previous fragment is gone and the load is
// under way; completion is observed through Snapshot or SelectAndWait.
func (m *Manager) Select(ctx context.Context, id int) error {
	d, ok := m.catalog.Lookup(id)
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownVehicle, id)
	}
	return m.do(ctx, func() { m.begin(d) })
}

// SelectAndWait selects id and blocks until that selection becomes Ready or
// fails. A load failure is returned as an *asset.LoadError alongside the
// Idle status.
func (m *Manager) SelectAndWait(ctx context.Context, id int) (Status, error) {
	d, ok := m.catalog.Lookup(id)
	if !ok {
		return m.Snapshot(), fmt.Errorf("%w: %d", ErrUnknownVehicle, id)
	}
	wait := make(chan outcome, 1)
	err := m.do(ctx, func() {
		token := m.begin(d)
		m.waiters[token] = append(m.waiters[token], wait)
	})
	if err != nil {
		return m.Snapshot(), err
	}
	select {
	case o := <-wait:
		return o.status, o.err
	case <-ctx.Done():
		return m.Snapshot(), ctx.Err()
	case <-m.done:
		return m.Snapshot(), ErrClosed
	}
}

// SetColor records col for region and repaints the live vehicle when Ready.
// The choice survives vehicle switches.
func (m *Manager) SetColor(ctx context.Context, region targeting.Region, col paint.Color) error {
	return m.do(ctx, func() {
		m.colors.set(region, col)
		if m.state == Ready {
			paint.ApplyColor(m.cls, region, col)
			m.present()
		}
		m.log.Debug().Stringer("region", region).Stringer("color", col).Stringer("state", m.state).Msg("color set")
		m.publish()
	})
}

// Rotate orbits the camera around the vehicle.
func (m *Manager) Rotate(ctx context.Context, yaw, pitch float64) error {
	return m.do(ctx, func() {
		m.orbit.Rotate(yaw, pitch)
		m.present()
		m.publish()
	})
}

// Dolly moves the camera along its view ray within the zoom bounds.
func (m *Manager) Dolly(ctx context.Context, delta float64) error {
	return m.do(ctx, func() {
		m.orbit.Dolly(delta)
		m.present()
		m.publish()
	})
}

// ResetView returns the camera to the pose derived for the live vehicle.
func (m *Manager) ResetView(ctx context.Context) error {
	return m.do(ctx, func() {
		m.orbit.Restore()
		m.present()
		m.publish()
	})
}

// Snapshot returns the state as of the last processed command or completion.
func (m *Manager) Snapshot() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}

func (m *Manager) do(ctx context.Context, fn func()) error {
	finished := make(chan struct{})
	cmd := func() {
		fn()
		close(finished)
	}
	select {
	case m.cmds <- cmd:
	case <-m.stop:
		return ErrClosed
	case <-m.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-finished:
		return nil
	case <-m.done:
		select {
		case <-finished:
			return nil
		default:
			return ErrClosed
		}
	}
}

// begin runs on the loop. It retires the current fragment before the new
// load starts so at most one fragment is ever attached.
func (m *Manager) begin(d catalog.Descriptor) uint64 {
	m.token++
	token := m.token
	if m.cancelLoad != nil {
		m.cancelLoad()
		m.cancelLoad = nil
	}
	m.supersede(token)
	m.discard()
	m.orbit.Reset(camera.Home())

	m.selected = true
	m.vehicle = d
	m.lastErr = nil
	m.setState(Loading)

	ctx, cancel := context.WithCancel(m.loadCtx)
	m.cancelLoad = cancel
	ch := asset.Start(ctx, m.source, d.AssetPath, token)
	go m.forward(ch, d.ID)

	m.metrics.add(m.metrics.started, d.ID)
	m.log.Info().Uint64("token", token).Int("vehicle", d.ID).Str("name", d.Name).Str("asset", d.AssetPath).Msg("loading vehicle")
	m.publish()
	return token
}

// forward hands a load result to the loop, or disposes it if the loop is
// gone.
func (m *Manager) forward(ch <-chan asset.Result, vehicle int) {
	r := <-ch
	select {
	case m.results <- completion{Result: r, vehicle: vehicle}:
	case <-m.done:
		if r.Fragment != nil {
			r.Fragment.Dispose()
		}
	}
}

func (m *Manager) complete(c completion) {
	if c.Token != m.token {
		if c.Fragment != nil {
			c.Fragment.Dispose()
		}
		m.metrics.add(m.metrics.stale, c.vehicle)
		m.log.Debug().Uint64("token", c.Token).Uint64("current", m.token).Int("vehicle", c.vehicle).Msg("discarding stale load")
		return
	}
	if m.cancelLoad != nil {
		m.cancelLoad()
		m.cancelLoad = nil
	}

	err := c.Err
	if err == nil && c.Fragment == nil {
		err = &asset.LoadError{Path: c.Path, Err: errors.New("no fragment")}
	}
	if err != nil {
		m.fail(c.vehicle, err)
		return
	}
	frag := c.Fragment

	m.setState(Normalizing)
	norm := normalize.Normalize(frag)
	pose := normalize.Frame(norm.ExtentLength)

	m.setState(Classifying)
	cls := targeting.Classify(frag, m.vehicle)
	splits := targeting.Isolate(frag, cls)
	for _, s := range splits {
		m.log.Info().Str("material", s.Material).Interface("regions", regionNames(s.Regions)).Msg("shared material split")
	}
	if len(cls.Paint) == 0 && len(cls.Wheel) == 0 {
		m.log.Debug().Int("vehicle", m.vehicle.ID).Msg("no paint or wheel nodes matched")
	}

	if err := m.stage.Attach(frag); err != nil {
		frag.Dispose()
		m.fail(c.vehicle, fmt.Errorf("lifecycle: attach: %w", err))
		return
	}
	m.cls = cls
	m.splits = len(splits)

	m.setState(Ready)
	paint.ApplyColor(cls, targeting.Paint, m.colors.Paint)
	paint.ApplyColor(cls, targeting.Wheel, m.colors.Wheel)
	m.orbit.Reset(pose)
	m.present()

	m.metrics.add(m.metrics.completed, c.vehicle)
	m.log.Info().
		Uint64("token", c.Token).
		Int("vehicle", c.vehicle).
		Float64("extent", norm.ExtentLength).
		Int("paint", len(cls.Paint)).
		Int("wheel", len(cls.Wheel)).
		Int("splits", len(splits)).
		Msg("vehicle ready")
	m.publish()
	m.resolve(c.Token, nil)
}

func (m *Manager) fail(vehicle int, err error) {
	m.lastErr = err
	m.discard()
	m.setState(Idle)
	m.metrics.add(m.metrics.failed, vehicle)
	m.log.Warn().Err(err).Uint64("token", m.token).Int("vehicle", vehicle).Msg("vehicle load failed")
	m.publish()
	m.resolve(m.token, err)
}

// discard clears the surface, then detaches and disposes the live fragment.
func (m *Manager) discard() {
	m.surface.Clear()
	if f := m.stage.Detach(); f != nil {
		f.Dispose()
	}
	m.cls = nil
	m.splits = 0
}

func (m *Manager) shutdown() {
	if m.cancelLoad != nil {
		m.cancelLoad()
		m.cancelLoad = nil
	}
	m.discard()
	m.setState(Idle)
	for token, ws := range m.waiters {
		for _, w := range ws {
			w <- outcome{status: m.status, err: ErrClosed}
		}
		delete(m.waiters, token)
	}
	m.publish()
	m.log.Debug().Msg("manager stopped")
}

func (m *Manager) present() {
	if m.state != Ready {
		return
	}
	m.surface.Present(View{
		Fragment: m.stage.Current(),
		Pose:     m.orbit.Pose(),
		Textures: m.textures,
	})
}

func (m *Manager) setState(s State) {
	if m.state == s {
		return
	}
	m.log.Debug().Stringer("from", m.state).Stringer("to", s).Uint64("token", m.token).Msg("state")
	m.state = s
}

// supersede fails every waiter of a token older than current.
func (m *Manager) supersede(current uint64) {
	for token, ws := range m.waiters {
		if token >= current {
			continue
		}
		for _, w := range ws {
			w <- outcome{status: m.status, err: ErrSuperseded}
		}
		delete(m.waiters, token)
	}
}

func (m *Manager) resolve(token uint64, err error) {
	for _, w := range m.waiters[token] {
		w <- outcome{status: m.status, err: err}
	}
	delete(m.waiters, token)
}

func (m *Manager) publish() {
	s := Status{
		State:    m.state,
		Token:    m.token,
		Selected: m.selected,
		Vehicle:  m.vehicle,
		Colors:   m.colors,
		Splits:   m.splits,
		Pose:     m.orbit.Pose(),
		Err:      m.lastErr,
	}
	if m.cls != nil {
		s.PaintNodes = len(m.cls.Paint)
		s.WheelNodes = len(m.cls.Wheel)
	}
	m.mu.Lock()
	m.status = s
	m.mu.Unlock()
}

func regionNames(sets []targeting.Regions) []string {
	out := make([]string, len(sets))
	for i, s := range sets {
		out[i] = s.String()
	}
	return out
}
