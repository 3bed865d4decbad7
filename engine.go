package repeater

import (
	"fmt"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"
)

// Plugin extends an Engine. Start calls Load on every plugin in
// registration order, then Init on every plugin, so Init may rely on all
// plugins being loaded.
type Plugin interface {
	Load(e *Engine) error
	Init(e *Engine) error
}

// Updater is implemented by plugins that run once per Step, before the
// clock advances (input polling, scripted steps).
type Updater interface {
	Update(e *Engine, dt float64)
}

// FixedUpdater is implemented by plugins that run once per fixed tick,
// before fixedUpdate is emitted down the tree.
type FixedUpdater interface {
	FixedUpdate(e *Engine, step float64)
}

// Drawer is implemented by plugins that draw on top of the frame in Run.
type Drawer interface {
	Draw(e *Engine, screen *ebiten.Image)
}

// Engine owns the root node, the clock, the plugins and the cameras. It
// forwards clock ticks to the tree as update and fixedUpdate events.
type Engine struct {
	cfg     Config
	root    *Node
	clock   *Clock
	plugins []Plugin
	cameras []*Camera

	started bool
	stats   tickStats
}

// New creates an engine. cfg is validated; plugins are loaded by Start.
func New(cfg Config, plugins ...Plugin) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.LogLevel != "" {
		l, err := NewLogger(cfg.LogLevel)
		if err != nil {
			return nil, err
		}
		SetLogger(l)
	}
	SetDebugMode(cfg.Debug)

	e := &Engine{
		cfg:     cfg,
		root:    NewNode(Props{Name: "root"}),
		clock:   NewClock(cfg.FixedTimeStep, cfg.MaxFixedSteps),
		plugins: plugins,
	}
	return e, nil
}

// Config returns the engine's configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// Root returns the root node. Nodes receive update and fixedUpdate only
// while attached below it.
func (e *Engine) Root() *Node {
	return e.root
}

// Clock returns the engine clock.
func (e *Engine) Clock() *Clock {
	return e.clock
}

// Plugins returns the registered plugins.
func (e *Engine) Plugins() []Plugin {
	return e.plugins
}

// FindPlugin returns the first plugin of type T.
func FindPlugin[T Plugin](e *Engine) (T, bool) {
	for _, p := range e.plugins {
		if t, ok := p.(T); ok {
			return t, true
		}
	}
	var zero T
	return zero, false
}

// Started reports whether Start has completed.
func (e *Engine) Started() bool {
	return e.started
}

// Start loads and initializes plugins and hooks the clock to the tree.
// Calling it again is a no-op. Step calls it on first use.
func (e *Engine) Start() error {
	if e.started {
		return nil
	}
	for _, p := range e.plugins {
		if err := p.Load(e); err != nil {
			return fmt.Errorf("repeater: load plugin %T: %w", p, err)
		}
		logger.Debug("plugin loaded", zap.String("plugin", fmt.Sprintf("%T", p)))
	}
	for _, p := range e.plugins {
		if err := p.Init(e); err != nil {
			return fmt.Errorf("repeater: init plugin %T: %w", p, err)
		}
	}

	e.clock.OnFixedUpdate(e.fixedTick)
	e.clock.OnUpdate(e.tick)
	e.started = true
	FlushMicrotasks()
	logger.Info("engine started",
		zap.Int("plugins", len(e.plugins)),
		zap.Float64("fixed_time_step", e.cfg.FixedTimeStep),
	)
	return nil
}

func (e *Engine) fixedTick() {
	var t0 time.Time
	if globalDebug {
		t0 = time.Now()
	}
	e.stats.microtasks += FlushMicrotasks()
	for _, p := range e.plugins {
		if u, ok := p.(FixedUpdater); ok {
			u.FixedUpdate(e, e.clock.FixedTimeStep)
		}
	}
	e.root.EmitDown(EventFixedUpdate, &FixedUpdateEvent{Time: e.clock.FixedTime()})
	e.stats.microtasks += FlushMicrotasks()
	if globalDebug {
		e.stats.fixedTime += time.Since(t0)
	}
}

func (e *Engine) tick() {
	var t0 time.Time
	if globalDebug {
		t0 = time.Now()
	}
	e.stats.microtasks += FlushMicrotasks()
	e.root.EmitDown(EventUpdate, &UpdateEvent{Time: e.clock.Time(), Delta: e.clock.Delta()})
	e.stats.microtasks += FlushMicrotasks()
	if globalDebug {
		e.stats.updateTime = time.Since(t0)
	}
}

// Step advances the engine by dt seconds: Updater plugins run, then the
// clock emits fixedUpdate ticks and one update. Microtasks are flushed
// around every tick.
//
// A listener panic aborts the rest of the step. With Config.RecoverPanics
// the panic is logged and returned as a *ListenerPanicError; otherwise it
// propagates.
func (e *Engine) Step(dt float64) (err error) {
	if err := e.Start(); err != nil {
		return err
	}
	if e.cfg.RecoverPanics {
		defer func() {
			if r := recover(); r != nil {
				err = &ListenerPanicError{Event: "step", Value: r}
				logger.Error("recovered panic during step", zap.Any("panic", r))
			}
		}()
	}

	e.stats = tickStats{}
	for _, p := range e.plugins {
		if u, ok := p.(Updater); ok {
			u.Update(e, dt)
		}
	}
	e.stats.fixedSteps = e.clock.Advance(dt)

	if globalDebug {
		e.stats.nodes = countNodes(e.root)
		debugLog(e.stats)
	}
	return nil
}

// --- Cameras ---

// AddCamera attaches cam below the root and registers it. The first camera
// added is the main camera.
func (e *Engine) AddCamera(cam *Camera) {
	e.cameras = append(e.cameras, cam)
	e.root.Add(cam.Node)
}

// RemoveCamera unregisters cam and detaches it from the tree.
func (e *Engine) RemoveCamera(cam *Camera) {
	for i, c := range e.cameras {
		if c == cam {
			e.cameras = append(e.cameras[:i], e.cameras[i+1:]...)
			cam.RemoveFromParent()
			return
		}
	}
}

// Cameras returns the registered cameras. The returned slice must not be
// modified.
func (e *Engine) Cameras() []*Camera {
	return e.cameras
}

// MainCamera returns the first registered camera, or nil.
func (e *Engine) MainCamera() *Camera {
	if len(e.cameras) == 0 {
		return nil
	}
	return e.cameras[0]
}

// --- Window loop ---

// Run opens a window and drives the engine from ebiten's game loop until
// the window closes or a step returns an error.
func (e *Engine) Run() error {
	if err := e.Start(); err != nil {
		return err
	}
	ebiten.SetWindowTitle(e.cfg.Title)
	ebiten.SetWindowSize(e.cfg.Width, e.cfg.Height)
	ebiten.SetTPS(e.cfg.TPS)
	return ebiten.RunGame(&game{engine: e})
}

// game adapts Engine to ebiten.Game.
type game struct {
	engine *Engine
}

func (g *game) Update() error {
	return g.engine.Step(1 / float64(ebiten.TPS()))
}

func (g *game) Draw(screen *ebiten.Image) {
	for _, p := range g.engine.plugins {
		if d, ok := p.(Drawer); ok {
			d.Draw(g.engine, screen)
		}
	}
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.engine.cfg.Width, g.engine.cfg.Height
}
