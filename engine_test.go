package repeater

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPlugin struct {
	name    string
	log     *[]string
	loadErr error
	initErr error
}

func (p *recordingPlugin) Load(*Engine) error {
	*p.log = append(*p.log, "load:"+p.name)
	return p.loadErr
}

func (p *recordingPlugin) Init(*Engine) error {
	*p.log = append(*p.log, "init:"+p.name)
	return p.initErr
}

type tickingPlugin struct {
	recordingPlugin
}

func (p *tickingPlugin) Update(*Engine, float64) {
	*p.log = append(*p.log, "plugin.update")
}

func (p *tickingPlugin) FixedUpdate(*Engine, float64) {
	*p.log = append(*p.log, "plugin.fixed")
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Width = 0
	_, err := New(cfg)
	assert.ErrorIs(t, err, errInvalidConfig)
}

func TestNewRejectsBadLogLevel(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LogLevel = "loud"
	_, err := New(cfg)
	assert.Error(t, err)
}

func TestEngineStartLoadsThenInits(t *testing.T) {
	var log []string
	a := &recordingPlugin{name: "a", log: &log}
	b := &recordingPlugin{name: "b", log: &log}
	e := newTestEngine(t, a, b)

	require.NoError(t, e.Start())
	assert.True(t, e.Started())
	assert.Equal(t, []string{"load:a", "load:b", "init:a", "init:b"}, log)

	// Idempotent.
	require.NoError(t, e.Start())
	assert.Len(t, log, 4)
}

func TestEngineStartErrors(t *testing.T) {
	boom := errors.New("boom")

	var log []string
	e := newTestEngine(t, &recordingPlugin{name: "a", log: &log, loadErr: boom})
	assert.ErrorIs(t, e.Start(), boom)
	assert.False(t, e.Started())

	log = nil
	e = newTestEngine(t, &recordingPlugin{name: "a", log: &log, initErr: boom})
	assert.ErrorIs(t, e.Step(0.1), boom)
	assert.False(t, e.Started())
}

func TestFindPlugin(t *testing.T) {
	var log []string
	rec := &recordingPlugin{name: "a", log: &log}
	in := NewInputPlugin(nil)
	e := newTestEngine(t, rec, in)

	got, ok := FindPlugin[*InputPlugin](e)
	assert.True(t, ok)
	assert.Same(t, in, got)

	_, ok = FindPlugin[*PhysicsPlugin](e)
	assert.False(t, ok)
	assert.Len(t, e.Plugins(), 2)
}

func TestEngineStepOrder(t *testing.T) {
	var log []string
	p := &tickingPlugin{recordingPlugin{name: "p", log: &log}}
	e := newTestEngine(t, p)
	child := NewNode(Props{})
	e.Root().Add(child)

	Listen(child, EventFixedUpdate, func(*FixedUpdateEvent) { log = append(log, "node.fixed") })
	Listen(child, EventUpdate, func(*UpdateEvent) { log = append(log, "node.update") })

	require.NoError(t, e.Step(2*e.Config().FixedTimeStep))
	assert.Equal(t, []string{
		"load:p", "init:p",
		"plugin.update",
		"plugin.fixed", "node.fixed",
		"plugin.fixed", "node.fixed",
		"node.update",
	}, log)
}

func TestEngineUpdateEventCarriesClock(t *testing.T) {
	e := newTestEngine(t)
	var got *UpdateEvent
	Listen(e.Root(), EventUpdate, func(ev *UpdateEvent) { got = ev })

	require.NoError(t, e.Step(0.25))
	require.NoError(t, e.Step(0.25))
	require.NotNil(t, got)
	assert.InDelta(t, 0.5, got.Time, 1e-9)
	assert.InDelta(t, 0.25, got.Delta, 1e-9)
	assert.InDelta(t, 0.25, e.Root().Delta(), 1e-9)
}

func TestEngineDetachedNodesMissTicks(t *testing.T) {
	e := newTestEngine(t)
	orphan := NewNode(Props{})
	var updates int
	orphan.On(EventUpdate, func(Event) { updates++ })

	require.NoError(t, e.Step(0.1))
	assert.Zero(t, updates)
}

func TestEngineLifecycleRunsBeforeFirstTick(t *testing.T) {
	e := newTestEngine(t)
	var log []string
	n := NewNode(Props{})
	n.On(EventStart, func(Event) { log = append(log, "start") })
	n.On(EventUpdate, func(Event) { log = append(log, "update") })
	e.Root().Add(n)

	require.NoError(t, e.Step(0.01))
	assert.Equal(t, []string{"start", "update"}, log)
}

func TestEngineStepPanicPropagates(t *testing.T) {
	e := newTestEngine(t)
	e.Root().On(EventUpdate, func(Event) { panic("listener failed") })
	assert.PanicsWithValue(t, "listener failed", func() { _ = e.Step(0.1) })
}

func TestEngineStepRecoverPanics(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LogLevel = ""
	cfg.RecoverPanics = true
	e, err := New(cfg)
	require.NoError(t, err)

	cause := errors.New("cause")
	e.Root().On(EventUpdate, func(Event) { panic(cause) })

	err = e.Step(0.1)
	var lpe *ListenerPanicError
	require.ErrorAs(t, err, &lpe)
	assert.Equal(t, "step", lpe.Event)
	assert.ErrorIs(t, err, cause)
}
