package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/phanxgames/repeater"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEngine(t *testing.T, c *Collector) *repeater.Engine {
	t.Helper()
	cfg := repeater.DefaultConfig()
	cfg.LogLevel = ""
	e, err := repeater.New(cfg, c)
	require.NoError(t, err)
	return e
}

func TestCollectorCountsTicks(t *testing.T) {
	c := NewCollector("")
	e := newEngine(t, c)
	e.Root().Add(repeater.NewNode(repeater.Props{}), repeater.NewNode(repeater.Props{}))

	require.NoError(t, e.Step(2*e.Config().FixedTimeStep))
	require.NoError(t, e.Step(0))

	assert.Equal(t, 2.0, testutil.ToFloat64(c.ticks.WithLabelValues("fixed")))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.ticks.WithLabelValues("update")))
	assert.Equal(t, 3.0, testutil.ToFloat64(c.nodes))
}

func TestCollectorCountsRootEvents(t *testing.T) {
	c := NewCollector("game", "score")
	e := newEngine(t, c)
	require.NoError(t, e.Start())

	child := repeater.NewNode(repeater.Props{})
	e.Root().Add(child)
	child.EmitUp("score", repeater.NewEvent())
	child.EmitUp("score", repeater.NewEvent())
	child.Emit("score", repeater.NewEvent())

	assert.Equal(t, 2.0, testutil.ToFloat64(c.rootEvents.WithLabelValues("score")))
}

func TestCollectorClose(t *testing.T) {
	c := NewCollector("")
	e := newEngine(t, c)
	require.NoError(t, e.Step(0))
	c.Close()
	require.NoError(t, e.Step(0))

	assert.Equal(t, 1.0, testutil.ToFloat64(c.ticks.WithLabelValues("update")))
}

func TestCollectorHandler(t *testing.T) {
	c := NewCollector("")
	e := newEngine(t, c)
	require.NoError(t, e.Step(0))

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	assert.Equal(t, 200, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), `repeater_clock_ticks_total{kind="update"} 1`))
}
