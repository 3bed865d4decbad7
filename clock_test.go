package repeater

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClockFixedStepsFromAccumulator(t *testing.T) {
	c := NewClock(0.1, 10)
	var fixed, updates int
	c.OnFixedUpdate(func() { fixed++ })
	c.OnUpdate(func() { updates++ })

	assert.Equal(t, 0, c.Advance(0.05))
	assert.Equal(t, 1, c.Advance(0.05))
	assert.Equal(t, 2, c.Advance(0.25))

	assert.Equal(t, 3, fixed)
	assert.Equal(t, 3, updates)
	assert.InDelta(t, 0.35, c.Time(), 1e-9)
	assert.InDelta(t, 0.3, c.FixedTime(), 1e-9)
	assert.InDelta(t, 0.25, c.Delta(), 1e-9)
}

func TestClockFixedBeforeUpdate(t *testing.T) {
	c := NewClock(0.1, 10)
	var order []string
	c.OnFixedUpdate(func() { order = append(order, "fixed") })
	c.OnUpdate(func() { order = append(order, "update") })

	c.Advance(0.2)
	assert.Equal(t, []string{"fixed", "fixed", "update"}, order)
}

func TestClockMaxFixedStepsDropsBacklog(t *testing.T) {
	c := NewClock(0.1, 3)
	assert.Equal(t, 3, c.Advance(1.0))
	// The backlog beyond the cap is dropped, not carried over.
	assert.Equal(t, 0, c.Advance(0.05))
}

func TestClockNegativeDelta(t *testing.T) {
	c := NewClock(0.1, 3)
	var updates int
	c.OnUpdate(func() { updates++ })

	assert.Equal(t, 0, c.Advance(-1))
	assert.Equal(t, 0.0, c.Delta())
	assert.Equal(t, 0.0, c.Time())
	assert.Equal(t, 1, updates)
}

func TestClockSlotOff(t *testing.T) {
	c := NewClock(0.1, 3)
	var updates int
	s := c.OnUpdate(func() { updates++ })
	c.Advance(0)
	s.Off()
	c.Advance(0)
	assert.Equal(t, 1, updates)
}
