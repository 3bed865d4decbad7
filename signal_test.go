package repeater

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSignalCallOrder(t *testing.T) {
	s := NewSignal()
	var order []int
	s.On(func() { order = append(order, 1) })
	s.On(func() { order = append(order, 2) })
	s.Call()
	s.Call()
	assert.Equal(t, []int{1, 2, 1, 2}, order)
}

func TestSignalOnceSlot(t *testing.T) {
	s := NewSignal()
	calls := 0
	s.Once(func() { calls++ })
	s.Call()
	s.Call()
	assert.Equal(t, 1, calls)
	assert.Zero(t, s.Len())
}

func TestSignalOff(t *testing.T) {
	s := NewSignal()
	calls := 0
	slot := s.On(func() { calls++ })
	slot.Off()
	slot.Off()
	s.Call()
	assert.Zero(t, calls)
}

func TestSignalOffDuringCall(t *testing.T) {
	s := NewSignal()
	var second *Slot
	calls := 0
	s.On(func() { second.Off() })
	second = s.On(func() { calls++ })
	s.Call()
	assert.Zero(t, calls)
}

func TestSignalAddDuringCallWaits(t *testing.T) {
	s := NewSignal()
	late := 0
	s.Once(func() { s.On(func() { late++ }) })
	s.Call()
	assert.Zero(t, late)
	s.Call()
	assert.Equal(t, 1, late)
}

func TestOnceSignalFiresOnce(t *testing.T) {
	s := NewOnceSignal()
	calls := 0
	s.On(func() { calls++ })
	s.Call()
	s.Call()
	assert.Equal(t, 1, calls)
	assert.True(t, s.Fired())
	assert.Zero(t, s.Len())
}

func TestOnceSignalLateHandlerRunsImmediately(t *testing.T) {
	s := NewOnceSignal()
	s.Call()
	ran := false
	slot := s.On(func() { ran = true })
	assert.True(t, ran)
	slot.Off()
}

func TestSignalUntil(t *testing.T) {
	s := NewSignal()
	stop := NewOnceSignal()
	calls := 0
	s.On(func() { calls++ })
	s.Until(stop)

	s.Call()
	stop.Call()
	s.Call()
	assert.Equal(t, 1, calls)
}
