package repeater

// Slot is a handler registered on a Signal.
type Slot struct {
	sig     *Signal
	fn      func()
	once    bool
	removed bool
}

// Off removes the slot from its signal. Safe to call more than once.
func (s *Slot) Off() {
	if s == nil || s.sig == nil {
		return
	}
	s.sig.Off(s)
}

// Signal is a notification primitive without payload. A once-signal fires at
// most one time; a repeatable signal fires on every Call.
//
// Signals back the node lifecycle (the destroy signal) and every
// cancellation path in the package.
type Signal struct {
	once  bool
	fired bool
	slots []*Slot
}

// NewSignal creates a repeatable signal.
func NewSignal() *Signal {
	return &Signal{}
}

// NewOnceSignal creates a signal that fires at most once.
func NewOnceSignal() *Signal {
	return &Signal{once: true}
}

// Fired reports whether the signal has been called at least once.
func (s *Signal) Fired() bool {
	return s.fired
}

// On registers fn to run on every Call. On a once-signal that already fired,
// fn runs immediately and the returned slot is inert.
func (s *Signal) On(fn func()) *Slot {
	return s.add(fn, false)
}

// Once registers fn to run on the next Call only. On a once-signal that
// already fired, fn runs immediately.
func (s *Signal) Once(fn func()) *Slot {
	return s.add(fn, true)
}

func (s *Signal) add(fn func(), once bool) *Slot {
	if s.once && s.fired {
		fn()
		return &Slot{fn: fn, once: true, removed: true}
	}
	slot := &Slot{sig: s, fn: fn, once: once}
	s.slots = append(s.slots, slot)
	return slot
}

// Off removes slot from the signal.
func (s *Signal) Off(slot *Slot) {
	if slot == nil || slot.removed {
		return
	}
	slot.removed = true
	for i, sl := range s.slots {
		if sl == slot {
			copy(s.slots[i:], s.slots[i+1:])
			s.slots[len(s.slots)-1] = nil
			s.slots = s.slots[:len(s.slots)-1]
			return
		}
	}
}

// Clear removes every slot.
func (s *Signal) Clear() {
	for _, sl := range s.slots {
		sl.removed = true
	}
	s.slots = nil
}

// Len returns the number of registered slots.
func (s *Signal) Len() int {
	return len(s.slots)
}

// Call runs the registered handlers in registration order. On a repeatable
// signal, handlers added during the call wait for the next one. Calling a
// fired once-signal is a no-op.
func (s *Signal) Call() {
	if s.once && s.fired {
		return
	}
	s.fired = true
	snapshot := append([]*Slot(nil), s.slots...)
	for _, sl := range snapshot {
		if sl.removed {
			continue
		}
		if sl.once || s.once {
			s.Off(sl)
		}
		sl.fn()
	}
	if s.once {
		s.Clear()
	}
}

// Until clears this signal's handlers the first time other fires.
func (s *Signal) Until(other *Signal) *Slot {
	return other.Once(s.Clear)
}
