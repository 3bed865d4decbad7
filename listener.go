package repeater

// Handler receives an event. Returning a non-nil PostListener makes the
// dispatcher call it right away with the listener's handle, which lets a
// handler unsubscribe itself inline:
//
//	n.Handle("hit", func(e repeater.Event) repeater.PostListener {
//		hits++
//		return func(l *repeater.Listener) {
//			if hits == 3 {
//				l.Off()
//			}
//		}
//	})
type Handler func(e Event) PostListener

// PostListener is the follow-up returned by a Handler.
type PostListener func(l *Listener)

// Emitter is anything listeners can be attached to by event name.
type Emitter interface {
	Handle(name string, h Handler) *Listener
	HandleOnce(name string, h Handler) *Listener
}

// Listener is the handle of a registered handler.
type Listener struct {
	node    *Node
	name    string
	once    bool
	h       Handler
	removed bool
	stops   []func()
}

// Name returns the event name the listener is registered under.
func (l *Listener) Name() string {
	return l.name
}

// Node returns the node the listener is registered on.
func (l *Listener) Node() *Node {
	return l.node
}

// Active reports whether the listener can still be invoked.
func (l *Listener) Active() bool {
	return !l.removed
}

// Off unregisters the listener. Safe to call more than once.
func (l *Listener) Off() {
	if !l.removed {
		l.node.events.remove(l)
	}
	stops := l.stops
	l.stops = nil
	for _, stop := range stops {
		stop()
	}
}

// Until unregisters the listener the first time sig fires.
func (l *Listener) Until(sig *Signal) *Listener {
	if l.removed {
		return l
	}
	slot := sig.Once(l.Off)
	if !l.removed {
		l.stops = append(l.stops, slot.Off)
	}
	return l
}

// UntilEvent unregisters the listener the first time em emits name.
func (l *Listener) UntilEvent(em Emitter, name string) *Listener {
	if l.removed {
		return l
	}
	stop := em.HandleOnce(name, func(Event) PostListener {
		l.Off()
		return nil
	})
	l.stops = append(l.stops, stop.Off)
	return l
}
