package repeater

// eventRegistry maps event names to persistent and one-shot listeners.
// Slices keep registration order; removal is by pointer.
type eventRegistry struct {
	persistent map[string][]*Listener
	once       map[string][]*Listener
}

func (r *eventRegistry) add(l *Listener) {
	if l.once {
		if r.once == nil {
			r.once = make(map[string][]*Listener)
		}
		r.once[l.name] = append(r.once[l.name], l)
		return
	}
	if r.persistent == nil {
		r.persistent = make(map[string][]*Listener)
	}
	r.persistent[l.name] = append(r.persistent[l.name], l)
}

func (r *eventRegistry) remove(l *Listener) {
	l.removed = true
	set := r.persistent
	if l.once {
		set = r.once
	}
	list := set[l.name]
	for i, c := range list {
		if c == l {
			copy(list[i:], list[i+1:])
			list[len(list)-1] = nil
			list = list[:len(list)-1]
			break
		}
	}
	if len(list) == 0 {
		delete(set, l.name)
	} else {
		set[l.name] = list
	}
}

// count returns the number of live listeners for name.
func (r *eventRegistry) count(name string) int {
	return len(r.persistent[name]) + len(r.once[name])
}

// clear drops every listener. Handles stay valid; Off on them is a no-op.
func (r *eventRegistry) clear() {
	for _, list := range r.persistent {
		for _, l := range list {
			l.removed = true
		}
	}
	for _, list := range r.once {
		for _, l := range list {
			l.removed = true
		}
	}
	r.persistent = nil
	r.once = nil
}

// dispatch invokes persistent listeners, then one-shot listeners, for name.
// A panicking listener aborts the pass and propagates to the caller.
func (r *eventRegistry) dispatch(name string, e Event) {
	ne := e.nodeEvent()

	if list := r.persistent[name]; len(list) > 0 {
		snapshot := append([]*Listener(nil), list...)
		for _, l := range snapshot {
			if l.removed {
				continue
			}
			call(l, e)
			if ne.StoppedImmediatePropagation {
				break
			}
		}
	}

	// The one-shot set is detached before the pass so that one-shots
	// registered by these listeners wait for the next emit.
	list := r.once[name]
	if len(list) == 0 {
		return
	}
	delete(r.once, name)
	for i, l := range list {
		if l.removed {
			continue
		}
		if ne.StoppedImmediatePropagation {
			for _, rest := range list[i:] {
				rest.Off()
			}
			return
		}
		l.Off()
		call(l, e)
	}
}

func call(l *Listener, e Event) {
	if post := l.h(e); post != nil {
		post(l)
	}
}
