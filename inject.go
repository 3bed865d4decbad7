package repeater

// Injected samples drive pointer 0 in screen coordinates and go through the
// same camera conversion and state machine as real input. One sample is
// consumed per engine step, and real input is skipped on steps that consume
// one.

// InjectPress queues a left-button press at the given screen coordinates.
func (p *InputPlugin) InjectPress(x, y float64) {
	p.injected = append(p.injected, PointerSample{ScreenX: x, ScreenY: y, Pressed: true, Button: MouseButtonLeft})
}

// InjectMove queues a pointer move with the button held down. Use it
// between InjectPress and InjectRelease to simulate a drag.
func (p *InputPlugin) InjectMove(x, y float64) {
	p.injected = append(p.injected, PointerSample{ScreenX: x, ScreenY: y, Pressed: true, Button: MouseButtonLeft})
}

// InjectHover queues a pointer move with no button held.
func (p *InputPlugin) InjectHover(x, y float64) {
	p.injected = append(p.injected, PointerSample{ScreenX: x, ScreenY: y})
}

// InjectRelease queues a release at the given screen coordinates.
func (p *InputPlugin) InjectRelease(x, y float64) {
	p.injected = append(p.injected, PointerSample{ScreenX: x, ScreenY: y, Button: MouseButtonLeft})
}

// InjectClick queues a press followed by a release at the same point.
// Consumes two steps.
func (p *InputPlugin) InjectClick(x, y float64) {
	p.InjectPress(x, y)
	p.InjectRelease(x, y)
}

// InjectDrag queues a press at (fromX, fromY), steps-2 linearly
// interpolated moves and a release at (toX, toY). The sequence consumes
// steps steps; the minimum is 2.
func (p *InputPlugin) InjectDrag(fromX, fromY, toX, toY float64, steps int) {
	if steps < 2 {
		steps = 2
	}
	p.InjectPress(fromX, fromY)
	moves := steps - 2
	for i := 1; i <= moves; i++ {
		t := float64(i) / float64(moves+1)
		p.InjectMove(fromX+(toX-fromX)*t, fromY+(toY-fromY)*t)
	}
	p.InjectRelease(toX, toY)
}

// PendingInjected returns the number of queued samples.
func (p *InputPlugin) PendingInjected() int {
	return len(p.injected)
}

// processInjected consumes one queued sample. It reports whether one was
// consumed.
func (p *InputPlugin) processInjected() bool {
	if len(p.injected) == 0 {
		return false
	}
	s := p.injected[0]
	copy(p.injected, p.injected[1:])
	p.injected = p.injected[:len(p.injected)-1]
	p.processSample(s)
	return true
}
