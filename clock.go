package repeater

// Clock splits wall-clock time into fixed-rate and variable-rate ticks.
// Fixed ticks are produced from an accumulator so that their count over a
// run depends only on elapsed time, not on how the time was sliced.
type Clock struct {
	// FixedTimeStep is the fixed tick period in seconds.
	FixedTimeStep float64
	// MaxFixedSteps caps fixed ticks per Advance. Time beyond the cap is
	// dropped.
	MaxFixedSteps int

	time      float64
	delta     float64
	fixedTime float64
	acc       float64

	update      *Signal
	fixedUpdate *Signal
}

// NewClock returns a clock with the given fixed period and step cap.
func NewClock(fixedTimeStep float64, maxFixedSteps int) *Clock {
	return &Clock{
		FixedTimeStep: fixedTimeStep,
		MaxFixedSteps: maxFixedSteps,
		update:        NewSignal(),
		fixedUpdate:   NewSignal(),
	}
}

// Time returns the total time advanced, in seconds.
func (c *Clock) Time() float64 { return c.time }

// Delta returns the dt of the most recent Advance.
func (c *Clock) Delta() float64 { return c.delta }

// FixedTime returns the time of the most recent fixed tick.
func (c *Clock) FixedTime() float64 { return c.fixedTime }

// OnUpdate registers fn to run once per Advance, after fixed ticks.
func (c *Clock) OnUpdate(fn func()) *Slot {
	return c.update.On(fn)
}

// OnFixedUpdate registers fn to run once per fixed tick.
func (c *Clock) OnFixedUpdate(fn func()) *Slot {
	return c.fixedUpdate.On(fn)
}

// Advance moves the clock forward by dt seconds. It fires the fixed-update
// slots once per whole FixedTimeStep accumulated (at most MaxFixedSteps
// times), then the update slots once. It returns the number of fixed ticks.
// A negative dt is treated as zero.
func (c *Clock) Advance(dt float64) int {
	if dt < 0 {
		dt = 0
	}
	c.delta = dt
	c.time += dt
	c.acc += dt

	steps := 0
	if c.FixedTimeStep > 0 {
		for c.acc >= c.FixedTimeStep {
			if c.MaxFixedSteps > 0 && steps == c.MaxFixedSteps {
				c.acc = 0
				break
			}
			c.acc -= c.FixedTimeStep
			c.fixedTime += c.FixedTimeStep
			steps++
			c.fixedUpdate.Call()
		}
	}
	c.update.Call()
	return steps
}
