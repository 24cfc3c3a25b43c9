package funnel

// Controller owns the ordered step list and the current position. All
// forward/backward transitions go through it; the only legal moves are +-1.
type Controller struct {
	steps []Step
	idx   int
}

// NewController builds a controller positioned at the first step. An empty
// step list is a configuration error and fails fast.
func NewController(steps []Step) (*Controller, error) {
	if len(steps) == 0 {
		return nil, ErrConfiguration("step list must not be empty")
	}
	out := make([]Step, len(steps))
	copy(out, steps)
	return &Controller{steps: out}, nil
}

// Advance moves forward by exactly one step. It is a no-op at the last step;
// the terminal screen exposes no forward control.
func (c *Controller) Advance() bool {
	if c.idx < len(c.steps)-1 {
		c.idx++
		return true
	}
	return false
}

// Retreat moves backward by exactly one step. It is a no-op at index zero;
// the first step is never given a retreat affordance.
func (c *Controller) Retreat() bool {
	if c.idx > 0 {
		c.idx--
		return true
	}
	return false
}

// Current returns the mounted step.
func (c *Controller) Current() Step { return c.steps[c.idx] }

// Index returns the zero-based position of the mounted step.
func (c *Controller) Index() int { return c.idx }

// Count returns the number of steps in the flow.
func (c *Controller) Count() int { return len(c.steps) }

// Progress returns (index+1)/count. It is recomputed on every call so a
// progress indicator can never observe a stale value.
func (c *Controller) Progress() float64 {
	return float64(c.idx+1) / float64(len(c.steps))
}

// requireStep returns a stepMismatchError unless the mounted step is want.
func (c *Controller) requireStep(want StepID) error {
	if got := c.steps[c.idx].ID; got != want {
		return stepMismatchError{want: want, got: got}
	}
	return nil
}
