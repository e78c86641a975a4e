package core

import "time"

// FrameClock produces the per-frame timestamps handed to Updatable members.
// A fixed clock advances by exactly one step per Tick, which keeps headless
// runs reproducible; a wall clock reports elapsed real time.
type FrameClock struct {
	step  time.Duration
	fixed bool

	start   time.Time
	elapsed time.Duration
	frames  int
	now     func() time.Time
}

// NewFrameClock constructs a wall clock nominally running at tps frames per second.
func NewFrameClock(tps int) *FrameClock {
	c := &FrameClock{now: time.Now}
	c.SetTPS(tps)
	return c
}

// NewFixedClock constructs a clock that advances exactly 1/tps per Tick.
func NewFixedClock(tps int) *FrameClock {
	c := NewFrameClock(tps)
	c.fixed = true
	return c
}

// SetTPS changes the tick rate. It is safe to call from the main loop.
func (c *FrameClock) SetTPS(tps int) {
	if tps <= 0 {
		tps = 60
	}
	c.step = time.Second / time.Duration(tps)
}

// Step returns the nominal frame duration.
func (c *FrameClock) Step() time.Duration { return c.step }

// Tick advances the clock by one frame and returns the timestamp in milliseconds.
func (c *FrameClock) Tick() float64 {
	c.frames++
	if c.fixed {
		c.elapsed += c.step
	} else {
		t := c.now()
		if c.start.IsZero() {
			c.start = t
		}
		c.elapsed = t.Sub(c.start)
	}
	return float64(c.elapsed) / float64(time.Millisecond)
}

// Frames returns how many times Tick has been called.
func (c *FrameClock) Frames() int { return c.frames }

// Reset rewinds the clock to zero.
func (c *FrameClock) Reset() {
	c.start = time.Time{}
	c.elapsed = 0
	c.frames = 0
}
