package state

// Clock is a logical clock for one scene. It ticks on every applied change,
// forward or undone, so a larger revision is always the later scene.
type Clock struct {
	now uint64
}

func (c *Clock) Tick() uint64 {
	c.now++
	return c.now
}

func (c *Clock) Now() uint64 { return c.now }
