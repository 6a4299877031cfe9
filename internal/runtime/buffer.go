package runtime

import "strings"

// cappedBuffer accumulates captured output up to a byte limit. Writes past
// the limit are dropped and the buffer is marked truncated.
type cappedBuffer struct {
	b         strings.Builder
	limit     int
	truncated bool
}

func newCappedBuffer(limit int) *cappedBuffer {
	return &cappedBuffer{limit: limit}
}

func (c *cappedBuffer) WriteString(s string) {
	if c.truncated {
		return
	}
	remaining := c.limit - c.b.Len()
	if len(s) > remaining {
		c.b.WriteString(s[:remaining])
		c.truncated = true
		return
	}
	c.b.WriteString(s)
}

func (c *cappedBuffer) String() string { return c.b.String() }

func (c *cappedBuffer) Truncated() bool { return c.truncated }
