package panel

import "sync"

// Context is shared by the panels of one editor window. While listeners
// are disabled, field edits do not reach the parameter store; Load uses
// this so that filling widgets from parameters does not echo back.
type Context struct {
	mu       sync.Mutex
	disabled bool
}

// NewContext returns a context with listeners enabled.
func NewContext() *Context {
	return &Context{}
}

// ListenersEnabled reports whether field edits are written to parameters.
func (c *Context) ListenersEnabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.disabled
}

// SetListenersEnabled turns listeners on or off.
func (c *Context) SetListenersEnabled(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.disabled = !enabled
}

// Suppress runs fn with listeners disabled, then restores the previous state.
func (c *Context) Suppress(fn func()) {
	c.mu.Lock()
	was := c.disabled
	c.disabled = true
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.disabled = was
		c.mu.Unlock()
	}()
	fn()
}
