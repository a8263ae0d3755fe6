package server

import (
	"sync"
	"time"

	"github.com/mj1618/arrange/internal/model"
	"github.com/mj1618/arrange/internal/platform"
)

// WindowCache is a platform.WindowSource that remembers the full window list
// for a TTL, so read-only tool calls in quick succession enumerate windows
// once. Moving a window invalidates it.
type WindowCache struct {
	src platform.WindowSource
	ttl time.Duration
	now func() time.Time

	mu      sync.Mutex
	windows []model.Window
	taken   time.Time
	valid   bool
}

// NewWindowCache wraps src. A ttl of 0 disables caching.
func NewWindowCache(src platform.WindowSource, ttl time.Duration) *WindowCache {
	return &WindowCache{src: src, ttl: ttl, now: time.Now}
}

// ListWindows returns the cached list if within TTL, otherwise reads fresh.
func (c *WindowCache) ListWindows(opts platform.ListOptions) ([]model.Window, error) {
	if c.ttl == 0 {
		return c.src.ListWindows(opts)
	}

	c.mu.Lock()
	if c.valid && c.now().Sub(c.taken) < c.ttl {
		windows := c.windows
		c.mu.Unlock()
		return opts.Filter(append([]model.Window(nil), windows...)), nil
	}
	c.mu.Unlock()

	windows, err := c.src.ListWindows(platform.ListOptions{})
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.windows = windows
	c.taken = c.now()
	c.valid = true
	c.mu.Unlock()

	return opts.Filter(append([]model.Window(nil), windows...)), nil
}

func (c *WindowCache) Frame(windowID int) ([4]int, error) {
	return c.src.Frame(windowID)
}

// SetFrame moves the window and drops the cached list.
func (c *WindowCache) SetFrame(windowID int, bounds [4]int) error {
	c.Invalidate()
	return c.src.SetFrame(windowID, bounds)
}

// Invalidate clears the cached list.
func (c *WindowCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.valid = false
	c.windows = nil
}
