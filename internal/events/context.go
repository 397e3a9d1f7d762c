package events

import "sync"

// Context is shared scratch space for handlers within one operation. The
// dispatcher injects it; handlers read and write through it.
type Context struct {
	mu    sync.RWMutex
	cache map[string]any
}

func NewContext() *Context {
	return &Context{cache: map[string]any{}}
}

func (c *Context) Get(key string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.cache[key]
	return v, ok
}

func (c *Context) Set(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache[key] = value
}

func (c *Context) Has(key string) bool {
	_, ok := c.Get(key)
	return ok
}

func (c *Context) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.cache, key)
}

// GetOrCompute returns the cached value, computing and storing it on a miss.
func (c *Context) GetOrCompute(key string, compute func() any) any {
	if v, ok := c.Get(key); ok {
		return v
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if v, ok := c.cache[key]; ok {
		return v
	}
	v := compute()
	c.cache[key] = v
	return v
}

func (c *Context) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache = map[string]any{}
}
