// Package notice collects user-visible messages produced while serving a
// request. External call failures are reported here instead of being
// returned, so a failed lookup degrades to an empty result plus a message.
package notice

import (
	"context"
	"fmt"
	"sync"
)

// Level of a notice
type Level string

// Notice levels
const (
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Notice is a single message shown to the user
type Notice struct {
	Level   Level  `json:"level"`
	Message string `json:"message"`
}

// Collector accumulates notices for one request
type Collector struct {
	mu      sync.Mutex
	notices []Notice
}

// Add appends a notice
func (c *Collector) Add(level Level, message string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.notices = append(c.notices, Notice{Level: level, Message: message})
}

// All returns a copy of the collected notices
func (c *Collector) All() []Notice {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Notice, len(c.notices))
	copy(out, c.notices)
	return out
}

type ctxKey struct{}

// WithCollector attaches a collector to ctx
func WithCollector(ctx context.Context, c *Collector) context.Context {
	return context.WithValue(ctx, ctxKey{}, c)
}

// FromContext returns the collector attached to ctx, or nil
func FromContext(ctx context.Context) *Collector {
	c, _ := ctx.Value(ctxKey{}).(*Collector)
	return c
}

// Warn records a warning on ctx's collector; a no-op without one.
func Warn(ctx context.Context, format string, args ...interface{}) {
	if c := FromContext(ctx); c != nil {
		c.Add(LevelWarning, fmt.Sprintf(format, args...))
	}
}

// Error records an error on ctx's collector; a no-op without one.
func Error(ctx context.Context, format string, args ...interface{}) {
	if c := FromContext(ctx); c != nil {
		c.Add(LevelError, fmt.Sprintf(format, args...))
	}
}
