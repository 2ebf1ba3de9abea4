package middleware

import (
	"go.uber.org/zap"

	fluid "github.com/abhishek0010/fluid.sh"
)

// Chain manages an ordered sequence of middleware and dispatches tool
// executions to them. Insertion order is dispatch order.
//
// Chain is not safe for concurrent use. The agent loop is single-threaded
// (dispatch happens strictly between tool executions), so no locking is
// needed; register middleware before the loop starts or between turns.
type Chain struct {
	middlewares []fluid.Middleware
	logger      *zap.Logger
}

// NewChain creates a Chain with the given initial middleware, in order.
func NewChain(middlewares ...fluid.Middleware) *Chain {
	return &Chain{
		middlewares: append([]fluid.Middleware(nil), middlewares...),
		logger:      zap.NewNop(),
	}
}

// WithLogger sets the logger used to report middleware faults.
// Returns the chain for chaining.
func (c *Chain) WithLogger(logger *zap.Logger) *Chain {
	if logger != nil {
		c.logger = logger
	}
	return c
}

// Add appends middleware to the end of the chain. No de-duplication:
// registering the same name twice means lookups resolve to the first.
func (c *Chain) Add(m fluid.Middleware) *Chain {
	c.middlewares = append(c.middlewares, m)
	return c
}

// Remove removes the first middleware whose name matches. It reports
// whether one was found.
func (c *Chain) Remove(name string) bool {
	for i, m := range c.middlewares {
		if m.Name() == name {
			c.middlewares = append(c.middlewares[:i], c.middlewares[i+1:]...)
			return true
		}
	}
	return false
}

// Get returns the first middleware whose name matches, or nil.
func (c *Chain) Get(name string) fluid.Middleware {
	for _, m := range c.middlewares {
		if m.Name() == name {
			return m
		}
	}
	return nil
}

// ProcessToolExecution dispatches one completed tool execution through the
// chain and returns every middleware's proposed messages, concatenated in
// dispatch order. The caller appends them verbatim to the transcript.
//
// Disabled middleware are skipped entirely (their internal state stays
// untouched). All enabled middleware run, even when an earlier one already
// produced messages. A panicking middleware is logged and contributes
// nothing for this invocation; the rest of the chain still runs.
func (c *Chain) ProcessToolExecution(exec fluid.ToolExecution) []fluid.Message {
	var messages []fluid.Message

	for _, m := range c.middlewares {
		if !m.Enabled() {
			continue
		}
		result := c.dispatch(m, exec)
		messages = append(messages, result.MessagesToAdd...)
	}

	return messages
}

// dispatch invokes a single middleware, converting a panic into an empty
// result so one misbehaving middleware cannot abort the chain.
func (c *Chain) dispatch(m fluid.Middleware, exec fluid.ToolExecution) (result fluid.MiddlewareResult) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("middleware panicked, skipping for this tool execution",
				zap.String("middleware", m.Name()),
				zap.String("tool", exec.ToolName),
				zap.Any("panic", r),
			)
			result = fluid.MiddlewareResult{}
		}
	}()
	return m.AfterToolExecution(exec)
}

// Reset invokes Reset on every member that implements fluid.Resettable.
// Members without reset support are skipped silently.
func (c *Chain) Reset() {
	for _, m := range c.middlewares {
		if r, ok := m.(fluid.Resettable); ok {
			r.Reset()
		}
	}
}

// Len returns the number of registered middleware.
func (c *Chain) Len() int {
	return len(c.middlewares)
}

// All returns a copy of the current membership, in dispatch order.
func (c *Chain) All() []fluid.Middleware {
	out := make([]fluid.Middleware, len(c.middlewares))
	copy(out, c.middlewares)
	return out
}
