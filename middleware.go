package fluid

// ToolExecution is an immutable record of one completed tool call, built by
// the agent loop and handed to middleware for inspection. It is created once
// per completed call and discarded after dispatch; middleware must not
// retain or mutate it.
type ToolExecution struct {
	// ToolName is the identifier of the tool that was called.
	ToolName string

	// ToolArgs are the arguments as they were passed to the tool.
	ToolArgs map[string]any

	// Result is the tool's output. Its shape is tool-specific.
	Result map[string]any

	// Error is true if the tool call failed. Tool failure is input to
	// middleware decision rules, not an error of the pipeline itself.
	Error bool

	// ToolCallID is an opaque correlation identifier, unique within a
	// conversation.
	ToolCallID string
}

// MiddlewareResult is the outcome of one middleware invocation. An empty
// MessagesToAdd means "no effect".
type MiddlewareResult struct {
	// MessagesToAdd are transcript messages the middleware proposes,
	// in order. The role is typically system.
	MessagesToAdd []Message
}

// Middleware is a decoupled observer reacting to tool-execution outcomes.
// Each middleware should be focused on a single concern.
//
// AfterToolExecution must be pure apart from the middleware's own internal
// counters: it must not mutate the transcript, the tool result, or other
// middleware. Implementations that keep counters should also implement
// [Resettable] so a conversation reset clears them.
//
// The middleware package provides the standard Chain dispatcher and the
// built-in policies.
type Middleware interface {
	// Name is the middleware's key within a chain. Uniqueness is a usage
	// convention, not enforced; lookups resolve to the first match.
	Name() string

	// Enabled reports whether this middleware should be dispatched.
	// A disabled middleware is skipped entirely, leaving its internal
	// state untouched.
	Enabled() bool

	// AfterToolExecution is called once after each completed tool call.
	AfterToolExecution(exec ToolExecution) MiddlewareResult
}

// Resettable is the optional reset capability. The chain checks for it
// explicitly during a reset; middleware without it are skipped silently.
type Resettable interface {
	// Reset clears internal per-conversation state (counters), leaving
	// configuration untouched.
	Reset()
}
