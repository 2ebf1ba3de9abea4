package fluid

import "context"

// Tool represents a single action the agent can take.
//
// Responsibility design:
//   - Tool: accept parsed arguments, execute logic, return a raw result map
//   - Agent: prompt the LLM about available tools, parse tool calls,
//     validate arguments against the schema, call tools, format results
//
// Tools should focus on business logic only. Argument validation and result
// formatting are handled by the agent loop.
type Tool interface {
	// Name returns the tool's identifier used in tool calls.
	Name() string

	// Description returns a human-readable description for the LLM.
	Description() string

	// ParameterSchema returns the JSON Schema for the tool's parameters.
	// Returns nil if the tool takes no parameters.
	ParameterSchema() map[string]any

	// Call executes the tool. The returned map is the tool's output;
	// its shape is tool-specific. A non-nil error marks the execution
	// as failed for middleware decision rules.
	Call(ctx context.Context, args map[string]any) (map[string]any, error)
}

// ToolFunc is a convenience type for creating tools from functions.
type ToolFunc struct {
	name        string
	description string
	schema      map[string]any
	fn          func(ctx context.Context, args map[string]any) (map[string]any, error)
}

// NewToolFunc creates a Tool from a function.
func NewToolFunc(
	name, description string,
	schema map[string]any,
	fn func(ctx context.Context, args map[string]any) (map[string]any, error),
) *ToolFunc {
	return &ToolFunc{
		name:        name,
		description: description,
		schema:      schema,
		fn:          fn,
	}
}

// Name returns the tool's identifier.
func (t *ToolFunc) Name() string {
	return t.name
}

// Description returns a human-readable description for the LLM.
func (t *ToolFunc) Description() string {
	return t.description
}

// ParameterSchema returns the JSON Schema for the tool's parameters.
func (t *ToolFunc) ParameterSchema() map[string]any {
	return t.schema
}

// Call executes the tool function.
func (t *ToolFunc) Call(ctx context.Context, args map[string]any) (map[string]any, error) {
	return t.fn(ctx, args)
}

// Compile-time check.
var _ Tool = (*ToolFunc)(nil)
