package middleware

import (
	"go.uber.org/zap"

	fluid "github.com/abhishek0010/fluid.sh"
)

// ToolLoggingName is the registration name of ToolLogging.
const ToolLoggingName = "tool_logging"

// ToolLogging records every tool execution through a structured logger.
// It never contributes messages to the transcript; it exists purely for
// observability and as a demonstration of a passive middleware.
type ToolLogging struct {
	enabled bool
	logger  *zap.Logger
}

var _ fluid.Middleware = (*ToolLogging)(nil)

// NewToolLogging creates an enabled ToolLogging middleware writing to the
// given logger. A nil logger is replaced with a no-op logger.
func NewToolLogging(logger *zap.Logger) *ToolLogging {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ToolLogging{enabled: true, logger: logger}
}

// WithEnabled sets whether the middleware participates in dispatch.
func (t *ToolLogging) WithEnabled(enabled bool) *ToolLogging {
	t.enabled = enabled
	return t
}

// Name implements fluid.Middleware.
func (t *ToolLogging) Name() string {
	return ToolLoggingName
}

// Enabled implements fluid.Middleware.
func (t *ToolLogging) Enabled() bool {
	return t.enabled
}

// AfterToolExecution implements fluid.Middleware.
func (t *ToolLogging) AfterToolExecution(exec fluid.ToolExecution) fluid.MiddlewareResult {
	t.logger.Info("tool executed",
		zap.String("tool", exec.ToolName),
		zap.String("tool_call_id", exec.ToolCallID),
		zap.Bool("error", exec.Error),
	)
	return fluid.MiddlewareResult{}
}

// NewDefaultChain builds the standard middleware chain: tool logging
// followed by the playbook nudge. The returned chain logs middleware
// faults to the same logger.
func NewDefaultChain(logger *zap.Logger) *Chain {
	return NewChain(
		NewToolLogging(logger),
		NewPlaybookNudge(),
	).WithLogger(logger)
}
