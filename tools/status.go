package tools

import (
	"context"
	"fmt"

	fluid "github.com/abhishek0010/fluid.sh"
)

// ContextStatus reports the conversation's context window usage.
type ContextStatus struct {
	conv fluid.Conversation
}

var _ fluid.Tool = (*ContextStatus)(nil)

// NewContextStatus creates the status tool bound to a conversation.
// Panics if conv is nil.
func NewContextStatus(conv fluid.Conversation) *ContextStatus {
	if conv == nil {
		panic("tools: conversation must not be nil")
	}
	return &ContextStatus{conv: conv}
}

// Name implements fluid.Tool.
func (t *ContextStatus) Name() string {
	return "context_status"
}

// Description implements fluid.Tool.
func (t *ContextStatus) Description() string {
	return "Check the current context window usage. " +
		"Reports how many tokens are used, the limit, and whether compaction is recommended."
}

// ParameterSchema implements fluid.Tool. The tool takes no parameters.
func (t *ContextStatus) ParameterSchema() map[string]any {
	return map[string]any{
		"type":       "object",
		"properties": map[string]any{},
	}
}

// Call implements fluid.Tool. The status read is a point-in-time
// snapshot, never an error.
func (t *ContextStatus) Call(_ context.Context, _ map[string]any) (map[string]any, error) {
	usage := t.conv.TokenUsage()

	return map[string]any{
		"success":              true,
		"current_tokens":       usage.CurrentTokens,
		"context_limit":        usage.MaxTokens,
		"usage_percent":        fmt.Sprintf("%.1f%%", usage.Ratio*100),
		"messages_count":       t.conv.TranscriptLen(),
		"should_compact":       t.conv.ShouldCompact(),
		"auto_compact_enabled": t.conv.AutoCompact(),
		"compact_threshold":    fmt.Sprintf("%.0f%%", t.conv.CompactThreshold()*100),
		"compaction_count":     t.conv.CompactionCount(),
	}, nil
}
