// Package tools provides the built-in conversation-management tools:
// manual compaction and a context window status report.
//
// Both tools operate on a [fluid.Conversation], injected at construction.
// They never fail at the tool-pipeline level: problems are reported inside
// the result payload (success=false plus an error field) so the model can
// read and react to them.
package tools

import (
	"context"
	"fmt"

	fluid "github.com/abhishek0010/fluid.sh"
)

// summaryPreviewLen caps the summary excerpt included in the compact
// tool's result, in characters.
const summaryPreviewLen = 200

// Compact is a tool the model can call to shrink its own context.
type Compact struct {
	conv fluid.Conversation
}

var _ fluid.Tool = (*Compact)(nil)

// NewCompact creates the compact tool bound to a conversation. Panics if
// conv is nil.
func NewCompact(conv fluid.Conversation) *Compact {
	if conv == nil {
		panic("tools: conversation must not be nil")
	}
	return &Compact{conv: conv}
}

// Name implements fluid.Tool.
func (t *Compact) Name() string {
	return "compact"
}

// Description implements fluid.Tool.
func (t *Compact) Description() string {
	return "Compact the conversation history by summarizing it. " +
		"Use this when the conversation is getting long or you're running low on context. " +
		"The summary preserves important information about what was accomplished, " +
		"current work, files involved, and next steps."
}

// ParameterSchema implements fluid.Tool. The tool takes no parameters.
func (t *Compact) ParameterSchema() map[string]any {
	return map[string]any{
		"type":       "object",
		"properties": map[string]any{},
	}
}

// Call implements fluid.Tool. It reports before/after token statistics
// and a preview of the summary. Compaction failure is reported in the
// payload with a nil error, so the model sees the failure and the
// conversation continues.
func (t *Compact) Call(ctx context.Context, _ map[string]any) (map[string]any, error) {
	before := t.conv.TokenUsage()

	summary, err := t.conv.Compact(ctx)
	if err != nil {
		return map[string]any{
			"success": false,
			"error":   fmt.Sprintf("Failed to compact conversation: %v", err),
		}, nil
	}

	after := t.conv.TokenUsage()

	// Truncate on runes, not bytes, so a multi-byte character at the
	// boundary is never split.
	preview := summary
	if runes := []rune(summary); len(runes) > summaryPreviewLen {
		preview = string(runes[:summaryPreviewLen]) + "..."
	}

	return map[string]any{
		"success":         true,
		"message":         "Conversation compacted successfully",
		"tokens_before":   before.CurrentTokens,
		"tokens_after":    after.CurrentTokens,
		"tokens_saved":    before.CurrentTokens - after.CurrentTokens,
		"usage_before":    fmt.Sprintf("%.1f%%", before.Ratio*100),
		"usage_after":     fmt.Sprintf("%.1f%%", after.Ratio*100),
		"context_limit":   before.MaxTokens,
		"summary_preview": preview,
	}, nil
}
