package tools

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	fluid "github.com/abhishek0010/fluid.sh"
)

// fakeConversation scripts the Conversation surface for tool tests.
type fakeConversation struct {
	usageBefore     fluid.TokenUsage
	usageAfter      fluid.TokenUsage
	compacted       bool
	summary         string
	compactErr      error
	shouldCompact   bool
	autoCompact     bool
	threshold       float64
	compactionCount int
	transcriptLen   int
}

func (f *fakeConversation) TokenUsage() fluid.TokenUsage {
	if f.compacted {
		return f.usageAfter
	}
	return f.usageBefore
}

func (f *fakeConversation) ShouldCompact() bool       { return f.shouldCompact }
func (f *fakeConversation) AutoCompact() bool         { return f.autoCompact }
func (f *fakeConversation) CompactThreshold() float64 { return f.threshold }
func (f *fakeConversation) CompactionCount() int      { return f.compactionCount }
func (f *fakeConversation) TranscriptLen() int        { return f.transcriptLen }

func (f *fakeConversation) Compact(_ context.Context) (string, error) {
	if f.compactErr != nil {
		return "", f.compactErr
	}
	f.compacted = true
	f.compactionCount++
	return f.summary, nil
}

func TestCompactToolSuccessPayload(t *testing.T) {
	conv := &fakeConversation{
		usageBefore: fluid.TokenUsage{CurrentTokens: 9000, MaxTokens: 10000, Ratio: 0.9},
		usageAfter:  fluid.TokenUsage{CurrentTokens: 500, MaxTokens: 10000, Ratio: 0.05},
		summary:     "installed nginx and configured the firewall",
	}

	result, err := NewCompact(conv).Call(context.Background(), nil)

	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"success":         true,
		"message":         "Conversation compacted successfully",
		"tokens_before":   9000,
		"tokens_after":    500,
		"tokens_saved":    8500,
		"usage_before":    "90.0%",
		"usage_after":     "5.0%",
		"context_limit":   10000,
		"summary_preview": "installed nginx and configured the firewall",
	}, result)
}

func TestCompactToolTruncatesLongSummaryPreview(t *testing.T) {
	tests := []struct {
		name     string
		summary  string
		expected string
	}{
		{
			name:     "ascii",
			summary:  strings.Repeat("x", 450),
			expected: strings.Repeat("x", 200) + "...",
		},
		{
			name: "multi-byte rune straddling the boundary",
			// 199 single-byte chars, then two-byte runes: character
			// 200 is the first é and must survive intact.
			summary:  strings.Repeat("a", 199) + strings.Repeat("é", 10),
			expected: strings.Repeat("a", 199) + "é" + "...",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conv := &fakeConversation{
				usageBefore: fluid.TokenUsage{CurrentTokens: 100, MaxTokens: 1000, Ratio: 0.1},
				usageAfter:  fluid.TokenUsage{CurrentTokens: 50, MaxTokens: 1000, Ratio: 0.05},
				summary:     tt.summary,
			}

			result, err := NewCompact(conv).Call(context.Background(), nil)

			require.NoError(t, err)
			preview := result["summary_preview"].(string)
			assert.Equal(t, tt.expected, preview)
			assert.True(t, utf8.ValidString(preview))
		})
	}
}

func TestCompactToolShortSummaryNotTruncated(t *testing.T) {
	exactly := strings.Repeat("y", 200)
	conv := &fakeConversation{summary: exactly}

	result, err := NewCompact(conv).Call(context.Background(), nil)

	require.NoError(t, err)
	assert.Equal(t, exactly, result["summary_preview"])
}

func TestCompactToolFailureIsInPayloadNotError(t *testing.T) {
	conv := &fakeConversation{compactErr: errors.New("summarizer unavailable")}

	result, err := NewCompact(conv).Call(context.Background(), nil)

	// The pipeline error must stay nil; the model reads the failure from
	// the payload and the conversation continues.
	require.NoError(t, err)
	assert.Equal(t, false, result["success"])
	assert.Equal(t, "Failed to compact conversation: summarizer unavailable", result["error"])
	assert.NotContains(t, result, "tokens_before")
}

func TestContextStatusPayload(t *testing.T) {
	conv := &fakeConversation{
		usageBefore:     fluid.TokenUsage{CurrentTokens: 32000, MaxTokens: 64000, Ratio: 0.5},
		shouldCompact:   false,
		autoCompact:     true,
		threshold:       0.9,
		compactionCount: 2,
		transcriptLen:   41,
	}

	result, err := NewContextStatus(conv).Call(context.Background(), nil)

	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"success":              true,
		"current_tokens":       32000,
		"context_limit":        64000,
		"usage_percent":        "50.0%",
		"messages_count":       41,
		"should_compact":       false,
		"auto_compact_enabled": true,
		"compact_threshold":    "90%",
		"compaction_count":     2,
	}, result)
}

func TestToolIdentities(t *testing.T) {
	conv := &fakeConversation{}

	compact := NewCompact(conv)
	assert.Equal(t, "compact", compact.Name())
	assert.NotEmpty(t, compact.Description())
	assert.Equal(t, "object", compact.ParameterSchema()["type"])

	status := NewContextStatus(conv)
	assert.Equal(t, "context_status", status.Name())
	assert.NotEmpty(t, status.Description())
	assert.Equal(t, "object", status.ParameterSchema()["type"])
}

func TestToolsNilConversationPanics(t *testing.T) {
	assert.Panics(t, func() { NewCompact(nil) })
	assert.Panics(t, func() { NewContextStatus(nil) })
}
