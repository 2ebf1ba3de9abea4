package fluid

import "context"

// Conversation is the read-and-compact surface an agent loop exposes to
// tooling that reports or manages context status.
//
// Tools that need it (the compact and context-status tools) receive a
// Conversation at construction: explicit dependency injection, never an
// ambient global agent reference. Everything except Compact is read-only.
type Conversation interface {
	// TokenUsage returns the current transcript token usage.
	TokenUsage() TokenUsage

	// ShouldCompact reports whether compaction is currently recommended.
	ShouldCompact() bool

	// AutoCompact reports whether automatic compaction is enabled.
	AutoCompact() bool

	// CompactThreshold returns the configured compaction threshold.
	CompactThreshold() float64

	// CompactionCount returns how many compactions have succeeded in
	// this conversation.
	CompactionCount() int

	// TranscriptLen returns the number of messages in the transcript.
	TranscriptLen() int

	// Compact summarizes the transcript and replaces it with the
	// summary, returning the summary text. Manual triggering is
	// first-class: callers may invoke it regardless of ShouldCompact.
	Compact(ctx context.Context) (string, error)
}
