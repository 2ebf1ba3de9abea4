package compaction

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	fluid "github.com/abhishek0010/fluid.sh"
)

// SummaryPrefix marks the replacement message so the model knows it is
// reading carried-over context rather than a live system prompt.
const SummaryPrefix = "[Context from previous conversation]\n"

// Engine performs summarize-and-replace compaction on a transcript.
//
// Compaction is all-or-nothing: the transcript is only modified after the
// summarizer has produced a usable summary. Any failure (summarizer error,
// empty summary, empty transcript) leaves the transcript untouched.
//
// Engine is not safe for concurrent use; it is owned by the agent loop.
type Engine struct {
	transcript *fluid.Transcript
	budget     *fluid.TokenBudget
	summarizer fluid.Summarizer
	counter    fluid.TokenCounter
	logger     *zap.Logger
	count      int
}

// NewEngine creates an Engine. All four collaborators are required;
// NewEngine panics if any is nil.
func NewEngine(
	transcript *fluid.Transcript,
	budget *fluid.TokenBudget,
	summarizer fluid.Summarizer,
	counter fluid.TokenCounter,
) *Engine {
	if transcript == nil {
		panic("compaction: transcript must not be nil")
	}
	if budget == nil {
		panic("compaction: budget must not be nil")
	}
	if summarizer == nil {
		panic("compaction: summarizer must not be nil")
	}
	if counter == nil {
		panic("compaction: counter must not be nil")
	}
	return &Engine{
		transcript: transcript,
		budget:     budget,
		summarizer: summarizer,
		counter:    counter,
		logger:     zap.NewNop(),
	}
}

// WithLogger sets the logger. Returns the engine for chaining.
func (e *Engine) WithLogger(logger *zap.Logger) *Engine {
	if logger != nil {
		e.logger = logger
	}
	return e
}

// Compact summarizes the current transcript and replaces it with a single
// system message carrying the summary, then refreshes the token budget
// from the new transcript. It returns the summary text.
//
// Errors: fluid.ErrEmptyTranscript when there is nothing to compact,
// fluid.ErrEmptySummary when the summarizer returns blank output, or a
// wrapped summarizer error. In every error case the transcript and the
// compaction count are unchanged.
func (e *Engine) Compact(ctx context.Context) (string, error) {
	snapshot := e.transcript.Messages()
	if len(snapshot) == 0 {
		return "", fluid.ErrEmptyTranscript
	}

	tokensBefore := e.budget.Usage().CurrentTokens

	summary, err := e.summarizer.Summarize(ctx, snapshot)
	if err != nil {
		return "", fmt.Errorf("compaction: summarization failed: %w", err)
	}
	summary = strings.TrimSpace(summary)
	if summary == "" {
		return "", fluid.ErrEmptySummary
	}

	e.transcript.Replace([]fluid.Message{
		fluid.SystemMessage(SummaryPrefix + summary),
	})
	e.count++
	e.budget.Observe(e.counter.Count(e.transcript.Messages()))

	e.logger.Info("transcript compacted",
		zap.Int("messages_before", len(snapshot)),
		zap.Int("tokens_before", tokensBefore),
		zap.Int("tokens_after", e.budget.Usage().CurrentTokens),
		zap.Int("compaction_count", e.count),
	)

	return summary, nil
}

// SetSummarizer swaps the summarizer used for subsequent compactions,
// leaving the compaction count intact. Panics if summarizer is nil.
func (e *Engine) SetSummarizer(summarizer fluid.Summarizer) {
	if summarizer == nil {
		panic("compaction: summarizer must not be nil")
	}
	e.summarizer = summarizer
}

// Count returns how many compactions have completed successfully in the
// current conversation.
func (e *Engine) Count() int {
	return e.count
}

// Reset zeroes the compaction count. Call it when the owning conversation
// starts over; the transcript and budget are the owner's to reset.
func (e *Engine) Reset() {
	e.count = 0
}
