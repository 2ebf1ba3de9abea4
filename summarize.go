package fluid

import (
	"context"
	"errors"
)

// Sentinel errors for compaction.
var (
	// ErrEmptySummary indicates the summarizer returned empty or
	// whitespace-only output. Compaction aborts and the transcript is
	// left untouched.
	ErrEmptySummary = errors.New("fluid: summarizer returned empty summary")

	// ErrEmptyTranscript indicates there is no conversation history to
	// compact.
	ErrEmptyTranscript = errors.New("fluid: no conversation history to compact")
)

// Summarizer is the external collaborator that condenses a transcript into
// a natural-language summary. The summary must preserve what has been
// accomplished so far, the current task in progress, files or resources
// touched, and the next steps, so a fresh transcript seeded with it allows
// the conversation to continue seamlessly.
//
// The compaction package provides ModelSummarizer, which drives any
// LangChainGo model with a configurable prompt.
type Summarizer interface {
	// Summarize produces a summary of the given messages. An error or
	// unusable output aborts the surrounding compaction as a whole.
	Summarize(ctx context.Context, messages []Message) (string, error)
}
