package compaction

import (
	"context"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"

	fluid "github.com/abhishek0010/fluid.sh"
)

// DefaultSummarizationPrompt asks the model for a summary that preserves
// what the next turn of the conversation actually needs.
const DefaultSummarizationPrompt = `Summarize this conversation, preserving:
1. What was accomplished
2. Current work in progress
3. Files/systems being modified
4. Next steps planned

Be concise but keep all essential context needed to continue the work.

Conversation:
%s

Summary:`

// ModelSummarizer produces transcript summaries using an llms.Model.
// It renders the conversation as role-labeled plain text and sends it in
// a single completion request.
type ModelSummarizer struct {
	model  llms.Model
	prompt string
}

var _ fluid.Summarizer = (*ModelSummarizer)(nil)

// NewModelSummarizer creates a ModelSummarizer using
// DefaultSummarizationPrompt. Panics if model is nil.
func NewModelSummarizer(model llms.Model) *ModelSummarizer {
	if model == nil {
		panic("compaction: model must not be nil")
	}
	return &ModelSummarizer{
		model:  model,
		prompt: DefaultSummarizationPrompt,
	}
}

// WithPrompt replaces the summarization prompt. The prompt must contain a
// single %s verb where the rendered conversation is substituted; panics
// otherwise.
func (s *ModelSummarizer) WithPrompt(prompt string) *ModelSummarizer {
	if strings.Count(prompt, "%s") != 1 {
		panic("compaction: prompt must contain exactly one %s placeholder")
	}
	s.prompt = prompt
	return s
}

// Summarize implements fluid.Summarizer.
func (s *ModelSummarizer) Summarize(ctx context.Context, messages []fluid.Message) (string, error) {
	prompt := fmt.Sprintf(s.prompt, renderConversation(messages))

	summary, err := llms.GenerateFromSinglePrompt(ctx, s.model, prompt)
	if err != nil {
		return "", err
	}
	return summary, nil
}

// renderConversation flattens messages into "role: content" lines. Long
// tool outputs are included as-is; the summarization model decides what
// survives.
func renderConversation(messages []fluid.Message) string {
	var b strings.Builder
	for i, msg := range messages {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(string(msg.Role))
		b.WriteString(": ")
		b.WriteString(msg.Content)
	}
	return b.String()
}
