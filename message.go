package fluid

import "github.com/tmc/langchaingo/llms"

// Message is a single transcript entry: a role and its textual content.
// Roles reuse LangChainGo's [llms.ChatMessageType] vocabulary so messages
// convert losslessly to model calls.
type Message struct {
	Role    llms.ChatMessageType
	Content string
}

// SystemMessage creates a system-role message.
func SystemMessage(content string) Message {
	return Message{Role: llms.ChatMessageTypeSystem, Content: content}
}

// UserMessage creates a human-role message.
func UserMessage(content string) Message {
	return Message{Role: llms.ChatMessageTypeHuman, Content: content}
}

// AssistantMessage creates an AI-role message.
func AssistantMessage(content string) Message {
	return Message{Role: llms.ChatMessageTypeAI, Content: content}
}

// ToolMessage creates a tool-role message.
func ToolMessage(content string) Message {
	return Message{Role: llms.ChatMessageTypeTool, Content: content}
}

// Transcript is the ordered conversation history consumed by the model.
//
// It is append-only, with one exception: compaction replaces the entire
// contents with a seed transcript via [Transcript.Replace]. The transcript
// has exactly one owner/writer (the agent loop, with the compaction engine
// acting on its behalf), so it carries no lock. Middleware never receive a
// Transcript; they propose messages and the owner appends them.
type Transcript struct {
	messages []Message
}

// NewTranscript creates a Transcript seeded with the given messages.
func NewTranscript(seed ...Message) *Transcript {
	t := &Transcript{}
	t.Append(seed...)
	return t
}

// Append adds messages to the end of the transcript, preserving order.
func (t *Transcript) Append(msgs ...Message) {
	t.messages = append(t.messages, msgs...)
}

// Replace swaps the entire transcript contents. Only compaction and
// conversation resets use this.
func (t *Transcript) Replace(msgs []Message) {
	t.messages = make([]Message, len(msgs))
	copy(t.messages, msgs)
}

// Messages returns a copy of the transcript contents. Callers may hold the
// returned slice across a compaction without observing the replacement.
func (t *Transcript) Messages() []Message {
	out := make([]Message, len(t.messages))
	copy(out, t.messages)
	return out
}

// Len returns the number of messages in the transcript.
func (t *Transcript) Len() int {
	return len(t.messages)
}
