package fluid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tmc/langchaingo/llms"
)

func TestMessageConstructors(t *testing.T) {
	assert.Equal(t,
		Message{Role: llms.ChatMessageTypeSystem, Content: "s"},
		SystemMessage("s"))
	assert.Equal(t,
		Message{Role: llms.ChatMessageTypeHuman, Content: "u"},
		UserMessage("u"))
	assert.Equal(t,
		Message{Role: llms.ChatMessageTypeAI, Content: "a"},
		AssistantMessage("a"))
	assert.Equal(t,
		Message{Role: llms.ChatMessageTypeTool, Content: "t"},
		ToolMessage("t"))
}

func TestTranscriptAppendPreservesOrder(t *testing.T) {
	tr := NewTranscript(SystemMessage("prompt"))
	tr.Append(UserMessage("first"))
	tr.Append(AssistantMessage("second"), UserMessage("third"))

	msgs := tr.Messages()
	assert.Equal(t, 4, tr.Len())
	assert.Equal(t, "prompt", msgs[0].Content)
	assert.Equal(t, "first", msgs[1].Content)
	assert.Equal(t, "second", msgs[2].Content)
	assert.Equal(t, "third", msgs[3].Content)
}

func TestTranscriptReplace(t *testing.T) {
	tr := NewTranscript(UserMessage("old one"), AssistantMessage("old two"))

	tr.Replace([]Message{SystemMessage("summary")})

	assert.Equal(t, 1, tr.Len())
	assert.Equal(t, "summary", tr.Messages()[0].Content)
}

func TestTranscriptMessagesIsACopy(t *testing.T) {
	tr := NewTranscript(UserMessage("hello"))

	snapshot := tr.Messages()
	tr.Replace([]Message{SystemMessage("summary")})

	// The caller's snapshot must not observe the replacement.
	assert.Equal(t, "hello", snapshot[0].Content)

	// Mutating the snapshot must not reach the transcript.
	snapshot[0].Content = "mutated"
	assert.Equal(t, "summary", tr.Messages()[0].Content)
}
