package tokenizer

import (
	"fmt"
	"strings"
	"sync"

	"github.com/pkoukk/tiktoken-go"

	fluid "github.com/abhishek0010/fluid.sh"
)

// Per-message framing overhead in tokens: <|start|>role\n content <|end|>\n,
// plus a fixed cost for priming the assistant reply.
const (
	messageOverheadTokens      = 4
	conversationOverheadTokens = 3
)

// modelEncodings maps model name prefixes to their tiktoken encoding,
// ordered longest-prefix-first so versioned names like "gpt-4o-2024-08-06"
// resolve to the most specific family.
var modelEncodings = []struct {
	prefix   string
	encoding string
}{
	{"gpt-4o-mini", "o200k_base"},
	{"gpt-4-turbo", "cl100k_base"},
	{"gpt-3.5-turbo", "cl100k_base"},
	{"gpt-4o", "o200k_base"},
	{"gpt-4.1", "o200k_base"},
	{"gpt-4", "cl100k_base"},
}

const fallbackEncoding = "cl100k_base"

// Tiktoken counts tokens with the model's real BPE encoding. Counts are
// exact for OpenAI-family models and a close approximation for others.
//
// The encoding is initialized lazily on first use because tiktoken may
// download encoding data. If initialization fails, Count falls back to the
// heuristic estimate rather than failing: an approximate budget beats a
// broken loop.
type Tiktoken struct {
	model    string
	encoding string

	once     sync.Once
	enc      *tiktoken.Tiktoken
	initErr  error
	fallback *Heuristic
}

// NewTiktoken creates a Tiktoken counter for the given model. Unknown
// models match by prefix, then fall back to cl100k_base.
func NewTiktoken(model string) *Tiktoken {
	return &Tiktoken{
		model:    model,
		encoding: encodingForModel(model),
		fallback: NewHeuristic(),
	}
}

// WithFallback replaces the heuristic counter used when the encoding
// cannot be initialized. Returns the counter for chaining.
func (t *Tiktoken) WithFallback(fallback *Heuristic) *Tiktoken {
	if fallback != nil {
		t.fallback = fallback
	}
	return t
}

// encodingForModel resolves the tiktoken encoding for a model name.
func encodingForModel(model string) string {
	for _, e := range modelEncodings {
		if strings.HasPrefix(model, e.prefix) {
			return e.encoding
		}
	}
	return fallbackEncoding
}

func (t *Tiktoken) init() error {
	t.once.Do(func() {
		enc, err := tiktoken.GetEncoding(t.encoding)
		if err != nil {
			t.initErr = fmt.Errorf("init tiktoken encoding %s: %w", t.encoding, err)
			return
		}
		t.enc = enc
	})
	return t.initErr
}

// Count implements fluid.TokenCounter.
func (t *Tiktoken) Count(messages []fluid.Message) int {
	if err := t.init(); err != nil {
		return t.fallback.Count(messages)
	}

	total := conversationOverheadTokens
	for _, msg := range messages {
		total += messageOverheadTokens
		total += len(t.enc.Encode(string(msg.Role), nil, nil))
		total += len(t.enc.Encode(msg.Content, nil, nil))
	}
	return total
}

// Encoding returns the resolved tiktoken encoding name.
func (t *Tiktoken) Encoding() string {
	return t.encoding
}

// Compile-time check.
var _ fluid.TokenCounter = (*Tiktoken)(nil)
