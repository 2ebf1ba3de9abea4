package fluid

// TokenCounter counts the tokens a message sequence will consume in the
// model's context window.
//
// The tokenizer choice is deliberately pluggable: the tokenizer package
// provides a chars-per-token heuristic (cheap, no dependencies on encoding
// data) and a tiktoken-backed counter (exact for OpenAI-family models).
// Counters that cannot produce an exact count are expected to fall back to
// an estimate rather than fail; the budget tolerates approximation.
type TokenCounter interface {
	// Count returns the token count for the given messages, including
	// any per-message framing overhead the implementation accounts for.
	Count(messages []Message) int
}
