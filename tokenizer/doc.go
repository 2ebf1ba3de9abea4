// Package tokenizer provides standard fluid.TokenCounter implementations.
//
//   - [Heuristic]: chars-per-token estimation, no encoding data needed
//   - [Tiktoken]: exact counts for OpenAI-family models via tiktoken
//
// Tiktoken degrades to the heuristic when its encoding data cannot be
// loaded, so counts are exact when possible and approximate otherwise.
// Compaction thresholds leave enough headroom that estimation error does
// not matter in practice.
package tokenizer
