// Package compaction shrinks a conversation transcript when it approaches
// the model's context limit, by replacing the full history with a single
// model-generated summary message.
//
// The central type is Engine, which ties together a fluid.Transcript,
// a fluid.TokenBudget, a fluid.Summarizer, and a fluid.TokenCounter.
// Engine.Compact is atomic with respect to the transcript: if
// summarization fails for any reason, the transcript is left exactly as
// it was and the error is returned to the caller.
//
// ModelSummarizer is the standard fluid.Summarizer implementation; it
// renders the transcript as a role-labeled plain-text conversation and
// asks an llms.Model to summarize it with DefaultSummarizationPrompt.
package compaction
