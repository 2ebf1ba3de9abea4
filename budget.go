package fluid

import "fmt"

// DefaultCompactThreshold is the usage ratio at which compaction is
// recommended when no explicit threshold is configured.
const DefaultCompactThreshold = 0.9

// TokenUsage is a point-in-time snapshot of transcript token consumption.
type TokenUsage struct {
	// CurrentTokens is the token count of the live transcript.
	CurrentTokens int

	// MaxTokens is the model's context limit.
	MaxTokens int

	// Ratio is CurrentTokens / MaxTokens.
	Ratio float64
}

// TokenBudget tracks transcript token usage against a model's context limit
// and decides when compaction is recommended.
//
// The budget is bookkeeping only: the owner observes new token counts after
// each transcript change, and [TokenBudget.ShouldCompact] is a pure query
// with no side effects, callable at any time. Immediately after a
// compaction it returns false unless the seed transcript alone already
// exceeds the threshold. The threshold is configuration, not state;
// compaction never changes it.
//
// Between compactions the usage ratio is monotonically non-decreasing
// (appends only add tokens) and drops sharply right after one.
type TokenBudget struct {
	maxTokens   int
	threshold   float64
	autoCompact bool
	current     int
}

// NewTokenBudget creates a TokenBudget for a model with the given context
// limit. Auto-compaction is enabled with [DefaultCompactThreshold].
//
// Panics if maxTokens is not positive. Invalid limits are a configuration
// error and must be rejected before the loop starts; the agent config layer
// validates before constructing.
func NewTokenBudget(maxTokens int) *TokenBudget {
	if maxTokens <= 0 {
		panic(fmt.Sprintf("fluid: max tokens must be positive, got %d", maxTokens))
	}
	return &TokenBudget{
		maxTokens:   maxTokens,
		threshold:   DefaultCompactThreshold,
		autoCompact: true,
	}
}

// WithThreshold sets the usage ratio at or above which compaction is
// recommended. Panics if threshold is outside (0, 1].
func (b *TokenBudget) WithThreshold(threshold float64) *TokenBudget {
	if threshold <= 0 || threshold > 1 {
		panic(fmt.Sprintf("fluid: compact threshold must be in (0, 1], got %v", threshold))
	}
	b.threshold = threshold
	return b
}

// WithAutoCompact sets whether [TokenBudget.ShouldCompact] may ever
// recommend compaction. Manual compaction is unaffected.
func (b *TokenBudget) WithAutoCompact(enabled bool) *TokenBudget {
	b.autoCompact = enabled
	return b
}

// Observe records the current transcript token count. Negative counts are
// clamped to zero.
func (b *TokenBudget) Observe(tokens int) {
	if tokens < 0 {
		tokens = 0
	}
	b.current = tokens
}

// Usage returns the current token usage snapshot.
func (b *TokenBudget) Usage() TokenUsage {
	return TokenUsage{
		CurrentTokens: b.current,
		MaxTokens:     b.maxTokens,
		Ratio:         float64(b.current) / float64(b.maxTokens),
	}
}

// ShouldCompact reports whether compaction is recommended: auto-compaction
// is enabled and the usage ratio has reached the threshold.
func (b *TokenBudget) ShouldCompact() bool {
	return b.autoCompact && b.Usage().Ratio >= b.threshold
}

// Threshold returns the configured compaction threshold.
func (b *TokenBudget) Threshold() float64 {
	return b.threshold
}

// AutoCompact reports whether automatic compaction recommendation is
// enabled.
func (b *TokenBudget) AutoCompact() bool {
	return b.autoCompact
}

// SetAutoCompact toggles automatic compaction recommendation at runtime.
func (b *TokenBudget) SetAutoCompact(enabled bool) {
	b.autoCompact = enabled
}
