package agent

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the tunable behavior of an Agent. Zero values are not
// usable; start from DefaultConfig and override.
type Config struct {
	// Model is the model identifier used for the main conversation.
	Model string `yaml:"model"`

	// CompactModel is the model used for summarization during compaction.
	// Empty means use Model.
	CompactModel string `yaml:"compact_model"`

	// SystemPrompt seeds every fresh conversation. Empty means none.
	SystemPrompt string `yaml:"system_prompt"`

	// MaxContextTokens is the context window size being managed.
	MaxContextTokens int `yaml:"max_context_tokens"`

	// CompactThreshold is the usage ratio in (0, 1] at which automatic
	// compaction triggers.
	CompactThreshold float64 `yaml:"compact_threshold"`

	// AutoCompact enables compaction when the threshold is crossed.
	// Manual compaction works regardless.
	AutoCompact bool `yaml:"auto_compact"`

	// TokensPerChar is the heuristic token estimate per character, used
	// when no exact tokenizer is available for the model.
	TokensPerChar float64 `yaml:"tokens_per_char"`

	// NudgeEnabled controls the playbook nudge middleware.
	NudgeEnabled bool `yaml:"nudge_enabled"`

	// MaxNudges caps playbook nudges per conversation. Zero means
	// unlimited.
	MaxNudges int `yaml:"max_nudges"`
}

// DefaultConfig returns the standard configuration.
func DefaultConfig() Config {
	return Config{
		Model:            "gpt-4o",
		MaxContextTokens: 64000,
		CompactThreshold: 0.9,
		AutoCompact:      true,
		TokensPerChar:    0.25,
		NudgeEnabled:     true,
		MaxNudges:        3,
	}
}

// Validate reports the first problem with the configuration, or nil.
func (c Config) Validate() error {
	if c.Model == "" {
		return fmt.Errorf("agent: model must be set")
	}
	if c.MaxContextTokens <= 0 {
		return fmt.Errorf("agent: max_context_tokens must be positive, got %d", c.MaxContextTokens)
	}
	if c.CompactThreshold <= 0 || c.CompactThreshold > 1 {
		return fmt.Errorf("agent: compact_threshold must be in (0, 1], got %v", c.CompactThreshold)
	}
	if c.TokensPerChar <= 0 {
		return fmt.Errorf("agent: tokens_per_char must be positive, got %v", c.TokensPerChar)
	}
	if c.MaxNudges < 0 {
		return fmt.Errorf("agent: max_nudges must not be negative, got %d", c.MaxNudges)
	}
	return nil
}

// LoadConfig reads a YAML config file, layered over DefaultConfig.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("agent: read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("agent: parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}
