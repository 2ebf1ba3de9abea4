package middleware

import (
	fluid "github.com/abhishek0010/fluid.sh"
)

const (
	// PlaybookNudgeName is the registration name of PlaybookNudge.
	PlaybookNudgeName = "playbook_nudge"

	// DefaultMaxNudges is the default lifetime cap on nudges emitted by
	// a PlaybookNudge.
	DefaultMaxNudges = 3

	playbookNudgeText = "Hint: The command was successful. If this command modifies system state, " +
		"remember to add it to the Ansible playbook using 'add_task'."
)

// PlaybookNudge reminds the model to record state-changing shell commands
// in the Ansible playbook. After each successful execution of a targeted
// tool it injects a single system-role hint message, up to a lifetime cap.
//
// Decision order for each tool execution:
//
//  1. Disabled: no message, counter untouched.
//  2. Nudge count has reached the cap (when the cap is nonzero): no message.
//  3. Tool is not one of the targeted tools: no message.
//  4. The execution failed: no message.
//  5. Otherwise: emit the hint and increment the counter.
//
// The counter only advances when a hint is actually emitted, so runs of
// untargeted or failed tool calls never consume the cap. Reset restores
// the counter to zero without touching enablement or configuration.
type PlaybookNudge struct {
	enabled     bool
	maxNudges   int
	targetTools map[string]bool
	nudgeCount  int
}

var _ fluid.Middleware = (*PlaybookNudge)(nil)
var _ fluid.Resettable = (*PlaybookNudge)(nil)

// NewPlaybookNudge creates a PlaybookNudge with defaults: enabled,
// a cap of DefaultMaxNudges, targeting the "run_command" tool.
func NewPlaybookNudge() *PlaybookNudge {
	return &PlaybookNudge{
		enabled:     true,
		maxNudges:   DefaultMaxNudges,
		targetTools: map[string]bool{"run_command": true},
	}
}

// WithMaxNudges sets the lifetime cap on emitted nudges. Zero means
// unlimited. Panics if n is negative.
func (p *PlaybookNudge) WithMaxNudges(n int) *PlaybookNudge {
	if n < 0 {
		panic("middleware: max nudges must not be negative")
	}
	p.maxNudges = n
	return p
}

// WithTargetTools replaces the set of tool names that trigger a nudge.
func (p *PlaybookNudge) WithTargetTools(names ...string) *PlaybookNudge {
	p.targetTools = make(map[string]bool, len(names))
	for _, name := range names {
		p.targetTools[name] = true
	}
	return p
}

// WithEnabled sets whether the middleware participates in dispatch.
func (p *PlaybookNudge) WithEnabled(enabled bool) *PlaybookNudge {
	p.enabled = enabled
	return p
}

// Name implements fluid.Middleware.
func (p *PlaybookNudge) Name() string {
	return PlaybookNudgeName
}

// Enabled implements fluid.Middleware.
func (p *PlaybookNudge) Enabled() bool {
	return p.enabled
}

// AfterToolExecution implements fluid.Middleware.
func (p *PlaybookNudge) AfterToolExecution(exec fluid.ToolExecution) fluid.MiddlewareResult {
	if !p.enabled {
		return fluid.MiddlewareResult{}
	}
	if p.maxNudges > 0 && p.nudgeCount >= p.maxNudges {
		return fluid.MiddlewareResult{}
	}
	if !p.targetTools[exec.ToolName] {
		return fluid.MiddlewareResult{}
	}
	if exec.Error {
		return fluid.MiddlewareResult{}
	}

	p.nudgeCount++
	return fluid.MiddlewareResult{
		MessagesToAdd: []fluid.Message{fluid.SystemMessage(playbookNudgeText)},
	}
}

// Reset implements fluid.Resettable. It zeroes the nudge counter so the
// next conversation gets a fresh allowance. Enablement and configuration
// are preserved.
func (p *PlaybookNudge) Reset() {
	p.nudgeCount = 0
}

// NudgeCount returns how many nudges have been emitted since the last
// reset.
func (p *PlaybookNudge) NudgeCount() int {
	return p.nudgeCount
}

// MaxNudges returns the configured lifetime cap (zero means unlimited).
func (p *PlaybookNudge) MaxNudges() int {
	return p.maxNudges
}
