// Package middleware provides the standard dispatch chain and built-in
// policies for fluid's tool-execution middleware pipeline.
//
// # Chain
//
// [Chain] holds middleware in registration order and dispatches each
// completed tool execution to every enabled member, sequentially. All
// enabled middleware always run for a given execution; middleware do not
// see each other's output and cannot short-circuit the chain. The chain
// concatenates every member's proposed messages and returns the flat
// sequence for the loop to append.
//
//	chain := middleware.NewChain(
//	    middleware.NewPlaybookNudge().WithMaxNudges(3),
//	    middleware.NewToolLogging(logger),
//	)
//	msgs := chain.ProcessToolExecution(exec)
//
// A middleware that panics is logged and skipped for that invocation; the
// rest of the chain still runs. Nothing in the pipeline is fatal to the
// host process.
//
// # Built-in Policies
//
//   - [PlaybookNudge]: rate-limited reminder to record state-changing
//     commands in the playbook
//   - [ToolLogging]: structured log line per tool execution, no messages
//
// # Writing Custom Middleware
//
// Implement [fluid.Middleware]; implement [fluid.Resettable] too if the
// middleware keeps per-conversation counters:
//
//	type auditTrail struct {
//	    calls []string
//	}
//
//	func (a *auditTrail) Name() string    { return "audit_trail" }
//	func (a *auditTrail) Enabled() bool   { return true }
//	func (a *auditTrail) Reset()          { a.calls = nil }
//
//	func (a *auditTrail) AfterToolExecution(
//	    exec fluid.ToolExecution,
//	) fluid.MiddlewareResult {
//	    a.calls = append(a.calls, exec.ToolName)
//	    return fluid.MiddlewareResult{}
//	}
package middleware
