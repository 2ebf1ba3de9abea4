// Package fluid provides the control layer for fluid's conversational
// infrastructure agent: context budget management and a tool-execution
// middleware pipeline.
//
// The agent loop repeatedly calls tools on the user's behalf. Two problems
// come with that: the transcript grows until it no longer fits the model's
// context window, and side-behaviors (like nudging the agent to record
// state-changing commands in a playbook) want to react to tool executions
// without being hard-wired into the loop. This package and its subpackages
// solve both.
//
// # Quick Start
//
//	package main
//
//	import (
//	    "context"
//	    "fmt"
//
//	    "github.com/abhishek0010/fluid.sh/agent"
//	    "github.com/abhishek0010/fluid.sh/tools"
//	)
//
//	func main() {
//	    cfg := agent.DefaultConfig()
//
//	    // 1. Create the agent around any langchaingo llms.Model.
//	    a, err := agent.New(cfg, model)
//	    if err != nil {
//	        panic(err)
//	    }
//
//	    // 2. Register tools. The agent is reachable through the
//	    //    fluid.Conversation interface, so context tools receive an
//	    //    explicit handle instead of a global.
//	    a.RegisterTool(runCommandTool)
//	    a.RegisterTool(tools.NewCompact(a))
//	    a.RegisterTool(tools.NewContextStatus(a))
//
//	    // 3. Run turns. Compaction happens automatically when the
//	    //    transcript crosses the configured threshold.
//	    answer, err := a.Run(context.Background(), "install nginx on web-1")
//	    if err != nil {
//	        panic(err)
//	    }
//	    fmt.Println(answer)
//	}
//
// # Token Budget & Compaction
//
// [TokenBudget] tracks transcript token usage against the model's context
// limit and answers the pure query [TokenBudget.ShouldCompact]. The
// compaction package's Engine performs summarize-and-replace: it sends the
// full transcript to a [Summarizer], then atomically replaces the transcript
// with a single seed message carrying the summary. Failure leaves the
// transcript untouched.
//
//	budget := fluid.NewTokenBudget(64000).WithThreshold(0.9)
//	engine := compaction.NewEngine(transcript, budget, summarizer, counter)
//	summary, err := engine.Compact(ctx)
//
// Token counting is pluggable through [TokenCounter]. The tokenizer package
// ships a chars-per-token heuristic and an exact tiktoken-backed counter.
//
// # Middleware
//
// [Middleware] is a decoupled observer invoked after every completed tool
// call. It inspects a [ToolExecution] and may propose transcript messages;
// it never mutates the transcript itself. The middleware package's Chain
// dispatches to every enabled member in registration order and concatenates
// their output:
//
//	chain := middleware.NewChain(
//	    middleware.NewPlaybookNudge().WithMaxNudges(3),
//	)
//	msgs := chain.ProcessToolExecution(exec)
//	// append msgs to the transcript, in order
//
// Middleware that keeps internal counters implements the optional
// [Resettable] interface; Chain.Reset propagates to those members only.
//
// # Concurrency
//
// The loop is single-threaded: tool execution may block on I/O, but
// middleware dispatch and transcript mutation happen strictly after it
// completes. Every piece of shared state has exactly one writer, so none of
// the core types carry locks.
package fluid
