// Package agent wires the conversation loop together: transcript, token
// budget, compaction engine, middleware chain, and tool registry around a
// LangChainGo model.
package agent

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/tmc/langchaingo/llms"
	"go.uber.org/zap"

	fluid "github.com/abhishek0010/fluid.sh"
	"github.com/abhishek0010/fluid.sh/compaction"
	"github.com/abhishek0010/fluid.sh/middleware"
	"github.com/abhishek0010/fluid.sh/schema"
	"github.com/abhishek0010/fluid.sh/tokenizer"
)

// maxToolRounds bounds how many model/tool round-trips a single Run may
// take before the agent gives up waiting for a final text answer.
const maxToolRounds = 25

type registeredTool struct {
	tool   fluid.Tool
	schema *schema.Schema
}

// Agent owns one conversation: it drives the model, executes tool calls,
// dispatches the middleware chain, and keeps the transcript within the
// token budget.
//
// Agent is single-threaded. One Run at a time; tools and middleware run
// sequentially inside it.
type Agent struct {
	cfg        Config
	model      llms.Model
	transcript *fluid.Transcript
	budget     *fluid.TokenBudget
	counter    fluid.TokenCounter
	engine     *compaction.Engine
	chain      *middleware.Chain
	tools      map[string]registeredTool
	toolOrder  []string
	logger     *zap.Logger
}

var _ fluid.Conversation = (*Agent)(nil)

// New creates an Agent from a validated Config and a model. The compact
// model defaults to the main model; override with WithCompactModel.
func New(cfg Config, model llms.Model) (*Agent, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if model == nil {
		return nil, fmt.Errorf("agent: model must not be nil")
	}

	transcript := fluid.NewTranscript()
	if cfg.SystemPrompt != "" {
		transcript.Append(fluid.SystemMessage(cfg.SystemPrompt))
	}

	budget := fluid.NewTokenBudget(cfg.MaxContextTokens).
		WithThreshold(cfg.CompactThreshold).
		WithAutoCompact(cfg.AutoCompact)

	counter := tokenizer.NewTiktoken(cfg.Model).
		WithFallback(tokenizer.NewHeuristic().WithTokensPerChar(cfg.TokensPerChar))

	a := &Agent{
		cfg:        cfg,
		model:      model,
		transcript: transcript,
		budget:     budget,
		counter:    counter,
		tools:      make(map[string]registeredTool),
		logger:     zap.NewNop(),
	}
	a.engine = compaction.NewEngine(transcript, budget, compaction.NewModelSummarizer(model), counter)
	a.chain = middleware.NewChain(
		middleware.NewPlaybookNudge().
			WithEnabled(cfg.NudgeEnabled).
			WithMaxNudges(cfg.MaxNudges),
	)
	a.budget.Observe(a.counter.Count(transcript.Messages()))
	return a, nil
}

// WithLogger sets the logger used by the agent, the compaction engine,
// and the middleware chain. Returns the agent for chaining.
func (a *Agent) WithLogger(logger *zap.Logger) *Agent {
	if logger != nil {
		a.logger = logger
		a.engine.WithLogger(logger)
		a.chain.WithLogger(logger)
	}
	return a
}

// WithCompactModel uses a separate (typically cheaper) model for
// summarization during compaction. The compaction count is unaffected.
func (a *Agent) WithCompactModel(model llms.Model) *Agent {
	if model != nil {
		a.engine.SetSummarizer(compaction.NewModelSummarizer(model))
	}
	return a
}

// WithChain replaces the middleware chain. Useful for custom policies.
func (a *Agent) WithChain(chain *middleware.Chain) *Agent {
	if chain != nil {
		a.chain = chain.WithLogger(a.logger)
	}
	return a
}

// Chain returns the agent's middleware chain.
func (a *Agent) Chain() *middleware.Chain {
	return a.chain
}

// RegisterTool adds a tool to the registry, compiling its parameter
// schema. Registering a second tool with the same name is an error.
func (a *Agent) RegisterTool(tool fluid.Tool) error {
	name := tool.Name()
	if _, exists := a.tools[name]; exists {
		return fmt.Errorf("agent: tool %q already registered", name)
	}
	compiled, err := schema.Compile(tool.ParameterSchema())
	if err != nil {
		return fmt.Errorf("agent: tool %q: %w", name, err)
	}
	a.tools[name] = registeredTool{tool: tool, schema: compiled}
	a.toolOrder = append(a.toolOrder, name)
	return nil
}

// Run processes one user input: it appends the input, compacts first if
// the budget calls for it, then loops model calls and tool executions
// until the model produces a plain text answer, which is returned.
func (a *Agent) Run(ctx context.Context, input string) (string, error) {
	a.maybeAutoCompact(ctx)

	a.transcript.Append(fluid.UserMessage(input))
	a.refreshBudget()

	for round := 0; round < maxToolRounds; round++ {
		resp, err := a.model.GenerateContent(ctx, a.llmMessages(), llms.WithTools(a.toolDefinitions()))
		if err != nil {
			return "", fmt.Errorf("agent: model call failed: %w", err)
		}
		if len(resp.Choices) == 0 {
			return "", fmt.Errorf("agent: model returned no choices")
		}
		choice := resp.Choices[0]

		if len(choice.ToolCalls) == 0 {
			a.transcript.Append(fluid.AssistantMessage(choice.Content))
			a.refreshBudget()
			return choice.Content, nil
		}

		if choice.Content != "" {
			a.transcript.Append(fluid.AssistantMessage(choice.Content))
		}
		for _, call := range choice.ToolCalls {
			if err := a.executeToolCall(ctx, call); err != nil {
				return "", err
			}
		}
		a.refreshBudget()
		a.maybeAutoCompact(ctx)
	}

	return "", fmt.Errorf("agent: no final answer after %d tool rounds", maxToolRounds)
}

// executeToolCall runs a single tool call end to end: parse and validate
// arguments, execute the tool, record the result in the transcript, and
// dispatch the middleware chain. Tool failures are recorded, not returned;
// only context cancellation aborts the turn.
func (a *Agent) executeToolCall(ctx context.Context, call llms.ToolCall) error {
	name := call.FunctionCall.Name
	callID := call.ID
	if callID == "" {
		callID = uuid.NewString()
	}

	args := map[string]any{}
	var execErr error
	if raw := call.FunctionCall.Arguments; raw != "" {
		if err := json.Unmarshal([]byte(raw), &args); err != nil {
			execErr = fmt.Errorf("invalid tool arguments: %w", err)
		}
	}

	var result map[string]any
	reg, ok := a.tools[name]
	switch {
	case execErr != nil:
		// arguments did not parse; handled below
	case !ok:
		execErr = fmt.Errorf("unknown tool %q", name)
	default:
		if reg.schema != nil {
			execErr = reg.schema.Validate(args)
		}
		if execErr == nil {
			result, execErr = reg.tool.Call(ctx, args)
		}
	}

	// A cancelled turn ends before the result reaches the transcript or
	// the middleware chain: the call never "completed".
	if ctx.Err() != nil {
		return fmt.Errorf("agent: tool %q interrupted: %w", name, ctx.Err())
	}

	if execErr != nil {
		a.logger.Warn("tool call failed",
			zap.String("tool", name),
			zap.String("tool_call_id", callID),
			zap.Error(execErr),
		)
		result = map[string]any{"error": execErr.Error()}
	}
	a.transcript.Append(fluid.ToolMessage(renderToolResult(name, result)))

	exec := fluid.ToolExecution{
		ToolName:   name,
		ToolArgs:   args,
		Result:     result,
		Error:      execErr != nil,
		ToolCallID: callID,
	}
	a.transcript.Append(a.chain.ProcessToolExecution(exec)...)
	return nil
}

// maybeAutoCompact compacts when the budget recommends it. Failure is
// logged and the turn continues with the full transcript; the model may
// still fit, and manual compaction stays available.
func (a *Agent) maybeAutoCompact(ctx context.Context) {
	if !a.budget.ShouldCompact() {
		return
	}
	if _, err := a.engine.Compact(ctx); err != nil {
		a.logger.Warn("automatic compaction failed, continuing with full transcript",
			zap.Error(err))
	}
}

func (a *Agent) refreshBudget() {
	a.budget.Observe(a.counter.Count(a.transcript.Messages()))
}

// llmMessages converts the transcript to the model call format.
func (a *Agent) llmMessages() []llms.MessageContent {
	msgs := a.transcript.Messages()
	out := make([]llms.MessageContent, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, llms.TextParts(m.Role, m.Content))
	}
	return out
}

// toolDefinitions renders the registry in registration order.
func (a *Agent) toolDefinitions() []llms.Tool {
	out := make([]llms.Tool, 0, len(a.toolOrder))
	for _, name := range a.toolOrder {
		reg := a.tools[name]
		out = append(out, llms.Tool{
			Type: "function",
			Function: &llms.FunctionDefinition{
				Name:        name,
				Description: reg.tool.Description(),
				Parameters:  reg.tool.ParameterSchema(),
			},
		})
	}
	return out
}

func renderToolResult(name string, result map[string]any) string {
	encoded, err := json.Marshal(result)
	if err != nil {
		return fmt.Sprintf("[%s] result could not be serialized: %v", name, err)
	}
	return string(encoded)
}

// Reset starts a fresh conversation: the transcript returns to just the
// system prompt, the budget is re-observed, the compaction count is
// cleared, and resettable middleware clear their counters. Tool
// registrations and configuration survive.
func (a *Agent) Reset() {
	var seed []fluid.Message
	if a.cfg.SystemPrompt != "" {
		seed = append(seed, fluid.SystemMessage(a.cfg.SystemPrompt))
	}
	a.transcript.Replace(seed)
	a.refreshBudget()
	a.engine.Reset()
	a.chain.Reset()
}

// Messages returns a copy of the current transcript.
func (a *Agent) Messages() []fluid.Message {
	return a.transcript.Messages()
}

// TokenUsage implements fluid.Conversation.
func (a *Agent) TokenUsage() fluid.TokenUsage {
	return a.budget.Usage()
}

// ShouldCompact implements fluid.Conversation.
func (a *Agent) ShouldCompact() bool {
	return a.budget.ShouldCompact()
}

// AutoCompact implements fluid.Conversation.
func (a *Agent) AutoCompact() bool {
	return a.budget.AutoCompact()
}

// CompactThreshold implements fluid.Conversation.
func (a *Agent) CompactThreshold() float64 {
	return a.budget.Threshold()
}

// CompactionCount implements fluid.Conversation.
func (a *Agent) CompactionCount() int {
	return a.engine.Count()
}

// TranscriptLen implements fluid.Conversation.
func (a *Agent) TranscriptLen() int {
	return a.transcript.Len()
}

// Compact implements fluid.Conversation: manual, unconditional
// compaction.
func (a *Agent) Compact(ctx context.Context) (string, error) {
	return a.engine.Compact(ctx)
}
