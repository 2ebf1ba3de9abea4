package agent

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"

	"github.com/abhishek0010/fluid.sh/compaction"
	"github.com/abhishek0010/fluid.sh/middleware"
	"github.com/abhishek0010/fluid.sh/schema"
)

// scriptedModel replays a fixed sequence of responses, one per
// GenerateContent call, and records the requests it saw.
type scriptedModel struct {
	responses []*llms.ContentResponse
	calls     int
	seenTools [][]llms.Tool
}

func textResponse(content string) *llms.ContentResponse {
	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{Content: content}},
	}
}

func toolCallResponse(id, name, args string) *llms.ContentResponse {
	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{
			ToolCalls: []llms.ToolCall{{
				ID:   id,
				Type: "function",
				FunctionCall: &llms.FunctionCall{
					Name:      name,
					Arguments: args,
				},
			}},
		}},
	}
}

func (m *scriptedModel) GenerateContent(_ context.Context, _ []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	opts := llms.CallOptions{}
	for _, opt := range options {
		opt(&opts)
	}
	m.seenTools = append(m.seenTools, opts.Tools)

	if m.calls >= len(m.responses) {
		return nil, errors.New("scripted model exhausted")
	}
	resp := m.responses[m.calls]
	m.calls++
	return resp, nil
}

func (m *scriptedModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	resp, err := m.GenerateContent(ctx, []llms.MessageContent{llms.TextParts(llms.ChatMessageTypeHuman, prompt)}, options...)
	if err != nil {
		return "", err
	}
	return resp.Choices[0].Content, nil
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.SystemPrompt = "You are a test assistant."
	cfg.AutoCompact = false
	return cfg
}

// recordingTool captures the arguments of each call.
type recordingTool struct {
	name   string
	schema map[string]any
	result map[string]any
	err    error
	got    []map[string]any
}

func (r *recordingTool) Name() string                    { return r.name }
func (r *recordingTool) Description() string             { return "test tool" }
func (r *recordingTool) ParameterSchema() map[string]any { return r.schema }

func (r *recordingTool) Call(_ context.Context, args map[string]any) (map[string]any, error) {
	r.got = append(r.got, args)
	return r.result, r.err
}

func TestAgentRunPlainAnswer(t *testing.T) {
	model := &scriptedModel{responses: []*llms.ContentResponse{
		textResponse("hello there"),
	}}
	a, err := New(testConfig(), model)
	require.NoError(t, err)

	answer, err := a.Run(context.Background(), "hi")

	require.NoError(t, err)
	assert.Equal(t, "hello there", answer)
	// system prompt + user + assistant
	assert.Equal(t, 3, a.TranscriptLen())
}

func TestAgentRunToolCallFlow(t *testing.T) {
	model := &scriptedModel{responses: []*llms.ContentResponse{
		toolCallResponse("call-1", "run_command", `{"command":"uptime"}`),
		textResponse("the system is up"),
	}}
	a, err := New(testConfig(), model)
	require.NoError(t, err)

	tool := &recordingTool{
		name: "run_command",
		schema: schema.Object(map[string]*schema.Property{
			"command": schema.String("Shell command"),
		}, "command"),
		result: map[string]any{"output": "up 3 days"},
	}
	require.NoError(t, a.RegisterTool(tool))

	answer, err := a.Run(context.Background(), "check uptime")

	require.NoError(t, err)
	assert.Equal(t, "the system is up", answer)
	require.Len(t, tool.got, 1)
	assert.Equal(t, map[string]any{"command": "uptime"}, tool.got[0])

	// The tool definition reached the model.
	require.NotEmpty(t, model.seenTools[0])
	assert.Equal(t, "run_command", model.seenTools[0][0].Function.Name)

	// Transcript: system, user, tool result, nudge, assistant.
	msgs := transcriptContents(a)
	require.Len(t, msgs, 5)
	assert.Contains(t, msgs[2], `"output":"up 3 days"`)
	assert.Contains(t, msgs[3], "Ansible playbook")
	assert.Equal(t, llms.ChatMessageTypeSystem, a.Messages()[3].Role)
	assert.Equal(t, "the system is up", msgs[4])
}

func TestAgentRunFailedToolGetsNoNudge(t *testing.T) {
	model := &scriptedModel{responses: []*llms.ContentResponse{
		toolCallResponse("call-1", "run_command", `{"command":"false"}`),
		textResponse("that failed"),
	}}
	a, err := New(testConfig(), model)
	require.NoError(t, err)

	tool := &recordingTool{
		name: "run_command",
		err:  errors.New("exit status 1"),
	}
	require.NoError(t, a.RegisterTool(tool))

	answer, err := a.Run(context.Background(), "run it")

	require.NoError(t, err)
	assert.Equal(t, "that failed", answer)

	msgs := transcriptContents(a)
	// system, user, tool error result, assistant; no nudge.
	require.Len(t, msgs, 4)
	assert.Contains(t, msgs[2], "exit status 1")
}

func TestAgentRunUnknownToolRecordedAsFailure(t *testing.T) {
	model := &scriptedModel{responses: []*llms.ContentResponse{
		toolCallResponse("call-1", "no_such_tool", `{}`),
		textResponse("recovered"),
	}}
	a, err := New(testConfig(), model)
	require.NoError(t, err)

	answer, err := a.Run(context.Background(), "go")

	require.NoError(t, err)
	assert.Equal(t, "recovered", answer)
	assert.Contains(t, transcriptContents(a)[2], "unknown tool")
}

func TestAgentRunInvalidArgumentsRejectedBeforeExecution(t *testing.T) {
	model := &scriptedModel{responses: []*llms.ContentResponse{
		toolCallResponse("call-1", "run_command", `{"command":42}`),
		textResponse("noted"),
	}}
	a, err := New(testConfig(), model)
	require.NoError(t, err)

	tool := &recordingTool{
		name: "run_command",
		schema: schema.Object(map[string]*schema.Property{
			"command": schema.String("Shell command"),
		}, "command"),
	}
	require.NoError(t, a.RegisterTool(tool))

	_, err = a.Run(context.Background(), "go")

	require.NoError(t, err)
	assert.Empty(t, tool.got)
	assert.Contains(t, transcriptContents(a)[2], "invalid tool arguments")
}

func TestAgentAutoCompactBeforeTurn(t *testing.T) {
	cfg := testConfig()
	cfg.AutoCompact = true
	cfg.MaxContextTokens = 10
	cfg.SystemPrompt = strings.Repeat("You are a very verbose assistant. ", 10)

	// First scripted response feeds the compaction summarizer, the
	// second answers the user turn.
	model := &scriptedModel{responses: []*llms.ContentResponse{
		textResponse("summary of earlier work"),
		textResponse("fresh answer"),
	}}
	a, err := New(cfg, model)
	require.NoError(t, err)

	answer, err := a.Run(context.Background(), "continue")

	require.NoError(t, err)
	assert.Equal(t, "fresh answer", answer)
	assert.Equal(t, 1, a.CompactionCount())

	msgs := transcriptContents(a)
	assert.True(t, strings.HasPrefix(msgs[0], compaction.SummaryPrefix))
	assert.Contains(t, msgs[0], "summary of earlier work")
}

func TestAgentCompactionCountLifecycle(t *testing.T) {
	cfg := testConfig()
	model := &scriptedModel{responses: []*llms.ContentResponse{
		textResponse("a summary"),
	}}
	a, err := New(cfg, model)
	require.NoError(t, err)

	_, err = a.Compact(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, a.CompactionCount())

	// Swapping the compact model keeps the running count.
	a.WithCompactModel(&scriptedModel{})
	assert.Equal(t, 1, a.CompactionCount())

	// A fresh conversation starts counting from zero.
	a.Reset()
	assert.Equal(t, 0, a.CompactionCount())
}

func TestAgentRegisterToolRejectsDuplicates(t *testing.T) {
	a, err := New(testConfig(), &scriptedModel{})
	require.NoError(t, err)

	require.NoError(t, a.RegisterTool(&recordingTool{name: "dup"}))
	err = a.RegisterTool(&recordingTool{name: "dup"})
	assert.ErrorContains(t, err, "already registered")
}

func TestAgentReset(t *testing.T) {
	model := &scriptedModel{responses: []*llms.ContentResponse{
		toolCallResponse("call-1", "run_command", `{}`),
		textResponse("done"),
	}}
	a, err := New(testConfig(), model)
	require.NoError(t, err)
	require.NoError(t, a.RegisterTool(&recordingTool{name: "run_command"}))

	_, err = a.Run(context.Background(), "go")
	require.NoError(t, err)

	nudge := a.Chain().Get(middleware.PlaybookNudgeName).(*middleware.PlaybookNudge)
	require.Equal(t, 1, nudge.NudgeCount())

	a.Reset()

	assert.Equal(t, 1, a.TranscriptLen()) // system prompt only
	assert.Equal(t, 0, nudge.NudgeCount())
}

func TestNewValidatesInputs(t *testing.T) {
	_, err := New(Config{}, &scriptedModel{})
	assert.Error(t, err)

	_, err = New(testConfig(), nil)
	assert.ErrorContains(t, err, "model must not be nil")
}

func transcriptContents(a *Agent) []string {
	var out []string
	for _, m := range a.Messages() {
		out = append(out, m.Content)
	}
	return out
}
