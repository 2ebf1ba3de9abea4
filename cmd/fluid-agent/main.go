// Package main is an interactive terminal agent with automatic context
// compaction and a playbook-nudge middleware chain.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/chzyer/readline"
	"github.com/tmc/langchaingo/llms/openai"
	"go.uber.org/zap"

	fluid "github.com/abhishek0010/fluid.sh"
	"github.com/abhishek0010/fluid.sh/agent"
	"github.com/abhishek0010/fluid.sh/schema"
	"github.com/abhishek0010/fluid.sh/tools"
)

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorDim    = "\033[2m"
)

const defaultSystemPrompt = "You are a helpful infrastructure assistant. " +
	"You can run shell commands and manage your own context window. " +
	"Record state-changing commands in the Ansible playbook when asked."

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "%sError: %v%s\n", colorRed, err, colorReset)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "path to YAML config file")
	verbose := flag.Bool("verbose", false, "log to stderr")
	flag.Parse()

	cfg := agent.DefaultConfig()
	if *configPath != "" {
		loaded, err := agent.LoadConfig(*configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if cfg.SystemPrompt == "" {
		cfg.SystemPrompt = defaultSystemPrompt
	}

	logger := zap.NewNop()
	if *verbose {
		l, err := zap.NewDevelopment()
		if err != nil {
			return fmt.Errorf("failed to create logger: %w", err)
		}
		logger = l
		defer logger.Sync()
	}

	if os.Getenv("OPENAI_API_KEY") == "" {
		fmt.Fprintf(os.Stderr,
			"%sWARNING: OPENAI_API_KEY environment variable is not set!%s\n",
			colorYellow, colorReset)
	}

	model, err := openai.New(openai.WithModel(cfg.Model))
	if err != nil {
		return fmt.Errorf("failed to create model: %w", err)
	}

	a, err := agent.New(cfg, model)
	if err != nil {
		return err
	}
	a.WithLogger(logger)

	if cfg.CompactModel != "" && cfg.CompactModel != cfg.Model {
		compactModel, err := openai.New(openai.WithModel(cfg.CompactModel))
		if err != nil {
			return fmt.Errorf("failed to create compact model: %w", err)
		}
		a.WithCompactModel(compactModel)
	}

	for _, t := range []fluid.Tool{
		newRunCommandTool(),
		tools.NewCompact(a),
		tools.NewContextStatus(a),
	} {
		if err := a.RegisterTool(t); err != nil {
			return err
		}
	}

	rl, err := readline.New(colorCyan + "> " + colorReset)
	if err != nil {
		return fmt.Errorf("failed to create readline: %w", err)
	}
	defer rl.Close()

	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("%sfluid-agent - /help for commands, Ctrl-D to quit%s\n",
		colorDim, colorReset)

	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}
		if strings.HasPrefix(input, "/") {
			if quit := handleCommand(ctx, a, input); quit {
				return nil
			}
			continue
		}

		answer, err := a.Run(ctx, input)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			fmt.Printf("%sError: %v%s\n", colorRed, err, colorReset)
			continue
		}
		fmt.Println(answer)
	}
}

// handleCommand processes slash commands. It returns true when the REPL
// should exit.
func handleCommand(ctx context.Context, a *agent.Agent, input string) bool {
	switch input {
	case "/quit", "/exit":
		return true

	case "/help":
		fmt.Println("Commands:")
		fmt.Println("  /context  show context window usage")
		fmt.Println("  /compact  summarize and compact the conversation")
		fmt.Println("  /reset    start a fresh conversation")
		fmt.Println("  /quit     exit")

	case "/context":
		usage := a.TokenUsage()
		fmt.Printf("Context: %d / %d tokens (%.1f%%), %d messages, %d compactions\n",
			usage.CurrentTokens, usage.MaxTokens, usage.Ratio*100,
			a.TranscriptLen(), a.CompactionCount())
		if a.ShouldCompact() {
			fmt.Printf("%sCompaction recommended.%s\n", colorYellow, colorReset)
		}

	case "/compact":
		before := a.TokenUsage()
		summary, err := a.Compact(ctx)
		if err != nil {
			fmt.Printf("%sCompaction failed: %v%s\n", colorRed, err, colorReset)
			break
		}
		after := a.TokenUsage()
		fmt.Printf("%sCompacted: %d -> %d tokens%s\n",
			colorGreen, before.CurrentTokens, after.CurrentTokens, colorReset)
		fmt.Printf("%s%s%s\n", colorDim, summary, colorReset)

	case "/reset":
		a.Reset()
		fmt.Printf("%sConversation reset.%s\n", colorGreen, colorReset)

	default:
		fmt.Printf("Unknown command %q, try /help\n", input)
	}
	return false
}

// newRunCommandTool builds the shell execution tool. Output is truncated
// so a single noisy command cannot blow the context budget on its own.
func newRunCommandTool() fluid.Tool {
	const maxOutput = 8192

	return fluid.NewToolFunc(
		"run_command",
		"Execute a shell command and return its output.",
		schema.Object(map[string]*schema.Property{
			"command": schema.String("Shell command to execute"),
			"timeout": schema.Integer("Seconds before the command is killed").
				Min(1).Max(300).Default(30),
		}, "command"),
		func(ctx context.Context, args map[string]any) (map[string]any, error) {
			command, _ := args["command"].(string)

			timeout := 30 * time.Second
			if v, ok := args["timeout"].(float64); ok {
				timeout = time.Duration(v) * time.Second
			}
			cctx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()

			out, err := exec.CommandContext(cctx, "sh", "-c", command).CombinedOutput()
			output := string(out)
			if len(output) > maxOutput {
				output = output[:maxOutput] + "\n... (output truncated)"
			}
			if err != nil {
				return map[string]any{"output": output}, fmt.Errorf("command failed: %w", err)
			}
			return map[string]any{"output": output}, nil
		},
	)
}
