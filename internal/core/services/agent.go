package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/kbrag/internal/core/domain"
	"github.com/custodia-labs/kbrag/internal/core/ports/driven"
	"github.com/custodia-labs/kbrag/internal/logger"
)

// Tool is a capability the agent can invoke on the model's request.
type Tool interface {
	// Definition describes the tool to the model.
	Definition() domain.ToolDefinition

	// Call runs the tool with raw JSON arguments. Failures are reported
	// in the returned text.
	Call(ctx context.Context, arguments string) string
}

// AgentLoop alternates model turns and tool executions until the model
// produces a final answer or the iteration cap is reached.
type AgentLoop struct {
	model         driven.ChatModel
	prompts       driven.PromptStore
	tools         map[string]Tool
	names         []string
	maxIterations int
}

// NewAgentLoop creates an agent loop over the given tools.
func NewAgentLoop(model driven.ChatModel, prompts driven.PromptStore, maxIterations int, tools ...Tool) *AgentLoop {
	if maxIterations <= 0 {
		maxIterations = domain.DefaultMaxIterations
	}
	a := &AgentLoop{
		model:         model,
		prompts:       prompts,
		tools:         make(map[string]Tool, len(tools)),
		maxIterations: maxIterations,
	}
	for _, t := range tools {
		name := t.Definition().Name
		if _, dup := a.tools[name]; !dup {
			a.names = append(a.names, name)
		}
		a.tools[name] = t
	}
	return a
}

// Run answers a single question. Each call starts from an empty scratchpad.
func (a *AgentLoop) Run(ctx context.Context, question string) (string, error) {
	logger.Section("Agent")

	system, err := a.prompts.Load(driven.PromptAgentSystem)
	if err != nil {
		return "", fmt.Errorf("load system prompt: %w", err)
	}

	messages := []domain.Message{
		{Role: domain.RoleSystem, Content: system},
		{Role: domain.RoleUser, Content: question},
	}
	definitions := a.toolDefinitions()

	for i := 1; i <= a.maxIterations; i++ {
		decision, err := a.model.Decide(ctx, messages, definitions)
		if err != nil {
			return "", fmt.Errorf("agent turn %d: %w", i, err)
		}

		if decision.IsFinal() {
			logger.Info("Finished after %d turn(s)", i)
			return decision.FinalAnswer, nil
		}

		messages = append(messages, domain.Message{
			Role:      domain.RoleAssistant,
			Content:   decision.FinalAnswer,
			ToolCalls: decision.ToolCalls,
		})
		for _, call := range decision.ToolCalls {
			logger.Info("Invoking: `%s` with `%s`", call.Name, call.Arguments)
			result := a.invoke(ctx, call)
			logger.Debug("Tool %s returned %d bytes", call.Name, len(result))
			messages = append(messages, domain.Message{
				Role:       domain.RoleTool,
				Content:    result,
				ToolCallID: call.ID,
			})
		}
	}

	return "", fmt.Errorf("%w (%d)", domain.ErrMaxIterations, a.maxIterations)
}

// toolDefinitions returns the tool definitions, refreshed each run so
// edited prompt files take effect.
func (a *AgentLoop) toolDefinitions() []domain.ToolDefinition {
	defs := make([]domain.ToolDefinition, 0, len(a.names))
	for _, name := range a.names {
		defs = append(defs, a.tools[name].Definition())
	}
	return defs
}

func (a *AgentLoop) invoke(ctx context.Context, call domain.ToolCall) string {
	tool, ok := a.tools[call.Name]
	if !ok {
		logger.Warn("Model requested unknown tool %q", call.Name)
		return fmt.Sprintf("%s is not a valid tool, try one of [%s].", call.Name, strings.Join(a.names, ", "))
	}
	return tool.Call(ctx, call.Arguments)
}
