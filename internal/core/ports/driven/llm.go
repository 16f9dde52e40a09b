package driven

import (
	"context"

	"github.com/custodia-labs/kbrag/internal/core/domain"
)

// ChatModel is the tool-calling language model.
// Its decision procedure is opaque: given the conversation so far and the
// available tools, it either requests tool calls or produces a final answer.
type ChatModel interface {
	// Decide runs one model turn.
	Decide(ctx context.Context, messages []domain.Message, tools []domain.ToolDefinition) (domain.Decision, error)

	// ModelName returns the name of the chat model being used.
	ModelName() string

	// Close releases resources.
	Close() error
}
