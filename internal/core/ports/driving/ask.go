package driving

import "context"

// AskService answers natural-language questions using the agent loop.
type AskService interface {
	// Ask returns the model's final answer to the question.
	Ask(ctx context.Context, question string) (string, error)
}
