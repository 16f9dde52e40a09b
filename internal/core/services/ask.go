package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/kbrag/internal/core/domain"
	"github.com/custodia-labs/kbrag/internal/core/ports/driving"
)

// Ensure AskService implements the interface.
var _ driving.AskService = (*AskService)(nil)

// AskService answers questions with the agent loop.
type AskService struct {
	agent *AgentLoop
}

// NewAskService creates a new ask service.
func NewAskService(agent *AgentLoop) *AskService {
	return &AskService{agent: agent}
}

// Ask returns the agent's final answer. Blank questions are rejected
// without calling the model.
func (s *AskService) Ask(ctx context.Context, question string) (string, error) {
	if strings.TrimSpace(question) == "" {
		return "", fmt.Errorf("%w: question is empty", domain.ErrInvalidInput)
	}
	return s.agent.Run(ctx, question)
}
