package mcp

import (
	"context"

	"github.com/custodia-labs/kbrag/internal/core/domain"
)

// mockRetrievalService is a mock implementation of driving.RetrievalService.
type mockRetrievalService struct {
	text    string
	queries []string
}

func (m *mockRetrievalService) Retrieve(_ context.Context, query string) string {
	m.queries = append(m.queries, query)
	return m.text
}

// mockAskService is a mock implementation of driving.AskService.
type mockAskService struct {
	answer    string
	err       error
	questions []string
}

func (m *mockAskService) Ask(_ context.Context, question string) (string, error) {
	m.questions = append(m.questions, question)
	return m.answer, m.err
}

// mockSettingsService is a mock implementation of driving.SettingsService.
type mockSettingsService struct {
	settings *domain.AppSettings
	err      error
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	return m.settings, m.err
}

func (m *mockSettingsService) Set(_, _ string) error { return m.err }

func (m *mockSettingsService) Keys() []string { return nil }

func (m *mockSettingsService) ValidateIngest(_ *domain.AppSettings) error { return m.err }

func (m *mockSettingsService) ValidateQuery(_ *domain.AppSettings) error { return m.err }

