package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/custodia-labs/kbrag/internal/core/domain"
	"github.com/custodia-labs/kbrag/internal/core/ports/driving"
)

// mockSettingsService is an in-memory driving.SettingsService.
type mockSettingsService struct {
	settings domain.AppSettings
	values   map[string]string
	getErr   error
}

func newMockSettingsService() *mockSettingsService {
	return &mockSettingsService{
		settings: domain.DefaultAppSettings(),
		values:   make(map[string]string),
	}
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	s := m.settings
	return &s, nil
}

func (m *mockSettingsService) Set(key, value string) error {
	if !strings.Contains(key, ".") {
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}
	m.values[key] = value
	return nil
}

func (m *mockSettingsService) Keys() []string {
	keys := []string{"index.name", "retrieval.top_k"}
	sort.Strings(keys)
	return keys
}

func (m *mockSettingsService) ValidateIngest(_ *domain.AppSettings) error { return nil }
func (m *mockSettingsService) ValidateQuery(_ *domain.AppSettings) error  { return nil }

// mockIngestService implements driving.IngestService.
type mockIngestService struct {
	report   *domain.IngestReport
	err      error
	paths    []string
	progress func(format string, args ...any)
}

func (m *mockIngestService) Ingest(_ context.Context, path string) (*domain.IngestReport, error) {
	m.paths = append(m.paths, path)
	if m.progress != nil {
		m.progress("%d documents loaded", 2)
	}
	if m.err != nil {
		return nil, m.err
	}
	return m.report, nil
}

// mockAskService implements driving.AskService.
type mockAskService struct {
	answer    string
	err       error
	questions []string
}

func (m *mockAskService) Ask(_ context.Context, question string) (string, error) {
	m.questions = append(m.questions, question)
	return m.answer, m.err
}

// mockRetrievalService implements driving.RetrievalService.
type mockRetrievalService struct {
	text    string
	queries []string
}

func (m *mockRetrievalService) Retrieve(_ context.Context, query string) string {
	m.queries = append(m.queries, query)
	return m.text
}

// mockProvider implements ServiceProvider.
type mockProvider struct {
	ingest    *mockIngestService
	ask       *mockAskService
	retrieval *mockRetrievalService
	err       error
}

func (m *mockProvider) Ingest(progress func(format string, args ...any)) (driving.IngestService, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.ingest.progress = progress
	return m.ingest, nil
}

func (m *mockProvider) Ask() (driving.AskService, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.ask, nil
}

func (m *mockProvider) Retrieval() (driving.RetrievalService, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.retrieval, nil
}

// setupTestServices installs mocks and returns them with a cleanup function.
func setupTestServices() (*mockSettingsService, *mockProvider, func()) {
	settings := newMockSettingsService()
	provider := &mockProvider{
		ingest:    &mockIngestService{report: &domain.IngestReport{Documents: 2, Chunks: 3, Vectors: 3}},
		ask:       &mockAskService{answer: "Los microservicios son servicios pequeños."},
		retrieval: &mockRetrievalService{},
	}

	SetBootstrap(nil)
	SetSettingsService(settings)
	SetServices(provider)

	return settings, provider, func() {
		SetSettingsService(nil)
		SetServices(nil)
		SetBootstrap(nil)
		ingestWatch = false
	}
}

// execute runs the root command with args and stdin, returning combined output.
func execute(stdin string, args ...string) (string, error) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	return buf.String(), err
}

var errBoom = errors.New("boom")
