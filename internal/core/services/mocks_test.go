package services

import (
	"context"
	"sync"

	"github.com/custodia-labs/kbrag/internal/core/domain"
)

// --- Mock implementations ---

// mockVectorStore implements driven.VectorStore for testing.
type mockVectorStore struct {
	mu sync.Mutex

	indexes     map[string]*domain.IndexDescription
	listErr     error
	describeErr error
	createErr   error
	upsertErr   error
	queryErr    error

	// notReadyPolls is the number of DescribeIndex calls that report
	// a freshly created index as not ready.
	notReadyPolls int

	created      []domain.IndexSpec
	describes    int
	upserts      [][]domain.IndexedVector
	queryResults []domain.RetrievedChunk
	queries      []mockQuery
}

type mockQuery struct {
	index  string
	vector []float32
	k      int
}

func newMockVectorStore() *mockVectorStore {
	return &mockVectorStore{indexes: make(map[string]*domain.IndexDescription)}
}

func (m *mockVectorStore) ListIndexes(_ context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	names := make([]string, 0, len(m.indexes))
	for name := range m.indexes {
		names = append(names, name)
	}
	return names, nil
}

func (m *mockVectorStore) DescribeIndex(_ context.Context, name string) (*domain.IndexDescription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.describes++
	if m.describeErr != nil {
		return nil, m.describeErr
	}
	desc, ok := m.indexes[name]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if !desc.Ready && m.notReadyPolls > 0 {
		m.notReadyPolls--
		if m.notReadyPolls == 0 {
			desc.Ready = true
		}
		copied := *desc
		copied.Ready = false
		return &copied, nil
	}
	copied := *desc
	return &copied, nil
}

func (m *mockVectorStore) CreateIndex(_ context.Context, spec domain.IndexSpec) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	m.created = append(m.created, spec)
	m.indexes[spec.Name] = &domain.IndexDescription{
		Name:      spec.Name,
		Host:      spec.Name + ".svc.test",
		Dimension: spec.Dimension,
		Metric:    spec.Metric,
		Ready:     m.notReadyPolls == 0,
	}
	return nil
}

func (m *mockVectorStore) Upsert(_ context.Context, _ string, vectors []domain.IndexedVector) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.upsertErr != nil {
		return 0, m.upsertErr
	}
	m.upserts = append(m.upserts, vectors)
	return len(vectors), nil
}

func (m *mockVectorStore) Query(_ context.Context, index string, vector []float32, k int) ([]domain.RetrievedChunk, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queries = append(m.queries, mockQuery{index: index, vector: vector, k: k})
	if m.queryErr != nil {
		return nil, m.queryErr
	}
	if k < len(m.queryResults) {
		return m.queryResults[:k], nil
	}
	return m.queryResults, nil
}

func (m *mockVectorStore) upserted() []domain.IndexedVector {
	var all []domain.IndexedVector
	for _, batch := range m.upserts {
		all = append(all, batch...)
	}
	return all
}

// mockEmbeddingService implements driven.EmbeddingService for testing.
type mockEmbeddingService struct {
	dims       int
	embedErr   error
	batchSizes []int
	texts      []string
}

func (m *mockEmbeddingService) Embed(_ context.Context, text string) ([]float32, error) {
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	m.texts = append(m.texts, text)
	return m.vector(len(text)), nil
}

func (m *mockEmbeddingService) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	m.batchSizes = append(m.batchSizes, len(texts))
	m.texts = append(m.texts, texts...)
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = m.vector(len(t))
	}
	return out, nil
}

func (m *mockEmbeddingService) vector(seed int) []float32 {
	v := make([]float32, m.dims)
	for i := range v {
		v[i] = float32(seed%7) / 7
	}
	return v
}

func (m *mockEmbeddingService) Dimensions() int   { return m.dims }
func (m *mockEmbeddingService) ModelName() string { return "mock-embedding" }
func (m *mockEmbeddingService) Close() error      { return nil }

// mockCorpusLoader implements driven.CorpusLoader for testing.
type mockCorpusLoader struct {
	records []domain.SourceRecord
	err     error
	paths   []string
}

func (m *mockCorpusLoader) Load(_ context.Context, path string) ([]domain.SourceRecord, error) {
	m.paths = append(m.paths, path)
	if m.err != nil {
		return nil, m.err
	}
	return m.records, nil
}

// mockChatModel implements driven.ChatModel for testing.
// It replays scripted decisions in order.
type mockChatModel struct {
	decisions []domain.Decision
	err       error
	calls     [][]domain.Message
	tools     [][]domain.ToolDefinition
}

func (m *mockChatModel) Decide(
	_ context.Context, messages []domain.Message, tools []domain.ToolDefinition,
) (domain.Decision, error) {
	snapshot := append([]domain.Message(nil), messages...)
	m.calls = append(m.calls, snapshot)
	m.tools = append(m.tools, tools)
	if m.err != nil {
		return domain.Decision{}, m.err
	}
	if len(m.decisions) == 0 {
		return domain.Decision{FinalAnswer: "sin respuesta"}, nil
	}
	d := m.decisions[0]
	if len(m.decisions) > 1 {
		m.decisions = m.decisions[1:]
	}
	return d, nil
}

func (m *mockChatModel) ModelName() string { return "mock-chat" }
func (m *mockChatModel) Close() error      { return nil }

// mockPromptStore implements driven.PromptStore for testing.
type mockPromptStore struct {
	prompts map[string]string
	err     error
}

func (m *mockPromptStore) Load(name string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	return m.prompts[name], nil
}

func (m *mockPromptStore) Reload() {}

// mockConfigStore implements driven.ConfigStore in memory for testing.
type mockConfigStore struct {
	mu     sync.RWMutex
	values map[string]any
}

func newMockConfigStore() *mockConfigStore {
	return &mockConfigStore{values: make(map[string]any)}
}

func (m *mockConfigStore) Get(key string) (any, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	val, ok := m.values[key]
	return val, ok
}

func (m *mockConfigStore) GetString(key string) string {
	val, _ := m.Get(key)
	str, _ := val.(string)
	return str
}

func (m *mockConfigStore) GetInt(key string) int {
	val, _ := m.Get(key)
	switch v := val.(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}

func (m *mockConfigStore) GetFloat(key string) float64 {
	val, _ := m.Get(key)
	switch v := val.(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	default:
		return 0
	}
}

func (m *mockConfigStore) Set(key string, value any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *mockConfigStore) Load() error  { return nil }
func (m *mockConfigStore) Path() string { return ":memory:" }
