// Package pinecone provides a VectorStore adapter built on the Pinecone Go SDK.
//
// Index management goes through the SDK control plane client. Upserts and
// queries go through an index connection to the per-index data plane host,
// which is resolved once with DescribeIndex and cached.
package pinecone

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/pinecone-io/go-pinecone/v3/pinecone"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/custodia-labs/kbrag/internal/core/domain"
	"github.com/custodia-labs/kbrag/internal/core/ports/driven"
	"github.com/custodia-labs/kbrag/internal/logger"
)

// Ensure Client implements the interface.
var _ driven.VectorStore = (*Client)(nil)

// DefaultTimeout bounds control plane requests.
const DefaultTimeout = 30 * time.Second

// Config holds configuration for the Pinecone client.
type Config struct {
	// APIKey is the Pinecone API key (required).
	APIKey string

	// ControllerURL overrides the control plane URL.
	ControllerURL string

	// Timeout is the control plane request timeout (default: 30s).
	Timeout time.Duration
}

// controlPlane is the part of the SDK client used for index management.
type controlPlane interface {
	ListIndexes(ctx context.Context) ([]*pinecone.Index, error)
	DescribeIndex(ctx context.Context, name string) (*pinecone.Index, error)
	CreateServerlessIndex(ctx context.Context, in *pinecone.CreateServerlessIndexRequest) (*pinecone.Index, error)
}

// dataPlane is the part of an index connection used for vectors.
type dataPlane interface {
	UpsertVectors(ctx context.Context, in []*pinecone.Vector) (uint32, error)
	QueryByVectorValues(ctx context.Context, in *pinecone.QueryByVectorValuesRequest) (*pinecone.QueryVectorsResponse, error)
	Close() error
}

// connectFunc opens a data plane connection to an index host.
type connectFunc func(host string) (dataPlane, error)

// Client talks to Pinecone's control and data planes.
type Client struct {
	control controlPlane
	connect connectFunc

	mu    sync.Mutex
	hosts map[string]string
	conns map[string]dataPlane
}

// New creates a new Pinecone client.
func New(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("pinecone: %w", domain.ErrMissingAPIKey)
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	pc, err := pinecone.NewClient(pinecone.NewClientParams{
		ApiKey:     cfg.APIKey,
		Host:       cfg.ControllerURL,
		RestClient: &http.Client{Timeout: cfg.Timeout},
		SourceTag:  "kbrag",
	})
	if err != nil {
		return nil, fmt.Errorf("pinecone: %w", err)
	}

	return newClient(pc, func(host string) (dataPlane, error) {
		conn, err := pc.Index(pinecone.NewIndexConnParams{Host: host})
		if err != nil {
			return nil, err
		}
		return conn, nil
	}), nil
}

func newClient(control controlPlane, connect connectFunc) *Client {
	return &Client{
		control: control,
		connect: connect,
		hosts:   make(map[string]string),
		conns:   make(map[string]dataPlane),
	}
}

// ListIndexes returns the names of all indexes in the project.
func (c *Client) ListIndexes(ctx context.Context) ([]string, error) {
	indexes, err := c.control.ListIndexes(ctx)
	if err != nil {
		return nil, fmt.Errorf("list indexes: %w", mapError(err))
	}
	names := make([]string, 0, len(indexes))
	for _, idx := range indexes {
		if idx == nil {
			continue
		}
		names = append(names, idx.Name)
		c.setHost(idx.Name, idx.Host)
	}
	return names, nil
}

// DescribeIndex returns the index description and caches its host.
func (c *Client) DescribeIndex(ctx context.Context, name string) (*domain.IndexDescription, error) {
	idx, err := c.control.DescribeIndex(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("describe index %s: %w", name, mapError(err))
	}
	c.setHost(name, idx.Host)
	return toDescription(idx), nil
}

// CreateIndex creates a serverless index. An index that already exists
// is not an error.
func (c *Client) CreateIndex(ctx context.Context, spec domain.IndexSpec) error {
	metric := pinecone.IndexMetric(spec.Metric)
	dimension := int32(spec.Dimension)

	idx, err := c.control.CreateServerlessIndex(ctx, &pinecone.CreateServerlessIndexRequest{
		Name:      spec.Name,
		Cloud:     pinecone.Cloud(spec.Cloud),
		Region:    spec.Region,
		Metric:    &metric,
		Dimension: &dimension,
	})
	if err != nil {
		if statusCode(err) == http.StatusConflict {
			logger.Debug("Index %s already exists", spec.Name)
			return nil
		}
		return fmt.Errorf("create index %s: %w", spec.Name, mapError(err))
	}
	if idx != nil {
		c.setHost(spec.Name, idx.Host)
	}
	return nil
}

// Upsert writes vectors into the named index.
func (c *Client) Upsert(ctx context.Context, index string, vectors []domain.IndexedVector) (int, error) {
	if len(vectors) == 0 {
		return 0, nil
	}
	conn, err := c.conn(ctx, index)
	if err != nil {
		return 0, err
	}

	batch := make([]*pinecone.Vector, len(vectors))
	for i, v := range vectors {
		meta, err := structpb.NewStruct(v.Metadata)
		if err != nil {
			return 0, fmt.Errorf("vector %s metadata: %w", v.ID, err)
		}
		values := v.Values
		batch[i] = &pinecone.Vector{Id: v.ID, Values: &values, Metadata: meta}
	}

	n, err := conn.UpsertVectors(ctx, batch)
	if err != nil {
		return 0, fmt.Errorf("upsert into %s: %w", index, err)
	}
	return int(n), nil
}

// Query returns the k nearest chunks to the query vector, best first.
// The chunk text is read from the "text" metadata key.
func (c *Client) Query(ctx context.Context, index string, values []float32, k int) ([]domain.RetrievedChunk, error) {
	conn, err := c.conn(ctx, index)
	if err != nil {
		return nil, err
	}

	resp, err := conn.QueryByVectorValues(ctx, &pinecone.QueryByVectorValuesRequest{
		Vector:          values,
		TopK:            uint32(k),
		IncludeMetadata: true,
	})
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", index, err)
	}

	results := make([]domain.RetrievedChunk, 0, len(resp.Matches))
	for _, m := range resp.Matches {
		if m == nil || m.Vector == nil {
			continue
		}
		logger.Debug("Match %s score=%.4f", m.Vector.Id, m.Score)

		var fields map[string]any
		if m.Vector.Metadata != nil {
			fields = m.Vector.Metadata.AsMap()
		}
		text, _ := fields[domain.MetaText].(string)
		meta := make(map[string]any, len(fields))
		for key, val := range fields {
			if key != domain.MetaText {
				meta[key] = val
			}
		}
		results = append(results, domain.RetrievedChunk{Text: text, Metadata: meta})
	}
	return results, nil
}

// Close closes every open index connection.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var errs []error
	for name, conn := range c.conns {
		if err := conn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s: %w", name, err))
		}
		delete(c.conns, name)
	}
	return errors.Join(errs...)
}

// conn returns the cached data plane connection for an index, resolving
// its host first when unknown.
func (c *Client) conn(ctx context.Context, index string) (dataPlane, error) {
	c.mu.Lock()
	conn, ok := c.conns[index]
	host := c.hosts[index]
	c.mu.Unlock()
	if ok {
		return conn, nil
	}

	if host == "" {
		if _, err := c.DescribeIndex(ctx, index); err != nil {
			return nil, err
		}
		c.mu.Lock()
		host = c.hosts[index]
		c.mu.Unlock()
		if host == "" {
			return nil, fmt.Errorf("pinecone: index %s has no host yet", index)
		}
	}

	conn, err := c.connect(host)
	if err != nil {
		return nil, fmt.Errorf("connect to index %s: %w", index, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.conns[index]; ok {
		_ = conn.Close()
		return existing, nil
	}
	c.conns[index] = conn
	return conn, nil
}

func (c *Client) setHost(index, host string) {
	if host == "" {
		return
	}
	c.mu.Lock()
	c.hosts[index] = host
	c.mu.Unlock()
}

func toDescription(idx *pinecone.Index) *domain.IndexDescription {
	desc := &domain.IndexDescription{
		Name:   idx.Name,
		Host:   idx.Host,
		Metric: string(idx.Metric),
	}
	if idx.Dimension != nil {
		desc.Dimension = int(*idx.Dimension)
	}
	if idx.Status != nil {
		desc.Ready = idx.Status.Ready
	}
	return desc
}

// statusCode returns the HTTP status of a control plane error, or 0.
func statusCode(err error) int {
	var pe *pinecone.PineconeError
	if errors.As(err, &pe) {
		return pe.Code
	}
	return 0
}

// mapError turns a 404 into domain.ErrNotFound.
func mapError(err error) error {
	if statusCode(err) == http.StatusNotFound {
		return fmt.Errorf("pinecone: %w", domain.ErrNotFound)
	}
	return err
}
