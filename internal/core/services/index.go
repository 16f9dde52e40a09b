package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/custodia-labs/kbrag/internal/core/domain"
	"github.com/custodia-labs/kbrag/internal/core/ports/driven"
	"github.com/custodia-labs/kbrag/internal/logger"
)

// IndexManager makes sure the configured vector index exists before use.
type IndexManager struct {
	store        driven.VectorStore
	spec         domain.IndexSpec
	pollInterval time.Duration
}

// NewIndexManager creates an index manager for the configured index.
func NewIndexManager(store driven.VectorStore, settings domain.IndexSettings) *IndexManager {
	interval := settings.ReadyPollInterval
	if interval <= 0 {
		interval = domain.DefaultAppSettings().Index.ReadyPollInterval
	}
	return &IndexManager{
		store:        store,
		spec:         settings.Spec,
		pollInterval: interval,
	}
}

// Spec returns the managed index spec.
func (m *IndexManager) Spec() domain.IndexSpec {
	return m.spec
}

// EnsureIndex creates the index if it does not exist and waits until it is
// ready. An existing index is reused only if its dimension matches.
// Returns true if the index was created by this call.
func (m *IndexManager) EnsureIndex(ctx context.Context) (bool, error) {
	logger.Section("Index")

	names, err := m.store.ListIndexes(ctx)
	if err != nil {
		return false, fmt.Errorf("list indexes: %w", err)
	}

	if slices.Contains(names, m.spec.Name) {
		logger.Info("Index %q already exists", m.spec.Name)
		desc, err := m.store.DescribeIndex(ctx, m.spec.Name)
		if err != nil {
			return false, fmt.Errorf("describe index %q: %w", m.spec.Name, err)
		}
		if desc.Dimension != m.spec.Dimension {
			return false, fmt.Errorf("%w: index %q has dimension %d, expected %d",
				domain.ErrDimensionMismatch, m.spec.Name, desc.Dimension, m.spec.Dimension)
		}
		if desc.Ready {
			return false, nil
		}
		return false, m.waitReady(ctx)
	}

	logger.Info("Creating index %q (dimension=%d, metric=%s, %s/%s)",
		m.spec.Name, m.spec.Dimension, m.spec.Metric, m.spec.Cloud, m.spec.Region)
	if err := m.store.CreateIndex(ctx, m.spec); err != nil {
		return false, fmt.Errorf("create index %q: %w", m.spec.Name, err)
	}

	if err := m.waitReady(ctx); err != nil {
		return true, err
	}
	return true, nil
}

// waitReady polls the index description until it reports ready.
// Only ctx bounds the wait.
func (m *IndexManager) waitReady(ctx context.Context) error {
	for {
		desc, err := m.store.DescribeIndex(ctx, m.spec.Name)
		switch {
		case err == nil && desc.Ready:
			logger.Info("Index %q is ready", m.spec.Name)
			return nil
		case err != nil && !errors.Is(err, domain.ErrNotFound):
			return fmt.Errorf("describe index %q: %w", m.spec.Name, err)
		}

		logger.Debug("Index %q not ready, waiting %s", m.spec.Name, m.pollInterval)
		select {
		case <-ctx.Done():
			return fmt.Errorf("wait for index %q: %w", m.spec.Name, ctx.Err())
		case <-time.After(m.pollInterval):
		}
	}
}
