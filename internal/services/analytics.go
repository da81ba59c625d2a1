package services

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"sales-dashboard/internal/cache"
	"sales-dashboard/internal/dataset"
	"sales-dashboard/internal/models"
	"sales-dashboard/internal/observability"
)

const (
	defaultMemoSize = 128
	defaultMemoTTL  = 5 * time.Minute
)

// Analytics holds the loaded transactions and serves filtered aggregates.
// Results are memoised per normalised filter; the memo is dropped whenever
// the dataset changes.
type Analytics struct {
	mu         sync.RWMutex
	records    []models.Transaction
	categories []string
	source     string
	loadedAt   time.Time

	memo         *cache.LRU[models.Filter, *Aggregates]
	computations atomic.Int64
	logger       *slog.Logger
}

type Option func(*Analytics)

// WithMemo sets the size and TTL of the result memo.
func WithMemo(size int, ttl time.Duration) Option {
	return func(a *Analytics) {
		a.memo = cache.NewLRU[models.Filter, *Aggregates](size, ttl)
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(a *Analytics) {
		a.logger = logger
	}
}

func NewAnalytics(opts ...Option) *Analytics {
	a := &Analytics{
		categories: ListCategories(nil),
		memo:       cache.NewLRU[models.Filter, *Aggregates](defaultMemoSize, defaultMemoTTL),
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// SetData replaces the dataset. The slice is copied.
func (a *Analytics) SetData(data []models.Transaction) {
	a.setData(data, "memory")
}

func (a *Analytics) setData(data []models.Transaction, source string) {
	records := slices.Clone(data)
	categories := ListCategories(records)

	a.mu.Lock()
	a.records = records
	a.categories = categories
	a.source = source
	a.loadedAt = time.Now()
	a.memo.Purge()
	a.mu.Unlock()
}

// LoadFromFile loads and validates the dataset at path. An empty path
// selects the embedded sample dataset.
func (a *Analytics) LoadFromFile(ctx context.Context, path string) error {
	start := time.Now()

	records, err := dataset.Load(ctx, path)
	if err != nil {
		return fmt.Errorf("load dataset: %w", err)
	}

	source := path
	if source == "" {
		source = "embedded"
	}
	a.setData(records, source)

	a.logger.Info("dataset loaded",
		"source", source,
		"records", len(records),
		"duration", time.Since(start),
	)
	return nil
}

// NormalizeFilter maps an empty category to AllCategories and trims the
// search text. Filters that normalise equally produce equal aggregates.
func NormalizeFilter(f models.Filter) models.Filter {
	f.Category = strings.TrimSpace(f.Category)
	if f.Category == "" {
		f.Category = AllCategories
	}
	f.Search = strings.TrimSpace(f.Search)
	return f
}

// Compute returns the aggregates for f. The returned value is shared with
// the memo and must not be modified.
func (a *Analytics) Compute(ctx context.Context, f models.Filter) *Aggregates {
	f = NormalizeFilter(f)

	if cached, ok := a.memo.Get(f); ok {
		return cached
	}

	_, span := observability.StartSpan(ctx, "analytics.compute")
	defer span.Finish()
	span.SetTag("category", f.Category)

	// The memo is written under the read lock so SetData cannot purge it
	// between the computation and the store.
	a.mu.RLock()
	result := ComputeAggregates(a.records, f.Category, f.Search)
	a.memo.Set(f, result)
	a.mu.RUnlock()

	a.computations.Add(1)

	a.logger.DebugContext(ctx, "aggregates computed",
		"category", f.Category,
		"search", f.Search,
		"matched", len(result.Records),
		"duration", time.Since(span.StartTime),
	)
	return result
}

func (a *Analytics) Categories() []string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return slices.Clone(a.categories)
}

// HasCategory reports whether category is AllCategories or occurs in the
// dataset.
func (a *Analytics) HasCategory(category string) bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return slices.Contains(a.categories, category)
}

func (a *Analytics) RecordCount() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.records)
}

// Stats reports dataset and memo figures for the admin endpoint.
func (a *Analytics) Stats() map[string]any {
	a.mu.RLock()
	stats := map[string]any{
		"record_count": len(a.records),
		"categories":   len(a.categories) - 1,
		"source":       a.source,
		"loaded_at":    a.loadedAt,
	}
	a.mu.RUnlock()

	stats["computations"] = a.computations.Load()
	stats["memo"] = a.memo.Stats()
	return stats
}
