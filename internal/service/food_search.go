package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pageza/dietplan/backend/internal/models"
)

// sourceResult is the settled outcome of one source
type sourceResult struct {
	source models.Source
	items  []models.FoodItem
	err    error
}

// FoodSearchService merges results from every food source into one ranked list
type FoodSearchService struct {
	stored []FoodSource
	remote FoodSource
	log    *zap.Logger
}

// NewFoodSearchService creates a FoodSearchService. The stored sources are
// queried concurrently; remote may be nil.
func NewFoodSearchService(log *zap.Logger, remote FoodSource, stored ...FoodSource) *FoodSearchService {
	if log == nil {
		log = zap.NewNop()
	}
	return &FoodSearchService{
		stored: stored,
		remote: remote,
		log:    log,
	}
}

// Search returns at most limit items matching term. It never fails: a source
// that errors contributes nothing and is logged.
func (s *FoodSearchService) Search(ctx context.Context, term string, limit int) []models.FoodItem {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" || limit <= 0 {
		return []models.FoodItem{}
	}

	start := time.Now()

	results := make([]sourceResult, len(s.stored))
	var g errgroup.Group
	for i, src := range s.stored {
		g.Go(func() error {
			results[i] = s.fetch(ctx, src, term, limit)
			return nil
		})
	}
	_ = g.Wait()

	merged := make([]models.FoodItem, 0, limit)
	for _, r := range results {
		merged = s.collect(merged, r)
	}

	if s.remote != nil && len(merged) < limit {
		merged = s.collect(merged, s.fetch(ctx, s.remote, term, limit))
	}

	rankResults(merged, term)
	if len(merged) > limit {
		merged = merged[:limit]
	}

	s.log.Debug("[FoodSearch] search complete",
		zap.String("term", term),
		zap.Int("limit", limit),
		zap.Int("results", len(merged)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return merged
}

// fetch runs one source, converting a panic into an error
func (s *FoodSearchService) fetch(ctx context.Context, src FoodSource, term string, limit int) (res sourceResult) {
	res.source = src.Source()
	defer func() {
		if r := recover(); r != nil {
			res.items = nil
			res.err = fmt.Errorf("source panicked: %v", r)
		}
	}()

	res.items, res.err = src.Fetch(ctx, term, limit)
	return res
}

func (s *FoodSearchService) collect(dst []models.FoodItem, r sourceResult) []models.FoodItem {
	if r.err != nil {
		s.log.Warn("[FoodSearch] source failed",
			zap.String("source", string(r.source)),
			zap.Error(r.err),
		)
		return dst
	}
	for _, item := range r.items {
		item.Source = r.source
		dst = append(dst, item)
	}
	return dst
}

// rankResults orders items by exact name match, then prefix match, then
// alphabetically. Equal items keep their relative order.
func rankResults(items []models.FoodItem, term string) {
	rank := func(name string) int {
		switch {
		case name == term:
			return 0
		case strings.HasPrefix(name, term):
			return 1
		default:
			return 2
		}
	}

	names := make([]string, len(items))
	for i := range items {
		names[i] = strings.ToLower(strings.TrimSpace(items[i].Name))
	}

	sort.Stable(byRank{items: items, names: names, rank: rank})
}

type byRank struct {
	items []models.FoodItem
	names []string
	rank  func(string) int
}

func (b byRank) Len() int { return len(b.items) }

func (b byRank) Swap(i, j int) {
	b.items[i], b.items[j] = b.items[j], b.items[i]
	b.names[i], b.names[j] = b.names[j], b.names[i]
}

func (b byRank) Less(i, j int) bool {
	ri, rj := b.rank(b.names[i]), b.rank(b.names[j])
	if ri != rj {
		return ri < rj
	}
	return b.names[i] < b.names[j]
}
