package search

import (
	"context"
	"strings"

	"github.com/Skotchmaster/meat_shop/internal/models"
	"github.com/Skotchmaster/meat_shop/internal/util"
)

type Searcher interface {
	Search(ctx context.Context, q string, offset, limit int) (int64, []models.Product, error)
}

// Indexer keeps an external index in step with catalog writes.
type Indexer interface {
	IndexProduct(ctx context.Context, p models.Product) error
	RemoveProduct(ctx context.Context, id uint) error
}

type productFinder interface {
	SearchProducts(ctx context.Context, q string, offset, limit int) (int64, []models.Product, error)
}

// DBSearcher runs a case-insensitive LIKE over active product labels.
type DBSearcher struct {
	Repo productFinder
}

func (s *DBSearcher) Search(ctx context.Context, q string, offset, limit int) (int64, []models.Product, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return 0, []models.Product{}, nil
	}
	offset, limit = clamp(offset, limit)
	return s.Repo.SearchProducts(ctx, q, offset, limit)
}

func clamp(offset, limit int) (int, int) {
	if limit <= 0 {
		limit = util.DefaultPageSize
	}
	if limit > util.MaxPageSize {
		limit = util.MaxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return offset, limit
}

type NopIndexer struct{}

func (NopIndexer) IndexProduct(context.Context, models.Product) error { return nil }
func (NopIndexer) RemoveProduct(context.Context, uint) error          { return nil }
