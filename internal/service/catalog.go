package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"

	"github.com/Skotchmaster/meat_shop/internal/cache"
	"github.com/Skotchmaster/meat_shop/internal/events"
	"github.com/Skotchmaster/meat_shop/internal/logging"
	"github.com/Skotchmaster/meat_shop/internal/models"
	"github.com/Skotchmaster/meat_shop/internal/repo"
	"github.com/Skotchmaster/meat_shop/internal/search"
	"github.com/Skotchmaster/meat_shop/internal/transport"
)

type CatalogService struct {
	Repo     *repo.GormRepo
	Cache    cache.ProductCache
	Indexer  search.Indexer
	Events   events.Publisher
	Validate *validator.Validate
}

// NewCatalogService fills unset collaborators with no-op implementations.
func NewCatalogService(r *repo.GormRepo, c cache.ProductCache, idx search.Indexer, pub events.Publisher) *CatalogService {
	if c == nil {
		c = cache.NewMemory(0)
	}
	if idx == nil {
		idx = search.NopIndexer{}
	}
	if pub == nil {
		pub = events.Nop{}
	}
	return &CatalogService{Repo: r, Cache: c, Indexer: idx, Events: pub, Validate: NewValidator()}
}

func (s *CatalogService) ListProducts(ctx context.Context) ([]models.Product, error) {
	l := logging.FromContext(ctx).With("svc", "catalog.list_products")

	items, err := s.Cache.Get(ctx)
	if err == nil {
		return items, nil
	}
	if !errors.Is(err, cache.ErrMiss) {
		l.Warn("product_cache_get_failed", "error", err)
	}

	items, err = s.Repo.ListActiveProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	if err := s.Cache.Set(ctx, items); err != nil {
		l.Warn("product_cache_set_failed", "error", err)
	}
	return items, nil
}

func (s *CatalogService) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	p, err := s.Repo.GetProduct(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("Product")
		}
		return nil, err
	}
	if !p.IsActive {
		return nil, notFound("Product")
	}
	return p, nil
}

func (s *CatalogService) CreateProduct(ctx context.Context, req transport.ProductRequest) (*models.Product, error) {
	if err := s.validateProduct(&req); err != nil {
		return nil, err
	}
	cat, err := s.category(ctx, req.CategoryID)
	if err != nil {
		return nil, err
	}

	p, err := s.Repo.CreateProduct(ctx, &models.Product{
		Label:        req.Label,
		Name:         req.Label,
		PricePerUnit: req.PricePerUnit.Round(2),
		Unit:         cat.Unit,
		CategoryID:   cat.ID,
		IsActive:     true,
	})
	if err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}

	s.afterWrite(ctx, events.ProductCreated, p)
	return p, nil
}

func (s *CatalogService) UpdateProduct(ctx context.Context, id uint, req transport.ProductRequest) (*models.Product, error) {
	if err := s.validateProduct(&req); err != nil {
		return nil, err
	}
	cat, err := s.category(ctx, req.CategoryID)
	if err != nil {
		return nil, err
	}

	p, err := s.Repo.UpdateProduct(ctx, id, repo.ProductUpdate{
		Label:        req.Label,
		PricePerUnit: req.PricePerUnit.Round(2),
		CategoryID:   cat.ID,
		Unit:         cat.Unit,
		IsActive:     req.IsActive,
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("Product")
		}
		return nil, fmt.Errorf("update product: %w", err)
	}

	s.afterWrite(ctx, events.ProductUpdated, p)
	return p, nil
}

// DeleteProduct is a soft delete.
func (s *CatalogService) DeleteProduct(ctx context.Context, id uint) error {
	if err := s.Repo.SoftDeleteProduct(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound("Product")
		}
		return fmt.Errorf("delete product: %w", err)
	}

	l := logging.FromContext(ctx).With("svc", "catalog.delete_product", "product_id", id)
	if err := s.Cache.Invalidate(ctx); err != nil {
		l.Warn("product_cache_invalidate_failed", "error", err)
	}
	if err := s.Indexer.RemoveProduct(ctx, id); err != nil {
		l.Warn("product_unindex_failed", "error", err)
	}
	ev := events.New(events.ProductDeleted, id, nil)
	if err := s.Events.PublishEvent(ctx, ev.Key(), ev); err != nil {
		l.Warn("product_event_failed", "error", err)
	}
	return nil
}

func (s *CatalogService) validateProduct(req *transport.ProductRequest) error {
	req.Label = strings.TrimSpace(req.Label)
	err := s.Validate.Struct(req)
	if err == nil {
		return nil
	}
	field, tag, ok := firstInvalid(err)
	if !ok {
		return fmt.Errorf("validate product: %w", err)
	}
	switch {
	case field == "Label" && tag == "max":
		return invalid("Product name is too long")
	case field == "Label":
		return invalid("Product name is required")
	case field == "PricePerUnit":
		return invalid("Valid price is required")
	default:
		return invalid("Category is required")
	}
}

func (s *CatalogService) category(ctx context.Context, id uint) (*models.Category, error) {
	c, err := s.Repo.GetCategory(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("Category")
		}
		return nil, fmt.Errorf("get category: %w", err)
	}
	return c, nil
}

// afterWrite drops the cached list and fans the change out to the index and
// the event stream. Failures there never fail the write.
func (s *CatalogService) afterWrite(ctx context.Context, typ string, p *models.Product) {
	l := logging.FromContext(ctx).With("svc", "catalog."+typ, "product_id", p.ID)

	if err := s.Cache.Invalidate(ctx); err != nil {
		l.Warn("product_cache_invalidate_failed", "error", err)
	}

	var err error
	if p.IsActive {
		err = s.Indexer.IndexProduct(ctx, *p)
	} else {
		err = s.Indexer.RemoveProduct(ctx, p.ID)
	}
	if err != nil {
		l.Warn("product_index_failed", "error", err)
	}

	ev := events.New(typ, p.ID, p)
	if err := s.Events.PublishEvent(ctx, ev.Key(), ev); err != nil {
		l.Warn("product_event_failed", "error", err)
	}
}
