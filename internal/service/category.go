package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"

	"github.com/Skotchmaster/meat_shop/internal/events"
	"github.com/Skotchmaster/meat_shop/internal/logging"
	"github.com/Skotchmaster/meat_shop/internal/models"
	"github.com/Skotchmaster/meat_shop/internal/repo"
	"github.com/Skotchmaster/meat_shop/internal/transport"
)

type CategoryService struct {
	Repo     *repo.GormRepo
	Events   events.Publisher
	Validate *validator.Validate
}

func NewCategoryService(r *repo.GormRepo, pub events.Publisher) *CategoryService {
	if pub == nil {
		pub = events.Nop{}
	}
	return &CategoryService{Repo: r, Events: pub, Validate: NewValidator()}
}

func (s *CategoryService) ListCategories(ctx context.Context) ([]models.Category, error) {
	items, err := s.Repo.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return items, nil
}

func (s *CategoryService) CreateCategory(ctx context.Context, req transport.CategoryRequest) (*models.Category, error) {
	req.Label = strings.TrimSpace(req.Label)
	req.Unit = strings.ToLower(strings.TrimSpace(req.Unit))

	if err := s.Validate.Struct(&req); err != nil {
		field, tag, ok := firstInvalid(err)
		switch {
		case !ok:
			return nil, fmt.Errorf("validate category: %w", err)
		case tag == "required":
			return nil, invalid("Label and unit are required")
		case field == "Unit":
			return nil, invalid("Invalid unit")
		default:
			return nil, invalid("Category name is too long")
		}
	}

	unit, _ := models.ParseUnit(req.Unit)
	c := &models.Category{Label: req.Label, Value: models.Slug(req.Label), Unit: unit}

	exists, err := s.Repo.CategoryValueExists(ctx, c.Value)
	if err != nil {
		return nil, fmt.Errorf("check category: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("category %q: %w", c.Value, ErrConflict)
	}

	if err := s.Repo.CreateCategory(ctx, c); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("category %q: %w", c.Value, ErrConflict)
		}
		return nil, fmt.Errorf("create category: %w", err)
	}

	s.publish(ctx, events.New(events.CategoryCreated, c.ID, c))
	return c, nil
}

// DeleteCategory refuses while any product row, active or not, references it.
func (s *CategoryService) DeleteCategory(ctx context.Context, id uint) error {
	n, err := s.Repo.DeleteCategoryIfUnused(ctx, id)
	switch {
	case errors.Is(err, repo.ErrCategoryInUse):
		return &InUseError{Count: n}
	case errors.Is(err, gorm.ErrRecordNotFound):
		return notFound("Category")
	case err != nil:
		return fmt.Errorf("delete category: %w", err)
	}

	s.publish(ctx, events.New(events.CategoryDeleted, id, nil))
	return nil
}

func (s *CategoryService) publish(ctx context.Context, ev events.Event) {
	if err := s.Events.PublishEvent(ctx, ev.Key(), ev); err != nil {
		logging.FromContext(ctx).Warn("category_event_failed", "type", ev.Type, "category_id", ev.ID, "error", err)
	}
}
