package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/Skotchmaster/meat_shop/internal/models"
)

// ErrCategoryInUse is returned with the number of referencing products.
var ErrCategoryInUse = errors.New("category in use")

func (r *GormRepo) ListCategories(ctx context.Context) ([]models.Category, error) {
	var items []models.Category
	if err := r.DB.WithContext(ctx).Order("id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) GetCategory(ctx context.Context, id uint) (*models.Category, error) {
	var c models.Category
	if err := r.DB.WithContext(ctx).First(&c, id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *GormRepo) CategoryValueExists(ctx context.Context, value string) (bool, error) {
	var n int64
	if err := r.DB.WithContext(ctx).Model(&models.Category{}).Where("value = ?", value).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *GormRepo) CreateCategory(ctx context.Context, c *models.Category) error {
	return r.DB.WithContext(ctx).Create(c).Error
}

// UpsertCategory creates the category unless one with the same value exists.
func (r *GormRepo) UpsertCategory(ctx context.Context, c *models.Category) error {
	return r.DB.WithContext(ctx).Where("value = ?", c.Value).FirstOrCreate(c).Error
}

// DeleteCategoryIfUnused deletes the category when no product row references it.
// On refusal it returns the reference count and ErrCategoryInUse.
func (r *GormRepo) DeleteCategoryIfUnused(ctx context.Context, id uint) (int64, error) {
	var used int64
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Product{}).Where("category_id = ?", id).Count(&used).Error; err != nil {
			return err
		}
		if used > 0 {
			return ErrCategoryInUse
		}
		res := tx.Delete(&models.Category{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	return used, err
}
