package repo

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/meat_shop/internal/models"
)

type ProductUpdate struct {
	Label        string
	PricePerUnit decimal.Decimal
	CategoryID   uint
	Unit         models.Unit
	IsActive     *bool
}

func (r *GormRepo) ListActiveProducts(ctx context.Context) ([]models.Product, error) {
	var items []models.Product
	if err := r.DB.WithContext(ctx).
		Preload("Category").
		Where("is_active = ?", true).
		Order("category_id ASC").Order("id ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	if err := r.DB.WithContext(ctx).Preload("Category").First(&product, id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *GormRepo) CreateProduct(ctx context.Context, prod *models.Product) (*models.Product, error) {
	if err := r.DB.WithContext(ctx).Omit(clause.Associations).Create(prod).Error; err != nil {
		return nil, err
	}
	return r.GetProduct(ctx, prod.ID)
}

func (r *GormRepo) UpdateProduct(ctx context.Context, id uint, upd ProductUpdate) (*models.Product, error) {
	var prod models.Product
	if err := r.DB.WithContext(ctx).First(&prod, id).Error; err != nil {
		return nil, err
	}

	prod.Label = upd.Label
	prod.Name = upd.Label
	prod.PricePerUnit = upd.PricePerUnit
	prod.CategoryID = upd.CategoryID
	prod.Unit = upd.Unit
	if upd.IsActive != nil {
		prod.IsActive = *upd.IsActive
	}

	if err := r.DB.WithContext(ctx).Omit(clause.Associations).Save(&prod).Error; err != nil {
		return nil, err
	}
	return r.GetProduct(ctx, id)
}

// SoftDeleteProduct flips is_active off; the row stays.
func (r *GormRepo) SoftDeleteProduct(ctx context.Context, id uint) error {
	res := r.DB.WithContext(ctx).Model(&models.Product{}).Where("id = ?", id).Update("is_active", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormRepo) CountProductsByCategory(ctx context.Context, categoryID uint) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.Product{}).Where("category_id = ?", categoryID).Count(&n).Error
	return n, err
}

func (r *GormRepo) SearchProducts(ctx context.Context, q string, offset, limit int) (int64, []models.Product, error) {
	pattern := "%" + strings.ToLower(strings.TrimSpace(q)) + "%"
	where := r.DB.WithContext(ctx).
		Model(&models.Product{}).
		Where("is_active = ?", true).
		Where("LOWER(label) LIKE ?", pattern)

	var total int64
	if err := where.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return 0, nil, err
	}

	items := make([]models.Product, 0, limit)
	if err := where.Session(&gorm.Session{}).
		Preload("Category").
		Order("id ASC").
		Offset(offset).Limit(limit).
		Find(&items).Error; err != nil {
		return 0, nil, err
	}
	return total, items, nil
}
