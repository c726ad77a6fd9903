package repository

import (
	"context"
	"errors"

	"ec-checkout/internal/domain/model"
	repo "ec-checkout/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ProductGormRepository struct {
	db *gorm.DB
}

// DI
func NewProductGormRepository(db *gorm.DB) *ProductGormRepository {
	return &ProductGormRepository{db: db}
}

var _ repo.ProductRepository = (*ProductGormRepository)(nil)

// IDで現在の単価を取得（削除済みは「無い」扱い）
func (r *ProductGormRepository) FindPrice(ctx context.Context, productID int64) (decimal.Decimal, bool, error) {
	var p model.Product
	err := r.db.WithContext(ctx).
		Select("id", "price").
		Where("id = ?", productID).
		First(&p).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return decimal.Zero, false, nil
	}
	if err != nil {
		return decimal.Zero, false, err
	}
	return p.Price, true, nil
}
