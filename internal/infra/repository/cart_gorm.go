package repository

import (
	"context"

	"ec-checkout/internal/domain/model"
	repo "ec-checkout/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CartItemGormRepository struct {
	db *gorm.DB
}

// DI
func NewCartItemGormRepository(db *gorm.DB) *CartItemGormRepository {
	return &CartItemGormRepository{db: db}
}

var _ repo.CartItemRepository = (*CartItemGormRepository)(nil)

// ユーザーのカート明細を一覧取得
func (r *CartItemGormRepository) ListByUserID(ctx context.Context, userID int64) ([]model.CartItem, error) {
	var items []model.CartItem

	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("added_at asc").
		Order("product_id asc").
		Find(&items).Error; err != nil {
		return []model.CartItem{}, err
	}
	return items, nil
}

// 無ければ作成、あれば既存をそのまま返す。
// 同時INSERTは ON CONFLICT DO NOTHING で1行にまとまる。
func (r *CartItemGormRepository) InsertIfAbsent(ctx context.Context, item model.CartItem) (model.CartItem, bool, error) {
	db := r.db.WithContext(ctx)

	res := db.
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "product_id"}},
			DoNothing: true,
		}).
		Create(&item)
	if res.Error != nil {
		return model.CartItem{}, false, translateError(res.Error)
	}
	if res.RowsAffected == 1 {
		return item, true, nil
	}

	//既存あり
	var existing model.CartItem
	err := db.
		Where("user_id = ? AND product_id = ?", item.UserID, item.ProductID).
		First(&existing).Error
	if err != nil {
		return model.CartItem{}, false, translateError(err)
	}
	return existing, false, nil
}

// SELECT ... FOR UPDATE で明細を取得
func (r *CartItemGormRepository) FindForUpdate(ctx context.Context, userID int64, productID int64) (model.CartItem, error) {
	var item model.CartItem

	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ? AND product_id = ?", userID, productID).
		First(&item).Error
	if err != nil {
		return model.CartItem{}, translateError(err)
	}
	return item, nil
}

// 明細の数量と金額を更新
func (r *CartItemGormRepository) Update(ctx context.Context, item model.CartItem) error {
	res := r.db.WithContext(ctx).
		Model(&model.CartItem{}).
		Where("user_id = ? AND product_id = ?", item.UserID, item.ProductID).
		Updates(map[string]interface{}{
			"quantity":   item.Quantity,
			"price":      item.LineTotal,
			"updated_at": item.UpdatedAt,
		})

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// 明細を削除
func (r *CartItemGormRepository) Delete(ctx context.Context, userID int64, productID int64) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&model.CartItem{})

	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// 指定した商品の明細だけ削除（注文確定時）
func (r *CartItemGormRepository) DeleteProducts(ctx context.Context, userID int64, productIDs []int64) (int64, error) {
	if len(productIDs) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND product_id IN ?", userID, productIDs).
		Delete(&model.CartItem{})

	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

// ユーザーの明細を全削除
func (r *CartItemGormRepository) DeleteAllByUserID(ctx context.Context, userID int64) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&model.CartItem{})

	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
