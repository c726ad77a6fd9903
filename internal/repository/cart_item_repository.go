package repository

import (
	"context"

	"ec-checkout/internal/domain/model"
)

// カート明細。キーは(user_id, product_id)。
type CartItemRepository interface {
	ListByUserID(ctx context.Context, userID int64) ([]model.CartItem, error)

	// 既存があれば作らずにそれを返す（created=false）。
	InsertIfAbsent(ctx context.Context, item model.CartItem) (stored model.CartItem, created bool, err error)

	// 行ロック付きで取得。無ければ ErrNotFound。
	FindForUpdate(ctx context.Context, userID int64, productID int64) (model.CartItem, error)

	// quantity / price / updated_at を更新
	Update(ctx context.Context, item model.CartItem) error

	Delete(ctx context.Context, userID int64, productID int64) (deleted bool, err error)
	DeleteProducts(ctx context.Context, userID int64, productIDs []int64) (int64, error)
	DeleteAllByUserID(ctx context.Context, userID int64) (int64, error)
}
