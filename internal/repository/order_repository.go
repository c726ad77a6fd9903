package repository

import (
	"context"

	"ec-checkout/internal/domain/model"
)

type OrderRepository interface {
	// 作成したIDを返す。idempotency_keyの重複は ErrConflict。
	Create(ctx context.Context, order model.Order) (int64, error)
	FindByID(ctx context.Context, orderID int64) (model.Order, error)

	//検索（同じキーなら同じ結果を返す）
	FindByIdempotencyKey(ctx context.Context, userID int64, key string) (model.Order, bool, error)
}
