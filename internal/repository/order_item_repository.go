package repository

import (
	"context"

	"ec-checkout/internal/domain/model"
)

type OrderItemRepository interface {
	// 1行ずつ作成してIDを返す
	Create(ctx context.Context, item model.OrderItem) (int64, error)
	ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderItem, error)
}
