package handler

import (
	"context"

	"ec-checkout/internal/domain/model"
	"ec-checkout/internal/usecase"
)

// handlerが使うusecaseの窓口（テストではmockに差し替える）

type PriceService interface {
	GetPrice(ctx context.Context, productID int64) (usecase.PriceResult, error)
}

type CartService interface {
	GetCart(ctx context.Context, username string) ([]model.CartItem, error)
	AddItem(ctx context.Context, username string, productID int64, quantity int64) (usecase.AddResult, error)
	UpdateQuantity(ctx context.Context, username string, productID int64, delta int64) (usecase.UpdateResult, error)
	RemoveItem(ctx context.Context, username string, productID int64) (usecase.RemoveResult, error)
	Clear(ctx context.Context, username string) (bool, error)
}

type OrderService interface {
	CreateOrder(ctx context.Context, username string, in usecase.CreateOrderInput) (usecase.CheckoutResult, error)
	GetOrderForUser(ctx context.Context, username string, rawOrderID string) (usecase.OrderDetail, error)
}

var (
	_ PriceService = (*usecase.PriceUsecase)(nil)
	_ CartService  = (*usecase.CartUsecase)(nil)
	_ OrderService = (*usecase.OrderUsecase)(nil)
)
