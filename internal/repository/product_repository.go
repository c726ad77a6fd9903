package repository

import (
	"context"

	"github.com/shopspring/decimal"
)

// 商品カタログのうち、価格参照だけを約束。
type ProductRepository interface {
	// 現在の単価を返す。商品が無ければ found=false（エラーではない）。
	FindPrice(ctx context.Context, productID int64) (price decimal.Decimal, found bool, err error)
}
