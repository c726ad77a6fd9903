package usecase

import (
	"context"
	"strconv"
	"time"

	repo "ec-checkout/internal/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// まとめた問い合わせは呼び出し元のキャンセルとは切り離して走るので、別に上限を持つ。
const priceLookupTimeout = 5 * time.Second

type PriceUsecase struct {
	products repo.ProductRepository
	group    singleflight.Group
	log      *zap.Logger
}

// DI
func NewPriceUsecase(products repo.ProductRepository, log *zap.Logger) *PriceUsecase {
	return &PriceUsecase{products: products, log: log}
}

type PriceResult struct {
	ProductID int64           `json:"product_id"`
	Price     decimal.Decimal `json:"price"`
	Found     bool            `json:"found"`
}

type priceLookup struct {
	price decimal.Decimal
	found bool
}

// GetPrice は現在の単価を返す。商品が無いときはFound=false（エラーではない）。
// 同じ商品への同時問い合わせは1回のDBアクセスにまとめる（結果は保持しない）。
func (u *PriceUsecase) GetPrice(ctx context.Context, productID int64) (PriceResult, error) {
	if productID <= 0 {
		return PriceResult{}, validationError("invalid product_id")
	}

	ch := u.group.DoChan(strconv.FormatInt(productID, 10), func() (interface{}, error) {
		lookupCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), priceLookupTimeout)
		defer cancel()

		price, found, err := u.products.FindPrice(lookupCtx, productID)
		if err != nil {
			return nil, err
		}
		return priceLookup{price: price, found: found}, nil
	})

	//待つのをやめるのは自分だけ。他の呼び出し元は結果を受け取れる
	var v interface{}
	select {
	case <-ctx.Done():
		return PriceResult{}, storeError(u.log, "get_price", ctx.Err())
	case r := <-ch:
		if r.Err != nil {
			return PriceResult{}, storeError(u.log, "get_price", r.Err)
		}
		v = r.Val
	}

	p := v.(priceLookup)
	return PriceResult{ProductID: productID, Price: p.price, Found: p.found}, nil
}
