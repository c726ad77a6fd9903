package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"ec-checkout/internal/domain/model"
	repo "ec-checkout/internal/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const maxIdempotencyKeyLen = 255

type OrderUsecase struct {
	users repo.UserRepository
	tx    repo.TransactionManager
	clock Clock
	log   *zap.Logger

	// 注文確定時に購入した商品をカートから消す
	clearCart bool
}

func NewOrderUsecase(users repo.UserRepository, tx repo.TransactionManager, clock Clock, log *zap.Logger, clearCart bool) *OrderUsecase {
	return &OrderUsecase{users: users, tx: tx, clock: clock, log: log, clearCart: clearCart}
}

// SnapshotLine は呼び出し側が渡すカートのスナップショット1行。
// LineTotal は行合計（単価×数量）。カートは読み直さない。
type SnapshotLine struct {
	ProductID int64
	Quantity  int64
	LineTotal decimal.Decimal
}

type CreateOrderInput struct {
	Lines          []SnapshotLine
	IdempotencyKey string // 任意
}

type CheckoutResult struct {
	OrderID     int64           `json:"order_id"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	LineItemIDs []int64         `json:"line_item_ids"`
	Replayed    bool            `json:"replayed"` // 同じキーの既存注文を返した
}

type OrderLineOutput struct {
	ID        int64           `json:"id"`
	ProductID int64           `json:"product_id"`
	Quantity  int64           `json:"quantity"`
	LineTotal decimal.Decimal `json:"line_total"`
}

type OrderDetail struct {
	ID          int64             `json:"id"`
	UserID      int64             `json:"user_id"`
	TotalAmount decimal.Decimal   `json:"total_amount"`
	CreatedAt   time.Time         `json:"created_at"`
	LineItems   []OrderLineOutput `json:"line_items"`
}

// 監査ログのafter_json
type checkoutSummary struct {
	OrderID     int64           `json:"order_id"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	LineItemIDs []int64         `json:"line_item_ids"`
	Lines       int             `json:"lines"`
}

func validateSnapshot(lines []SnapshotLine) error {
	if len(lines) == 0 {
		return validationError("cart empty")
	}
	for _, l := range lines {
		if l.ProductID <= 0 {
			return validationError("invalid product_id")
		}
		if l.Quantity <= 0 {
			return validationError("invalid quantity")
		}
		if !model.FitsMoney(l.LineTotal) {
			return validationError("invalid price")
		}
	}
	return nil
}

// CreateOrder はスナップショットから注文と明細を作る。
// すべて1つのトランザクションで書き、途中で失敗したら何も残らない。
func (u *OrderUsecase) CreateOrder(ctx context.Context, username string, in CreateOrderInput) (CheckoutResult, error) {
	if err := validateSnapshot(in.Lines); err != nil {
		return CheckoutResult{}, err
	}
	key := strings.TrimSpace(in.IdempotencyKey)
	if len(key) > maxIdempotencyKeyLen {
		return CheckoutResult{}, validationError("invalid idempotency_key")
	}

	userID, err := resolveUser(ctx, u.users, u.log, username)
	if err != nil {
		return CheckoutResult{}, err
	}

	total := decimal.Zero
	for _, l := range in.Lines {
		total = total.Add(l.LineTotal)
	}
	if total.GreaterThan(model.MaxMoney) {
		return CheckoutResult{}, validationError("order total too large")
	}

	var out CheckoutResult
	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		// 同じキーなら同じ結果
		if key != "" {
			existing, found, err := r.Orders().FindByIdempotencyKey(ctx, userID, key)
			if err != nil {
				return err
			}
			if found {
				res, err := replayOrder(ctx, r, existing)
				if err != nil {
					return err
				}
				out = res
				return nil
			}
		}

		now := u.clock.Now()
		order := model.Order{
			UserID:      userID,
			TotalAmount: total,
			CreatedAt:   now,
		}
		if key != "" {
			order.IdempotencyKey = &key
		}

		orderID, err := r.Orders().Create(ctx, order)
		if err != nil {
			return err
		}

		//明細は1行ずつ作成してIDを集める
		ids := make([]int64, 0, len(in.Lines))
		for _, l := range in.Lines {
			id, err := r.OrderItems().Create(ctx, model.OrderItem{
				OrderID:   orderID,
				ProductID: l.ProductID,
				Quantity:  l.Quantity,
				LineTotal: l.LineTotal,
			})
			if err != nil {
				return err
			}
			ids = append(ids, id)
		}

		//買った商品だけカートから消す（スナップショット後に追加した行は残る）
		if u.clearCart {
			productIDs := make([]int64, 0, len(in.Lines))
			for _, l := range in.Lines {
				productIDs = append(productIDs, l.ProductID)
			}
			if _, err := r.CartItems().DeleteProducts(ctx, userID, productIDs); err != nil {
				return err
			}
		}

		out = CheckoutResult{OrderID: orderID, TotalAmount: total, LineItemIDs: ids}

		after, err := json.Marshal(checkoutSummary{
			OrderID:     orderID,
			TotalAmount: total,
			LineItemIDs: ids,
			Lines:       len(ids),
		})
		if err != nil {
			return err
		}
		return r.AuditLogs().Create(ctx, model.AuditLog{
			ActorUserID:  userID,
			Action:       model.AuditActionCheckout,
			ResourceType: model.AuditResourceOrder,
			ResourceID:   orderID,
			AfterJSON:    string(after),
			CreatedAt:    now,
		})
	})

	//同時に同じキーで作られた。txはもう使えないので、新しいtxで読み直す
	if errors.Is(err, repo.ErrConflict) && key != "" {
		return u.replayByKey(ctx, userID, key)
	}
	if err != nil {
		return CheckoutResult{}, storeError(u.log, "create_order", err)
	}

	if out.Replayed {
		u.log.Info("checkout replayed", zap.Int64("user_id", userID), zap.Int64("order_id", out.OrderID))
	} else {
		u.log.Info("order created",
			zap.Int64("user_id", userID),
			zap.Int64("order_id", out.OrderID),
			zap.String("total_amount", out.TotalAmount.StringFixed(2)),
			zap.Int("lines", len(out.LineItemIDs)),
		)
	}
	return out, nil
}

func (u *OrderUsecase) replayByKey(ctx context.Context, userID int64, key string) (CheckoutResult, error) {
	var out CheckoutResult
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		existing, found, err := r.Orders().FindByIdempotencyKey(ctx, userID, key)
		if err != nil {
			return err
		}
		if !found {
			return NewAppError(KindConflict, "idempotency conflict")
		}
		res, err := replayOrder(ctx, r, existing)
		if err != nil {
			return err
		}
		out = res
		return nil
	})
	if err != nil {
		return CheckoutResult{}, storeError(u.log, "replay_order", err)
	}
	return out, nil
}

func replayOrder(ctx context.Context, r repo.TxRepos, o model.Order) (CheckoutResult, error) {
	items, err := r.OrderItems().ListByOrderID(ctx, o.ID)
	if err != nil {
		return CheckoutResult{}, err
	}
	ids := make([]int64, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ID)
	}
	return CheckoutResult{
		OrderID:     o.ID,
		TotalAmount: o.TotalAmount,
		LineItemIDs: ids,
		Replayed:    true,
	}, nil
}

// GetOrderByID は注文と明細を返す。
// 数値でない・存在しないIDはどちらもNotFound。
func (u *OrderUsecase) GetOrderByID(ctx context.Context, rawOrderID string) (OrderDetail, error) {
	orderID, err := strconv.ParseInt(strings.TrimSpace(rawOrderID), 10, 64)
	if err != nil || orderID <= 0 {
		return OrderDetail{}, notFoundError()
	}

	var out OrderDetail
	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if errors.Is(err, repo.ErrNotFound) {
			return notFoundError()
		}
		if err != nil {
			return err
		}

		items, err := r.OrderItems().ListByOrderID(ctx, orderID)
		if err != nil {
			return err
		}

		out = toOrderDetail(o, items)
		return nil
	})
	if err != nil {
		return OrderDetail{}, storeError(u.log, "get_order", err)
	}
	return out, nil
}

// GetOrderForUser は本人の注文だけ返す。他人の注文は存在しない扱い。
func (u *OrderUsecase) GetOrderForUser(ctx context.Context, username string, rawOrderID string) (OrderDetail, error) {
	userID, err := resolveUser(ctx, u.users, u.log, username)
	if err != nil {
		return OrderDetail{}, err
	}

	out, err := u.GetOrderByID(ctx, rawOrderID)
	if err != nil {
		return OrderDetail{}, err
	}
	if out.UserID != userID {
		return OrderDetail{}, notFoundError()
	}
	return out, nil
}

func toOrderDetail(o model.Order, items []model.OrderItem) OrderDetail {
	lines := make([]OrderLineOutput, 0, len(items))
	for _, it := range items {
		lines = append(lines, OrderLineOutput{
			ID:        it.ID,
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			LineTotal: it.LineTotal,
		})
	}

	return OrderDetail{
		ID:          o.ID,
		UserID:      o.UserID,
		TotalAmount: o.TotalAmount,
		CreatedAt:   o.CreatedAt,
		LineItems:   lines,
	}
}
