package usecase

import (
	"context"
	"errors"
	"math"

	"ec-checkout/internal/domain/model"
	repo "ec-checkout/internal/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CartUsecase は /cart の業務ロジックです。
// 明細は (user_id, product_id) ごとに1行。price は単価ではなく行合計。
type CartUsecase struct {
	users repo.UserRepository
	tx    repo.TransactionManager
	clock Clock
	log   *zap.Logger
}

func NewCartUsecase(users repo.UserRepository, tx repo.TransactionManager, clock Clock, log *zap.Logger) *CartUsecase {
	return &CartUsecase{users: users, tx: tx, clock: clock, log: log}
}

// UpdateOutcome / RemoveOutcome はエラーではない業務上の結果。
type UpdateOutcome string

const (
	OutcomeUpdated         UpdateOutcome = "updated"
	OutcomeRemoved         UpdateOutcome = "removed"
	OutcomeNothingToUpdate UpdateOutcome = "nothing_to_update"
)

type RemoveOutcome string

const (
	RemoveOutcomeRemoved   RemoveOutcome = "removed"
	OutcomeNothingToDelete RemoveOutcome = "nothing_to_delete"
)

type AddResult struct {
	Item    model.CartItem
	Created bool // falseなら既存行をそのまま返した
}

type UpdateResult struct {
	Outcome UpdateOutcome
	Item    *model.CartItem // Updatedのときだけ
}

type RemoveResult struct {
	Outcome   RemoveOutcome
	ProductID int64
}

// GetCart はカート明細を返す（空なら空スライス）。
func (u *CartUsecase) GetCart(ctx context.Context, username string) ([]model.CartItem, error) {
	userID, err := resolveUser(ctx, u.users, u.log, username)
	if err != nil {
		return nil, err
	}

	var items []model.CartItem
	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		got, err := r.CartItems().ListByUserID(ctx, userID)
		if err != nil {
			return err
		}
		items = got
		return nil
	})
	if err != nil {
		return nil, storeError(u.log, "get_cart", err)
	}
	if items == nil {
		items = []model.CartItem{}
	}
	return items, nil
}

// AddItem はカートに追加する。
// 既に同じ商品があれば数量は足さずに既存行を返す（数量を変えるのはUpdateQuantity）。
func (u *CartUsecase) AddItem(ctx context.Context, username string, productID int64, quantity int64) (AddResult, error) {
	if productID <= 0 {
		return AddResult{}, validationError("invalid product_id")
	}
	if quantity < 0 {
		return AddResult{}, validationError("invalid quantity")
	}
	if quantity == 0 {
		quantity = 1
	}

	userID, err := resolveUser(ctx, u.users, u.log, username)
	if err != nil {
		return AddResult{}, err
	}

	var out AddResult
	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		unitPrice, found, err := r.Products().FindPrice(ctx, productID)
		if err != nil {
			return err
		}
		if !found {
			return validationError("product has no price")
		}

		lineTotal := model.LineTotalOf(unitPrice, quantity)
		if !model.FitsMoney(lineTotal) {
			return validationError("quantity too large")
		}

		now := u.clock.Now()
		stored, created, err := r.CartItems().InsertIfAbsent(ctx, model.CartItem{
			UserID:    userID,
			ProductID: productID,
			Quantity:  quantity,
			LineTotal: lineTotal,
			AddedAt:   now,
			UpdatedAt: now,
		})
		if err != nil {
			return err
		}
		out = AddResult{Item: stored, Created: created}
		return nil
	})
	if err != nil {
		return AddResult{}, storeError(u.log, "add_item", err)
	}

	if out.Created {
		u.log.Debug("cart item added",
			zap.Int64("user_id", userID),
			zap.Int64("product_id", productID),
			zap.Int64("quantity", quantity),
		)
	}
	return out, nil
}

// UpdateQuantity は数量を delta だけ増減する。
// 行ロックを取ってから読むので、同じ明細への同時更新は直列になる。
func (u *CartUsecase) UpdateQuantity(ctx context.Context, username string, productID int64, delta int64) (UpdateResult, error) {
	if productID <= 0 {
		return UpdateResult{}, validationError("invalid product_id")
	}
	if delta == 0 {
		return UpdateResult{}, validationError("delta must not be zero")
	}

	userID, err := resolveUser(ctx, u.users, u.log, username)
	if err != nil {
		return UpdateResult{}, err
	}

	var out UpdateResult
	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		item, err := r.CartItems().FindForUpdate(ctx, userID, productID)
		if errors.Is(err, repo.ErrNotFound) {
			out = UpdateResult{Outcome: OutcomeNothingToUpdate}
			return nil
		}
		if err != nil {
			return err
		}

		if delta > 0 && item.Quantity > math.MaxInt64-delta {
			return validationError("quantity too large")
		}
		newQty := item.Quantity + delta

		//0以下になったら行ごと消す
		if newQty <= 0 {
			if _, err := r.CartItems().Delete(ctx, userID, productID); err != nil {
				return err
			}
			out = UpdateResult{Outcome: OutcomeRemoved}
			return nil
		}

		//単価は今の価格で取り直す
		unitPrice, found, err := r.Products().FindPrice(ctx, productID)
		if err != nil {
			return err
		}
		if !found {
			return validationError("product has no price")
		}

		lineTotal := model.LineTotalOf(unitPrice, newQty)
		if !model.FitsMoney(lineTotal) {
			return validationError("quantity too large")
		}

		item.Quantity = newQty
		item.LineTotal = lineTotal
		item.UpdatedAt = u.clock.Now()
		if err := r.CartItems().Update(ctx, item); err != nil {
			return err
		}

		out = UpdateResult{Outcome: OutcomeUpdated, Item: &item}
		return nil
	})
	if err != nil {
		return UpdateResult{}, storeError(u.log, "update_quantity", err)
	}
	return out, nil
}

// RemoveItem は明細を1行削除する。無ければNothingToDelete。
func (u *CartUsecase) RemoveItem(ctx context.Context, username string, productID int64) (RemoveResult, error) {
	if productID <= 0 {
		return RemoveResult{}, validationError("invalid product_id")
	}

	userID, err := resolveUser(ctx, u.users, u.log, username)
	if err != nil {
		return RemoveResult{}, err
	}

	var deleted bool
	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		ok, err := r.CartItems().Delete(ctx, userID, productID)
		if err != nil {
			return err
		}
		deleted = ok
		return nil
	})
	if err != nil {
		return RemoveResult{}, storeError(u.log, "remove_item", err)
	}

	if !deleted {
		return RemoveResult{Outcome: OutcomeNothingToDelete}, nil
	}
	return RemoveResult{Outcome: RemoveOutcomeRemoved, ProductID: productID}, nil
}

// Clear はカートを空にする。1行でも消えたらtrue。
func (u *CartUsecase) Clear(ctx context.Context, username string) (bool, error) {
	userID, err := resolveUser(ctx, u.users, u.log, username)
	if err != nil {
		return false, err
	}

	var n int64
	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		deleted, err := r.CartItems().DeleteAllByUserID(ctx, userID)
		if err != nil {
			return err
		}
		n = deleted
		return nil
	})
	if err != nil {
		return false, storeError(u.log, "clear_cart", err)
	}
	return n > 0, nil
}

// CartTotal は明細の行合計の和
func CartTotal(items []model.CartItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.LineTotal)
	}
	return total
}
