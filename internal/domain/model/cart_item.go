package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// カートの明細。(user_id, product_id) で一意。
// LineTotal は単価ではなく「単価 × 数量」（最終更新時点）。列名とJSONは price のまま。
type CartItem struct {
	UserID    int64           `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
	ProductID int64           `gorm:"primaryKey;autoIncrement:false" json:"product_id"`
	Quantity  int64           `gorm:"not null" json:"quantity"`
	LineTotal decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null" json:"price"`
	AddedAt   time.Time       `gorm:"column:added_at;not null" json:"added_at"`
	UpdatedAt time.Time       `gorm:"not null" json:"updated_at"`
}

// LineTotalOf は単価 × 数量。
func LineTotalOf(unitPrice decimal.Decimal, quantity int64) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(quantity))
}

// MaxMoney は numeric(12,2) に入る最大値。
var MaxMoney = decimal.RequireFromString("9999999999.99")

// FitsMoney は金額が丸めなしで numeric(12,2) に入るかを返す。負の値は不可。
func FitsMoney(d decimal.Decimal) bool {
	if d.IsNegative() || d.GreaterThan(MaxMoney) {
		return false
	}
	return d.Equal(d.Round(2))
}
