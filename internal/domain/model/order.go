package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// 注文。作成後は更新しない。
type Order struct {
	ID          int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID      int64           `gorm:"not null;index" json:"user_id"`
	TotalAmount decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"total_amount"`
	// 二重送信防止キー（任意）
	IdempotencyKey *string   `gorm:"type:varchar(255)" json:"-"`
	CreatedAt      time.Time `gorm:"not null" json:"created_at"`
}
