package model

import "github.com/shopspring/decimal"

type OrderItem struct {
	ID        int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID   int64           `gorm:"not null;index" json:"order_id"`
	ProductID int64           `gorm:"not null" json:"product_id"`
	Quantity  int64           `gorm:"not null" json:"quantity"`
	LineTotal decimal.Decimal `gorm:"column:line_total;type:numeric(12,2);not null" json:"line_total"`
}
