package model

import "time"

type AuditAction string

// 注文確定
const AuditActionCheckout AuditAction = "CHECKOUT"

type AuditResourceType string

const AuditResourceOrder AuditResourceType = "order"

// チェックアウトの記録。レシートなど下流の処理はこの行を読む。
// AfterJSON は確定した注文の要約（order_id, total_amount, line_item_ids）。
type AuditLog struct {
	ID           int64             `gorm:"primaryKey;autoIncrement" json:"id"`
	ActorUserID  int64             `gorm:"not null" json:"actor_user_id"`
	Action       AuditAction       `gorm:"type:varchar(50);not null" json:"action"`
	ResourceType AuditResourceType `gorm:"type:varchar(50);not null" json:"resource_type"`
	ResourceID   int64             `gorm:"not null" json:"resource_id"`
	AfterJSON    string            `gorm:"type:text" json:"after_json"`
	CreatedAt    time.Time         `gorm:"not null" json:"created_at"`
}
