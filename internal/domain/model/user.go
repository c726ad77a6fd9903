package model

import "time"

// 認証済みのusernameを数値IDに引くためだけのユーザー。
type User struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	Username  string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime"`
}
