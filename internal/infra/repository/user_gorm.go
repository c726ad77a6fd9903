package repository

import (
	"context"
	"errors"

	"ec-checkout/internal/domain/model"
	domainrepo "ec-checkout/internal/repository"

	"gorm.io/gorm"
)

type userGormRepository struct {
	db *gorm.DB
}

// DI
// main.goでこれをnewしてusecaseに注入します。
func NewUserGormRepository(db *gorm.DB) domainrepo.UserRepository {
	return &userGormRepository{db: db}
}

// usernameからuser_idを1件取得
func (r *userGormRepository) FindIDByUsername(ctx context.Context, username string) (int64, bool, error) {
	var u model.User

	err := r.db.WithContext(ctx).
		Select("id").
		Where("username = ?", username).
		First(&u).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return u.ID, true, nil
}
