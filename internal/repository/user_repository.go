package repository

import "context"

// usernameから数値のuser_idを引く窓口
type UserRepository interface {
	FindIDByUsername(ctx context.Context, username string) (userID int64, found bool, err error)
}
