package usecase

import (
	"context"
	"strings"

	repo "ec-checkout/internal/repository"

	"go.uber.org/zap"
)

// resolveUser はusernameをuser_idに引く。
// 空・未登録はValidation、DBエラーはInternal。
func resolveUser(ctx context.Context, users repo.UserRepository, log *zap.Logger, username string) (int64, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return 0, validationError("username is required")
	}

	userID, found, err := users.FindIDByUsername(ctx, username)
	if err != nil {
		return 0, storeError(log, "resolve_user", err)
	}
	if !found {
		return 0, validationError("unknown user")
	}
	return userID, nil
}
