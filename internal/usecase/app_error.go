package usecase

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// ErrorKind はusecaseが返すエラーの種類。handlerはこれでHTTPステータスを決める。
type ErrorKind int

const (
	KindValidation ErrorKind = iota + 1
	KindNotFound
	KindConflict
	KindInternal
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindInternal:
		return "internal"
	default:
		return "unknown"
	}
}

type AppError struct {
	Kind    ErrorKind
	Message string
	Err     error // 元のエラー（ログ用、外には出さない）
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewAppError(kind ErrorKind, message string) error {
	return &AppError{Kind: kind, Message: message}
}

func AsAppError(err error) (*AppError, bool) {
	var ae *AppError
	ok := errors.As(err, &ae)
	return ae, ok
}

// KindOf はエラーの種類を返す。AppError以外はInternal扱い。
func KindOf(err error) ErrorKind {
	if ae, ok := AsAppError(err); ok {
		return ae.Kind
	}
	return KindInternal
}

func IsKind(err error, kind ErrorKind) bool {
	return err != nil && KindOf(err) == kind
}

func validationError(message string) error {
	return NewAppError(KindValidation, message)
}

func notFoundError() error {
	return NewAppError(KindNotFound, "not found")
}

// storeError はDB由来のエラーをログに出してInternalに包む。
// タイムアウト・キャンセルは再試行してよい旨のメッセージにする。
func storeError(log *zap.Logger, op string, err error) error {
	if ae, ok := AsAppError(err); ok {
		return ae
	}

	msg := "db error"
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		msg = "store timeout"
	}
	log.Error("store operation failed", zap.String("op", op), zap.Error(err))
	return &AppError{Kind: KindInternal, Message: msg, Err: err}
}
