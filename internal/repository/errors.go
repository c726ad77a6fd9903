package repository

import "errors"

var (
	// 対象の行がない
	ErrNotFound = errors.New("not found")

	// 一意制約違反（同時INSERTなど）
	ErrConflict = errors.New("conflict")
)
