package handler

import (
	"net/http"

	"ec-checkout/internal/middleware"
	"ec-checkout/internal/usecase"

	"github.com/labstack/echo/v4"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

// エラーではない結果（nothing to delete など）
type OutcomeResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func statusOf(kind usecase.ErrorKind) int {
	switch kind {
	case usecase.KindValidation:
		return http.StatusBadRequest
	case usecase.KindNotFound:
		return http.StatusNotFound
	case usecase.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}
	if ae, ok := usecase.AsAppError(err); ok {
		if ae.Kind == usecase.KindInternal {
			//中身は出さない
			return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
		}
		return c.JSON(statusOf(ae.Kind), ErrorResponse{Error: ae.Message})
	}

	//500
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}

// AuthJWTが入れたusernameを取り出す
func getUsernameFromContext(c echo.Context) (string, bool) {
	v := c.Get(middleware.CtxUsernameKey)
	username, ok := v.(string)
	if !ok || username == "" {
		return "", false
	}
	return username, true
}
