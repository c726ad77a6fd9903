package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

// /products の公開API（価格参照のみ）
type ProductHandler struct {
	uc PriceService
}

// DI
func NewProductHandler(uc PriceService) *ProductHandler {
	return &ProductHandler{uc: uc}
}

func (h *ProductHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/products/:id/price", h.price)
}

func (h *ProductHandler) price(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	out, err := h.uc.GetPrice(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	//価格が無い商品は404
	if !out.Found {
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "not found"})
	}

	return c.JSON(http.StatusOK, out)
}
