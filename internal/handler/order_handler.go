package handler

import (
	"net/http"

	"ec-checkout/internal/config"
	"ec-checkout/internal/middleware"
	"ec-checkout/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

type OrderHandler struct {
	uc OrderService
}

func NewOrderHandler(uc OrderService) *OrderHandler {
	return &OrderHandler{uc: uc}
}

// price は行合計（単価×数量）
type OrderLineRequest struct {
	ProductID int64           `json:"product_id"`
	Quantity  int64           `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

type OrderCreateRequest struct {
	Items []OrderLineRequest `json:"items"`
}

func (h *OrderHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/orders")
	g.Use(middleware.AuthJWT(cfg))

	g.POST("", h.create)
	g.GET("/:id", h.detail)
}

func (h *OrderHandler) create(c echo.Context) error {
	username, ok := getUsernameFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req OrderCreateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	lines := make([]usecase.SnapshotLine, 0, len(req.Items))
	for _, it := range req.Items {
		lines = append(lines, usecase.SnapshotLine{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			LineTotal: it.Price,
		})
	}

	//二重送信防止キーはヘッダーから受け取る（bodyには入れない）
	idemKey := c.Request().Header.Get("X-Idempotency-Key")

	out, err := h.uc.CreateOrder(c.Request().Context(), username, usecase.CreateOrderInput{
		Lines:          lines,
		IdempotencyKey: idemKey,
	})
	if err != nil {
		return writeError(c, err)
	}

	if out.Replayed {
		return c.JSON(http.StatusOK, out)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *OrderHandler) detail(c echo.Context) error {
	username, ok := getUsernameFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	//IDの形式チェックはusecase側（数値でなければ404）
	out, err := h.uc.GetOrderForUser(c.Request().Context(), username, c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}
