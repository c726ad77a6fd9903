package handler

import (
	"net/http"
	"strconv"

	"ec-checkout/internal/config"
	"ec-checkout/internal/domain/model"
	"ec-checkout/internal/middleware"
	"ec-checkout/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// /cartのHTTP
type CartHandler struct {
	uc CartService
}

// DI
func NewCartHandler(uc CartService) *CartHandler {
	return &CartHandler{uc: uc}
}

type AddCartRequest struct {
	ProductID int64 `json:"product_id"`
	Quantity  int64 `json:"quantity"`
}

type UpdateCartItemRequest struct {
	Delta int64 `json:"delta"`
}

type CartResponse struct {
	Items []model.CartItem `json:"items"`
	Total decimal.Decimal  `json:"total"`
}

type AddCartResponse struct {
	Created bool           `json:"created"`
	Item    model.CartItem `json:"item"`
}

type UpdateCartItemResponse struct {
	Success bool            `json:"success"`
	Outcome string          `json:"outcome"`
	Message string          `json:"message,omitempty"`
	Item    *model.CartItem `json:"item,omitempty"`
}

type RemoveCartItemResponse struct {
	Success   bool   `json:"success"`
	ProductID int64  `json:"product_id,omitempty"`
	Message   string `json:"message,omitempty"`
}

type ClearCartResponse struct {
	Success bool   `json:"success"`
	Cleared bool   `json:"cleared"`
	Message string `json:"message,omitempty"`
}

// /cart, /cart/items/{product_id} を登録
func (h *CartHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/cart")
	g.Use(middleware.AuthJWT(cfg))

	g.GET("", h.getCart)
	g.DELETE("", h.clearCart)
	g.POST("/items", h.addItem)
	g.PATCH("/items/:product_id", h.patchItem)
	g.DELETE("/items/:product_id", h.deleteItem)
}

func (h *CartHandler) getCart(c echo.Context) error {
	username, ok := getUsernameFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	items, err := h.uc.GetCart(c.Request().Context(), username)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, CartResponse{Items: items, Total: usecase.CartTotal(items)})
}

func (h *CartHandler) addItem(c echo.Context) error {
	username, ok := getUsernameFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req AddCartRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.AddItem(c.Request().Context(), username, req.ProductID, req.Quantity)
	if err != nil {
		return writeError(c, err)
	}

	//既にあった場合は200で既存行を返す
	status := http.StatusOK
	if out.Created {
		status = http.StatusCreated
	}
	return c.JSON(status, AddCartResponse{Created: out.Created, Item: out.Item})
}

func (h *CartHandler) patchItem(c echo.Context) error {
	username, ok := getUsernameFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	productID, err := strconv.ParseInt(c.Param("product_id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid product_id"})
	}

	var req UpdateCartItemRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.UpdateQuantity(c.Request().Context(), username, productID, req.Delta)
	if err != nil {
		return writeError(c, err)
	}

	switch out.Outcome {
	case usecase.OutcomeNothingToUpdate:
		return c.JSON(http.StatusOK, UpdateCartItemResponse{
			Success: false,
			Outcome: string(out.Outcome),
			Message: "nothing to update",
		})
	case usecase.OutcomeRemoved:
		return c.JSON(http.StatusOK, UpdateCartItemResponse{Success: true, Outcome: string(out.Outcome)})
	default:
		return c.JSON(http.StatusOK, UpdateCartItemResponse{Success: true, Outcome: string(out.Outcome), Item: out.Item})
	}
}

func (h *CartHandler) deleteItem(c echo.Context) error {
	username, ok := getUsernameFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	productID, err := strconv.ParseInt(c.Param("product_id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid product_id"})
	}

	out, err := h.uc.RemoveItem(c.Request().Context(), username, productID)
	if err != nil {
		return writeError(c, err)
	}

	if out.Outcome == usecase.OutcomeNothingToDelete {
		return c.JSON(http.StatusOK, RemoveCartItemResponse{Success: false, Message: "nothing to delete"})
	}
	return c.JSON(http.StatusOK, RemoveCartItemResponse{Success: true, ProductID: out.ProductID})
}

func (h *CartHandler) clearCart(c echo.Context) error {
	username, ok := getUsernameFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	cleared, err := h.uc.Clear(c.Request().Context(), username)
	if err != nil {
		return writeError(c, err)
	}

	if !cleared {
		return c.JSON(http.StatusOK, ClearCartResponse{Success: true, Cleared: false, Message: "cart already empty"})
	}
	return c.JSON(http.StatusOK, ClearCartResponse{Success: true, Cleared: true})
}
