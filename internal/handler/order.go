package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/evermart/shop-api/internal/domain/order"
	"github.com/evermart/shop-api/internal/domain/product"
	"github.com/evermart/shop-api/internal/domain/user"
)

type addressReq struct {
	Street string `json:"street" binding:"required"`
	City   string `json:"city" binding:"required"`
	Pin    string `json:"pin" binding:"required"`
	State  string `json:"state" binding:"required"`
}

type orderItemReq struct {
	ID       string `json:"id" binding:"required"`
	Quantity int    `json:"quantity" binding:"required,gt=0"`
}

type createOrderReq struct {
	Address     addressReq     `json:"address" binding:"required"`
	ItemsList   []orderItemReq `json:"itemsList" binding:"required,min=1,dive"`
	OrderOwner  string         `json:"orderOwner" binding:"required"`
	PhoneNumber string         `json:"phoneNumber" binding:"required"`
	CardNumber  string         `json:"cardNumber" binding:"required"`
}

type orderSummaryResp struct {
	ID            string    `json:"id"`
	CreatedAt     time.Time `json:"createdAt"`
	TotalDiscount float64   `json:"totalDiscount"`
	TotalAmount   float64   `json:"totalAmount"`
	OrderStatus   string    `json:"orderStatus"`
}

type orderItemResp struct {
	ProductID  string  `json:"productId"`
	Quantity   int     `json:"quantity"`
	UnitPrice  float64 `json:"unitPrice"`
	TotalPrice float64 `json:"totalPrice"`
}

type addressResp struct {
	Street string `json:"street"`
	City   string `json:"city"`
	Pin    string `json:"pin"`
	State  string `json:"state"`
}

type orderDetailResp struct {
	ID            string          `json:"id"`
	OrderOwner    string          `json:"orderOwner"`
	PhoneNumber   string          `json:"phoneNumber"`
	TotalAmount   float64         `json:"totalAmount"`
	TotalDiscount float64         `json:"totalDiscount"`
	OrderStatus   string          `json:"orderStatus"`
	CreatedAt     time.Time       `json:"createdAt"`
	Address       addressResp     `json:"address"`
	Items         []orderItemResp `json:"items"`
}

// CreateOrder places an order for the authenticated caller.
func (h *Handler) CreateOrder(c *gin.Context) {
	claims, ok := identityFrom(c)
	if !ok {
		respondError(c, http.StatusInternalServerError, "missing authenticated user")
		return
	}

	var req createOrderReq
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid order request")
		return
	}

	items := make([]order.ItemRequest, len(req.ItemsList))
	for i, it := range req.ItemsList {
		items[i] = order.ItemRequest{ProductID: it.ID, Quantity: it.Quantity}
	}

	_, err := h.orders.PlaceOrder(c.Request.Context(), claims.UserID, order.PlaceOrderRequest{
		OrderOwner:  req.OrderOwner,
		PhoneNumber: req.PhoneNumber,
		CardNumber:  req.CardNumber,
		Address: order.AddressRequest{
			Street: req.Address.Street,
			City:   req.Address.City,
			Pin:    req.Address.Pin,
			State:  req.Address.State,
		},
		Items: items,
	})
	if err != nil {
		h.respondOrderError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"status": "success",
		"data":   "Order created successfully",
	})
}

// respondOrderError maps placement errors to HTTP responses.
func (h *Handler) respondOrderError(c *gin.Context, err error) {
	var (
		notFound      *product.NotFoundError
		noStock       *product.InsufficientStockError
		itemCreateErr *order.ItemCreateError
	)

	switch {
	case errors.Is(err, user.ErrNotFound):
		respondError(c, http.StatusNotFound, "user not found")
	case errors.As(err, &notFound):
		respondError(c, http.StatusNotFound, notFound.Error())
	case errors.As(err, &noStock):
		respondError(c, http.StatusBadRequest, noStock.Error())
	case errors.Is(err, order.ErrInsufficientBalance):
		respondError(c, http.StatusPaymentRequired, err.Error())
	case errors.Is(err, order.ErrEmptyItems), errors.Is(err, order.ErrInvalidQuantity):
		respondError(c, http.StatusBadRequest, err.Error())
	case errors.As(err, &itemCreateErr):
		zctx.From(c.Request.Context()).Error("order item creation failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, itemCreateErr.Error())
	default:
		zctx.From(c.Request.Context()).Error("order placement failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "could not place order")
	}
}

// ListOrders returns the caller's own orders. A user with no orders gets a
// distinct "No orders found" body, not an error.
func (h *Handler) ListOrders(c *gin.Context) {
	claims, ok := identityFrom(c)
	if !ok {
		respondError(c, http.StatusInternalServerError, "missing authenticated user")
		return
	}

	summaries, err := h.orders.ListOrders(c.Request.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			respondError(c, http.StatusInternalServerError, "user doesn't exist")
			return
		}
		zctx.From(c.Request.Context()).Error("list orders failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "could not list orders")
		return
	}

	if len(summaries) == 0 {
		c.JSON(http.StatusOK, gin.H{"message": "No orders found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"orders": toSummaryResp(summaries),
	})
}

// ListAllOrders returns every order in the store. Admin only.
func (h *Handler) ListAllOrders(c *gin.Context) {
	summaries, err := h.orders.ListAllOrders(c.Request.Context())
	if err != nil {
		zctx.From(c.Request.Context()).Error("list all orders failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "could not list orders")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"orders": toSummaryResp(summaries),
	})
}

// GetOrder returns the full detail of one order.
func (h *Handler) GetOrder(c *gin.Context) {
	d, err := h.orders.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, order.ErrNotFound) {
			respondError(c, http.StatusNotFound, "order doesn't exist")
			return
		}
		zctx.From(c.Request.Context()).Error("get order failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "could not get order")
		return
	}

	items := make([]orderItemResp, len(d.Items))
	for i, it := range d.Items {
		items[i] = orderItemResp{
			ProductID:  it.ProductID,
			Quantity:   it.Quantity,
			UnitPrice:  it.UnitPrice.InexactFloat64(),
			TotalPrice: it.TotalPrice.InexactFloat64(),
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"order": orderDetailResp{
			ID:            d.Order.ID,
			OrderOwner:    d.Order.OrderOwner,
			PhoneNumber:   d.Order.PhoneNumber,
			TotalAmount:   d.Order.TotalAmount.InexactFloat64(),
			TotalDiscount: d.Order.TotalDiscount.InexactFloat64(),
			OrderStatus:   d.Order.Status,
			CreatedAt:     d.Order.CreatedAt,
			Address: addressResp{
				Street: d.Address.Street,
				City:   d.Address.City,
				Pin:    d.Address.Pin,
				State:  d.Address.State,
			},
			Items: items,
		},
	})
}

func toSummaryResp(summaries []order.Summary) []orderSummaryResp {
	out := make([]orderSummaryResp, len(summaries))
	for i, s := range summaries {
		out[i] = orderSummaryResp{
			ID:            s.ID,
			CreatedAt:     s.CreatedAt,
			TotalDiscount: s.TotalDiscount.InexactFloat64(),
			TotalAmount:   s.TotalAmount.InexactFloat64(),
			OrderStatus:   s.Status,
		}
	}
	return out
}
