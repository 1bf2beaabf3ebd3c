// Package handler exposes the HTTP surface of the shop API: auth, catalog
// reads, and the order placement and query endpoints. Handlers translate
// between HTTP and the domain services; business rules live below.
package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/evermart/shop-api/internal/domain/order"
	"github.com/evermart/shop-api/internal/domain/product"
	"github.com/evermart/shop-api/internal/domain/user"
	"github.com/evermart/shop-api/internal/token"
)

// OrderService is the order placement and query surface consumed by the
// handlers.
type OrderService interface {
	PlaceOrder(ctx context.Context, userID string, req order.PlaceOrderRequest) (*order.Order, error)
	ListOrders(ctx context.Context, userID string) ([]order.Summary, error)
	ListAllOrders(ctx context.Context) ([]order.Summary, error)
	GetOrder(ctx context.Context, orderID string) (*order.Detail, error)
}

// TokenRevoker tracks tokens invalidated by logout.
type TokenRevoker interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// Handler holds the dependencies shared by all HTTP handlers.
type Handler struct {
	orders   OrderService
	products product.Repository
	users    user.Repository
	tokens   *token.Manager
	revoked  TokenRevoker
}

// NewHandler constructs a Handler with the required collaborators.
func NewHandler(
	orders OrderService,
	products product.Repository,
	users user.Repository,
	tokens *token.Manager,
	revoked TokenRevoker,
) *Handler {
	return &Handler{
		orders:   orders,
		products: products,
		users:    users,
		tokens:   tokens,
		revoked:  revoked,
	}
}

// NewRouter wires the API routes. Recovery, CORS, rate limiting, and request
// logging are applied by the outer middleware chain in internal/app, so the
// engine itself stays bare.
func NewRouter(h *Handler) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	api := r.Group("/api")

	auth := api.Group("/auth")
	auth.POST("/signup", h.Signup)
	auth.POST("/login", h.Login)
	auth.GET("/logout", h.Authenticated(), h.Logout)

	api.GET("/products", h.ListProducts)
	api.GET("/products/:id", h.GetProduct)

	orders := api.Group("/orders", h.Authenticated())
	orders.POST("", h.CreateOrder)
	orders.GET("", h.ListOrders)
	orders.GET("/:id", h.GetOrder)

	admin := api.Group("/admin", h.Authenticated(), h.RequireRole(user.RoleAdmin))
	admin.GET("/orders", h.ListAllOrders)

	return r
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"status": "error", "message": message})
}
