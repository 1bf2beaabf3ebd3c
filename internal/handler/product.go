package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/evermart/shop-api/internal/domain/product"
)

type productResp struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Price        float64 `json:"price"`
	Stock        int     `json:"stock"`
	DiscountRate float64 `json:"discountRate"`
	Category     string  `json:"category"`
}

// ListProducts returns the full catalog.
func (h *Handler) ListProducts(c *gin.Context) {
	products, err := h.products.List(c.Request.Context())
	if err != nil {
		zctx.From(c.Request.Context()).Error("list products failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "could not list products")
		return
	}

	out := make([]productResp, len(products))
	for i, p := range products {
		out[i] = toProductResp(p)
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "success",
		"products": out,
	})
}

// GetProduct returns a single catalog entry.
func (h *Handler) GetProduct(c *gin.Context) {
	p, err := h.products.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, product.ErrNotFound) {
			respondError(c, http.StatusNotFound, "product not found")
			return
		}
		zctx.From(c.Request.Context()).Error("get product failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "could not get product")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"product": toProductResp(*p),
	})
}

func toProductResp(p product.Product) productResp {
	return productResp{
		ID:           p.ID,
		Name:         p.Name,
		Price:        p.Price.InexactFloat64(),
		Stock:        p.Stock,
		DiscountRate: p.DiscountRate.InexactFloat64(),
		Category:     p.Category,
	}
}
