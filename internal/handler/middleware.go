package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/evermart/shop-api/internal/token"
)

const identityKey = "identity"

// Authenticated returns middleware that requires a valid, non-revoked bearer
// token and stores the resolved claims in the request context. Handlers read
// the caller identity with identityFrom; nothing downstream parses tokens.
func (h *Handler) Authenticated() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader("Authorization")
		const prefix = "Bearer "
		if !strings.HasPrefix(raw, prefix) {
			respondError(c, http.StatusUnauthorized, "missing bearer token")
			c.Abort()
			return
		}

		claims, err := h.tokens.Verify(strings.TrimPrefix(raw, prefix))
		if err != nil {
			respondError(c, http.StatusUnauthorized, "invalid or expired token")
			c.Abort()
			return
		}

		revoked, err := h.revoked.IsRevoked(c.Request.Context(), claims.ID)
		if err != nil {
			zctx.From(c.Request.Context()).Error("revocation check failed", zap.Error(err))
			respondError(c, http.StatusInternalServerError, "authorization unavailable")
			c.Abort()
			return
		}
		if revoked {
			respondError(c, http.StatusUnauthorized, "token has been revoked")
			c.Abort()
			return
		}

		c.Set(identityKey, claims)
		c.Next()
	}
}

// RequireRole returns middleware that rejects callers whose token does not
// carry the given role. Must run after Authenticated.
func (h *Handler) RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := identityFrom(c)
		if !ok || claims.Role != role {
			respondError(c, http.StatusForbidden, "access denied")
			c.Abort()
			return
		}
		c.Next()
	}
}

func identityFrom(c *gin.Context) (*token.Claims, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*token.Claims)
	return claims, ok
}
