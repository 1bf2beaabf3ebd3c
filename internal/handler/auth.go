package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/evermart/shop-api/internal/domain/user"
)

type signupReq struct {
	Name     string `json:"name" binding:"required,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type loginReq struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Signup registers a new user account with a zero starting balance.
func (h *Handler) Signup(c *gin.Context) {
	var req signupReq
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid signup request")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "could not process password")
		return
	}

	u := &user.User{
		ID:           uuid.New().String(),
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         user.RoleUser,
		Balance:      decimal.Zero,
	}
	if err := h.users.Create(c.Request.Context(), u); err != nil {
		if errors.Is(err, user.ErrEmailTaken) {
			respondError(c, http.StatusConflict, "email already registered")
			return
		}
		zctx.From(c.Request.Context()).Error("signup failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "could not create user")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"status": "success",
		"data":   "User created successfully",
	})
}

// Login verifies credentials and issues a bearer token.
func (h *Handler) Login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid login request")
		return
	}

	u, err := h.users.GetByEmail(c.Request.Context(), req.Email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			respondError(c, http.StatusUnauthorized, "invalid credentials")
			return
		}
		zctx.From(c.Request.Context()).Error("login lookup failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "could not log in")
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)) != nil {
		respondError(c, http.StatusUnauthorized, "invalid credentials")
		return
	}

	signed, err := h.tokens.Issue(u)
	if err != nil {
		zctx.From(c.Request.Context()).Error("token issue failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "could not log in")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"token":  signed,
	})
}

// Logout revokes the presented token for the remainder of its lifetime.
func (h *Handler) Logout(c *gin.Context) {
	claims, ok := identityFrom(c)
	if !ok {
		respondError(c, http.StatusInternalServerError, "missing authenticated user")
		return
	}

	if err := h.revoked.Revoke(c.Request.Context(), claims.ID, h.tokens.Remaining(claims)); err != nil {
		zctx.From(c.Request.Context()).Error("logout failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "could not log out")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data":   "Logged out successfully",
	})
}
