package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mukwano/agrotrack/internal/domain/errs"
	"github.com/mukwano/agrotrack/internal/server/middleware"
	"github.com/mukwano/agrotrack/internal/service/auth"
)

// AuthHandler adapts the auth service to HTTP.
type AuthHandler struct {
	svc    *auth.Service
	logger *zap.Logger
}

// NewAuthHandler constructs the auth HTTP adapter.
func NewAuthHandler(svc *auth.Service, logger *zap.Logger) *AuthHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthHandler{svc: svc, logger: logger}
}

type signupRequest struct {
	FullName string `json:"fullName"`
	Username string `json:"username"`
	Phone    string `json:"phone"`
	Branch   string `json:"branch"`
	Role     string `json:"role"`
	Password string `json:"password"`
}

// Signup handles POST /auth/signup.
func (h *AuthHandler) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.logger, errs.InvalidInput("invalid request body"))
		return
	}

	user, err := h.svc.Signup(c.Request.Context(), auth.SignupInput{
		FullName: req.FullName,
		Username: req.Username,
		Phone:    req.Phone,
		Branch:   req.Branch,
		Role:     req.Role,
		Password: req.Password,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User created successfully",
		"user":    user,
	})
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.logger, errs.InvalidInput("invalid request body"))
		return
	}

	token, user, err := h.svc.Login(c.Request.Context(), req.Username, req.Password)
	if errors.Is(err, errs.ErrUnauthorized) {
		// Bad credentials map to 401, not the usual 403 role mapping.
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid username or password"})
		return
	}
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"token":   token,
		"user":    user,
	})
}

// Me handles GET /auth/me.
func (h *AuthHandler) Me(c *gin.Context) {
	caller, ok := middleware.CallerFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Authentication required"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":       caller.ID,
		"username": caller.Username,
		"role":     caller.Role,
		"branch":   caller.Branch,
	})
}
