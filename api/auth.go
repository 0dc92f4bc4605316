package api

import (
	"errors"
	"net/http"

	"github.com/Domenick1991/hotelportal/internal/domain"
	"github.com/Domenick1991/hotelportal/internal/repository"
	"github.com/Domenick1991/hotelportal/internal/service/account"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AuthHandler struct {
	service account.AccountUseCase
	log     *zap.Logger
}

type tokenRequest struct {
	Token string `json:"token" binding:"required"`
}

type emailRequest struct {
	Email string `json:"email" binding:"required"`
}

type resetRequest struct {
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type loginResponse struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

type userResponse struct {
	User *domain.User `json:"user"`
}

func NewAuthHandler(service account.AccountUseCase, log *zap.Logger) *AuthHandler {
	return &AuthHandler{service: service, log: log}
}

func (h *AuthHandler) Register(router *gin.RouterGroup) {
	router.POST("/register", h.register)
	router.POST("/login", h.login)
	router.POST("/verify-email", h.verifyEmail)
	router.POST("/forgot-password", h.forgotPassword)
	router.POST("/reset-password", h.resetPassword)
	router.GET("/me", RequireAuth(h.service), h.me)
}

func (h *AuthHandler) register(c *gin.Context) {
	var req domain.RegistrationForm
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid registration payload")
		return
	}
	user, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusCreated, userResponse{User: user}, "Registration successful. Check your email to verify your account.")
}

func (h *AuthHandler) login(c *gin.Context) {
	var req domain.Credentials
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Email and password are required")
		return
	}
	token, user, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, loginResponse{Token: token, User: user}, "Login successful")
}

func (h *AuthHandler) me(c *gin.Context) {
	respond(c, http.StatusOK, userResponse{User: currentUser(c)}, "")
}

func (h *AuthHandler) verifyEmail(c *gin.Context) {
	var req tokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Verification token is required")
		return
	}
	if err := h.service.VerifyEmail(c.Request.Context(), req.Token); err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, nil, "Email verified successfully")
}

func (h *AuthHandler) forgotPassword(c *gin.Context) {
	var req emailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Email is required")
		return
	}
	if err := h.service.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, nil, "If that email is registered, a reset link has been sent")
}

func (h *AuthHandler) resetPassword(c *gin.Context) {
	var req resetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Token and new password are required")
		return
	}
	if err := h.service.ResetPassword(c.Request.Context(), req.Token, req.Password); err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, nil, "Password has been reset")
}

func (h *AuthHandler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, account.ErrInvalidInput):
		fail(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, account.ErrInvalidCredentials):
		fail(c, http.StatusUnauthorized, "Invalid email or password")
	case errors.Is(err, repository.ErrEmailTaken):
		fail(c, http.StatusConflict, "An account with this email already exists")
	case errors.Is(err, repository.ErrTokenUsed):
		fail(c, http.StatusBadRequest, "Token is invalid or has expired")
	default:
		h.log.Error("auth request failed", zap.String("path", c.FullPath()), zap.Error(err))
		fail(c, http.StatusInternalServerError, "Something went wrong, please try again")
	}
}
