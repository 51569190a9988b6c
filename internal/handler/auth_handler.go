package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/railbook/railbook/internal/service"
	"github.com/railbook/railbook/internal/service/domain"
)

type AuthHandler struct {
	auth domain.AuthService
}

func NewAuthHandler(auth domain.AuthService) *AuthHandler {
	return &AuthHandler{
		auth: auth,
	}
}

type CredentialsRequest struct {
	Name     string `json:"name" binding:"required,min=3,max=64"`
	Password string `json:"password" binding:"required,min=6"`
}

type UserResponse struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

func (h *AuthHandler) HandleRegister(ctx *gin.Context) {
	var req CredentialsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Invalid request format",
			"detail":  err.Error(),
		})
		return
	}

	user, tok, err := h.auth.Register(ctx.Request.Context(), req.Name, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrNameTaken) {
			ctx.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"message": "Name already taken",
			})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Failed to register, please try again later",
		})
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"success": true,
		"token":   tok,
		"user":    UserResponse{ID: user.ID, Name: user.Name, Role: string(user.Role)},
	})
}

func (h *AuthHandler) HandleLogin(ctx *gin.Context) {
	var req CredentialsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Invalid request format",
			"detail":  err.Error(),
		})
		return
	}

	user, tok, err := h.auth.Login(ctx.Request.Context(), req.Name, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrBadCredentials) {
			ctx.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "Invalid name or password",
			})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Failed to log in, please try again later",
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"token":   tok,
		"user":    UserResponse{ID: user.ID, Name: user.Name, Role: string(user.Role)},
	})
}

func (h *AuthHandler) HandleMe(ctx *gin.Context) {
	user, err := h.auth.GetProfile(ctx.Request.Context(), ctx.GetUint("user_id"))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"message": "User not found",
			})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Failed to load profile",
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"user":    UserResponse{ID: user.ID, Name: user.Name, Role: string(user.Role)},
	})
}
