package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/pathways-backend/internal/http/response"
	"github.com/yungbote/pathways-backend/internal/services"
)

type AuthHandler struct {
	authService services.AuthService
	userService services.UserService
}

func NewAuthHandler(authService services.AuthService, userService services.UserService) *AuthHandler {
	return &AuthHandler{authService: authService, userService: userService}
}

// POST /auth/signup
func (ah *AuthHandler) Signup(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
		Name     string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	res, err := ah.authService.Signup(c.Request.Context(), services.SignupInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
	})
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondCreated(c, gin.H{
		"user":       newUserView(res.User),
		"token":      res.Token,
		"expires_in": res.ExpiresIn,
	})
}

// POST /auth/login
func (ah *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	res, err := ah.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{
		"user":       newUserView(res.User),
		"token":      res.Token,
		"expires_in": res.ExpiresIn,
	})
}

// GET /auth/me
func (ah *AuthHandler) Me(c *gin.Context) {
	me, err := ah.userService.GetMe(c.Request.Context())
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"user": newUserView(me)})
}

// POST /auth/logout. Tokens are stateless; the client drops its copy.
func (ah *AuthHandler) Logout(c *gin.Context) {
	response.RespondOK(c, gin.H{"message": "Logged out successfully"})
}
