package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/koinonia-app/koinonia-api/internal/auth"
	"github.com/koinonia-app/koinonia-api/internal/middleware"
	"github.com/koinonia-app/koinonia-api/internal/response"
	"github.com/koinonia-app/koinonia-api/internal/services"
)

type AuthHandler struct {
	account  *services.AccountService
	sessions *auth.SessionManager
}

func NewAuthHandler(account *services.AccountService, sessions *auth.SessionManager) *AuthHandler {
	return &AuthHandler{account: account, sessions: sessions}
}

// Register handles POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req services.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequestError(c, "Invalid request payload: "+err.Error())
		return
	}

	u, err := h.account.Register(req)
	if err != nil {
		response.DomainError(c, err)
		return
	}

	if err := h.sessions.SetCookie(c, u.ID); err != nil {
		response.InternalServerError(c, "Failed to start session")
		return
	}
	response.SuccessResponse(c, http.StatusCreated, "Account created", u)
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req services.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequestError(c, "Invalid request payload: "+err.Error())
		return
	}

	u, err := h.account.Login(req)
	if err != nil {
		response.DomainError(c, err)
		return
	}

	if err := h.sessions.SetCookie(c, u.ID); err != nil {
		response.InternalServerError(c, "Failed to start session")
		return
	}
	response.SuccessResponse(c, http.StatusOK, "Logged in", u)
}

// Logout handles POST /api/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	h.sessions.ClearCookie(c)
	response.SuccessResponse(c, http.StatusOK, "Logged out", nil)
}

// Me handles GET /api/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	response.SuccessResponse(c, http.StatusOK, "", middleware.CurrentUser(c))
}

// UpdateMe handles PATCH /api/auth/me
func (h *AuthHandler) UpdateMe(c *gin.Context) {
	var req services.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequestError(c, "Invalid request payload: "+err.Error())
		return
	}

	u, err := h.account.UpdateProfile(middleware.CurrentUser(c).ID, req)
	if err != nil {
		response.DomainError(c, err)
		return
	}
	response.SuccessResponse(c, http.StatusOK, "Profile updated", u)
}

// GetProfile handles GET /api/users/:user_id
func (h *AuthHandler) GetProfile(c *gin.Context) {
	userID, ok := parseIDParam(c, "user_id")
	if !ok {
		return
	}

	u, err := h.account.GetProfile(userID)
	if err != nil {
		response.DomainError(c, err)
		return
	}
	response.SuccessResponse(c, http.StatusOK, "", u)
}

// GenerateInvitation handles POST /api/invitations
func (h *AuthHandler) GenerateInvitation(c *gin.Context) {
	inv, err := h.account.GenerateInvitation(middleware.CurrentUser(c).ID)
	if err != nil {
		response.DomainError(c, err)
		return
	}
	response.SuccessResponse(c, http.StatusCreated, "Invitation created", inv)
}

// ValidateInvitation handles GET /api/invitations/:code
func (h *AuthHandler) ValidateInvitation(c *gin.Context) {
	valid, err := h.account.ValidateInvitation(c.Param("code"))
	if err != nil {
		response.DomainError(c, err)
		return
	}
	response.SuccessResponse(c, http.StatusOK, "", gin.H{"valid": valid})
}
