package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ilewa/ilewa-backend/internal/apperr"
	"github.com/ilewa/ilewa-backend/internal/auth"
	"github.com/ilewa/ilewa-backend/internal/auth/domain"
)

// GetProfile returns the current user's profile
func (h *Handler) GetProfile(c *gin.Context) {
	user, err := h.authService.GetProfile(c.Request.Context(), auth.UserFirebaseUID(c))
	if err != nil {
		apperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "user": user})
}

// SyncUser upserts the signed-in user. It is called by the client after every
// sign-in or sign-up with the provider. The JSON body is optional.
func (h *Handler) SyncUser(c *gin.Context) {
	id, ok := auth.IdentityFrom(c)
	if !ok {
		apperr.Respond(c, apperr.Unauthorized(""))
		return
	}

	var body syncBody
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&body); err != nil {
			apperr.Respond(c, apperr.Validation("body", "invalid JSON body"))
			return
		}
	}

	user, err := h.authService.SyncUser(c.Request.Context(), *id, domain.SyncRequest{
		Email:     body.Email,
		FullName:  body.FullName,
		AvatarURL: body.AvatarURL,
	})
	if err != nil {
		apperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "user": user})
}

// UpdateProfile updates the user's profile
func (h *Handler) UpdateProfile(c *gin.Context) {
	var req domain.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperr.Respond(c, apperr.Validation("body", "invalid request body"))
		return
	}

	user, err := h.authService.UpdateProfile(c.Request.Context(), auth.UserFirebaseUID(c), req)
	if err != nil {
		apperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "user": user})
}

func (h *Handler) ListUsers(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	offset, _ := strconv.Atoi(c.Query("offset"))

	users, err := h.authService.ListUsers(c.Request.Context(), auth.ActorFrom(c), limit, offset)
	if err != nil {
		apperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "users": users})
}

func (h *Handler) UpdateRole(c *gin.Context) {
	var body roleBody
	if err := c.ShouldBindJSON(&body); err != nil {
		apperr.Respond(c, apperr.Validation("role", "is required"))
		return
	}

	user, err := h.authService.UpdateRole(c.Request.Context(), auth.ActorFrom(c), c.Param("id"), body.Role)
	if err != nil {
		apperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "user": user})
}
