package http

import "github.com/ilewa/ilewa-backend/internal/auth/service"

type Handler struct {
	authService *service.AuthService
}

func New(authService *service.AuthService) *Handler {
	return &Handler{
		authService: authService,
	}
}

type syncBody struct {
	Email     string  `json:"email,omitempty"`
	FullName  string  `json:"full_name,omitempty"`
	AvatarURL *string `json:"avatar_url,omitempty"`
}

type roleBody struct {
	Role string `json:"role" binding:"required"`
}
