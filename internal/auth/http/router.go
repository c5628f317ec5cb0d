package http

import "github.com/gin-gonic/gin"

// Register mounts the signed-in user's routes.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("/profile", h.GetProfile)
	rg.POST("/sync", h.SyncUser)
	rg.PUT("/profile", h.UpdateProfile)
}

// RegisterAdmin mounts user management. rg must already require the admin role.
func (h *Handler) RegisterAdmin(rg *gin.RouterGroup) {
	rg.GET("/users", h.ListUsers)
	rg.PUT("/users/:id/role", h.UpdateRole)
}
