package http

import "github.com/gin-gonic/gin"

// RegisterPublic attaches the map and read-only project routes.
func (h *Handler) RegisterPublic(rg *gin.RouterGroup) {
	m := rg.Group("/map")
	m.GET("/config", h.mapConfig)
	m.GET("/view", h.mapView)
	m.GET("/projects", h.mapProjects)

	rg.GET("/projects", h.list)
	rg.GET("/projects/:id", h.get)
}

// Register attaches routes that need a signed-in user. write runs before submission.
func (h *Handler) Register(rg *gin.RouterGroup, write ...gin.HandlerFunc) {
	rg.POST("/projects", append(write, h.submit)...)
	rg.DELETE("/projects/:id", h.delete)
	rg.GET("/me/projects", h.listMine)
}

// RegisterAdmin attaches the moderation routes.
func (h *Handler) RegisterAdmin(rg *gin.RouterGroup) {
	rg.GET("/projects", h.listAll)
	rg.POST("/projects/:id/approve", h.approve)
	rg.POST("/projects/:id/reject", h.reject)
}
