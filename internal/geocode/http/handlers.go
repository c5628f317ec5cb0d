package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ilewa/ilewa-backend/internal/apperr"
	"github.com/ilewa/ilewa-backend/internal/geocode/service"
)

type Handler struct {
	svc *service.GeocodeService
}

func New(svc *service.GeocodeService) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("/search", h.Search)
	rg.GET("/reverse", h.Reverse)
}

func (h *Handler) Search(c *gin.Context) {
	places, err := h.svc.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "results": places})
}

func (h *Handler) Reverse(c *gin.Context) {
	lat, err := strconv.ParseFloat(c.Query("lat"), 64)
	if err != nil {
		apperr.Respond(c, apperr.Validation("lat", "must be a number"))
		return
	}
	lng, err := strconv.ParseFloat(c.Query("lng"), 64)
	if err != nil {
		apperr.Respond(c, apperr.Validation("lng", "must be a number"))
		return
	}

	res, err := h.svc.Reverse(c.Request.Context(), lat, lng)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "place": res.Place, "source": res.Source})
}
