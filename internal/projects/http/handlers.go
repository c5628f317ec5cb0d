package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ilewa/ilewa-backend/internal/apperr"
	"github.com/ilewa/ilewa-backend/internal/auth"
	"github.com/ilewa/ilewa-backend/internal/mapview"
	"github.com/ilewa/ilewa-backend/internal/projects/domain"
)

func (h *Handler) mapConfig(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true, "config": h.catalog})
}

func (h *Handler) mapView(c *gin.Context) {
	v, err := h.svc.ResolveView(c.Request.Context(), c.Request.URL.Query(), auth.ActorFrom(c))
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "view": v, "query": v.Query(h.catalog).Encode()})
}

// mapProjects serves approved projects as GeoJSON, clustered when cluster=true.
func (h *Handler) mapProjects(c *gin.Context) {
	v, err := mapview.ParseViewState(c.Request.URL.Query(), h.catalog)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	f := v.Filter()
	f.Limit = domain.MaxLimit

	feed, err := h.svc.MapFeed(c.Request.Context(), f)
	if err != nil {
		apperr.Respond(c, err)
		return
	}

	c.Header(SourceHeader, feed.Source)
	if cluster, _ := strconv.ParseBool(c.Query("cluster")); cluster {
		c.JSON(http.StatusOK, h.catalog.Cluster(feed.Projects, v.Center.Zoom, h.clusterCellPx))
		return
	}
	c.JSON(http.StatusOK, h.catalog.FeatureCollection(feed.Projects))
}

func (h *Handler) list(c *gin.Context) {
	f, ok := h.filter(c)
	if !ok {
		return
	}
	feed, err := h.svc.MapFeed(c.Request.Context(), f)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "projects": feed.Projects, "source": feed.Source})
}

func (h *Handler) get(c *gin.Context) {
	p, err := h.svc.Get(c.Request.Context(), c.Param("id"), auth.ActorFrom(c))
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "project": p})
}

func (h *Handler) submit(c *gin.Context) {
	var req domain.SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperr.Respond(c, apperr.Validation("body", "invalid JSON"))
		return
	}
	p, err := h.svc.Submit(c.Request.Context(), auth.ActorFrom(c), req)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ok": true, "project": p})
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), auth.ActorFrom(c), c.Param("id")); err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) listMine(c *gin.Context) {
	f, ok := h.filter(c)
	if !ok {
		return
	}
	f.Status = strings.ToLower(c.Query("status"))
	if f.Status != "" && !domain.IsValidStatus(f.Status) {
		apperr.Respond(c, apperr.Validation("status", "must be pending, approved or rejected"))
		return
	}
	items, err := h.svc.ListMine(c.Request.Context(), auth.ActorFrom(c), f)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "projects": items})
}

func (h *Handler) listAll(c *gin.Context) {
	f, ok := h.filter(c)
	if !ok {
		return
	}
	f.Status = strings.ToLower(c.Query("status"))
	items, err := h.svc.ListAll(c.Request.Context(), auth.ActorFrom(c), f)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "projects": items})
}

func (h *Handler) approve(c *gin.Context) {
	p, err := h.svc.Approve(c.Request.Context(), auth.ActorFrom(c), c.Param("id"))
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "project": p})
}

func (h *Handler) reject(c *gin.Context) {
	p, err := h.svc.Reject(c.Request.Context(), auth.ActorFrom(c), c.Param("id"))
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "project": p})
}

// filter reads the shared URL filters plus limit and offset. On failure the
// error response has been written.
func (h *Handler) filter(c *gin.Context) (domain.Filter, bool) {
	v, err := mapview.ParseViewState(c.Request.URL.Query(), h.catalog)
	if err != nil {
		apperr.Respond(c, err)
		return domain.Filter{}, false
	}
	f := v.Filter()
	f.Status = ""

	if s := c.Query("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			apperr.Respond(c, apperr.Validation("limit", "must be a non-negative integer"))
			return f, false
		}
		f.Limit = n
	}
	if s := c.Query("offset"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			apperr.Respond(c, apperr.Validation("offset", "must be a non-negative integer"))
			return f, false
		}
		f.Offset = n
	}
	return f, true
}
