package http

import (
	"github.com/ilewa/ilewa-backend/internal/mapview"
	"github.com/ilewa/ilewa-backend/internal/projects/service"
)

// Handler bundles the dependencies for project and map endpoints.
type Handler struct {
	svc           *service.ProjectService
	catalog       *mapview.Catalog
	clusterCellPx int
}

func New(svc *service.ProjectService, catalog *mapview.Catalog, clusterCellPx int) *Handler {
	if clusterCellPx <= 0 {
		clusterCellPx = mapview.DefaultCellPx
	}
	return &Handler{svc: svc, catalog: catalog, clusterCellPx: clusterCellPx}
}

// SourceHeader tells map clients whether a feed is live or demo data.
const SourceHeader = "X-Data-Source"
