package mapview

import (
	"time"

	"github.com/ilewa/ilewa-backend/internal/projects/domain"
)

type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

type Feature struct {
	Type       string                 `json:"type"`
	ID         string                 `json:"id,omitempty"`
	Geometry   Geometry               `json:"geometry"`
	Properties map[string]interface{} `json:"properties"`
}

// Geometry is always a Point here; coordinates are [lng, lat].
type Geometry struct {
	Type        string     `json:"type"`
	Coordinates [2]float64 `json:"coordinates"`
}

func point(lat, lng float64) Geometry {
	return Geometry{Type: "Point", Coordinates: [2]float64{lng, lat}}
}

// ProjectFeature renders one project as a GeoJSON point carrying its marker style.
func (c *Catalog) ProjectFeature(p domain.Project) Feature {
	author := p.AuthorName
	if author == "" {
		author = p.AuthorID
	}
	return Feature{
		Type:     "Feature",
		ID:       p.ID,
		Geometry: point(p.Latitude, p.Longitude),
		Properties: map[string]interface{}{
			"id":             p.ID,
			"name":           p.Name,
			"category":       p.Category,
			"status":         p.Status,
			"description":    p.Description,
			"repository_url": p.RepositoryURL,
			"location":       p.Location,
			"author":         author,
			"created_at":     p.CreatedAt.UTC().Format(time.RFC3339),
			"marker":         c.Style(p.Category),
		},
	}
}

// FeatureCollection renders projects without clustering.
func (c *Catalog) FeatureCollection(items []domain.Project) FeatureCollection {
	fc := FeatureCollection{Type: "FeatureCollection", Features: make([]Feature, 0, len(items))}
	for _, p := range items {
		fc.Features = append(fc.Features, c.ProjectFeature(p))
	}
	return fc
}
