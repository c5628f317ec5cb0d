package mapview

import (
	"fmt"
	"math"
	"sort"

	"github.com/ilewa/ilewa-backend/internal/projects/domain"
)

const (
	DefaultCellPx   = 60
	tileSize        = 256.0
	maxMercatorLat  = 85.05112878
	clusterMinSize  = 40.0
	clusterMaxSize  = 60.0
	clusterLogScale = 10.0
)

type cellKey struct {
	x, y int
}

// ClusterSize is the rendered diameter of a cluster marker holding count projects.
func ClusterSize(count int) float64 {
	if count < 1 {
		count = 1
	}
	return math.Min(clusterMaxSize, clusterMinSize+math.Log(float64(count))*clusterLogScale)
}

// project converts lat/lng to Web Mercator pixel coordinates at zoom.
func project(lat, lng float64, zoom int) (float64, float64) {
	lat = math.Max(-maxMercatorLat, math.Min(maxMercatorLat, lat))
	world := tileSize * math.Exp2(float64(zoom))
	x := (lng + 180) / 360 * world
	rad := lat * math.Pi / 180
	y := (1 - math.Log(math.Tan(rad)+1/math.Cos(rad))/math.Pi) / 2 * world
	return x, y
}

// DominantCategory is the most frequent category; ties go to the category listed first in the catalog.
func (c *Catalog) DominantCategory(categories []string) string {
	if len(categories) == 0 {
		return defaultStyleKey
	}
	counts := make(map[string]int, len(categories))
	for _, cat := range categories {
		counts[cat]++
	}
	best, bestN := "", -1
	for cat, n := range counts {
		switch {
		case n > bestN:
			best, bestN = cat, n
		case n == bestN:
			if r, br := c.Rank(cat), c.Rank(best); r < br || (r == br && cat < best) {
				best = cat
			}
		}
	}
	return best
}

// Cluster groups projects falling into the same cellPx-wide grid cell at zoom.
// Single-project cells are emitted as plain project features.
func (c *Catalog) Cluster(items []domain.Project, zoom, cellPx int) FeatureCollection {
	zoom = clampZoom(zoom)
	if cellPx <= 0 {
		cellPx = DefaultCellPx
	}

	cells := make(map[cellKey][]domain.Project)
	for _, p := range items {
		x, y := project(p.Latitude, p.Longitude, zoom)
		k := cellKey{x: int(math.Floor(x / float64(cellPx))), y: int(math.Floor(y / float64(cellPx)))}
		cells[k] = append(cells[k], p)
	}

	keys := make([]cellKey, 0, len(cells))
	for k := range cells {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].y != keys[j].y {
			return keys[i].y < keys[j].y
		}
		return keys[i].x < keys[j].x
	})

	fc := FeatureCollection{Type: "FeatureCollection", Features: make([]Feature, 0, len(keys))}
	for _, k := range keys {
		members := cells[k]
		sort.Slice(members, func(i, j int) bool { return members[i].ID < members[j].ID })

		if len(members) == 1 {
			fc.Features = append(fc.Features, c.ProjectFeature(members[0]))
			continue
		}
		fc.Features = append(fc.Features, c.clusterFeature(k, zoom, members))
	}
	return fc
}

func (c *Catalog) clusterFeature(k cellKey, zoom int, members []domain.Project) Feature {
	var sumLat, sumLng float64
	cats := make([]string, 0, len(members))
	ids := make([]string, 0, len(members))
	for _, p := range members {
		sumLat += p.Latitude
		sumLng += p.Longitude
		cats = append(cats, p.Category)
		ids = append(ids, p.ID)
	}
	n := float64(len(members))
	dominant := c.DominantCategory(cats)

	return Feature{
		Type:     "Feature",
		ID:       fmt.Sprintf("cluster:%d:%d:%d", zoom, k.x, k.y),
		Geometry: point(sumLat/n, sumLng/n),
		Properties: map[string]interface{}{
			"cluster":     true,
			"count":       len(members),
			"category":    dominant,
			"color":       c.Style(dominant).Color,
			"size":        ClusterSize(len(members)),
			"project_ids": ids,
		},
	}
}
