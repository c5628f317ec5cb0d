package mapview

import (
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/ilewa/ilewa-backend/internal/apperr"
	"github.com/ilewa/ilewa-backend/internal/projects/domain"
)

const (
	MinZoom   = 0
	MaxZoom   = 19
	FocusZoom = 12
)

// ViewState is the initial map state seeded from a shareable URL.
type ViewState struct {
	Category  string       `json:"category"`
	StartDate string       `json:"startDate,omitempty"`
	EndDate   string       `json:"endDate,omitempty"`
	Center    View         `json:"center"`
	Basemap   string       `json:"basemap"`
	ProjectID string       `json:"project,omitempty"`
	BBox      *domain.BBox `json:"bbox,omitempty"`

	from *time.Time
	to   *time.Time
}

// ParseViewState reads category, startDate, endDate, lat, lng, zoom, project,
// basemap and bbox from q. Unknown basemaps fall back to the default; malformed
// values are validation errors.
func ParseViewState(q url.Values, c *Catalog) (ViewState, error) {
	v := ViewState{
		Category: domain.CategoryAll,
		Center:   c.DefaultView,
		Basemap:  c.DefaultBasemap,
	}

	if cat := strings.ToLower(strings.TrimSpace(q.Get("category"))); cat != "" && cat != domain.CategoryAll {
		if !c.HasCategory(cat) {
			return v, apperr.Validation("category", "is not a known category")
		}
		v.Category = cat
	}

	if s := q.Get("startDate"); s != "" {
		d, err := domain.ParseDate(s)
		if err != nil {
			return v, apperr.Validation("startDate", err.Error())
		}
		v.from, v.StartDate = d, d.Format(domain.DateLayout)
	}
	if s := q.Get("endDate"); s != "" {
		d, err := domain.ParseDate(s)
		if err != nil {
			return v, apperr.Validation("endDate", err.Error())
		}
		v.to, v.EndDate = d, d.Format(domain.DateLayout)
	}
	if v.from != nil && v.to != nil && v.from.After(*v.to) {
		return v, apperr.Validation("startDate", "must not be after endDate")
	}

	lat, hasLat, err := parseFloat(q, "lat")
	if err != nil {
		return v, err
	}
	lng, hasLng, err := parseFloat(q, "lng")
	if err != nil {
		return v, err
	}
	if hasLat != hasLng {
		return v, apperr.Validation("coordinates", "lat and lng must be given together")
	}
	if hasLat {
		if lat < -90 || lat > 90 {
			return v, apperr.Validation("lat", "must be between -90 and 90")
		}
		if lng < -180 || lng > 180 {
			return v, apperr.Validation("lng", "must be between -180 and 180")
		}
		v.Center.Lat, v.Center.Lng = lat, lng
	}

	if s := q.Get("zoom"); s != "" {
		z, err := strconv.Atoi(s)
		if err != nil {
			return v, apperr.Validation("zoom", "must be an integer")
		}
		v.Center.Zoom = clampZoom(z)
	}

	if s := q.Get("basemap"); s != "" {
		if b, ok := c.Basemap(s); ok {
			v.Basemap = b.Key
		}
	}

	if s := q.Get("bbox"); s != "" {
		b, err := domain.ParseBBox(s)
		if err != nil {
			return v, apperr.Validation("bbox", err.Error())
		}
		v.BBox = b
	}

	v.ProjectID = strings.TrimSpace(q.Get("project"))
	return v, nil
}

func parseFloat(q url.Values, key string) (float64, bool, error) {
	s := strings.TrimSpace(q.Get(key))
	if s == "" {
		return 0, false, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false, apperr.Validation(key, "must be a number")
	}
	return f, true, nil
}

func clampZoom(z int) int {
	if z < MinZoom {
		return MinZoom
	}
	if z > MaxZoom {
		return MaxZoom
	}
	return z
}

// Filter converts the view into a filter over approved projects.
func (v ViewState) Filter() domain.Filter {
	return domain.Filter{
		Category: v.Category,
		Status:   domain.StatusApproved,
		From:     v.from,
		To:       v.to,
		BBox:     v.BBox,
	}
}

// FocusOn centers the view on p, zooming in to at least FocusZoom.
func (v *ViewState) FocusOn(p domain.Project) {
	v.ProjectID = p.ID
	v.Center.Lat = p.Latitude
	v.Center.Lng = p.Longitude
	if v.Center.Zoom < FocusZoom {
		v.Center.Zoom = FocusZoom
	}
}

// Query encodes the view back into URL parameters, omitting defaults.
func (v ViewState) Query(c *Catalog) url.Values {
	q := url.Values{}
	if v.Category != "" && v.Category != domain.CategoryAll {
		q.Set("category", v.Category)
	}
	if v.StartDate != "" {
		q.Set("startDate", v.StartDate)
	}
	if v.EndDate != "" {
		q.Set("endDate", v.EndDate)
	}
	if v.Center != c.DefaultView {
		q.Set("lat", strconv.FormatFloat(v.Center.Lat, 'f', -1, 64))
		q.Set("lng", strconv.FormatFloat(v.Center.Lng, 'f', -1, 64))
		q.Set("zoom", strconv.Itoa(v.Center.Zoom))
	}
	if v.Basemap != "" && v.Basemap != c.DefaultBasemap {
		q.Set("basemap", v.Basemap)
	}
	if v.ProjectID != "" {
		q.Set("project", v.ProjectID)
	}
	if v.BBox != nil {
		q.Set("bbox", v.BBox.String())
	}
	return q
}
