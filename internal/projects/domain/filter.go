package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

const (
	CategoryAll  = "all"
	DateLayout   = "2006-01-02"
	DefaultLimit = 100
	MaxLimit     = 500
)

// BBox is a lng/lat bounding box. MinLng > MaxLng means the box crosses the antimeridian.
type BBox struct {
	MinLng float64 `json:"min_lng"`
	MinLat float64 `json:"min_lat"`
	MaxLng float64 `json:"max_lng"`
	MaxLat float64 `json:"max_lat"`
}

func (b BBox) Contains(lat, lng float64) bool {
	if lat < b.MinLat || lat > b.MaxLat {
		return false
	}
	if b.MinLng <= b.MaxLng {
		return lng >= b.MinLng && lng <= b.MaxLng
	}
	return lng >= b.MinLng || lng <= b.MaxLng
}

// ParseBBox reads "minLng,minLat,maxLng,maxLat".
func ParseBBox(s string) (*BBox, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return nil, fmt.Errorf("bbox must be minLng,minLat,maxLng,maxLat")
	}
	var v [4]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, fmt.Errorf("bbox value %q is not a number", p)
		}
		v[i] = f
	}
	b := &BBox{MinLng: v[0], MinLat: v[1], MaxLng: v[2], MaxLat: v[3]}
	if b.MinLat > b.MaxLat {
		return nil, fmt.Errorf("bbox min latitude is above max latitude")
	}
	if b.MinLat < -90 || b.MaxLat > 90 || b.MinLng < -180 || b.MaxLng > 180 {
		return nil, fmt.Errorf("bbox is out of range")
	}
	return b, nil
}

func (b BBox) String() string {
	return fmt.Sprintf("%g,%g,%g,%g", b.MinLng, b.MinLat, b.MaxLng, b.MaxLat)
}

// Filter restricts project listings. Zero values mean "no restriction".
type Filter struct {
	Category string
	Status   string
	AuthorID string
	From     *time.Time
	To       *time.Time
	BBox     *BBox
	Limit    int
	Offset   int
}

// HasCriteria reports whether the filter narrows the result set beyond status and paging.
func (f Filter) HasCriteria() bool {
	return f.category() != "" || f.AuthorID != "" || f.From != nil || f.To != nil || f.BBox != nil
}

func (f Filter) category() string {
	if f.Category == CategoryAll {
		return ""
	}
	return f.Category
}

// NormalizedCategory returns the category restriction, mapping "all" to "".
func (f Filter) NormalizedCategory() string {
	return f.category()
}

// ToExclusive returns the exclusive upper bound for the date range: the day after To.
func (f Filter) ToExclusive() *time.Time {
	if f.To == nil {
		return nil
	}
	t := f.To.AddDate(0, 0, 1)
	return &t
}

func (f Filter) EffectiveLimit() int {
	switch {
	case f.Limit <= 0:
		return DefaultLimit
	case f.Limit > MaxLimit:
		return MaxLimit
	}
	return f.Limit
}

// Matches applies the filter in memory. It mirrors the SQL built by the repository.
func (f Filter) Matches(p Project) bool {
	if c := f.category(); c != "" && p.Category != c {
		return false
	}
	if f.Status != "" && p.Status != f.Status {
		return false
	}
	if f.AuthorID != "" && p.AuthorID != f.AuthorID {
		return false
	}
	if f.From != nil && p.CreatedAt.Before(*f.From) {
		return false
	}
	if end := f.ToExclusive(); end != nil && !p.CreatedAt.Before(*end) {
		return false
	}
	if f.BBox != nil && !f.BBox.Contains(p.Latitude, p.Longitude) {
		return false
	}
	return true
}

// Apply filters and pages an in-memory slice.
func (f Filter) Apply(items []Project) []Project {
	out := make([]Project, 0, len(items))
	for _, p := range items {
		if f.Matches(p) {
			out = append(out, p)
		}
	}
	if f.Offset >= len(out) {
		return []Project{}
	}
	out = out[f.Offset:]
	if limit := f.EffectiveLimit(); len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Key is a stable representation used for cache keys.
func (f Filter) Key() string {
	var b strings.Builder
	b.WriteString("c=" + f.category())
	b.WriteString("|s=" + f.Status)
	b.WriteString("|a=" + f.AuthorID)
	if f.From != nil {
		b.WriteString("|f=" + f.From.Format(DateLayout))
	}
	if f.To != nil {
		b.WriteString("|t=" + f.To.Format(DateLayout))
	}
	if f.BBox != nil {
		b.WriteString("|b=" + f.BBox.String())
	}
	fmt.Fprintf(&b, "|l=%d|o=%d", f.EffectiveLimit(), f.Offset)
	return b.String()
}

// ParseDate parses a YYYY-MM-DD day in UTC.
func ParseDate(s string) (*time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, strings.TrimSpace(s), time.UTC)
	if err != nil {
		return nil, fmt.Errorf("date %q must be YYYY-MM-DD", s)
	}
	return &t, nil
}
