package domain

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	// MinQueryLength is the shortest search text forwarded upstream, in characters.
	MinQueryLength = 3
	SearchLimit    = 5
	// ReverseZoom asks the geocoder for city-level addresses.
	ReverseZoom = 10
)

// DefaultCountryCodes narrows searches to the West and Central African
// countries projects are posted from.
var DefaultCountryCodes = []string{"bj", "tg", "ci", "sn", "ml", "ne", "bf", "gh", "ng", "cm", "ga", "cg"}

// Place is one geocoding answer.
type Place struct {
	DisplayName string    `json:"displayName"`
	Lat         float64   `json:"lat"`
	Lng         float64   `json:"lng"`
	Class       string    `json:"class,omitempty"`
	Type        string    `json:"type,omitempty"`
	BoundingBox []float64 `json:"boundingBox,omitempty"` // south, north, west, east
}

// NormalizeQuery trims and lowercases q so equivalent searches share a cache entry.
func NormalizeQuery(q string) string {
	return strings.ToLower(strings.Join(strings.Fields(q), " "))
}

// ValidQuery reports whether the normalized query is long enough to search.
func ValidQuery(q string) bool {
	return utf8.RuneCountInString(q) >= MinQueryLength
}

// CoordinateLabel is the display name used when no address is known for a point.
func CoordinateLabel(lat, lng float64) string {
	return fmt.Sprintf("%.4f, %.4f", lat, lng)
}
