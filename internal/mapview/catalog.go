package mapview

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var catalogYAML []byte

const defaultStyleKey = "default"

type MarkerStyle struct {
	Symbol      string `yaml:"symbol" json:"symbol"`
	AltSymbol   string `yaml:"alt_symbol" json:"alt_symbol"`
	Color       string `yaml:"color" json:"color"`
	BgColor     string `yaml:"bg_color" json:"bg_color"`
	BorderColor string `yaml:"border_color" json:"border_color"`
	Name        string `yaml:"name" json:"name"`
	Icon        string `yaml:"icon" json:"icon"`
}

type MarkerSize struct {
	Width      int `yaml:"width" json:"width"`
	Height     int `yaml:"height" json:"height"`
	FontSize   int `yaml:"font_size" json:"font_size"`
	SymbolSize int `yaml:"symbol_size" json:"symbol_size"`
}

type Category struct {
	Key   string      `yaml:"key" json:"key"`
	Label string      `yaml:"label" json:"label"`
	Style MarkerStyle `yaml:"-" json:"style"`
}

type Basemap struct {
	Key         string `yaml:"key" json:"key"`
	Name        string `yaml:"name" json:"name"`
	URL         string `yaml:"url" json:"url"`
	Attribution string `yaml:"attribution" json:"attribution"`
}

type View struct {
	Lat  float64 `yaml:"lat" json:"lat"`
	Lng  float64 `yaml:"lng" json:"lng"`
	Zoom int     `yaml:"zoom" json:"zoom"`
}

// Catalog holds the static map configuration: categories, their marker styles and basemaps.
type Catalog struct {
	DefaultBasemap string                 `yaml:"default_basemap" json:"default_basemap"`
	DefaultView    View                   `yaml:"default_view" json:"default_view"`
	MarkerSizes    map[string]MarkerSize  `yaml:"marker_sizes" json:"marker_sizes"`
	Styles         map[string]MarkerStyle `yaml:"styles" json:"-"`
	Categories     []Category             `yaml:"categories" json:"categories"`
	Basemaps       []Basemap              `yaml:"basemaps" json:"basemaps"`

	order map[string]int
}

// LoadCatalog parses the embedded catalog.
func LoadCatalog() (*Catalog, error) {
	return ParseCatalog(catalogYAML)
}

// MustLoadCatalog is LoadCatalog for process start-up.
func MustLoadCatalog() *Catalog {
	c, err := LoadCatalog()
	if err != nil {
		panic(err)
	}
	return c
}

func ParseCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse map catalog: %w", err)
	}
	if _, ok := c.Styles[defaultStyleKey]; !ok {
		return nil, fmt.Errorf("map catalog: missing %q marker style", defaultStyleKey)
	}
	if len(c.Basemaps) == 0 {
		return nil, fmt.Errorf("map catalog: no basemaps")
	}

	c.order = make(map[string]int, len(c.Categories))
	for i := range c.Categories {
		key := c.Categories[i].Key
		if _, dup := c.order[key]; dup {
			return nil, fmt.Errorf("map catalog: duplicate category %q", key)
		}
		c.order[key] = i
		c.Categories[i].Style = c.Style(key)
	}

	if _, ok := c.Basemap(c.DefaultBasemap); !ok {
		c.DefaultBasemap = c.Basemaps[0].Key
	}
	return &c, nil
}

func (c *Catalog) HasCategory(key string) bool {
	_, ok := c.order[key]
	return ok
}

// Style returns the marker style for a category, falling back to the default style.
func (c *Catalog) Style(category string) MarkerStyle {
	if s, ok := c.Styles[category]; ok {
		return s
	}
	return c.Styles[defaultStyleKey]
}

// Rank is the category's position in the catalog; unknown categories sort last.
func (c *Catalog) Rank(category string) int {
	if i, ok := c.order[category]; ok {
		return i
	}
	return len(c.order)
}

// Basemap looks a basemap up by key, case-insensitively.
func (c *Catalog) Basemap(key string) (Basemap, bool) {
	for _, b := range c.Basemaps {
		if strings.EqualFold(b.Key, key) {
			return b, true
		}
	}
	return Basemap{}, false
}

// WithDefaultBasemap overrides the configured default if key names a known basemap.
func (c *Catalog) WithDefaultBasemap(key string) *Catalog {
	if b, ok := c.Basemap(key); ok {
		c.DefaultBasemap = b.Key
	}
	return c
}
