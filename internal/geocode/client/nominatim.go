package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/ilewa/ilewa-backend/internal/geocode/domain"
)

const (
	DefaultBaseURL   = "https://nominatim.openstreetmap.org"
	DefaultUserAgent = "ILEWA-App/1.0"
	// DefaultInterval follows the public Nominatim usage policy of one request per second.
	DefaultInterval = time.Second
)

// ErrNoResult is returned by Reverse when the point has no address.
var ErrNoResult = errors.New("geocoder found no address")

type Config struct {
	BaseURL      string
	UserAgent    string
	Interval     time.Duration
	Timeout      time.Duration
	CountryCodes []string
}

// Nominatim queries a Nominatim server. All calls share one limiter so the
// process never exceeds the configured request rate.
type Nominatim struct {
	baseURL      string
	userAgent    string
	countryCodes string
	http         *http.Client
	limiter      *rate.Limiter
}

func NewNominatim(cfg Config) *Nominatim {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &Nominatim{
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		userAgent:    cfg.UserAgent,
		countryCodes: strings.Join(cfg.CountryCodes, ","),
		http:         &http.Client{Timeout: cfg.Timeout},
		limiter:      rate.NewLimiter(rate.Every(cfg.Interval), 1),
	}
}

type place struct {
	Lat         string   `json:"lat"`
	Lon         string   `json:"lon"`
	DisplayName string   `json:"display_name"`
	Class       string   `json:"class"`
	Type        string   `json:"type"`
	BoundingBox []string `json:"boundingbox"`
	Error       string   `json:"error"`
}

func (p place) toDomain() (domain.Place, error) {
	lat, err := strconv.ParseFloat(p.Lat, 64)
	if err != nil {
		return domain.Place{}, fmt.Errorf("bad lat %q: %w", p.Lat, err)
	}
	lng, err := strconv.ParseFloat(p.Lon, 64)
	if err != nil {
		return domain.Place{}, fmt.Errorf("bad lon %q: %w", p.Lon, err)
	}
	out := domain.Place{DisplayName: p.DisplayName, Lat: lat, Lng: lng, Class: p.Class, Type: p.Type}
	if len(p.BoundingBox) == 4 {
		box := make([]float64, 0, 4)
		for _, s := range p.BoundingBox {
			f, err := strconv.ParseFloat(s, 64)
			if err != nil {
				box = nil
				break
			}
			box = append(box, f)
		}
		out.BoundingBox = box
	}
	return out, nil
}

// Search looks up free text, returning at most domain.SearchLimit places.
func (n *Nominatim) Search(ctx context.Context, q string) ([]domain.Place, error) {
	params := url.Values{}
	params.Set("format", "json")
	params.Set("q", q)
	params.Set("limit", strconv.Itoa(domain.SearchLimit))
	if n.countryCodes != "" {
		params.Set("countrycodes", n.countryCodes)
	}

	var raw []place
	if err := n.get(ctx, "/search", params, &raw); err != nil {
		return nil, err
	}

	out := make([]domain.Place, 0, len(raw))
	for _, p := range raw {
		dp, err := p.toDomain()
		if err != nil {
			continue
		}
		out = append(out, dp)
	}
	return out, nil
}

// Reverse resolves a point to its nearest address.
func (n *Nominatim) Reverse(ctx context.Context, lat, lng float64) (*domain.Place, error) {
	params := url.Values{}
	params.Set("format", "json")
	params.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(lng, 'f', -1, 64))
	params.Set("zoom", strconv.Itoa(domain.ReverseZoom))

	var raw place
	if err := n.get(ctx, "/reverse", params, &raw); err != nil {
		return nil, err
	}
	if raw.Error != "" {
		return nil, ErrNoResult
	}
	p, err := raw.toDomain()
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (n *Nominatim) get(ctx context.Context, path string, params url.Values, dst any) error {
	if err := n.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("geocoder rate limit: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, n.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", n.userAgent)

	resp, err := n.http.Do(req)
	if err != nil {
		return fmt.Errorf("geocoder request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("geocoder http %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("failed to decode geocoder response: %w", err)
	}
	return nil
}
