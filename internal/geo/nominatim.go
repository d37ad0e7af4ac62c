// Package geo turns district and street names into "lat, lon" start points
// using a geocoding service.
package geo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

var (
	// ErrNoResult indicates the geocoder found no match for a query.
	ErrNoResult = errors.New("geocoder returned no result")

	// ErrUnavailable indicates the geocoder could not be reached.
	ErrUnavailable = errors.New("geocoder unavailable")
)

// Point is a resolved coordinate.
type Point struct {
	Lat float64
	Lon float64
}

// String formats the point the way it is stored on a record.
func (p Point) String() string {
	return strconv.FormatFloat(p.Lat, 'f', -1, 64) + ", " + strconv.FormatFloat(p.Lon, 'f', -1, 64)
}

// Geocoder resolves a free-text address query to a coordinate.
type Geocoder interface {
	Geocode(ctx context.Context, query string) (Point, error)
}

// NominatimConfig configures the OpenStreetMap Nominatim client.
type NominatimConfig struct {
	Endpoint  string
	UserAgent string
	Timeout   time.Duration
}

// DefaultNominatimConfig returns the public Nominatim endpoint with a 5s
// per-query timeout.
func DefaultNominatimConfig() NominatimConfig {
	return NominatimConfig{
		Endpoint:  "https://nominatim.openstreetmap.org",
		UserAgent: "municipal_bot",
		Timeout:   5 * time.Second,
	}
}

// NominatimClient implements Geocoder against the Nominatim search API.
type NominatimClient struct {
	cfg  NominatimConfig
	http *http.Client
}

// NewNominatimClient creates a Nominatim-backed Geocoder.
func NewNominatimClient(cfg NominatimConfig) *NominatimClient {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultNominatimConfig().Timeout
	}
	return &NominatimClient{
		cfg: cfg,
		http: &http.Client{
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: 5 * time.Second,
				}).DialContext,
			},
		},
	}
}

type nominatimPlace struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

func (c *NominatimClient) Geocode(ctx context.Context, query string) (Point, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "json")
	params.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.Endpoint+"/search?"+params.Encode(), nil)
	if err != nil {
		return Point{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return Point{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Point{}, fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return Point{}, fmt.Errorf("nominatim returned status %d: %s", resp.StatusCode, string(body))
	}

	var places []nominatimPlace
	if err := json.Unmarshal(body, &places); err != nil {
		return Point{}, fmt.Errorf("decoding response: %w", err)
	}
	if len(places) == 0 {
		return Point{}, ErrNoResult
	}

	lat, err := strconv.ParseFloat(places[0].Lat, 64)
	if err != nil {
		return Point{}, fmt.Errorf("parsing latitude %q: %w", places[0].Lat, err)
	}
	lon, err := strconv.ParseFloat(places[0].Lon, 64)
	if err != nil {
		return Point{}, fmt.Errorf("parsing longitude %q: %w", places[0].Lon, err)
	}
	return Point{Lat: lat, Lon: lon}, nil
}
