package geo

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Lookup outcomes reported to observers.
const (
	ResultHit    = "hit"
	ResultMiss   = "miss"
	ResultError  = "error"
	ResultCached = "cached"
)

// LookupEvent records one geocoder query made by the resolver.
type LookupEvent struct {
	Query     string
	Result    string
	LatencyMs int64
}

// Observer receives resolver lookup events for logging and metrics.
type Observer interface {
	OnLookup(event LookupEvent)
}

// NoopObserver discards all events.
type NoopObserver struct{}

func (NoopObserver) OnLookup(LookupEvent) {}

// DefaultCacheSize is the memo bound used when none is configured.
const DefaultCacheSize = 1024

// ResolverConfig holds the fixed city and country appended to queries.
type ResolverConfig struct {
	City      string
	Country   string
	// CacheSize caps the memo; the least recently used query is evicted.
	CacheSize int
}

// Resolver looks up start points, street first then district, and
// memoizes answers per query string.
type Resolver struct {
	geocoder Geocoder
	cfg      ResolverConfig
	logger   *slog.Logger
	observer Observer
	cache    *lru.Cache[string, string]
}

// NewResolver creates a Resolver over geocoder.
func NewResolver(geocoder Geocoder, cfg ResolverConfig, logger *slog.Logger, observer Observer) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	if observer == nil {
		observer = NoopObserver{}
	}
	if cfg.CacheSize <= 0 {
		cfg.CacheSize = DefaultCacheSize
	}
	// lru.New only fails for a non-positive size.
	cache, _ := lru.New[string, string](cfg.CacheSize)
	return &Resolver{
		geocoder: geocoder,
		cfg:      cfg,
		logger:   logger,
		observer: observer,
		cache:    cache,
	}
}

// Resolve returns "lat, lon" for the street within district, falling back
// to the district alone. It reports false when every query fails.
func (r *Resolver) Resolve(ctx context.Context, district, street string) (string, bool) {
	district = strings.TrimSpace(district)
	street = strings.TrimSpace(street)
	if district == "" {
		return "", false
	}

	var queries []string
	if street != "" {
		queries = append(queries, r.query(street, district))
	}
	queries = append(queries, r.query(district))

	for _, q := range queries {
		if coords, ok := r.lookup(ctx, q); ok {
			return coords, true
		}
	}
	r.logger.Warn("location not resolved", "district", district, "street", street)
	return "", false
}

func (r *Resolver) query(parts ...string) string {
	for _, extra := range []string{r.cfg.City, r.cfg.Country} {
		if extra != "" {
			parts = append(parts, extra)
		}
	}
	return strings.Join(parts, ", ")
}

// lookup consults the cache before the geocoder. Empty cache entries mark
// queries known to have no match; transport errors are not cached.
func (r *Resolver) lookup(ctx context.Context, q string) (string, bool) {
	if cached, seen := r.cache.Get(q); seen {
		r.observer.OnLookup(LookupEvent{Query: q, Result: ResultCached})
		return cached, cached != ""
	}

	start := time.Now()
	point, err := r.geocoder.Geocode(ctx, q)
	latency := time.Since(start).Milliseconds()

	switch {
	case err == nil:
		coords := point.String()
		r.cache.Add(q, coords)
		r.observer.OnLookup(LookupEvent{Query: q, Result: ResultHit, LatencyMs: latency})
		r.logger.Info("location resolved", "query", q, "coords", coords)
		return coords, true
	case errors.Is(err, ErrNoResult):
		r.cache.Add(q, "")
		r.observer.OnLookup(LookupEvent{Query: q, Result: ResultMiss, LatencyMs: latency})
		return "", false
	default:
		r.observer.OnLookup(LookupEvent{Query: q, Result: ResultError, LatencyMs: latency})
		r.logger.Error("geocoder query failed", "query", q, "error", err)
		return "", false
	}
}
