// README: Geo resolver: zone membership plus cached, throttled address lookups.
package geo

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"lastmile/internal/maps"
	"lastmile/internal/types"
)

// ErrLookup wraps any failure of the external address-lookup collaborator.
// Callers decide whether to retry; the resolver never retries itself.
var ErrLookup = errors.New("address lookup failed")

// AddressLookup is the external geocoding collaborator.
type AddressLookup interface {
	ReverseGeocode(ctx context.Context, p types.Point) (maps.Address, error)
	Geocode(ctx context.Context, query string) ([]maps.Address, error)
}

// Cache stores resolved lookups for a fixed TTL. A miss is (zero, false, nil).
type Cache interface {
	GetAddress(ctx context.Context, key string) (maps.Address, bool, error)
	SetAddress(ctx context.Context, key string, a maps.Address) error
	GetAddresses(ctx context.Context, key string) ([]maps.Address, bool, error)
	SetAddresses(ctx context.Context, key string, a []maps.Address) error
}

// Resolver classifies coordinates against the configured service areas and
// translates between coordinates and addresses.
type Resolver struct {
	mu     sync.RWMutex
	areas  []ServiceArea
	lookup AddressLookup
	cache  Cache
	log    zerolog.Logger
}

func NewResolver(areas []ServiceArea, lookup AddressLookup, cache Cache, log zerolog.Logger) (*Resolver, error) {
	if err := validateAreas(areas); err != nil {
		return nil, err
	}
	return &Resolver{areas: areas, lookup: lookup, cache: cache, log: log}, nil
}

// ResolveZone returns the first configured area containing p; configuration
// order breaks ties, which is an explicit policy. When no area contains p the
// nearest area is reported with a not-serviceable verdict.
func (r *Resolver) ResolveZone(p types.Point) ZoneResult {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var nearest *ServiceArea
	nearestDist := 0.0
	for i := range r.areas {
		d := DistanceMeters(r.areas[i].Center, p)
		if d <= r.areas[i].RadiusMeters {
			area := r.areas[i]
			return ZoneResult{Area: &area, DistanceMeters: d, Serviceable: true}
		}
		if nearest == nil || d < nearestDist {
			area := r.areas[i]
			nearest = &area
			nearestDist = d
		}
	}
	return ZoneResult{Area: nearest, DistanceMeters: nearestDist, Serviceable: false}
}

// ReplaceAreas swaps the full service-area configuration. This is the only
// runtime mutation of the area list.
func (r *Resolver) ReplaceAreas(areas []ServiceArea) error {
	if err := validateAreas(areas); err != nil {
		return err
	}
	cp := make([]ServiceArea, len(areas))
	copy(cp, areas)
	r.mu.Lock()
	r.areas = cp
	r.mu.Unlock()
	return nil
}

// Areas returns a copy of the current service-area configuration.
func (r *Resolver) Areas() []ServiceArea {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cp := make([]ServiceArea, len(r.areas))
	copy(cp, r.areas)
	return cp
}

// ReverseLookup resolves a coordinate to an address, cache first.
func (r *Resolver) ReverseLookup(ctx context.Context, p types.Point) (maps.Address, error) {
	if r.lookup == nil {
		return maps.Address{}, fmt.Errorf("%w: no lookup collaborator configured", ErrLookup)
	}
	key := reverseKey(p)
	if r.cache != nil {
		if a, ok, err := r.cache.GetAddress(ctx, key); err == nil && ok {
			return a, nil
		} else if err != nil {
			r.log.Warn().Err(err).Str("key", key).Msg("geocode cache read failed")
		}
	}
	a, err := r.lookup.ReverseGeocode(ctx, p)
	if err != nil {
		return maps.Address{}, fmt.Errorf("%w: %w", ErrLookup, err)
	}
	if r.cache != nil {
		if err := r.cache.SetAddress(ctx, key, a); err != nil {
			r.log.Warn().Err(err).Str("key", key).Msg("geocode cache write failed")
		}
	}
	return a, nil
}

// ForwardLookup resolves a free-text query to candidate addresses, cache first.
func (r *Resolver) ForwardLookup(ctx context.Context, query string) ([]maps.Address, error) {
	if r.lookup == nil {
		return nil, fmt.Errorf("%w: no lookup collaborator configured", ErrLookup)
	}
	key := forwardKey(query)
	if r.cache != nil {
		if as, ok, err := r.cache.GetAddresses(ctx, key); err == nil && ok {
			return as, nil
		} else if err != nil {
			r.log.Warn().Err(err).Str("key", key).Msg("geocode cache read failed")
		}
	}
	as, err := r.lookup.Geocode(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLookup, err)
	}
	if r.cache != nil {
		if err := r.cache.SetAddresses(ctx, key, as); err != nil {
			r.log.Warn().Err(err).Str("key", key).Msg("geocode cache write failed")
		}
	}
	return as, nil
}

func validateAreas(areas []ServiceArea) error {
	for _, a := range areas {
		if a.Name == "" {
			return errors.New("service area with empty name")
		}
		if a.RadiusMeters <= 0 {
			return fmt.Errorf("service area %q: radius must be > 0", a.Name)
		}
	}
	return nil
}
