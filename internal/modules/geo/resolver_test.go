// README: Resolver tests: zone policy, lookup caching, error surface.
package geo

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"lastmile/internal/maps"
	"lastmile/internal/types"
)

func testAreas() []ServiceArea {
	return []ServiceArea{
		{Name: "downtown", PostalCode: "34000", Center: types.Point{Lat: 41.00, Lng: 29.00}, RadiusMeters: 3000},
		{Name: "harbor", PostalCode: "34100", Center: types.Point{Lat: 41.02, Lng: 29.05}, RadiusMeters: 4000},
	}
}

func newTestResolver(t *testing.T, lookup AddressLookup, cache Cache) *Resolver {
	t.Helper()
	r, err := NewResolver(testAreas(), lookup, cache, zerolog.Nop())
	if err != nil {
		t.Fatalf("new resolver: %v", err)
	}
	return r
}

// ---------------------------------------------------------------------------
// Zone resolution
// ---------------------------------------------------------------------------

func TestResolveZone_InsideFirstArea(t *testing.T) {
	r := newTestResolver(t, nil, nil)
	res := r.ResolveZone(types.Point{Lat: 41.001, Lng: 29.001})
	if !res.Serviceable {
		t.Fatal("point inside downtown should be serviceable")
	}
	if res.Area.Name != "downtown" {
		t.Errorf("got area %q, want downtown", res.Area.Name)
	}
}

// Overlapping areas: the first listed area wins, as an explicit policy.
func TestResolveZone_OverlapFirstListedWins(t *testing.T) {
	areas := []ServiceArea{
		{Name: "a", Center: types.Point{Lat: 41.0, Lng: 29.0}, RadiusMeters: 10000},
		{Name: "b", Center: types.Point{Lat: 41.0, Lng: 29.0}, RadiusMeters: 10000},
	}
	r, err := NewResolver(areas, nil, nil, zerolog.Nop())
	if err != nil {
		t.Fatalf("new resolver: %v", err)
	}
	res := r.ResolveZone(types.Point{Lat: 41.0, Lng: 29.0})
	if !res.Serviceable || res.Area.Name != "a" {
		t.Errorf("overlap should resolve to first listed area, got %+v", res)
	}
}

func TestResolveZone_OutsideReturnsNearest(t *testing.T) {
	r := newTestResolver(t, nil, nil)
	// Far east of both areas, but closer to harbor.
	res := r.ResolveZone(types.Point{Lat: 41.02, Lng: 29.50})
	if res.Serviceable {
		t.Fatal("point ~38km east should not be serviceable")
	}
	if res.Area == nil || res.Area.Name != "harbor" {
		t.Errorf("nearest area should be harbor, got %+v", res.Area)
	}
	if res.DistanceMeters <= 4000 {
		t.Errorf("reported distance %f should exceed the harbor radius", res.DistanceMeters)
	}
}

func TestResolveZone_Deterministic(t *testing.T) {
	r := newTestResolver(t, nil, nil)
	p := types.Point{Lat: 41.005, Lng: 29.02}
	first := r.ResolveZone(p)
	for i := 0; i < 10; i++ {
		got := r.ResolveZone(p)
		if got.Serviceable != first.Serviceable || got.Area.Name != first.Area.Name {
			t.Fatalf("run %d: verdict changed: %+v vs %+v", i, got, first)
		}
	}
}

func TestResolveZone_NoAreasConfigured(t *testing.T) {
	r, err := NewResolver(nil, nil, nil, zerolog.Nop())
	if err != nil {
		t.Fatalf("new resolver: %v", err)
	}
	res := r.ResolveZone(types.Point{Lat: 41.0, Lng: 29.0})
	if res.Serviceable || res.Area != nil {
		t.Errorf("empty configuration should yield a nil, not-serviceable verdict, got %+v", res)
	}
}

func TestReplaceAreas_RejectsInvalidRadius(t *testing.T) {
	r := newTestResolver(t, nil, nil)
	err := r.ReplaceAreas([]ServiceArea{{Name: "bad", RadiusMeters: 0}})
	if err == nil {
		t.Fatal("zero radius should be rejected")
	}
	// The previous configuration must survive a rejected replace.
	if len(r.Areas()) != 2 {
		t.Errorf("area list changed after rejected replace: %d areas", len(r.Areas()))
	}
}

func TestReplaceAreas_Swaps(t *testing.T) {
	r := newTestResolver(t, nil, nil)
	next := []ServiceArea{{Name: "north", Center: types.Point{Lat: 42.0, Lng: 29.0}, RadiusMeters: 2000}}
	if err := r.ReplaceAreas(next); err != nil {
		t.Fatalf("replace: %v", err)
	}
	res := r.ResolveZone(types.Point{Lat: 42.0, Lng: 29.0})
	if !res.Serviceable || res.Area.Name != "north" {
		t.Errorf("replaced configuration not in effect: %+v", res)
	}
}

// ---------------------------------------------------------------------------
// Lookups: cache short-circuit and typed errors
// ---------------------------------------------------------------------------

// mockLookup is an in-memory AddressLookup counting outbound calls.
type mockLookup struct {
	mu      sync.Mutex
	calls   int
	address maps.Address
	err     error
}

func (m *mockLookup) ReverseGeocode(_ context.Context, _ types.Point) (maps.Address, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	return m.address, m.err
}

func (m *mockLookup) Geocode(_ context.Context, _ string) ([]maps.Address, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return []maps.Address{m.address}, nil
}

func (m *mockLookup) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// memCache is an in-memory Cache (no TTL, fine for unit tests).
type memCache struct {
	mu     sync.Mutex
	single map[string]maps.Address
	multi  map[string][]maps.Address
}

func newMemCache() *memCache {
	return &memCache{single: map[string]maps.Address{}, multi: map[string][]maps.Address{}}
}

func (c *memCache) GetAddress(_ context.Context, key string) (maps.Address, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	a, ok := c.single[key]
	return a, ok, nil
}

func (c *memCache) SetAddress(_ context.Context, key string, a maps.Address) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.single[key] = a
	return nil
}

func (c *memCache) GetAddresses(_ context.Context, key string) ([]maps.Address, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	as, ok := c.multi[key]
	return as, ok, nil
}

func (c *memCache) SetAddresses(_ context.Context, key string, as []maps.Address) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.multi[key] = as
	return nil
}

func TestReverseLookup_CacheShortCircuit(t *testing.T) {
	lookup := &mockLookup{address: maps.Address{Formatted: "1 Harbor St"}}
	r := newTestResolver(t, lookup, newMemCache())
	ctx := context.Background()
	p := types.Point{Lat: 41.02, Lng: 29.05}

	first, err := r.ReverseLookup(ctx, p)
	if err != nil {
		t.Fatalf("first lookup: %v", err)
	}
	second, err := r.ReverseLookup(ctx, p)
	if err != nil {
		t.Fatalf("second lookup: %v", err)
	}
	if first != second {
		t.Errorf("cached result differs: %+v vs %+v", first, second)
	}
	if lookup.callCount() != 1 {
		t.Errorf("collaborator called %d times, want 1 (cache hit on second)", lookup.callCount())
	}
}

func TestReverseLookup_RoundedKeySharesEntry(t *testing.T) {
	lookup := &mockLookup{address: maps.Address{Formatted: "1 Harbor St"}}
	r := newTestResolver(t, lookup, newMemCache())
	ctx := context.Background()

	// Differ only past the 5th decimal (~1m apart).
	if _, err := r.ReverseLookup(ctx, types.Point{Lat: 41.020001, Lng: 29.050001}); err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if _, err := r.ReverseLookup(ctx, types.Point{Lat: 41.020004, Lng: 29.050004}); err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if lookup.callCount() != 1 {
		t.Errorf("collaborator called %d times, want 1 (rounded key)", lookup.callCount())
	}
}

func TestForwardLookup_ErrorIsTyped(t *testing.T) {
	lookup := &mockLookup{err: errors.New("boom")}
	r := newTestResolver(t, lookup, newMemCache())

	_, err := r.ForwardLookup(context.Background(), "1 Harbor St")
	if !errors.Is(err, ErrLookup) {
		t.Errorf("want ErrLookup, got %v", err)
	}
}

func TestForwardLookup_NormalizedQueryKey(t *testing.T) {
	lookup := &mockLookup{address: maps.Address{Formatted: "1 Harbor St"}}
	r := newTestResolver(t, lookup, newMemCache())
	ctx := context.Background()

	if _, err := r.ForwardLookup(ctx, "Harbor  Street 1"); err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if _, err := r.ForwardLookup(ctx, "harbor street 1"); err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if lookup.callCount() != 1 {
		t.Errorf("collaborator called %d times, want 1 (normalized query)", lookup.callCount())
	}
}
