// README: In-memory courier registry built once from configuration.
package fleet

import (
	"context"
	"errors"
	"sync"

	"lastmile/internal/config"
	"lastmile/internal/types"
)

var ErrCourierNotFound = errors.New("courier not found")

// LocationSink receives live position updates (the Redis GEO store in
// production; nil disables persistence).
type LocationSink interface {
	SetLocation(ctx context.Context, id types.ID, p types.Point) error
}

// Registry holds the courier fleet. Reads return copies so callers never see
// concurrent mutations.
type Registry struct {
	mu        sync.RWMutex
	order     []types.ID
	couriers  map[types.ID]*Courier
	locations LocationSink
}

func NewRegistry(configs []config.CourierConfig, locations LocationSink) *Registry {
	r := &Registry{
		couriers:  make(map[types.ID]*Courier, len(configs)),
		locations: locations,
	}
	for _, cc := range configs {
		c := fromConfig(cc)
		r.order = append(r.order, c.ID)
		r.couriers[c.ID] = c
	}
	return r
}

// All returns every courier in configuration order.
func (r *Registry) All() []Courier {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Courier, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, copyCourier(r.couriers[id]))
	}
	return out
}

// Active returns the couriers currently eligible for assignment, in
// configuration order.
func (r *Registry) Active() []Courier {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Courier, 0, len(r.order))
	for _, id := range r.order {
		if c := r.couriers[id]; c.Active {
			out = append(out, copyCourier(c))
		}
	}
	return out
}

func (r *Registry) Get(id types.ID) (Courier, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.couriers[id]
	if !ok {
		return Courier{}, ErrCourierNotFound
	}
	return copyCourier(c), nil
}

func (r *Registry) SetActive(id types.ID, active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.couriers[id]
	if !ok {
		return ErrCourierNotFound
	}
	c.Active = active
	return nil
}

// SetLocation updates the courier's last-known position and forwards it to
// the location sink when one is configured.
func (r *Registry) SetLocation(ctx context.Context, id types.ID, p types.Point) error {
	r.mu.Lock()
	c, ok := r.couriers[id]
	if !ok {
		r.mu.Unlock()
		return ErrCourierNotFound
	}
	pos := p
	c.LastKnown = &pos
	r.mu.Unlock()

	if r.locations != nil {
		return r.locations.SetLocation(ctx, id, p)
	}
	return nil
}

func copyCourier(c *Courier) Courier {
	cp := *c
	cp.Zones = append([]string(nil), c.Zones...)
	if c.LastKnown != nil {
		p := *c.LastKnown
		cp.LastKnown = &p
	}
	return cp
}
