// README: Assignment service: builds the candidate pool, applies a strategy, writes the result.
package assignment

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"lastmile/internal/config"
	"lastmile/internal/modules/fleet"
	"lastmile/internal/modules/geo"
	"lastmile/internal/modules/order"
	"lastmile/internal/types"
)

// CourierSource is the slice of the fleet registry the engine needs.
type CourierSource interface {
	Active() []fleet.Courier
}

// OrderStore is the order-store collaborator surface used here.
type OrderStore interface {
	Get(ctx context.Context, id types.ID) (*order.Order, error)
	AssignCourier(ctx context.Context, id types.ID, courierID types.ID, name, phone string, version int) (bool, error)
	CountActiveByCourier(ctx context.Context, courierID types.ID) (int, error)
	AppendHistory(ctx context.Context, orderID types.ID, status, message string) error
}

type Service struct {
	fleet CourierSource
	store OrderStore
	cfg   config.DispatchConfig
	log   zerolog.Logger
	now   func() time.Time
}

func NewService(fleet CourierSource, store OrderStore, cfg config.DispatchConfig, log zerolog.Logger) *Service {
	return &Service{fleet: fleet, store: store, cfg: cfg, log: log, now: time.Now}
}

// Assign chooses exactly one active courier for the order, or determines that
// none is assignable. A (nil, nil) return is the expected "no assignment"
// outcome: auto-assignment disabled, empty pool, or no strategy match; no
// order mutation happens in any of those cases.
func (s *Service) Assign(ctx context.Context, orderID types.ID, strategy Strategy) (*Assignment, error) {
	if !s.cfg.AutoAssignEnabled {
		return nil, nil
	}
	if strategy == "" {
		var err error
		strategy, err = ParseStrategy(s.cfg.Strategy)
		if err != nil {
			return nil, err
		}
	}

	o, err := s.store.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}

	pool, err := s.buildCandidates(ctx, o)
	if err != nil {
		return nil, err
	}
	if len(pool) == 0 {
		return nil, nil
	}

	chosen := pickerFor(strategy, s.cfg.MaxProximityMeters).pick(pool, s.now())
	if chosen == nil {
		s.log.Info().Str("order", string(orderID)).Str("strategy", string(strategy)).
			Msg("no assignable courier")
		return nil, nil
	}

	c := chosen.Courier
	ok, err := s.store.AssignCourier(ctx, orderID, c.ID, c.Name, c.Phone, o.StatusVersion)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, order.ErrConflict
	}
	_ = s.store.AppendHistory(ctx, orderID, string(order.StatusOutForDelivery),
		fmt.Sprintf("assigned to %s via %s", c.Name, strategy))

	s.log.Info().Str("order", string(orderID)).Str("courier", string(c.ID)).
		Str("strategy", string(strategy)).Int("load", chosen.Load).Msg("order assigned")
	return &Assignment{CourierID: c.ID, CourierName: c.Name, Strategy: strategy}, nil
}

// buildCandidates annotates every active courier with its current load and,
// when both positions are known, the distance to the order's delivery point.
func (s *Service) buildCandidates(ctx context.Context, o *order.Order) ([]Candidate, error) {
	active := s.fleet.Active()
	pool := make([]Candidate, 0, len(active))
	for _, c := range active {
		load, err := s.store.CountActiveByCourier(ctx, c.ID)
		if err != nil {
			return nil, err
		}
		cand := Candidate{Courier: c, Load: load}
		if o.DeliveryPoint != nil && c.LastKnown != nil {
			d := geo.DistanceMeters(*o.DeliveryPoint, *c.LastKnown)
			cand.Distance = &d
		}
		pool = append(pool, cand)
	}
	return pool, nil
}
