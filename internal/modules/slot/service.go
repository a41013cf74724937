// README: Time-slot engine: availability reads and atomic slot-pair booking.
package slot

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"lastmile/internal/config"
	"lastmile/internal/modules/order"
	"lastmile/internal/types"
)

// BookingStore is the counter store; tests use an in-memory implementation
// with the same conditional-increment contract.
type BookingStore interface {
	BookedCounts(ctx context.Context, pool Pool, day time.Time) (map[string]int, error)
	Reserve(ctx context.Context, pool Pool, slotStart string, day time.Time, capacity int) (bool, error)
	Release(ctx context.Context, pool Pool, slotStart string, day time.Time) error
}

// OrderStore is the order-store collaborator surface used here.
type OrderStore interface {
	Get(ctx context.Context, id types.ID) (*order.Order, error)
	BookSlots(ctx context.Context, id types.ID, collection, delivery string, collectionETA, deliveryETA time.Time) error
	AppendHistory(ctx context.Context, orderID types.ID, status, message string) error
}

type Service struct {
	collection []Slot
	delivery   []Slot
	store      BookingStore
	orders     OrderStore
	enabled    bool
	loc        *time.Location
	log        zerolog.Logger
}

func NewService(
	collection, delivery []config.SlotConfig,
	store BookingStore,
	orders OrderStore,
	enabled bool,
	loc *time.Location,
	log zerolog.Logger,
) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{
		collection: slotsFromConfig(collection),
		delivery:   slotsFromConfig(delivery),
		store:      store,
		orders:     orders,
		enabled:    enabled,
		loc:        loc,
		log:        log,
	}
}

// Availability reports every configured slot of the pool for the date, in
// configured order.
func (s *Service) Availability(ctx context.Context, pool Pool, day time.Time) ([]Availability, error) {
	slots, err := s.slotsFor(pool)
	if err != nil {
		return nil, err
	}
	counts, err := s.store.BookedCounts(ctx, pool, day)
	if err != nil {
		return nil, err
	}
	out := make([]Availability, 0, len(slots))
	for _, sl := range slots {
		booked := counts[sl.Start]
		remaining := sl.Capacity - booked
		out = append(out, Availability{
			Slot:      sl,
			Booked:    booked,
			Remaining: remaining,
			Available: remaining > 0,
		})
	}
	return out, nil
}

// AutoBook commits the first available slot in each pool to the order and
// derives estimated timestamps from the slot start labels. A (nil, nil)
// return means one of the pools is exhausted; a partial booking (only one
// pool) is never produced. Rebooking releases the order's previous
// reservations against the day they were booked for, and only after the new
// pair is committed; a failed rebooking leaves the old booking intact.
func (s *Service) AutoBook(ctx context.Context, orderID types.ID, day time.Time) (*Booking, error) {
	if !s.enabled {
		return nil, nil
	}
	o, err := s.orders.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}

	collection, err := s.reserveFirst(ctx, PoolCollection, s.collection, day)
	if err != nil {
		return nil, err
	}
	if collection == nil {
		return nil, nil
	}
	delivery, err := s.reserveFirst(ctx, PoolDelivery, s.delivery, day)
	if err != nil {
		s.release(ctx, PoolCollection, collection.Start, day)
		return nil, err
	}
	if delivery == nil {
		s.release(ctx, PoolCollection, collection.Start, day)
		return nil, nil
	}

	collectionETA, err := slotTime(day, collection.Start, s.loc)
	if err != nil {
		s.releasePair(ctx, collection.Start, delivery.Start, day)
		return nil, err
	}
	deliveryETA, err := slotTime(day, delivery.Start, s.loc)
	if err != nil {
		s.releasePair(ctx, collection.Start, delivery.Start, day)
		return nil, err
	}

	if err := s.orders.BookSlots(ctx, orderID, collection.Start, delivery.Start, collectionETA, deliveryETA); err != nil {
		s.releasePair(ctx, collection.Start, delivery.Start, day)
		return nil, err
	}
	s.releasePrevious(ctx, o)
	_ = s.orders.AppendHistory(ctx, orderID, string(o.Status),
		fmt.Sprintf("time slots booked: collection %s, delivery %s", collection.Start, delivery.Start))

	s.log.Info().Str("order", string(orderID)).
		Str("collection", collection.Start).Str("delivery", delivery.Start).
		Msg("slot pair booked")
	return &Booking{
		Collection:    *collection,
		Delivery:      *delivery,
		CollectionETA: collectionETA,
		DeliveryETA:   deliveryETA,
	}, nil
}

// reserveFirst walks the pool in configured order and takes the first slot
// with free capacity. A lost race on one slot moves on to the next.
func (s *Service) reserveFirst(ctx context.Context, pool Pool, slots []Slot, day time.Time) (*Slot, error) {
	for i := range slots {
		ok, err := s.store.Reserve(ctx, pool, slots[i].Start, day, slots[i].Capacity)
		if err != nil {
			return nil, err
		}
		if ok {
			sl := slots[i]
			return &sl, nil
		}
	}
	return nil, nil
}

// releasePrevious returns the order's old reservations to their pools. The
// stored ETAs carry the day each reservation was counted against; releasing
// against any other day would corrupt that day's counters.
func (s *Service) releasePrevious(ctx context.Context, o *order.Order) {
	if o.CollectionSlot != nil && o.CollectionETA != nil {
		s.release(ctx, PoolCollection, *o.CollectionSlot, o.CollectionETA.In(s.loc))
	}
	if o.DeliverySlot != nil && o.DeliveryETA != nil {
		s.release(ctx, PoolDelivery, *o.DeliverySlot, o.DeliveryETA.In(s.loc))
	}
}

func (s *Service) releasePair(ctx context.Context, collectionStart, deliveryStart string, day time.Time) {
	s.release(ctx, PoolCollection, collectionStart, day)
	s.release(ctx, PoolDelivery, deliveryStart, day)
}

func (s *Service) release(ctx context.Context, pool Pool, slotStart string, day time.Time) {
	if err := s.store.Release(ctx, pool, slotStart, day); err != nil {
		s.log.Warn().Err(err).Str("pool", string(pool)).Str("slot", slotStart).
			Msg("failed to release slot reservation")
	}
}

func (s *Service) slotsFor(pool Pool) ([]Slot, error) {
	switch pool {
	case PoolCollection:
		return s.collection, nil
	case PoolDelivery:
		return s.delivery, nil
	}
	return nil, fmt.Errorf("unknown slot pool %q", pool)
}
