// README: Order service implements storefront state transitions and the audit trail.
package order

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"lastmile/internal/types"
)

var (
	ErrInvalidState = errors.New("invalid state transition")
	ErrNotFound     = errors.New("order not found")
	ErrConflict     = errors.New("order state conflict")
	ErrBadRequest   = errors.New("bad request")
)

// OrderStore is the slice of the store the service needs; tests swap in an
// in-memory implementation.
type OrderStore interface {
	Create(ctx context.Context, o *Order) error
	Get(ctx context.Context, id types.ID) (*Order, error)
	List(ctx context.Context, f Filter) ([]*Order, error)
	UpdateStatus(ctx context.Context, id types.ID, from, to Status, version int) (bool, error)
	SetRating(ctx context.Context, id types.ID, rating float64) error
	AppendHistory(ctx context.Context, orderID types.ID, status, message string) error
	History(ctx context.Context, orderID types.ID) ([]HistoryEntry, error)
}

type Service struct {
	store OrderStore
}

func NewService(store OrderStore) *Service {
	return &Service{store: store}
}

type PlaceCommand struct {
	CustomerID    types.ID
	Total         types.Money
	Address       string
	DeliveryPoint *types.Point
}

func (s *Service) Place(ctx context.Context, cmd PlaceCommand) (types.ID, error) {
	if cmd.CustomerID == "" || cmd.Address == "" {
		return "", ErrBadRequest
	}
	id := types.ID(uuid.NewString())
	o := &Order{
		ID:            id,
		CustomerID:    cmd.CustomerID,
		Status:        StatusPlaced,
		Delivery:      DeliveryPending,
		StatusVersion: 0,
		Total:         cmd.Total,
		Address:       cmd.Address,
		DeliveryPoint: cmd.DeliveryPoint,
		CreatedAt:     time.Now().UTC(),
	}
	if err := s.store.Create(ctx, o); err != nil {
		return "", err
	}
	_ = s.store.AppendHistory(ctx, id, string(StatusPlaced), "order placed")
	return id, nil
}

func (s *Service) Get(ctx context.Context, id types.ID) (*Order, error) {
	return s.store.Get(ctx, id)
}

func (s *Service) History(ctx context.Context, id types.ID) ([]HistoryEntry, error) {
	return s.store.History(ctx, id)
}

// Transition moves the order to the given status, enforcing the state
// machine, and records a history entry.
func (s *Service) Transition(ctx context.Context, id types.ID, to Status, message string) error {
	o, err := s.store.Get(ctx, id)
	if err != nil {
		return err
	}
	if !CanTransition(o.Status, to) {
		return ErrInvalidState
	}
	ok, err := s.store.UpdateStatus(ctx, id, o.Status, to, o.StatusVersion)
	if err != nil {
		return err
	}
	if !ok {
		return ErrConflict
	}
	_ = s.store.AppendHistory(ctx, id, string(to), message)
	return nil
}

func (s *Service) MarkDelivered(ctx context.Context, id types.ID) error {
	return s.Transition(ctx, id, StatusDelivered, "order delivered")
}

func (s *Service) Cancel(ctx context.Context, id types.ID, reason string) error {
	if reason == "" {
		reason = "cancelled"
	}
	return s.Transition(ctx, id, StatusCancelled, reason)
}

func (s *Service) Rate(ctx context.Context, id types.ID, rating float64) error {
	if rating < 0 || rating > 5 {
		return ErrBadRequest
	}
	return s.store.SetRating(ctx, id, rating)
}
