// README: Order model, status machines and history entries.
package order

import (
	"time"

	"lastmile/internal/types"
)

type Status string

const (
	StatusPlaced         Status = "placed"
	StatusProcessing     Status = "processing"
	StatusOutForDelivery Status = "out_for_delivery"
	StatusDelivered      Status = "delivered"
	StatusCancelled      Status = "cancelled"
)

// DeliveryStatus tracks the courier leg independently of the order status.
type DeliveryStatus string

const (
	DeliveryPending   DeliveryStatus = "pending"
	DeliveryAssigned  DeliveryStatus = "assigned"
	DeliveryCollected DeliveryStatus = "collected"
	DeliveryDelivered DeliveryStatus = "delivered"
	DeliveryFailed    DeliveryStatus = "failed"
)

// Order is a storefront order carrying its delivery assignment record. An
// order has at most one active courier; re-assignment overwrites the courier
// fields and the history keeps the audit trail.
type Order struct {
	ID             types.ID
	CustomerID     types.ID
	Status         Status
	Delivery       DeliveryStatus
	StatusVersion  int
	Total          types.Money
	Address        string
	DeliveryPoint  *types.Point
	CourierID      *types.ID
	CourierName    *string
	CourierPhone   *string
	CollectionSlot *string
	DeliverySlot   *string
	CollectionETA  *time.Time
	DeliveryETA    *time.Time
	Rating         *float64
	CreatedAt      time.Time
	AssignedAt     *time.Time
	DeliveredAt    *time.Time
}

// HistoryEntry is one line of the textual audit trail.
type HistoryEntry struct {
	ID        types.ID
	OrderID   types.ID
	Status    string
	Message   string
	CreatedAt time.Time
}

// AllowedTransitions represents the order state flow as code.
var AllowedTransitions = map[Status][]Status{
	StatusPlaced:         {StatusProcessing, StatusCancelled},
	StatusProcessing:     {StatusOutForDelivery, StatusCancelled},
	StatusOutForDelivery: {StatusDelivered, StatusCancelled},
}

func CanTransition(from, to Status) bool {
	next, ok := AllowedTransitions[from]
	if !ok {
		return false
	}
	for _, s := range next {
		if s == to {
			return true
		}
	}
	return false
}

// InProgress reports whether the delivery leg counts toward a courier's
// concurrent load.
func (d DeliveryStatus) InProgress() bool {
	return d == DeliveryAssigned || d == DeliveryCollected
}
