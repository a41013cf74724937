// README: Read-only aggregation over historical orders, no mutation.
package performance

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"lastmile/internal/modules/order"
	"lastmile/internal/types"
)

// OrderSource lists a courier's historical orders.
type OrderSource interface {
	List(ctx context.Context, f order.Filter) ([]*order.Order, error)
}

type Service struct {
	orders OrderSource
	log    zerolog.Logger
}

func NewService(orders OrderSource, log zerolog.Logger) *Service {
	return &Service{orders: orders, log: log}
}

// Of summarizes the courier's orders created inside [from, to]. Zero time
// bounds mean an open range. A courier with no orders yields a zero-valued
// summary rather than an error.
func (s *Service) Of(ctx context.Context, courierID types.ID, from, to time.Time) (*Summary, error) {
	f := order.Filter{CourierID: &courierID}
	if !from.IsZero() {
		f.CreatedFrom = &from
	}
	if !to.IsZero() {
		f.CreatedTo = &to
	}
	orders, err := s.orders.List(ctx, f)
	if err != nil {
		return nil, err
	}

	sum := &Summary{CourierID: courierID, From: from, To: to, Total: len(orders)}

	var totalMinutes float64
	var timed int
	var totalRating float64
	var rated int
	for _, o := range orders {
		if o.Status == order.StatusDelivered {
			sum.Delivered++
			if o.DeliveredAt != nil {
				totalMinutes += o.DeliveredAt.Sub(o.CreatedAt).Minutes()
				timed++
			}
		}
		if o.Rating != nil {
			totalRating += *o.Rating
			rated++
		}
	}

	if sum.Total > 0 {
		sum.DeliveryRate = float64(sum.Delivered) / float64(sum.Total) * 100
	}
	if timed > 0 {
		avg := totalMinutes / float64(timed)
		sum.AvgDeliveryMinutes = &avg
	}
	if rated > 0 {
		avg := totalRating / float64(rated)
		sum.CustomerRating = &avg
	}
	return sum, nil
}
