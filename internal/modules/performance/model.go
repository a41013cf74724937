// README: Courier performance summaries aggregated from the order ledger.
package performance

import (
	"time"

	"lastmile/internal/types"
)

// Summary is a courier's delivery record over a reporting window. Averages
// cover only orders that carry the underlying data: AvgDeliveryMinutes spans
// delivered orders with a recorded delivery timestamp, CustomerRating spans
// rated orders. Both are nil when no order qualifies.
type Summary struct {
	CourierID          types.ID   `json:"courier_id"`
	From               time.Time  `json:"from"`
	To                 time.Time  `json:"to"`
	Total              int        `json:"total_orders"`
	Delivered          int        `json:"delivered_orders"`
	DeliveryRate       float64    `json:"delivery_rate"`
	AvgDeliveryMinutes *float64   `json:"avg_delivery_minutes,omitempty"`
	CustomerRating     *float64   `json:"customer_rating,omitempty"`
}
