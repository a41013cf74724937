// README: Slot pools and availability model.
package slot

import (
	"fmt"
	"time"

	"lastmile/internal/config"
)

// Pool names one of the two independent slot pools.
type Pool string

const (
	PoolCollection Pool = "collection"
	PoolDelivery   Pool = "delivery"
)

func ParsePool(s string) (Pool, error) {
	switch Pool(s) {
	case PoolCollection, PoolDelivery:
		return Pool(s), nil
	}
	return "", fmt.Errorf("unknown slot pool %q", s)
}

// Slot is one configured time window. Start and End are HH:MM labels; the
// remaining capacity is never stored on the slot, it is derived per date.
type Slot struct {
	Start    string `json:"start"`
	End      string `json:"end"`
	Capacity int    `json:"capacity"`
}

// Availability is the derived state of one slot on one date.
type Availability struct {
	Slot      Slot `json:"slot"`
	Booked    int  `json:"booked"`
	Remaining int  `json:"remaining"`
	Available bool `json:"available"`
}

// Booking is a committed collection/delivery slot pair. Partial bookings are
// never produced.
type Booking struct {
	Collection    Slot      `json:"collection"`
	Delivery      Slot      `json:"delivery"`
	CollectionETA time.Time `json:"collection_eta"`
	DeliveryETA   time.Time `json:"delivery_eta"`
}

func slotsFromConfig(configs []config.SlotConfig) []Slot {
	out := make([]Slot, 0, len(configs))
	for _, sc := range configs {
		out = append(out, Slot{Start: sc.Start, End: sc.End, Capacity: sc.Capacity})
	}
	return out
}

// slotTime resolves an HH:MM label on the target date in the given zone.
func slotTime(day time.Time, label string, loc *time.Location) (time.Time, error) {
	t, err := time.Parse("15:04", label)
	if err != nil {
		return time.Time{}, fmt.Errorf("slot label %q: %w", label, err)
	}
	return time.Date(day.Year(), day.Month(), day.Day(), t.Hour(), t.Minute(), 0, 0, loc), nil
}
