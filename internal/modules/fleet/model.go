// README: Courier records and working-hours rules.
package fleet

import (
	"lastmile/internal/config"
	"lastmile/internal/types"
)

// Courier is a delivery person. Records come from static configuration and
// are never deleted at runtime; only Active and LastKnown change.
type Courier struct {
	ID        types.ID
	Name      string
	Phone     string
	Vehicle   string
	MaxOrders int
	// WorkStart/WorkEnd are hours on a 24h clock. Start > end means the
	// window spans midnight; start == end means always on duty.
	WorkStart int
	WorkEnd   int
	Zones     []string
	Rating    float64
	Active    bool
	LastKnown *types.Point
}

// OnDuty reports whether the given hour-of-day falls inside the courier's
// working-hours window.
func (c Courier) OnDuty(hour int) bool {
	if c.WorkStart == c.WorkEnd {
		return true
	}
	if c.WorkStart < c.WorkEnd {
		return hour >= c.WorkStart && hour < c.WorkEnd
	}
	// Overnight window, e.g. 22..6.
	return hour >= c.WorkStart || hour < c.WorkEnd
}

func fromConfig(cc config.CourierConfig) *Courier {
	c := &Courier{
		ID:        types.ID(cc.ID),
		Name:      cc.Name,
		Phone:     cc.Phone,
		Vehicle:   cc.Vehicle,
		MaxOrders: cc.MaxOrders,
		WorkStart: cc.WorkStart,
		WorkEnd:   cc.WorkEnd,
		Zones:     append([]string(nil), cc.Zones...),
		Rating:    cc.Rating,
		Active:    cc.Active,
	}
	if cc.LastKnown != nil {
		p := *cc.LastKnown
		c.LastKnown = &p
	}
	return c
}
