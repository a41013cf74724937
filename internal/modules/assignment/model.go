// README: Assignment strategies and candidate model.
package assignment

import (
	"fmt"

	"lastmile/internal/modules/fleet"
	"lastmile/internal/types"
)

// Strategy is the closed set of assignment policies.
type Strategy string

const (
	// StrategyRoundRobin picks the active courier with the lowest current load.
	StrategyRoundRobin Strategy = "round_robin"
	// StrategyLoadBalancing additionally excludes couriers at capacity or
	// outside their working hours; no fallback when the remainder is empty.
	StrategyLoadBalancing Strategy = "load_balancing"
	// StrategyProximity picks the courier nearest to the order's delivery
	// point, falling back to round robin when positions are unavailable.
	StrategyProximity Strategy = "proximity"
	// StrategyRatingFirst prefers the highest-rated courier with spare
	// capacity; capacity is advisory, never blocking, under this strategy.
	StrategyRatingFirst Strategy = "rating_first"
)

func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case StrategyRoundRobin, StrategyLoadBalancing, StrategyProximity, StrategyRatingFirst:
		return Strategy(s), nil
	}
	return "", fmt.Errorf("unknown assignment strategy %q", s)
}

// Candidate is an active courier annotated with the counters a picker needs.
// Distance is nil when either the order or the courier has no known position;
// absence excludes the candidate from proximity ranking, it is never a
// numeric placeholder.
type Candidate struct {
	Courier  fleet.Courier
	Load     int
	Distance *float64
}

// Assignment is the outcome written onto the order.
type Assignment struct {
	CourierID   types.ID `json:"courier_id"`
	CourierName string   `json:"courier_name"`
	Strategy    Strategy `json:"strategy"`
}
