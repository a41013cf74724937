// README: Strategy implementations behind one picker contract.
package assignment

import (
	"sort"
	"time"
)

// picker is the single selection contract every strategy implements.
// A nil result means "no assignment" and is an expected outcome.
type picker interface {
	pick(pool []Candidate, now time.Time) *Candidate
}

func pickerFor(s Strategy, maxProximityMeters float64) picker {
	switch s {
	case StrategyLoadBalancing:
		return loadBalancingPicker{}
	case StrategyProximity:
		return proximityPicker{fallback: roundRobinPicker{}, maxMeters: maxProximityMeters}
	case StrategyRatingFirst:
		return ratingFirstPicker{}
	default:
		return roundRobinPicker{}
	}
}

// candidateLess is the named tie-break rule used by the load-based pickers:
// lower load first, then lexicographic courier ID. Selection never depends on
// pool iteration order.
func candidateLess(a, b Candidate) bool {
	if a.Load != b.Load {
		return a.Load < b.Load
	}
	return a.Courier.ID < b.Courier.ID
}

// roundRobinPicker selects the least-loaded active courier.
type roundRobinPicker struct{}

func (roundRobinPicker) pick(pool []Candidate, _ time.Time) *Candidate {
	var best *Candidate
	for i := range pool {
		if best == nil || candidateLess(pool[i], *best) {
			best = &pool[i]
		}
	}
	return best
}

// loadBalancingPicker excludes couriers at capacity or off duty, then takes
// the least loaded of the remainder. No fallback: an empty remainder is a
// "no assignment" outcome.
type loadBalancingPicker struct{}

func (loadBalancingPicker) pick(pool []Candidate, now time.Time) *Candidate {
	hour := now.Hour()
	var best *Candidate
	for i := range pool {
		c := &pool[i]
		if c.Load >= c.Courier.MaxOrders {
			continue
		}
		if !c.Courier.OnDuty(hour) {
			continue
		}
		if best == nil || candidateLess(*c, *best) {
			best = c
		}
	}
	return best
}

// proximityPicker selects the candidate nearest to the order's delivery
// point. Candidates without a distance are excluded from ranking; when no
// candidate has one the picker falls back to round robin explicitly. A
// non-zero maxMeters cap excludes matches beyond it without falling back, so
// the cap is observable.
type proximityPicker struct {
	fallback  picker
	maxMeters float64
}

func (p proximityPicker) pick(pool []Candidate, now time.Time) *Candidate {
	ranked := false
	var best *Candidate
	for i := range pool {
		c := &pool[i]
		if c.Distance == nil {
			continue
		}
		ranked = true
		if p.maxMeters > 0 && *c.Distance > p.maxMeters {
			continue
		}
		if best == nil || distanceLess(*c, *best) {
			best = c
		}
	}
	if !ranked {
		return p.fallback.pick(pool, now)
	}
	return best
}

func distanceLess(a, b Candidate) bool {
	if *a.Distance != *b.Distance {
		return *a.Distance < *b.Distance
	}
	return a.Courier.ID < b.Courier.ID
}

// ratingFirstPicker walks the pool by rating (descending) and returns the
// first courier below capacity; when everyone is at capacity the top-rated
// courier is returned anyway.
type ratingFirstPicker struct{}

func (ratingFirstPicker) pick(pool []Candidate, _ time.Time) *Candidate {
	if len(pool) == 0 {
		return nil
	}
	byRating := make([]*Candidate, len(pool))
	for i := range pool {
		byRating[i] = &pool[i]
	}
	sort.SliceStable(byRating, func(i, j int) bool {
		if byRating[i].Courier.Rating != byRating[j].Courier.Rating {
			return byRating[i].Courier.Rating > byRating[j].Courier.Rating
		}
		return byRating[i].Courier.ID < byRating[j].Courier.ID
	})
	for _, c := range byRating {
		if c.Load < c.Courier.MaxOrders {
			return c
		}
	}
	return byRating[0]
}
