// README: Picker unit tests (pure selection logic, no external dependencies).
package assignment

import (
	"testing"
	"time"

	"lastmile/internal/modules/fleet"
	"lastmile/internal/types"
)

func cand(id string, load, maxOrders int, rating float64, workStart, workEnd int) Candidate {
	return Candidate{
		Courier: fleet.Courier{
			ID:        types.ID(id),
			Name:      id,
			MaxOrders: maxOrders,
			WorkStart: workStart,
			WorkEnd:   workEnd,
			Rating:    rating,
		},
		Load: load,
	}
}

func withDistance(c Candidate, meters float64) Candidate {
	c.Distance = &meters
	return c
}

var noon = time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)

func TestParseStrategy(t *testing.T) {
	for _, s := range []string{"round_robin", "load_balancing", "proximity", "rating_first"} {
		if _, err := ParseStrategy(s); err != nil {
			t.Errorf("ParseStrategy(%q): %v", s, err)
		}
	}
	if _, err := ParseStrategy("nearest"); err == nil {
		t.Error("unknown strategy should be rejected")
	}
}

func TestRoundRobin_PicksMinimumLoad(t *testing.T) {
	pool := []Candidate{
		cand("c1", 2, 5, 4.0, 0, 0),
		cand("c2", 0, 5, 4.0, 0, 0),
		cand("c3", 1, 5, 4.0, 0, 0),
	}
	got := roundRobinPicker{}.pick(pool, noon)
	if got == nil || got.Courier.ID != "c2" {
		t.Fatalf("loads {2,0,1} must select the courier with load 0, got %+v", got)
	}
}

func TestRoundRobin_TieBreaksByCourierID(t *testing.T) {
	pool := []Candidate{
		cand("c9", 1, 5, 4.0, 0, 0),
		cand("c2", 1, 5, 4.0, 0, 0),
		cand("c5", 1, 5, 4.0, 0, 0),
	}
	got := roundRobinPicker{}.pick(pool, noon)
	if got == nil || got.Courier.ID != "c2" {
		t.Fatalf("equal loads must tie-break to the lexicographically lowest ID, got %+v", got)
	}
}

func TestRoundRobin_EmptyPool(t *testing.T) {
	if got := (roundRobinPicker{}).pick(nil, noon); got != nil {
		t.Fatalf("empty pool must yield no assignment, got %+v", got)
	}
}

func TestLoadBalancing_ExcludesAtCapacity(t *testing.T) {
	pool := []Candidate{
		cand("c1", 3, 3, 4.0, 0, 0), // at max
		cand("c2", 2, 3, 4.0, 0, 0),
	}
	got := loadBalancingPicker{}.pick(pool, noon)
	if got == nil || got.Courier.ID != "c2" {
		t.Fatalf("courier at maxOrders must never be selected, got %+v", got)
	}
}

func TestLoadBalancing_ExcludesOffDuty(t *testing.T) {
	pool := []Candidate{
		cand("c1", 0, 5, 4.0, 18, 23), // evening shift, off at noon
		cand("c2", 4, 5, 4.0, 9, 17),
	}
	got := loadBalancingPicker{}.pick(pool, noon)
	if got == nil || got.Courier.ID != "c2" {
		t.Fatalf("off-duty courier must be excluded, got %+v", got)
	}
}

func TestLoadBalancing_NoFallbackWhenRemainderEmpty(t *testing.T) {
	pool := []Candidate{
		cand("c1", 3, 3, 4.0, 0, 0),
		cand("c2", 0, 5, 4.0, 18, 23),
	}
	if got := (loadBalancingPicker{}).pick(pool, noon); got != nil {
		t.Fatalf("no eligible courier must yield no assignment (no fallback), got %+v", got)
	}
}

func TestProximity_PicksNearest(t *testing.T) {
	pool := []Candidate{
		withDistance(cand("c1", 0, 5, 4.0, 0, 0), 2500),
		withDistance(cand("c2", 0, 5, 4.0, 0, 0), 800),
		withDistance(cand("c3", 0, 5, 4.0, 0, 0), 1200),
	}
	got := proximityPicker{fallback: roundRobinPicker{}}.pick(pool, noon)
	if got == nil || got.Courier.ID != "c2" {
		t.Fatalf("nearest courier must win, got %+v", got)
	}
}

func TestProximity_MissingPositionExcludedFromRanking(t *testing.T) {
	pool := []Candidate{
		cand("c1", 0, 5, 4.0, 0, 0), // no position: must not rank as distance 0
		withDistance(cand("c2", 3, 5, 4.0, 0, 0), 900),
	}
	got := proximityPicker{fallback: roundRobinPicker{}}.pick(pool, noon)
	if got == nil || got.Courier.ID != "c2" {
		t.Fatalf("candidate without a position must be excluded from ranking, got %+v", got)
	}
}

func TestProximity_FallsBackWhenNoPositions(t *testing.T) {
	pool := []Candidate{
		cand("c1", 2, 5, 4.0, 0, 0),
		cand("c2", 0, 5, 4.0, 0, 0),
		cand("c3", 1, 5, 4.0, 0, 0),
	}
	got := proximityPicker{fallback: roundRobinPicker{}}.pick(pool, noon)
	want := roundRobinPicker{}.pick(pool, noon)
	if got == nil || want == nil || got.Courier.ID != want.Courier.ID {
		t.Fatalf("without positions proximity must match round robin: got %+v, want %+v", got, want)
	}
}

func TestProximity_RadiusCapYieldsNoAssignment(t *testing.T) {
	pool := []Candidate{
		withDistance(cand("c1", 0, 5, 4.0, 0, 0), 9000),
	}
	got := proximityPicker{fallback: roundRobinPicker{}, maxMeters: 5000}.pick(pool, noon)
	if got != nil {
		t.Fatalf("match beyond the radius cap must yield no assignment, got %+v", got)
	}
}

func TestRatingFirst_PrefersHighestRatedWithCapacity(t *testing.T) {
	pool := []Candidate{
		cand("c1", 0, 5, 3.5, 0, 0),
		cand("c2", 5, 5, 4.9, 0, 0), // best rated but full
		cand("c3", 1, 5, 4.2, 0, 0),
	}
	got := ratingFirstPicker{}.pick(pool, noon)
	if got == nil || got.Courier.ID != "c3" {
		t.Fatalf("highest-rated courier with spare capacity must win, got %+v", got)
	}
}

func TestRatingFirst_CapacityIsAdvisory(t *testing.T) {
	pool := []Candidate{
		cand("c1", 5, 5, 3.5, 0, 0),
		cand("c2", 5, 5, 4.9, 0, 0),
	}
	got := ratingFirstPicker{}.pick(pool, noon)
	if got == nil || got.Courier.ID != "c2" {
		t.Fatalf("when everyone is full the top-rated courier is returned anyway, got %+v", got)
	}
}
