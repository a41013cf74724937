// README: Courier handler tests: nearby positions and performance windows.
package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"lastmile/internal/config"
	"lastmile/internal/http/handlers"
	"lastmile/internal/modules/fleet"
	"lastmile/internal/modules/order"
	"lastmile/internal/modules/performance"
	"lastmile/internal/types"
)

// stubLocator is an in-memory CourierLocator returning a canned GEO answer.
type stubLocator struct {
	ids       []types.ID
	positions map[types.ID]types.Point
}

func (s *stubLocator) Nearby(_ context.Context, _ types.Point, _ float64) ([]types.ID, error) {
	return s.ids, nil
}

func (s *stubLocator) Location(_ context.Context, id types.ID) (types.Point, bool, error) {
	p, ok := s.positions[id]
	return p, ok, nil
}

// stubOrderSource filters a canned order list the way the real store does.
type stubOrderSource struct {
	orders []*order.Order
}

func (s *stubOrderSource) List(_ context.Context, f order.Filter) ([]*order.Order, error) {
	var out []*order.Order
	for _, o := range s.orders {
		if f.CourierID != nil && (o.CourierID == nil || *o.CourierID != *f.CourierID) {
			continue
		}
		if f.CreatedFrom != nil && o.CreatedAt.Before(*f.CreatedFrom) {
			continue
		}
		if f.CreatedTo != nil && !o.CreatedAt.Before(*f.CreatedTo) {
			continue
		}
		out = append(out, o)
	}
	return out, nil
}

func testRegistry() *fleet.Registry {
	return fleet.NewRegistry([]config.CourierConfig{
		{ID: "c1", Name: "Ana", MaxOrders: 3, Rating: 4.8, Active: true},
		{ID: "c2", Name: "Jon", MaxOrders: 5, Rating: 4.4, Active: true},
	}, nil)
}

func buildCourierRouter(locator handlers.CourierLocator, orders *stubOrderSource) *gin.Engine {
	gin.SetMode(gin.TestMode)
	perf := performance.NewService(orders, zerolog.Nop())
	h := handlers.NewCourierHandler(testRegistry(), perf, locator)
	r := gin.New()
	r.GET("/api/couriers/nearby", h.Nearby)
	r.GET("/api/couriers/:id/performance", h.Performance)
	return r
}

func getPath(r *gin.Engine, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestNearby_ReturnsPositionedCouriers(t *testing.T) {
	locator := &stubLocator{
		ids: []types.ID{"c2", "c1", "ghost"},
		positions: map[types.ID]types.Point{
			"c1": {Lat: 52.53, Lng: 13.38},
			"c2": {Lat: 52.52, Lng: 13.40},
		},
	}
	r := buildCourierRouter(locator, &stubOrderSource{})

	w := getPath(r, "/api/couriers/nearby?lat=52.52&lng=13.40")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp struct {
		Couriers []struct {
			Courier  fleet.Courier `json:"courier"`
			Position types.Point   `json:"position"`
		} `json:"couriers"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	// GEO order is preserved; the unregistered id is dropped.
	if len(resp.Couriers) != 2 || resp.Couriers[0].Courier.ID != "c2" || resp.Couriers[1].Courier.ID != "c1" {
		t.Fatalf("unexpected nearby set: %+v", resp.Couriers)
	}
	if resp.Couriers[0].Position.Lng != 13.40 {
		t.Errorf("position not taken from the GEO store: %+v", resp.Couriers[0].Position)
	}
}

func TestNearby_MissingCoordinates(t *testing.T) {
	r := buildCourierRouter(&stubLocator{}, &stubOrderSource{})
	if w := getPath(r, "/api/couriers/nearby?lat=52.52"); w.Code != http.StatusBadRequest {
		t.Errorf("missing lng must 400, got %d", w.Code)
	}
	if w := getPath(r, "/api/couriers/nearby?lat=52.52&lng=13.40&radius_m=-5"); w.Code != http.StatusBadRequest {
		t.Errorf("negative radius must 400, got %d", w.Code)
	}
}

func TestPerformance_ToDayIsInclusive(t *testing.T) {
	courierID := types.ID("c1")
	// Created mid-afternoon on the day the range names as its upper bound.
	created := time.Date(2025, 5, 1, 15, 0, 0, 0, time.UTC)
	delivered := created.Add(40 * time.Minute)
	orders := &stubOrderSource{orders: []*order.Order{{
		ID:          "o1",
		Status:      order.StatusDelivered,
		CourierID:   &courierID,
		CreatedAt:   created,
		DeliveredAt: &delivered,
	}}}
	r := buildCourierRouter(&stubLocator{}, orders)

	w := getPath(r, "/api/couriers/c1/performance?from=2025-05-01&to=2025-05-01")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var sum performance.Summary
	if err := json.Unmarshal(w.Body.Bytes(), &sum); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if sum.Total != 1 || sum.Delivered != 1 {
		t.Errorf("order on the to day must be counted: %+v", sum)
	}
}
