// README: Geo handler tests over a resolver with static areas.
package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"lastmile/internal/http/handlers"
	"lastmile/internal/modules/geo"
	"lastmile/internal/types"
)

func buildGeoRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	resolver, err := geo.NewResolver([]geo.ServiceArea{
		{Name: "central", PostalCode: "10115", Center: types.Point{Lat: 52.53, Lng: 13.38}, RadiusMeters: 3000},
	}, nil, nil, zerolog.Nop())
	if err != nil {
		t.Fatalf("resolver: %v", err)
	}
	r := gin.New()
	h := handlers.NewGeoHandler(resolver)
	r.POST("/api/zones/resolve", h.ResolveZone)
	r.GET("/api/geo/reverse", h.Reverse)
	r.GET("/api/geo/search", h.Search)
	return r
}

func postJSON(r *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	_ = json.NewEncoder(&buf).Encode(body)
	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestResolveZone_Serviceable(t *testing.T) {
	r := buildGeoRouter(t)
	w := postJSON(r, "/api/zones/resolve", map[string]any{"lat": 52.531, "lng": 13.381})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp geo.ZoneResult
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Serviceable || resp.Area == nil || resp.Area.Name != "central" {
		t.Errorf("inside point must resolve serviceable: %+v", resp)
	}
}

func TestResolveZone_OutsideReportsNearest(t *testing.T) {
	r := buildGeoRouter(t)
	w := postJSON(r, "/api/zones/resolve", map[string]any{"lat": 48.14, "lng": 11.58})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp geo.ZoneResult
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Serviceable || resp.Area == nil || resp.DistanceMeters <= 0 {
		t.Errorf("outside point must report nearest area and distance: %+v", resp)
	}
}

func TestReverse_NoLookupCollaborator(t *testing.T) {
	r := buildGeoRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/api/geo/reverse?lat=52.53&lng=13.38", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadGateway {
		t.Errorf("lookup failures map to 502, got %d", w.Code)
	}
}

func TestReverse_MissingParams(t *testing.T) {
	r := buildGeoRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/api/geo/reverse?lat=52.53", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("missing lng must 400, got %d", w.Code)
	}
}

func TestSearch_MissingQuery(t *testing.T) {
	r := buildGeoRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/api/geo/search", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("missing q must 400, got %d", w.Code)
	}
}
