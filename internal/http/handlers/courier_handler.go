// README: Courier fleet handlers (listing, duty toggles, positions, stats).
package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"lastmile/internal/modules/fleet"
	"lastmile/internal/modules/performance"
	"lastmile/internal/types"
)

// CourierLocator reads live positions from the shared GEO set.
type CourierLocator interface {
	Nearby(ctx context.Context, p types.Point, radiusMeters float64) ([]types.ID, error)
	Location(ctx context.Context, id types.ID) (types.Point, bool, error)
}

type CourierHandler struct {
	fleet       *fleet.Registry
	performance *performance.Service
	locations   CourierLocator
}

func NewCourierHandler(registry *fleet.Registry, perf *performance.Service, locations CourierLocator) *CourierHandler {
	return &CourierHandler{fleet: registry, performance: perf, locations: locations}
}

func (h *CourierHandler) List(c *gin.Context) {
	if c.Query("active") == "true" {
		writeJSON(c, http.StatusOK, gin.H{"couriers": h.fleet.Active()})
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"couriers": h.fleet.All()})
}

type setActiveReq struct {
	Active bool `json:"active"`
}

func (h *CourierHandler) SetActive(c *gin.Context) {
	var req setActiveReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if err := h.fleet.SetActive(types.ID(c.Param("id")), req.Active); err != nil {
		writeCourierError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"active": req.Active})
}

type setLocationReq struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

func (h *CourierHandler) SetLocation(c *gin.Context) {
	var req setLocationReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	p := types.Point{Lat: req.Lat, Lng: req.Lng}
	if err := h.fleet.SetLocation(c.Request.Context(), types.ID(c.Param("id")), p); err != nil {
		writeCourierError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"location": p})
}

// defaultNearbyRadiusMeters bounds the dashboard map query when the caller
// gives no radius.
const defaultNearbyRadiusMeters = 5000.0

type nearbyCourier struct {
	Courier  fleet.Courier `json:"courier"`
	Position types.Point   `json:"position"`
}

// Nearby lists couriers with a live position within the radius, closest
// first. Positions recorded for couriers no longer in the registry are
// skipped.
func (h *CourierHandler) Nearby(c *gin.Context) {
	lat, errLat := strconv.ParseFloat(c.Query("lat"), 64)
	lng, errLng := strconv.ParseFloat(c.Query("lng"), 64)
	if errLat != nil || errLng != nil {
		writeError(c, http.StatusBadRequest, "lat and lng query params are required")
		return
	}
	radius := defaultNearbyRadiusMeters
	if raw := c.Query("radius_m"); raw != "" {
		r, err := strconv.ParseFloat(raw, 64)
		if err != nil || r <= 0 {
			writeError(c, http.StatusBadRequest, "radius_m must be a positive number")
			return
		}
		radius = r
	}

	ids, err := h.locations.Nearby(c.Request.Context(), types.Point{Lat: lat, Lng: lng}, radius)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "internal error")
		return
	}
	out := make([]nearbyCourier, 0, len(ids))
	for _, id := range ids {
		courier, err := h.fleet.Get(id)
		if err != nil {
			continue
		}
		pos, ok, err := h.locations.Location(c.Request.Context(), id)
		if err != nil || !ok {
			continue
		}
		out = append(out, nearbyCourier{Courier: courier, Position: pos})
	}
	writeJSON(c, http.StatusOK, gin.H{"couriers": out})
}

func (h *CourierHandler) Performance(c *gin.Context) {
	id := types.ID(c.Param("id"))
	if _, err := h.fleet.Get(id); err != nil {
		writeCourierError(c, err)
		return
	}
	from, err := parseBound(c.Query("from"))
	if err != nil {
		writeError(c, http.StatusBadRequest, "from must be YYYY-MM-DD")
		return
	}
	to, err := parseBound(c.Query("to"))
	if err != nil {
		writeError(c, http.StatusBadRequest, "to must be YYYY-MM-DD")
		return
	}
	if !to.IsZero() {
		// The store bound is exclusive; the named day itself is included.
		to = to.AddDate(0, 0, 1)
	}
	sum, err := h.performance.Of(c.Request.Context(), id, from, to)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(c, http.StatusOK, sum)
}

func writeCourierError(c *gin.Context, err error) {
	if errors.Is(err, fleet.ErrCourierNotFound) {
		writeError(c, http.StatusNotFound, err.Error())
		return
	}
	writeError(c, http.StatusInternalServerError, "internal error")
}

// parseBound treats an empty value as an open bound.
func parseBound(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(dayFormat, s)
}
