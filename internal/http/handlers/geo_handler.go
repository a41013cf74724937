// README: Zone resolution and geocoding handlers.
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"lastmile/internal/maps"
	"lastmile/internal/modules/geo"
	"lastmile/internal/types"
)

type GeoHandler struct {
	geo *geo.Resolver
}

func NewGeoHandler(resolver *geo.Resolver) *GeoHandler {
	return &GeoHandler{geo: resolver}
}

type resolveZoneReq struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

func (h *GeoHandler) ResolveZone(c *gin.Context) {
	var req resolveZoneReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	result := h.geo.ResolveZone(types.Point{Lat: req.Lat, Lng: req.Lng})
	writeJSON(c, http.StatusOK, result)
}

func (h *GeoHandler) ListAreas(c *gin.Context) {
	writeJSON(c, http.StatusOK, gin.H{"areas": h.geo.Areas()})
}

type replaceAreasReq struct {
	Areas []geo.ServiceArea `json:"areas"`
}

func (h *GeoHandler) ReplaceAreas(c *gin.Context) {
	var req replaceAreasReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if err := h.geo.ReplaceAreas(req.Areas); err != nil {
		writeError(c, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"areas": len(req.Areas)})
}

func (h *GeoHandler) Reverse(c *gin.Context) {
	lat, errLat := strconv.ParseFloat(c.Query("lat"), 64)
	lng, errLng := strconv.ParseFloat(c.Query("lng"), 64)
	if errLat != nil || errLng != nil {
		writeError(c, http.StatusBadRequest, "lat and lng query params are required")
		return
	}
	addr, err := h.geo.ReverseLookup(c.Request.Context(), types.Point{Lat: lat, Lng: lng})
	if err != nil {
		if errors.Is(err, maps.ErrNoResult) {
			writeJSON(c, http.StatusOK, gin.H{"found": false})
			return
		}
		writeGeoError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"found": true, "address": addr})
}

func (h *GeoHandler) Search(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		writeError(c, http.StatusBadRequest, "q query param is required")
		return
	}
	addrs, err := h.geo.ForwardLookup(c.Request.Context(), query)
	if err != nil {
		if errors.Is(err, maps.ErrNoResult) {
			writeJSON(c, http.StatusOK, gin.H{"results": []maps.Address{}})
			return
		}
		writeGeoError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"results": addrs})
}
