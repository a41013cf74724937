// README: Time-slot availability and auto-booking handlers.
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"lastmile/internal/modules/slot"
	"lastmile/internal/types"
)

const dayFormat = "2006-01-02"

type SlotHandler struct {
	slot *slot.Service
}

func NewSlotHandler(svc *slot.Service) *SlotHandler {
	return &SlotHandler{slot: svc}
}

func (h *SlotHandler) Availability(c *gin.Context) {
	pool, err := slot.ParsePool(c.Param("pool"))
	if err != nil {
		writeError(c, http.StatusBadRequest, err.Error())
		return
	}
	day, err := parseDay(c.Query("date"))
	if err != nil {
		writeError(c, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}
	avail, err := h.slot.Availability(c.Request.Context(), pool, day)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"pool": pool, "date": day.Format(dayFormat), "slots": avail})
}

type autoBookReq struct {
	Date string `json:"date"`
}

func (h *SlotHandler) AutoBook(c *gin.Context) {
	var req autoBookReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	day, err := parseDay(req.Date)
	if err != nil {
		writeError(c, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}
	booking, err := h.slot.AutoBook(c.Request.Context(), types.ID(c.Param("id")), day)
	if err != nil {
		writeOrderError(c, err)
		return
	}
	if booking == nil {
		writeJSON(c, http.StatusOK, gin.H{"booked": false})
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"booked": true, "booking": booking})
}

func parseDay(s string) (time.Time, error) {
	if s == "" {
		now := time.Now()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()), nil
	}
	return time.Parse(dayFormat, s)
}
