// README: Order handlers for place/get/history/delivered/cancel/rating.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"lastmile/internal/modules/order"
	"lastmile/internal/types"
)

type OrderHandler struct {
	order *order.Service
}

func NewOrderHandler(svc *order.Service) *OrderHandler {
	return &OrderHandler{order: svc}
}

type placeOrderReq struct {
	CustomerID  string       `json:"customer_id"`
	TotalAmount int64        `json:"total_amount"`
	Currency    string       `json:"currency"`
	Address     string       `json:"address"`
	Delivery    *types.Point `json:"delivery_point,omitempty"`
}

func (h *OrderHandler) Place(c *gin.Context) {
	var req placeOrderReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if req.CustomerID == "" || req.Address == "" {
		writeError(c, http.StatusBadRequest, "missing fields")
		return
	}
	id, err := h.order.Place(c.Request.Context(), order.PlaceCommand{
		CustomerID:    types.ID(req.CustomerID),
		Total:         types.Money{Amount: req.TotalAmount, Currency: req.Currency},
		Address:       req.Address,
		DeliveryPoint: req.Delivery,
	})
	if err != nil {
		writeOrderError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, gin.H{"order_id": id, "status": order.StatusPlaced})
}

func (h *OrderHandler) Get(c *gin.Context) {
	o, err := h.order.Get(c.Request.Context(), types.ID(c.Param("id")))
	if err != nil {
		writeOrderError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, o)
}

func (h *OrderHandler) History(c *gin.Context) {
	entries, err := h.order.History(c.Request.Context(), types.ID(c.Param("id")))
	if err != nil {
		writeOrderError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"history": entries})
}

func (h *OrderHandler) MarkDelivered(c *gin.Context) {
	if err := h.order.MarkDelivered(c.Request.Context(), types.ID(c.Param("id"))); err != nil {
		writeOrderError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"status": order.StatusDelivered})
}

type cancelOrderReq struct {
	Reason string `json:"reason"`
}

func (h *OrderHandler) Cancel(c *gin.Context) {
	var req cancelOrderReq
	_ = c.ShouldBindJSON(&req)
	if req.Reason == "" {
		req.Reason = "cancelled by operator"
	}
	if err := h.order.Cancel(c.Request.Context(), types.ID(c.Param("id")), req.Reason); err != nil {
		writeOrderError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"status": order.StatusCancelled})
}

type rateOrderReq struct {
	Rating float64 `json:"rating"`
}

func (h *OrderHandler) Rate(c *gin.Context) {
	var req rateOrderReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if err := h.order.Rate(c.Request.Context(), types.ID(c.Param("id")), req.Rating); err != nil {
		writeOrderError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"rating": req.Rating})
}
