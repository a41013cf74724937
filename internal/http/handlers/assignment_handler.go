// README: Courier assignment handler.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"lastmile/internal/modules/assignment"
	"lastmile/internal/types"
)

type AssignmentHandler struct {
	assignment *assignment.Service
}

func NewAssignmentHandler(svc *assignment.Service) *AssignmentHandler {
	return &AssignmentHandler{assignment: svc}
}

type assignReq struct {
	Strategy string `json:"strategy"`
}

func (h *AssignmentHandler) Assign(c *gin.Context) {
	var req assignReq
	_ = c.ShouldBindJSON(&req)

	var strategy assignment.Strategy
	if req.Strategy != "" {
		parsed, err := assignment.ParseStrategy(req.Strategy)
		if err != nil {
			writeError(c, http.StatusBadRequest, err.Error())
			return
		}
		strategy = parsed
	}

	result, err := h.assignment.Assign(c.Request.Context(), types.ID(c.Param("id")), strategy)
	if err != nil {
		writeOrderError(c, err)
		return
	}
	if result == nil {
		writeJSON(c, http.StatusOK, gin.H{"assigned": false})
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"assigned": true, "assignment": result})
}
