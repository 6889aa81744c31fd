package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tokito/genka-kanri/internal/model"
	"github.com/tokito/genka-kanri/internal/state"
)

type costRequest struct {
	Category    model.CostCategory `json:"category"`
	Description string             `json:"description"`
	Amount      int64              `json:"amount"`
	Date        string             `json:"date"`
	Vendor      string             `json:"vendor"`
}

func (r costRequest) input() state.CostInput {
	return state.CostInput{
		Category:    r.Category,
		Description: r.Description,
		Amount:      r.Amount,
		Date:        r.Date,
		Vendor:      r.Vendor,
	}
}

type quantityRequest struct {
	Category    model.QuantityCategory `json:"category"`
	Description string                 `json:"description"`
	Quantity    float64                `json:"quantity"`
	Date        string                 `json:"date"`
	Note        string                 `json:"note"`
	VehicleID   string                 `json:"vehicleId"`
}

func (h *Handler) addCost(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var req costRequest
	if !bind(c, &req) {
		return
	}
	cost, err := h.tracker.AddCost(p, c.Param("id"), req.input())
	h.respond(c, http.StatusCreated, cost, err)
}

func (h *Handler) updateCost(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var req costRequest
	if !bind(c, &req) {
		return
	}
	cost, err := h.tracker.UpdateCost(p, c.Param("costId"), req.input())
	h.respond(c, http.StatusOK, cost, err)
}

func (h *Handler) deleteCost(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	h.respond(c, http.StatusNoContent, nil, h.tracker.DeleteCost(p, c.Param("costId")))
}

func (h *Handler) addQuantity(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var req quantityRequest
	if !bind(c, &req) {
		return
	}
	quantity, err := h.tracker.AddQuantity(p, c.Param("id"), state.QuantityInput{
		Category:    req.Category,
		Description: req.Description,
		Quantity:    req.Quantity,
		Date:        req.Date,
		Note:        req.Note,
		VehicleID:   req.VehicleID,
	})
	h.respond(c, http.StatusCreated, quantity, err)
}

func (h *Handler) deleteQuantity(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	h.respond(c, http.StatusNoContent, nil, h.tracker.DeleteQuantity(p, c.Param("quantityId")))
}
