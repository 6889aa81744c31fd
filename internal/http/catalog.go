package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tokito/genka-kanri/internal/model"
	"github.com/tokito/genka-kanri/internal/state"
)

type vehicleRequest struct {
	Registration string `json:"registration" binding:"required"`
}

// processMasterRequest takes defaultSubs as typed text, separated by 、 ,
// or newlines.
type processMasterRequest struct {
	Name        string `json:"name" binding:"required"`
	Icon        string `json:"icon"`
	DefaultSubs string `json:"defaultSubs"`
}

func (r processMasterRequest) input() state.ProcessMasterInput {
	return state.ProcessMasterInput{Name: r.Name, Icon: r.Icon, DefaultSubs: r.DefaultSubs}
}

type bidRequest struct {
	Name                string          `json:"name"`
	Client              string          `json:"client"`
	Category            string          `json:"category"`
	BidDate             string          `json:"bidDate"`
	Status              model.BidStatus `json:"status"`
	Notes               string          `json:"notes"`
	OrderAmount         *int64          `json:"orderAmount"`
	IsUnitPriceContract bool            `json:"isUnitPriceContract"`
}

func (r bidRequest) input() state.BidInput {
	return state.BidInput{
		Name:                r.Name,
		Client:              r.Client,
		Category:            r.Category,
		BidDate:             r.BidDate,
		Status:              r.Status,
		Notes:               r.Notes,
		OrderAmount:         r.OrderAmount,
		IsUnitPriceContract: r.IsUnitPriceContract,
	}
}

func (h *Handler) listVehicles(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"items": h.tracker.Vehicles()})
}

func (h *Handler) addVehicle(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var req vehicleRequest
	if !bind(c, &req) {
		return
	}
	vehicle, err := h.tracker.AddVehicle(p, req.Registration)
	h.respond(c, http.StatusCreated, vehicle, err)
}

func (h *Handler) updateVehicle(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var req vehicleRequest
	if !bind(c, &req) {
		return
	}
	vehicle, err := h.tracker.UpdateVehicle(p, c.Param("vehicleId"), req.Registration)
	h.respond(c, http.StatusOK, vehicle, err)
}

func (h *Handler) deleteVehicle(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	h.respond(c, http.StatusNoContent, nil, h.tracker.DeleteVehicle(p, c.Param("vehicleId")))
}

func (h *Handler) listProcessMasters(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"items": h.tracker.ProcessMasters()})
}

func (h *Handler) addProcessMaster(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var req processMasterRequest
	if !bind(c, &req) {
		return
	}
	master, err := h.tracker.AddProcessMaster(p, req.input())
	h.respond(c, http.StatusCreated, master, err)
}

func (h *Handler) updateProcessMaster(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var req processMasterRequest
	if !bind(c, &req) {
		return
	}
	master, err := h.tracker.UpdateProcessMaster(p, c.Param("masterId"), req.input())
	h.respond(c, http.StatusOK, master, err)
}

func (h *Handler) deleteProcessMaster(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	h.respond(c, http.StatusNoContent, nil, h.tracker.DeleteProcessMaster(p, c.Param("masterId")))
}

func (h *Handler) listBids(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"items": h.tracker.Bids()})
}

func (h *Handler) addBid(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var req bidRequest
	if !bind(c, &req) {
		return
	}
	bid, err := h.tracker.AddBid(p, req.input())
	h.respond(c, http.StatusCreated, bid, err)
}

func (h *Handler) updateBid(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var req bidRequest
	if !bind(c, &req) {
		return
	}
	bid, err := h.tracker.UpdateBid(p, c.Param("bidId"), req.input())
	h.respond(c, http.StatusOK, bid, err)
}

func (h *Handler) deleteBid(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	h.respond(c, http.StatusNoContent, nil, h.tracker.DeleteBid(p, c.Param("bidId")))
}

func (h *Handler) promoteBid(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	project, err := h.tracker.PromoteBid(p, c.Param("bidId"))
	h.respond(c, http.StatusCreated, project, err)
}
