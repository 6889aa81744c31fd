package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tokito/genka-kanri/internal/model"
	"github.com/tokito/genka-kanri/internal/service"
	"github.com/tokito/genka-kanri/internal/state"
)

type createProjectRequest struct {
	Name              string              `json:"name"`
	Client            string              `json:"client"`
	Category          string              `json:"category"`
	Amount            int64               `json:"amount"`
	Budget            int64               `json:"budget"`
	Status            model.ProjectStatus `json:"status"`
	StartDate         string              `json:"startDate"`
	EndDate           string              `json:"endDate"`
	Notes             string              `json:"notes"`
	Mode              model.ProjectMode   `json:"mode"`
	MarginRate        float64             `json:"marginRate"`
	SubcontractAmount int64               `json:"subcontractAmount"`
	SubcontractVendor string              `json:"subcontractVendor"`
}

type updateProjectRequest struct {
	Name              *string              `json:"name"`
	Client            *string              `json:"client"`
	Category          *string              `json:"category"`
	OriginalAmount    *int64               `json:"originalAmount"`
	Budget            *int64               `json:"budget"`
	BilledAmount      *int64               `json:"billedAmount"`
	Status            *model.ProjectStatus `json:"status"`
	StartDate         *string              `json:"startDate"`
	EndDate           *string              `json:"endDate"`
	Progress          *int                 `json:"progress"`
	Notes             *string              `json:"notes"`
	Mode              *model.ProjectMode   `json:"mode"`
	MarginRate        *float64             `json:"marginRate"`
	SubcontractAmount *int64               `json:"subcontractAmount"`
	SubcontractVendor *string              `json:"subcontractVendor"`
}

type archiveRequest struct {
	Year string `json:"year" binding:"required"`
}

type paymentRequest struct {
	Date   string `json:"date"`
	Amount int64  `json:"amount"`
	Note   string `json:"note"`
}

type changeRequest struct {
	Date        string           `json:"date"`
	Type        model.ChangeType `json:"type"`
	Amount      int64            `json:"amount"`
	Description string           `json:"description"`
}

func (h *Handler) listProjects(c *gin.Context) {
	view, err := service.ParseView(c.Query("view"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": h.tracker.ListProjects(view)})
}

func (h *Handler) getProject(c *gin.Context) {
	line, err := h.tracker.Project(c.Param("id"))
	h.respond(c, http.StatusOK, line, err)
}

func (h *Handler) createProject(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var req createProjectRequest
	if !bind(c, &req) {
		return
	}
	project, err := h.tracker.CreateProject(p, state.ProjectInput{
		Name:              req.Name,
		Client:            req.Client,
		Category:          req.Category,
		Amount:            req.Amount,
		Budget:            req.Budget,
		Status:            req.Status,
		StartDate:         req.StartDate,
		EndDate:           req.EndDate,
		Notes:             req.Notes,
		Mode:              req.Mode,
		MarginRate:        req.MarginRate,
		SubcontractAmount: req.SubcontractAmount,
		SubcontractVendor: req.SubcontractVendor,
	})
	h.respond(c, http.StatusCreated, project, err)
}

func (h *Handler) updateProject(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var req updateProjectRequest
	if !bind(c, &req) {
		return
	}
	project, err := h.tracker.UpdateProject(p, c.Param("id"), state.ProjectPatch{
		Name:              req.Name,
		Client:            req.Client,
		Category:          req.Category,
		OriginalAmount:    req.OriginalAmount,
		Budget:            req.Budget,
		BilledAmount:      req.BilledAmount,
		Status:            req.Status,
		StartDate:         req.StartDate,
		EndDate:           req.EndDate,
		Progress:          req.Progress,
		Notes:             req.Notes,
		Mode:              req.Mode,
		MarginRate:        req.MarginRate,
		SubcontractAmount: req.SubcontractAmount,
		SubcontractVendor: req.SubcontractVendor,
	})
	h.respond(c, http.StatusOK, project, err)
}

func (h *Handler) archiveProject(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var req archiveRequest
	if !bind(c, &req) {
		return
	}
	project, err := h.tracker.ArchiveProject(p, c.Param("id"), req.Year)
	h.respond(c, http.StatusOK, project, err)
}

func (h *Handler) unarchiveProject(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	project, err := h.tracker.UnarchiveProject(p, c.Param("id"))
	h.respond(c, http.StatusOK, project, err)
}

func (h *Handler) deleteProject(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	project, err := h.tracker.DeleteProject(p, c.Param("id"))
	h.respond(c, http.StatusOK, project, err)
}

func (h *Handler) restoreProject(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	project, err := h.tracker.RestoreProject(p, c.Param("id"))
	h.respond(c, http.StatusOK, project, err)
}

func (h *Handler) purgeProject(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	h.respond(c, http.StatusNoContent, nil, h.tracker.PurgeProject(p, c.Param("id")))
}

func (h *Handler) syncProgress(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	project, err := h.tracker.SyncProgress(p, c.Param("id"))
	h.respond(c, http.StatusOK, project, err)
}

func (h *Handler) addPayment(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var req paymentRequest
	if !bind(c, &req) {
		return
	}
	payment, err := h.tracker.AddPayment(p, c.Param("id"), state.PaymentInput{Date: req.Date, Amount: req.Amount, Note: req.Note})
	h.respond(c, http.StatusCreated, payment, err)
}

func (h *Handler) deletePayment(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	h.respond(c, http.StatusNoContent, nil, h.tracker.DeletePayment(p, c.Param("id"), c.Param("paymentId")))
}

func (h *Handler) addChange(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var req changeRequest
	if !bind(c, &req) {
		return
	}
	change, err := h.tracker.AddChange(p, c.Param("id"), state.ChangeInput{
		Date:        req.Date,
		Type:        req.Type,
		Amount:      req.Amount,
		Description: req.Description,
	})
	h.respond(c, http.StatusCreated, change, err)
}

func (h *Handler) deleteChange(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	h.respond(c, http.StatusNoContent, nil, h.tracker.DeleteChange(p, c.Param("id"), c.Param("changeId")))
}
