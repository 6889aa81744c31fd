package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/tokito/genka-kanri/internal/http/middleware"
	"github.com/tokito/genka-kanri/internal/model"
	"github.com/tokito/genka-kanri/internal/service"
)

// maxUploadBytes bounds design-book uploads.
const maxUploadBytes = 20 << 20

type Handler struct {
	tracker *service.Tracker
	auth    *service.AuthService
	log     zerolog.Logger
}

func NewHandler(tracker *service.Tracker, auth *service.AuthService, log zerolog.Logger) *Handler {
	return &Handler{tracker: tracker, auth: auth, log: log}
}

func (h *Handler) Register(router *gin.Engine, authMiddleware gin.HandlerFunc) {
	router.GET("/healthz", h.health)

	public := router.Group("/api/auth")
	public.POST("/sign-up", h.signUp)
	public.POST("/sign-in", h.signIn)

	protected := router.Group("/api")
	protected.Use(authMiddleware)

	protected.POST("/auth/sign-out", h.signOut)
	protected.GET("/auth/session", h.session)
	protected.PUT("/auth/password", h.updatePassword)

	protected.GET("/dashboard", h.dashboard)
	protected.GET("/sync", h.syncStatus)
	protected.POST("/sync/flush", h.flush)

	protected.GET("/projects", h.listProjects)
	protected.POST("/projects", h.createProject)
	protected.GET("/projects/:id", h.getProject)
	protected.PATCH("/projects/:id", h.updateProject)
	protected.DELETE("/projects/:id", h.deleteProject)
	protected.POST("/projects/:id/archive", h.archiveProject)
	protected.POST("/projects/:id/unarchive", h.unarchiveProject)
	protected.POST("/projects/:id/restore", h.restoreProject)
	protected.DELETE("/projects/:id/purge", h.purgeProject)
	protected.POST("/projects/:id/sync-progress", h.syncProgress)

	protected.POST("/projects/:id/payments", h.addPayment)
	protected.DELETE("/projects/:id/payments/:paymentId", h.deletePayment)
	protected.POST("/projects/:id/changes", h.addChange)
	protected.DELETE("/projects/:id/changes/:changeId", h.deleteChange)

	protected.POST("/projects/:id/costs", h.addCost)
	protected.PUT("/costs/:costId", h.updateCost)
	protected.DELETE("/costs/:costId", h.deleteCost)
	protected.POST("/projects/:id/quantities", h.addQuantity)
	protected.DELETE("/quantities/:quantityId", h.deleteQuantity)

	protected.POST("/projects/:id/processes", h.addProcess)
	protected.DELETE("/projects/:id/processes/:processId", h.deleteProcess)
	protected.PUT("/projects/:id/processes/:processId/status", h.setProcessStatus)
	protected.POST("/projects/:id/processes/:processId/sections", h.addSection)
	protected.PATCH("/projects/:id/processes/:processId/sections/:sectionId", h.renameSection)
	protected.DELETE("/projects/:id/processes/:processId/sections/:sectionId", h.deleteSection)
	protected.POST("/projects/:id/processes/:processId/sections/:sectionId/subtasks", h.addSubtask)
	protected.POST("/projects/:id/processes/:processId/sections/:sectionId/subtasks/:subtaskId/toggle", h.toggleSubtask)
	protected.DELETE("/projects/:id/processes/:processId/sections/:sectionId/subtasks/:subtaskId", h.deleteSubtask)
	protected.POST("/projects/:id/design-book", h.importDesignBook)

	protected.GET("/projects/:id/export/pdf", h.exportPDF)
	protected.GET("/export/csv", h.exportCSV)
	protected.GET("/export/xlsx", h.exportXLSX)

	protected.GET("/vehicles", h.listVehicles)
	protected.POST("/vehicles", h.addVehicle)
	protected.PUT("/vehicles/:vehicleId", h.updateVehicle)
	protected.DELETE("/vehicles/:vehicleId", h.deleteVehicle)

	protected.GET("/process-masters", h.listProcessMasters)
	protected.POST("/process-masters", h.addProcessMaster)
	protected.PUT("/process-masters/:masterId", h.updateProcessMaster)
	protected.DELETE("/process-masters/:masterId", h.deleteProcessMaster)

	protected.GET("/bids", h.listBids)
	protected.POST("/bids", h.addBid)
	protected.PUT("/bids/:bidId", h.updateBid)
	protected.DELETE("/bids/:bidId", h.deleteBid)
	protected.POST("/bids/:bidId/promote", h.promoteBid)
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) dashboard(c *gin.Context) {
	c.JSON(http.StatusOK, h.tracker.Dashboard())
}

func (h *Handler) syncStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"pending": h.tracker.Pending()})
}

func (h *Handler) flush(c *gin.Context) {
	persisted := h.tracker.Flush(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"persisted": persisted})
}

// principal aborts with 401 when the request carries no session.
func principal(c *gin.Context) (model.Principal, bool) {
	p, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
	}
	return p, ok
}

func bind(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return false
	}
	return true
}

func (h *Handler) respond(c *gin.Context, status int, body interface{}, err error) {
	if err != nil {
		h.handleError(c, err)
		return
	}
	if body == nil {
		c.Status(status)
		return
	}
	c.JSON(status, body)
}

func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	default:
		h.log.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func attachment(c *gin.Context, contentType string, result *service.ExportResult) {
	c.Header("Content-Disposition", "attachment; filename=\""+result.FileName+"\"")
	c.Data(http.StatusOK, contentType, result.Content)
}
