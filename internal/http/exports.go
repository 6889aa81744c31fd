package http

import (
	"github.com/gin-gonic/gin"

	"github.com/tokito/genka-kanri/internal/service"
)

func (h *Handler) exportCSV(c *gin.Context) {
	view, err := service.ParseView(c.Query("view"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	result, err := h.tracker.ExportCSV(view)
	if err != nil {
		h.handleError(c, err)
		return
	}
	attachment(c, "text/csv; charset=utf-8", result)
}

func (h *Handler) exportXLSX(c *gin.Context) {
	view, err := service.ParseView(c.Query("view"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	result, err := h.tracker.ExportXLSX(view)
	if err != nil {
		h.handleError(c, err)
		return
	}
	attachment(c, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", result)
}

func (h *Handler) exportPDF(c *gin.Context) {
	result, err := h.tracker.ExportPDF(c.Param("id"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	attachment(c, "application/pdf", result)
}
