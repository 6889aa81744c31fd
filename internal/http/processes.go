package http

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tokito/genka-kanri/internal/model"
	"github.com/tokito/genka-kanri/internal/service"
)

type addProcessRequest struct {
	ProcessMasterID string `json:"processMasterId" binding:"required"`
}

type processStatusRequest struct {
	Status model.ProcessStatus `json:"status" binding:"required"`
}

type nameRequest struct {
	Name string `json:"name" binding:"required"`
}

func (h *Handler) addProcess(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var req addProcessRequest
	if !bind(c, &req) {
		return
	}
	process, err := h.tracker.AddProcess(p, c.Param("id"), req.ProcessMasterID)
	h.respond(c, http.StatusCreated, process, err)
}

func (h *Handler) deleteProcess(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	h.respond(c, http.StatusNoContent, nil, h.tracker.DeleteProcess(p, c.Param("id"), c.Param("processId")))
}

func (h *Handler) setProcessStatus(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var req processStatusRequest
	if !bind(c, &req) {
		return
	}
	h.respond(c, http.StatusNoContent, nil, h.tracker.SetProcessStatus(p, c.Param("id"), c.Param("processId"), req.Status))
}

func (h *Handler) addSection(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var req nameRequest
	if !bind(c, &req) {
		return
	}
	section, err := h.tracker.AddSection(p, c.Param("id"), c.Param("processId"), req.Name)
	h.respond(c, http.StatusCreated, section, err)
}

func (h *Handler) renameSection(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var req nameRequest
	if !bind(c, &req) {
		return
	}
	err := h.tracker.RenameSection(p, c.Param("id"), c.Param("processId"), c.Param("sectionId"), req.Name)
	h.respond(c, http.StatusNoContent, nil, err)
}

func (h *Handler) deleteSection(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	err := h.tracker.DeleteSection(p, c.Param("id"), c.Param("processId"), c.Param("sectionId"))
	h.respond(c, http.StatusNoContent, nil, err)
}

func (h *Handler) addSubtask(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var req nameRequest
	if !bind(c, &req) {
		return
	}
	subtask, err := h.tracker.AddSubtask(p, c.Param("id"), c.Param("processId"), c.Param("sectionId"), req.Name)
	h.respond(c, http.StatusCreated, subtask, err)
}

func (h *Handler) toggleSubtask(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	err := h.tracker.ToggleSubtask(p, c.Param("id"), c.Param("processId"), c.Param("sectionId"), c.Param("subtaskId"))
	h.respond(c, http.StatusNoContent, nil, err)
}

func (h *Handler) deleteSubtask(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	err := h.tracker.DeleteSubtask(p, c.Param("id"), c.Param("processId"), c.Param("sectionId"), c.Param("subtaskId"))
	h.respond(c, http.StatusNoContent, nil, err)
}

// importDesignBook accepts the workbook as multipart field "file".
func (h *Handler) importDesignBook(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	header, err := c.FormFile("file")
	if err != nil {
		h.handleError(c, fmt.Errorf("%w: file is required", service.ErrInvalidInput))
		return
	}
	if header.Size > maxUploadBytes {
		h.handleError(c, fmt.Errorf("%w: file exceeds %d bytes", service.ErrInvalidInput, maxUploadBytes))
		return
	}
	file, err := header.Open()
	if err != nil {
		h.handleError(c, err)
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		h.handleError(c, err)
		return
	}
	project, err := h.tracker.ImportDesignBook(p, c.Param("id"), content)
	h.respond(c, http.StatusOK, project, err)
}
