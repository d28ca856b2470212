package resumes

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"resume-builder/internal/shared/metrics"
	"resume-builder/internal/shared/server/middleware"
	"resume-builder/internal/shared/server/respond"
)

const maxSaveBody = 1 << 20 // 1MB

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches resume routes; every route runs behind gate.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, gate gin.HandlerFunc) {
	rg.POST("/resume/save", gate, h.save)
	rg.GET("/resumes", gate, h.list)
	rg.GET("/resume/:id", gate, h.fetch)
}

func (h *Handler) save(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxSaveBody)

	var req saveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respond.Error(c, http.StatusRequestEntityTooLarge, respond.CodePayloadTooLarge, "Resume exceeds the 1MB limit", gin.H{
				"limitBytes": tooLarge.Limit,
			})
			return
		}
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "invalid request body", nil)
		return
	}

	id, err := h.Svc.Save(c.Request.Context(), userID, SaveInput{Title: req.Title, Content: req.Content})
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "Title and content are required", []map[string]string{
				{"field": "title", "issue": "required"},
				{"field": "content", "issue": "required"},
			})
		case errors.Is(err, ErrOwnerNotFound):
			respond.Error(c, http.StatusNotFound, respond.CodeNotFound, "User not found", nil)
		default:
			respond.ErrorWithCause(c, http.StatusInternalServerError, respond.CodeInternal, "Error saving resume", nil, err)
		}
		return
	}

	c.Set("resumeId", id)
	metrics.IncResumeSaved()
	respond.JSON(c, http.StatusCreated, saveResponse{
		Message:  "Resume saved successfully",
		ResumeID: id,
	})
}

func (h *Handler) list(c *gin.Context) {
	items, err := h.Svc.List(c.Request.Context(), middleware.UserIDFromContext(c))
	if err != nil {
		respond.ErrorWithCause(c, http.StatusInternalServerError, respond.CodeInternal, "Error fetching resumes", nil, err)
		return
	}
	respond.OK(c, toSummaryResponses(items))
}

func (h *Handler) fetch(c *gin.Context) {
	resumeID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || resumeID <= 0 {
		respond.Error(c, http.StatusNotFound, respond.CodeNotFound, "Resume not found", nil)
		return
	}
	c.Set("resumeId", resumeID)

	resume, err := h.Svc.Get(c.Request.Context(), middleware.UserIDFromContext(c), resumeID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, respond.CodeNotFound, "Resume not found", nil)
			return
		}
		respond.ErrorWithCause(c, http.StatusInternalServerError, respond.CodeInternal, "Error fetching resume", nil, err)
		return
	}
	respond.RawJSON(c, http.StatusOK, resume.Content)
}
