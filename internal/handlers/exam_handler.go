package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/proctoring-service/internal/services"
	"github.com/SAP-F-2025/proctoring-service/internal/utils"
)

// ExamHandler serves exam management routes.
type ExamHandler struct {
	BaseHandler
	examService services.ExamService
}

func NewExamHandler(examService services.ExamService, logger utils.Logger) *ExamHandler {
	return &ExamHandler{
		BaseHandler: NewBaseHandler(logger),
		examService: examService,
	}
}

// Create handles POST /api/exams
func (h *ExamHandler) Create(c *gin.Context) {
	h.LogRequest(c, "create exam")

	caller, ok := GetPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Authentication required"})
		return
	}

	var req services.CreateExamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request format", Details: err.Error()})
		return
	}

	exam, err := h.examService.Create(c.Request.Context(), &req, caller.ID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Exam created successfully",
		"exam":    exam,
	})
}

// ListByProctor handles GET /api/exams
func (h *ExamHandler) ListByProctor(c *gin.Context) {
	caller, ok := GetPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Authentication required"})
		return
	}

	exams, err := h.examService.ListByProctor(c.Request.Context(), caller.ID, parseExamFilters(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, exams)
}

// ListActive handles GET /api/exams/active. Proctors get their own active
// exams, students get every active exam.
func (h *ExamHandler) ListActive(c *gin.Context) {
	caller, ok := GetPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Authentication required"})
		return
	}

	exams, err := h.examService.ListActive(c.Request.Context(), caller, parseExamFilters(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, exams)
}

// GetByID handles GET /api/exams/:id
func (h *ExamHandler) GetByID(c *gin.Context) {
	examID := h.parseIDParam(c, "id")
	if examID == 0 {
		return
	}

	exam, err := h.examService.GetByID(c.Request.Context(), examID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, exam)
}

// Update handles PUT /api/exams/:id
func (h *ExamHandler) Update(c *gin.Context) {
	h.LogRequest(c, "update exam")

	caller, ok := GetPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Authentication required"})
		return
	}

	examID := h.parseIDParam(c, "id")
	if examID == 0 {
		return
	}

	var req services.UpdateExamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request format", Details: err.Error()})
		return
	}

	exam, err := h.examService.Update(c.Request.Context(), examID, &req, caller.ID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Exam updated successfully",
		"exam":    exam,
	})
}

func parseExamFilters(c *gin.Context) services.ExamListFilters {
	filters := services.ExamListFilters{
		SortBy:    c.DefaultQuery("sort_by", "id"),
		SortOrder: strings.ToUpper(c.DefaultQuery("sort_order", "ASC")),
	}
	if course := c.Query("course"); course != "" {
		filters.Course = &course
	}
	if limit, err := strconv.Atoi(c.DefaultQuery("limit", "0")); err == nil && limit > 0 {
		filters.Limit = limit
	}
	if offset, err := strconv.Atoi(c.DefaultQuery("offset", "0")); err == nil && offset > 0 {
		filters.Offset = offset
	}
	return filters
}
