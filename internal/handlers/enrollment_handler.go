package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/proctoring-service/internal/services"
	"github.com/SAP-F-2025/proctoring-service/internal/utils"
)

// EnrollmentHandler serves enrollment lifecycle routes.
type EnrollmentHandler struct {
	BaseHandler
	enrollmentService services.EnrollmentService
}

func NewEnrollmentHandler(enrollmentService services.EnrollmentService, logger utils.Logger) *EnrollmentHandler {
	return &EnrollmentHandler{
		BaseHandler:       NewBaseHandler(logger),
		enrollmentService: enrollmentService,
	}
}

// Enroll handles POST /api/enrollments. The student ID always comes from the
// token, never from the request body.
func (h *EnrollmentHandler) Enroll(c *gin.Context) {
	h.LogRequest(c, "enroll student")

	caller, ok := GetPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Authentication required"})
		return
	}

	var req services.CreateEnrollmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request format", Details: err.Error()})
		return
	}

	enrollment, err := h.enrollmentService.Enroll(c.Request.Context(), &req, caller.ID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":    "Enrolled successfully",
		"enrollment": enrollment,
	})
}

// ListByStudent handles GET /api/enrollments/student
func (h *EnrollmentHandler) ListByStudent(c *gin.Context) {
	caller, ok := GetPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Authentication required"})
		return
	}

	enrollments, err := h.enrollmentService.ListByStudent(c.Request.Context(), caller.ID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, enrollments)
}

// ListByExam handles GET /api/enrollments/exam/:examId
func (h *EnrollmentHandler) ListByExam(c *gin.Context) {
	caller, ok := GetPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Authentication required"})
		return
	}

	examID := h.parseIDParam(c, "examId")
	if examID == 0 {
		return
	}

	enrollments, err := h.enrollmentService.ListByExam(c.Request.Context(), examID, caller.ID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, enrollments)
}

// Update handles PUT /api/enrollments/:id
func (h *EnrollmentHandler) Update(c *gin.Context) {
	h.LogRequest(c, "update enrollment")

	caller, ok := GetPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Authentication required"})
		return
	}

	enrollmentID := h.parseIDParam(c, "id")
	if enrollmentID == 0 {
		return
	}

	var req services.UpdateEnrollmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request format", Details: err.Error()})
		return
	}

	enrollment, err := h.enrollmentService.Update(c.Request.Context(), enrollmentID, &req, caller)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Enrollment updated successfully",
		"enrollment": enrollment,
	})
}
