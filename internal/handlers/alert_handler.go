package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/proctoring-service/internal/models"
	"github.com/SAP-F-2025/proctoring-service/internal/services"
	"github.com/SAP-F-2025/proctoring-service/internal/utils"
)

// AlertHandler serves alert ingestion and review routes.
type AlertHandler struct {
	BaseHandler
	alertService services.AlertService
}

func NewAlertHandler(alertService services.AlertService, logger utils.Logger) *AlertHandler {
	return &AlertHandler{
		BaseHandler:  NewBaseHandler(logger),
		alertService: alertService,
	}
}

// Create handles POST /api/alerts, the detector-facing ingestion route.
func (h *AlertHandler) Create(c *gin.Context) {
	h.LogRequest(c, "create alert")

	var req services.CreateAlertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request format", Details: err.Error()})
		return
	}

	alert, err := h.alertService.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Alert created successfully",
		"alert":   alert,
	})
}

// CreateFromDetector handles POST /api/ml/proctoring. Same pipeline as
// Create, kept as a separate route so detector deployments keep working.
func (h *AlertHandler) CreateFromDetector(c *gin.Context) {
	h.LogRequest(c, "create proctoring alert")

	var req services.CreateAlertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request format", Details: err.Error()})
		return
	}

	alert, err := h.alertService.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Proctoring alert created",
		"alert":   alert,
	})
}

// ListByExam handles GET /api/alerts/exam/:examId
func (h *AlertHandler) ListByExam(c *gin.Context) {
	caller, ok := GetPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Authentication required"})
		return
	}

	examID := h.parseIDParam(c, "examId")
	if examID == 0 {
		return
	}

	alerts, err := h.alertService.ListByExam(c.Request.Context(), examID, caller.ID, parseAlertFilters(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, alerts)
}

// UpdateStatus handles PUT /api/alerts/:id
func (h *AlertHandler) UpdateStatus(c *gin.Context) {
	h.LogRequest(c, "update alert status")

	caller, ok := GetPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Authentication required"})
		return
	}

	alertID := h.parseIDParam(c, "id")
	if alertID == 0 {
		return
	}

	var req services.UpdateAlertStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request format", Details: err.Error()})
		return
	}

	alert, err := h.alertService.UpdateStatus(c.Request.Context(), alertID, &req, caller.ID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Alert updated successfully",
		"alert":   alert,
	})
}

func parseAlertFilters(c *gin.Context) services.AlertListFilters {
	var filters services.AlertListFilters
	if status := c.Query("status"); status != "" {
		s := models.AlertStatus(status)
		filters.Status = &s
	}
	if alertType := c.Query("type"); alertType != "" {
		filters.Type = &alertType
	}
	if limit, err := strconv.Atoi(c.DefaultQuery("limit", "0")); err == nil && limit > 0 {
		filters.Limit = limit
	}
	if offset, err := strconv.Atoi(c.DefaultQuery("offset", "0")); err == nil && offset > 0 {
		filters.Offset = offset
	}
	return filters
}
