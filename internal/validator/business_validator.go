package validator

import (
	"fmt"

	"github.com/SAP-F-2025/proctoring-service/internal/models"
)

// ValidateEnrollmentUpdate validates the enrolled -> in_progress -> completed
// progression and the associated timing and progress rules.
func (v *Validator) ValidateEnrollmentUpdate(req *UpdateEnrollmentRequest, existing *models.Enrollment) ValidationErrors {
	var errors ValidationErrors

	errors = append(errors, v.Validate(req)...)

	if req.Status != nil && !existing.Status.CanTransitionTo(*req.Status) {
		errors = append(errors, ValidationError{
			Field:   "status",
			Message: fmt.Sprintf("cannot transition from %s to %s", existing.Status, *req.Status),
			Value:   *req.Status,
			Rule:    "status_transition",
		})
	}

	// Progress never moves backwards
	if req.CompletionPercentage != nil && *req.CompletionPercentage < existing.CompletionPercentage {
		errors = append(errors, ValidationError{
			Field:   "completion_percentage",
			Message: "cannot decrease",
			Value:   *req.CompletionPercentage,
			Rule:    "business_logic",
		})
	}

	// End time only makes sense after a start time
	if req.EndTime != nil {
		start := existing.StartTime
		if req.StartTime != nil {
			start = req.StartTime
		}
		if start == nil {
			errors = append(errors, ValidationError{
				Field:   "end_time",
				Message: "cannot be set before a start time",
				Value:   *req.EndTime,
				Rule:    "business_logic",
			})
		} else if req.EndTime.Before(*start) {
			errors = append(errors, ValidationError{
				Field:   "end_time",
				Message: "cannot be earlier than start time",
				Value:   *req.EndTime,
				Rule:    "business_logic",
			})
		}
	}

	return errors
}

// ValidateAlertReview validates a proctor's review decision against the
// alert's current status.
func (v *Validator) ValidateAlertReview(req *UpdateAlertStatusRequest, existing *models.Alert) ValidationErrors {
	var errors ValidationErrors

	errors = append(errors, v.Validate(req)...)

	if !existing.Status.CanTransitionTo(req.Status) {
		errors = append(errors, ValidationError{
			Field:   "status",
			Message: fmt.Sprintf("cannot transition from %s to %s", existing.Status, req.Status),
			Value:   req.Status,
			Rule:    "status_transition",
		})
	}

	return errors
}
