package response

import (
	"errors"
	"net/http"

	"github.com/stclare-edu/dtr-backend-go/internal/domain/employee"
	"github.com/stclare-edu/dtr-backend-go/internal/domain/payroll"
	"github.com/stclare-edu/dtr-backend-go/internal/domain/timerecord"
	"github.com/stclare-edu/dtr-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Time record domain errors
	case errors.Is(err, timerecord.ErrRecordNotFound):
		NotFound(w, "Time record not found")
	case errors.Is(err, timerecord.ErrRecordLocked):
		Conflict(w, "Time record is already settled and cannot be modified")

	// Payroll domain errors
	case errors.Is(err, payroll.ErrPayrollNotFound):
		NotFound(w, "Payroll record not found")
	case errors.Is(err, payroll.ErrUnknownEmployee):
		NotFound(w, "Employee not found")
	case errors.Is(err, payroll.ErrPayrollAlreadyPaid):
		Conflict(w, "Payroll record is already paid")
	case errors.Is(err, payroll.ErrPayrollAlreadyCancelled):
		Conflict(w, "Payroll record is already cancelled")
	case errors.Is(err, payroll.ErrConcurrentSettlement):
		Conflict(w, "Settlement conflicted with a concurrent operation, please retry")

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
