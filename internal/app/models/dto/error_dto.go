package dto

import (
	"time"
)

// ErrorDetail represents detailed error information
type ErrorDetail struct {
	Code    string      `json:"code" example:"RES_006"`
	Message string      `json:"message" example:"account already exists, please log in"`
	Status  string      `json:"status,omitempty" example:"conflict"`
	Details interface{} `json:"details,omitempty"`
}

// ErrorResponse represents the standard error response structure
type ErrorResponse struct {
	Success   bool         `json:"success" example:"false"`
	Error     *ErrorDetail `json:"error"`
	Timestamp time.Time    `json:"timestamp" example:"2026-04-23T12:01:05.123Z"`
}

// NewErrorDetail creates a new error detail
func NewErrorDetail(code, message string) *ErrorDetail {
	return &ErrorDetail{
		Code:    code,
		Message: message,
	}
}

// WithStatus sets the outcome status reported to claim and login clients
func (e *ErrorDetail) WithStatus(status string) *ErrorDetail {
	e.Status = status
	return e
}

// WithDetails adds additional details to the error
func (e *ErrorDetail) WithDetails(details interface{}) *ErrorDetail {
	e.Details = details
	return e
}

// NewErrorResponse creates a standard error response
func NewErrorResponse(errorDetail *ErrorDetail) *ErrorResponse {
	return &ErrorResponse{
		Success:   false,
		Error:     errorDetail,
		Timestamp: time.Now(),
	}
}
