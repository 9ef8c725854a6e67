package dto

import "net/http"

// APIResponse is the uniform success envelope.
type APIResponse struct {
	StatusCode int    `json:"statusCode"`
	Data       any    `json:"data"`
	Message    string `json:"message"`
	Success    bool   `json:"success"`
}

// APIErrorResponse is the uniform failure envelope.
type APIErrorResponse struct {
	StatusCode int      `json:"statusCode"`
	Message    string   `json:"message"`
	Errors     []string `json:"errors"`
	Success    bool     `json:"success"`
}

// NewAPIResponse builds a success envelope; a nil data renders as {}.
func NewAPIResponse(statusCode int, data any, message string) APIResponse {
	if data == nil {
		data = struct{}{}
	}
	return APIResponse{
		StatusCode: statusCode,
		Data:       data,
		Message:    message,
		Success:    statusCode < http.StatusBadRequest,
	}
}

// NewAPIErrorResponse builds a failure envelope.
func NewAPIErrorResponse(statusCode int, message string, errs []string) APIErrorResponse {
	if errs == nil {
		errs = []string{}
	}
	return APIErrorResponse{
		StatusCode: statusCode,
		Message:    message,
		Errors:     errs,
		Success:    false,
	}
}
