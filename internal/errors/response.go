package errors

import "errors"

// ErrorDetail is the wire form of a single error.
type ErrorDetail struct {
	Message       string         `json:"message"`
	InternalError string         `json:"internal_error,omitempty"`
	Details       map[string]any `json:"details,omitempty"`
}

// ErrorResponse is the JSON envelope returned for every failed request.
type ErrorResponse struct {
	Success bool        `json:"success" example:"false"`
	Error   ErrorDetail `json:"error"`
}

// NewErrorResponse builds the wire form of err. The hint is the public
// message; the raw error text is only exposed for errors that never wrap
// internal failures.
func NewErrorResponse(err error) *ErrorResponse {
	resp := &ErrorResponse{
		Success: false,
		Error: ErrorDetail{
			Message: err.Error(),
		},
	}

	var internal *InternalError
	if errors.As(err, &internal) {
		if internal.Hint != "" {
			resp.Error.Message = internal.Hint
			resp.Error.InternalError = internal.Message
		}
		if len(internal.ReportableDetails) > 0 {
			resp.Error.Details = internal.ReportableDetails
		}
	}

	return resp
}
