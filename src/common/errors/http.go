package errors

// Response represents a standard error response for HTTP APIs
type Response struct {
	// Error contains the error code (domain.code format)
	Error string `json:"error"`

	// Message contains a human-readable error message
	Message string `json:"message"`

	// Details contains optional additional error details
	Details map[string]interface{} `json:"details,omitempty"`
}

// ToResponse converts an Error to an HTTP response structure.
// Details attached with WithDetail are included.
func (e *Error) ToResponse() Response {
	return Response{
		Error:   string(e.Domain) + "." + string(e.Code),
		Message: e.Message,
		Details: e.Details(),
	}
}

// NewResponse creates a new error response from an error.
// Any *Error in the chain supplies its domain, code and details; anything else
// becomes a generic internal error so driver messages never reach clients.
func NewResponse(err error) Response {
	var e *Error
	if As(err, &e) {
		return e.ToResponse()
	}

	return Response{
		Error:   string(DomainInternal) + "." + string(CodeInternal),
		Message: "Internal server error",
	}
}

// ValidationError represents a field-level validation error
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationResponse represents a validation error response with field-level details
type ValidationResponse struct {
	Error   string            `json:"error"`
	Message string            `json:"message"`
	Fields  []ValidationError `json:"fields,omitempty"`
}

// NewValidationResponse creates a validation error response with field details
func NewValidationResponse(fields []ValidationError) ValidationResponse {
	return ValidationResponse{
		Error:   string(DomainValidation) + "." + string(ErrValidationFailed.Code),
		Message: ErrValidationFailed.Message,
		Fields:  fields,
	}
}

// NewValidationField creates a new ValidationError for a specific field
func NewValidationField(field, message string) ValidationError {
	return ValidationError{
		Field:   field,
		Message: message,
	}
}
