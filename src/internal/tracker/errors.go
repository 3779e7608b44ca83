// FILE: trackwisp/src/internal/tracker/errors.go
package tracker

import "fmt"

// ValidationError means the request is structurally invalid for the
// service contract and was never sent
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// ServiceError means the service received the call and rejected it
type ServiceError struct {
	Backend    string
	StatusCode int
	Code       string
	Message    string
}

func (e *ServiceError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s service returned status %d (%s): %s", e.Backend, e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("%s service error (%s): %s", e.Backend, e.Code, e.Message)
}

// Throttled reports whether the service asked the caller to slow down
func (e *ServiceError) Throttled() bool {
	return e.StatusCode == 429 || e.Code == "ThrottlingException"
}
