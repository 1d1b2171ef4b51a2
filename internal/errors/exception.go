package errors

import (
	"errors"
	"net/http"
)

type Exception struct {
	Message    string
	StatusCode int
}

func (e *Exception) Error() string {
	return e.Message
}

// StatusCode maps an error to the HTTP status the transport layer should
// answer with. Unknown errors map to 500.
func StatusCode(err error) int {
	var appErr *Exception
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}

	var malformed *MalformedRecordError
	if errors.As(err, &malformed) {
		return http.StatusUnprocessableEntity
	}

	var validation *ValidationError
	if errors.As(err, &validation) {
		return http.StatusBadRequest
	}

	var persistence *PersistenceError
	if errors.As(err, &persistence) {
		return http.StatusBadGateway
	}

	var ai *AIServiceError
	if errors.As(err, &ai) {
		if ai.Kind == AIErrorConfiguration {
			return http.StatusPreconditionFailed
		}
		return http.StatusServiceUnavailable
	}

	return http.StatusInternalServerError
}
