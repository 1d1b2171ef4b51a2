package errors

import "net/http"

var ErrUserNotFound = &Exception{
	Message:    "user not found",
	StatusCode: http.StatusNotFound,
}

var ErrNoActiveSession = &Exception{
	Message:    "no active session",
	StatusCode: http.StatusUnauthorized,
}

var ErrEmailTaken = &Exception{
	Message:    "email already registered",
	StatusCode: http.StatusConflict,
}
