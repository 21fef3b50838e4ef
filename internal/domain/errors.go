package domain

import "errors"

// Domain errors
var (
	ErrInvalidScore   = errors.New("invalid score")
	ErrInvalidRequest = errors.New("invalid request")
	ErrInternalError  = errors.New("internal server error")
)
