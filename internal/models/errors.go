package models

import "errors"

var ErrOrderNotFound = errors.New("order not found")
var ErrCourierNotFound = errors.New("courier not found")
var ErrInvalidStatus = errors.New("invalid order status")
var ErrInvalidRole = errors.New("invalid user role")

// ErrIllegalTransition is returned under the strict pipeline policy when the
// target status is not the successor of the current one.
var ErrIllegalTransition = errors.New("status transition not allowed by the pipeline")

// ErrActionNotOffered means the station does not offer that action for the
// order's current status.
var ErrActionNotOffered = errors.New("action not offered at this station")
var ErrUnknownStation = errors.New("unknown station")

var ErrNotAuthenticated = errors.New("no active session")
var ErrMailDisabled = errors.New("report mail is not configured")
var ErrUnsupportedSnapshot = errors.New("unsupported snapshot version")

// ErrorResponse is the JSON body of every error reply.
type ErrorResponse struct {
	Message string `json:"message"`
}
