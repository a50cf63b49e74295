package errs

import (
	"errors"
	"net/http"
)

const (
	ErrStatusInternalServer = http.StatusInternalServerError
	ErrStatusClient         = http.StatusBadRequest
	ErrStatusNotLoggedIn    = http.StatusUnauthorized
	ErrStatusUnauthorized   = http.StatusUnauthorized
	ErrStatusNotFound       = http.StatusNotFound
)

var (
	ErrInternalServer       = errors.New("Internal server error")
	ErrClient               = errors.New("Bad request")
	ErrNotLoggedIn          = errors.New("Unauthorized access")
	ErrNotFound             = errors.New("Resource not found")
	ErrMissingSignature     = errors.New("Missing signature")
	ErrInvalidSignature     = errors.New("Invalid signature")
	ErrMissingTransactionID = errors.New("Missing payment_id")
)

// Store adapter errors. Never mapped to an HTTP response: the pipeline
// acknowledges deliveries regardless of persistence outcome and surfaces
// these through logs and metrics only.
var (
	ErrStoreUnavailable = errors.New("notification store not configured")
	ErrStoreWriteFailed = errors.New("notification store write failed")
	ErrStoreTimeout     = errors.New("notification store write timed out")
)

var errorMap = map[error]int{
	ErrInternalServer:       ErrStatusInternalServer,
	ErrClient:               ErrStatusClient,
	ErrNotLoggedIn:          ErrStatusNotLoggedIn,
	ErrNotFound:             ErrStatusNotFound,
	ErrMissingSignature:     ErrStatusClient,
	ErrInvalidSignature:     ErrStatusUnauthorized,
	ErrMissingTransactionID: ErrStatusClient,
}

func GetErrorStatusCode(err error) int {
	errStatusCode, ok := errorMap[err]
	if !ok {
		errStatusCode = errorMap[ErrInternalServer]
	}
	return errStatusCode
}
