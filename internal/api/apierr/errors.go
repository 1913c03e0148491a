package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mcoot/donateshop/internal/metrics"
	"github.com/mcoot/donateshop/internal/model"
)

// ErrorResponse is the JSON body of every error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// Messages reported to clients
const (
	MessagePlayerNotFound = "Player not found"
	MessageInvalidCoins   = "Coins must be a number"
	MessageInvalidSteamID = "steam_id is required"
	MessageFetchFailed    = "Failed to fetch player data"
	MessageUpdateFailed   = "Failed to update donate coins"
	MessageDatabaseDown   = "Database connection failed"
	MessageInternalError  = "Internal server error"
	MessageInvalidRequest = "Invalid request body"
)

// httpError combines an HTTP status code with a client-facing message
type httpError struct {
	status  int
	message string
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.message})
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	var storageErr *model.StorageError
	switch {
	case errors.Is(err, model.ErrPlayerNotFound):
		return &httpError{http.StatusNotFound, MessagePlayerNotFound}
	case errors.Is(err, model.ErrInvalidCoins):
		return &httpError{http.StatusBadRequest, MessageInvalidCoins}
	case errors.Is(err, model.ErrInvalidSteamID):
		return &httpError{http.StatusBadRequest, MessageInvalidSteamID}
	case errors.As(err, &storageErr):
		return &httpError{http.StatusInternalServerError, storageMessage(storageErr.Op)}
	default:
		return &httpError{http.StatusInternalServerError, MessageInternalError}
	}
}

func storageMessage(op string) string {
	switch op {
	case metrics.OpGetOrCreate, metrics.OpGet:
		return MessageFetchFailed
	case metrics.OpSetBalance:
		return MessageUpdateFailed
	case metrics.OpHealth:
		return MessageDatabaseDown
	default:
		return MessageInternalError
	}
}

// NewInvalidRequestError creates a 400 error with message
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, message}
}

// NewError creates an error reported with an arbitrary status
func NewError(status int, message string) error {
	return &httpError{status, message}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, MessageInternalError}
}
