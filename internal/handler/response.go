package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/bhvr/bhvr-api-go/internal/model"
	"github.com/bhvr/bhvr-api-go/internal/service"
)

const (
	maxBodyBytes = 1 << 20 // 1MB

	msgInternal     = "internal server error"
	msgInvalidBody  = "invalid request body"
	msgBodyTooLarge = "request body too large"
)

// errorStatus maps service errors to HTTP statuses. Messages are the error strings,
// so the same failure always produces the same body.
var errorStatus = []struct {
	err    error
	status int
}{
	{service.ErrMissingFields, http.StatusBadRequest},
	{service.ErrPasswordTooLong, http.StatusBadRequest},
	{service.ErrTitleRequired, http.StatusBadRequest},
	{service.ErrDuplicateEmail, http.StatusConflict},
	{service.ErrInvalidCredentials, http.StatusUnauthorized},
	{service.ErrNotPostOwner, http.StatusForbidden},
	{service.ErrUserNotFound, http.StatusNotFound},
	{service.ErrPostNotFound, http.StatusNotFound},
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeData(w http.ResponseWriter, status int, msg string, data any) {
	writeJSON(w, status, model.Envelope{Success: true, Message: msg, Data: data})
}

func writeFailure(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, model.Envelope{Success: false, Message: msg})
}

// writeError converts err into the JSON error envelope. Errors outside the
// mapping are logged and reported as a generic 500.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	for _, e := range errorStatus {
		if errors.Is(err, e.err) {
			writeFailure(w, e.status, e.err.Error())
			return
		}
	}

	slog.ErrorContext(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	writeFailure(w, http.StatusInternalServerError, msgInternal)
}

// decodeJSON reads a size-limited JSON body into v. It writes the error
// response itself and reports whether decoding succeeded.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeFailure(w, http.StatusRequestEntityTooLarge, msgBodyTooLarge)
			return false
		}
		writeFailure(w, http.StatusBadRequest, msgInvalidBody)
		return false
	}
	return true
}

func parseID(s string) (int64, bool) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
