package testutil

import (
	"encoding/json"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"
)

// ErrorBody is the error payload returned by the vendor APIs.
type ErrorBody struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// ReplyJSON writes a 200 response with v as the JSON body.
func ReplyJSON(w http.ResponseWriter, v any) {
	ReplyStatus(w, http.StatusOK, v)
}

// ReplyStatus writes v as the JSON body with the given status code.
func ReplyStatus(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// ReplyError writes a vendor error response.
func ReplyError(w http.ResponseWriter, code int, message string) {
	ReplyStatus(w, code, ErrorBody{Error: message})
}

// ReplyRateLimit writes a 429 response with Retry-After in seconds.
func ReplyRateLimit(w http.ResponseWriter, retryAfter int) {
	w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
	ReplyError(w, http.StatusTooManyRequests, "Too Many Requests: retry after "+strconv.Itoa(retryAfter))
}

// ReplyServerError writes a 5xx server error response.
func ReplyServerError(w http.ResponseWriter, code int, message string) {
	ReplyError(w, code, message)
}

// ReplyUnauthorized writes a 401 invalid credentials error.
func ReplyUnauthorized(w http.ResponseWriter) {
	ReplyError(w, http.StatusUnauthorized, "Unauthorized: invalid API key")
}

// ReplyNotFound writes a 404 not found error.
func ReplyNotFound(w http.ResponseWriter, message string) {
	ReplyError(w, http.StatusNotFound, "Not Found: "+message)
}

// ReplyBadRequest writes a 400 bad request error.
func ReplyBadRequest(w http.ResponseWriter, message string) {
	ReplyError(w, http.StatusBadRequest, "Bad Request: "+message)
}

// ReplyAfter returns a handler that waits d (or until the client goes away)
// before calling next. Useful for timeout tests.
func ReplyAfter(d time.Duration, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(d):
			next(w, r)
		case <-r.Context().Done():
		}
	}
}

// ReplySequence returns a handler that serves handlers in order, repeating
// the last one once the sequence is exhausted.
func ReplySequence(handlers ...http.HandlerFunc) http.HandlerFunc {
	var calls atomic.Int64
	return func(w http.ResponseWriter, r *http.Request) {
		i := int(calls.Add(1)) - 1
		handlers[min(i, len(handlers)-1)](w, r)
	}
}
