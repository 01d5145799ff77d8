// internal/app/system/apiresp/apiresp.go
package apiresp

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"
)

// MaxBodyBytes bounds every decoded request body.
const MaxBodyBytes = 1 << 20

// ErrEmptyBody is returned by Decode when the request has no body.
var ErrEmptyBody = errors.New("request body is empty")

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// JSON writes v with the given status code.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// OK writes v with 200.
func OK(w http.ResponseWriter, v any) { JSON(w, http.StatusOK, v) }

// Created writes v with 201.
func Created(w http.ResponseWriter, v any) { JSON(w, http.StatusCreated, v) }

// Message writes {"message": msg} with 200.
func Message(w http.ResponseWriter, msg string) {
	JSON(w, http.StatusOK, map[string]string{"message": msg})
}

// Error writes {"error": msg} with the given status.
func Error(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, errorBody{Error: msg})
}

// BadRequest, Unauthorized, Forbidden, NotFound and Conflict are the
// categorized client errors.
func BadRequest(w http.ResponseWriter, msg string)   { Error(w, http.StatusBadRequest, msg) }
func Unauthorized(w http.ResponseWriter, msg string) { Error(w, http.StatusUnauthorized, msg) }
func Forbidden(w http.ResponseWriter, msg string)    { Error(w, http.StatusForbidden, msg) }
func NotFound(w http.ResponseWriter, msg string)     { Error(w, http.StatusNotFound, msg) }
func Conflict(w http.ResponseWriter, msg string)     { Error(w, http.StatusConflict, msg) }

// ServerError logs err and writes a generic 500. The underlying error is
// never sent to the client.
func ServerError(w http.ResponseWriter, log *zap.Logger, msg string, err error, fields ...zap.Field) {
	if log != nil {
		log.Error(msg, append(fields, zap.Error(err))...)
	}
	Error(w, http.StatusInternalServerError, msg)
}

// Decode reads a JSON body into v.
func Decode(r *http.Request, v any) error {
	if r.Body == nil {
		return ErrEmptyBody
	}
	dec := json.NewDecoder(io.LimitReader(r.Body, MaxBodyBytes))
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return ErrEmptyBody
		}
		return err
	}
	return nil
}
