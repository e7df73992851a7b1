// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers shared across handlers: JSON
// responses, error responses and query parameter parsing.
package httputil

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

// ErrBadParam marks a malformed query parameter.
var ErrBadParam = errors.New("invalid query parameter")

// ErrorBody is the JSON body of an error response.
type ErrorBody struct {
	Status  string `json:"status"`
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// WriteJSON encodes v with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// WriteError writes an ErrorBody for err with the given status code.
func WriteError(w http.ResponseWriter, status int, err error) error {
	return WriteJSON(w, status, ErrorBody{
		Status:  "error",
		Code:    status,
		Message: err.Error(),
	})
}

// QueryInt reads query parameter name from r. A missing or empty
// parameter yields fallback. Values that are not integers wrap ErrBadParam;
// range checks are left to the caller.
func QueryInt(r *http.Request, name string, fallback int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q", ErrBadParam, name, raw)
	}
	return n, nil
}

// BearerToken extracts the token of an "Authorization: Bearer …" header.
func BearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	const prefix = "bearer "
	if len(h) < len(prefix) || !strings.EqualFold(h[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(h[len(prefix):])
}
