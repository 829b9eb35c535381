package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// InfoResponse mirrors the payload returned by GET /.
type InfoResponse struct {
	Message string `json:"message"`
}

// HealthResponse mirrors the payload returned by GET /api/health.
type HealthResponse struct {
	Status string `json:"status"`
}

// Error is returned when the API answers with a 4xx or 5xx status.
type Error struct {
	StatusCode int
	Path       string
	// Detail is the server supplied "detail" string, when present.
	Detail string
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("api %s returned status %d: %s", e.Path, e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("api %s returned status %d", e.Path, e.StatusCode)
}

// DetailOf returns the server detail carried by err, or "" when err is not an
// API error or the server sent none.
func DetailOf(err error) string {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Detail
	}
	return ""
}

const maxErrorBody = 64 << 10

func newError(path string, resp *http.Response) *Error {
	apiErr := &Error{StatusCode: resp.StatusCode, Path: path}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil || len(body) == 0 {
		return apiErr
	}
	apiErr.Detail = parseDetail(body)
	return apiErr
}

// parseDetail extracts a string "detail" field. Validation errors where
// detail is a list or object are ignored so callers fall back to a generic
// message.
func parseDetail(body []byte) string {
	var payload struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || len(payload.Detail) == 0 {
		return ""
	}
	var detail string
	if err := json.Unmarshal(payload.Detail, &detail); err != nil {
		return ""
	}
	return strings.TrimSpace(detail)
}
