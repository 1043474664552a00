/*
Copyright 2025 the Unikorn Authors.
Copyright 2026 Nscale.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrBadRequest          = errors.New("bad request")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrForbidden           = errors.New("forbidden")
	ErrNotFound            = errors.New("not found")
	ErrConflict            = errors.New("conflict")
	ErrGone                = errors.New("gone")
	ErrOverLimit           = errors.New("request entity too large")
	ErrInvalidContentType  = errors.New("unsupported media type")
	ErrUnprocessableEntity = errors.New("unprocessable entity")
	ErrServerFault         = errors.New("server fault")
	ErrNotImplemented      = errors.New("not implemented")
	ErrUnexpectedResponse  = errors.New("unexpected response")

	// ErrMissingParameter is raised when a path template cannot be expanded.
	ErrMissingParameter = errors.New("missing path parameter")

	// ErrInvalidOptions is raised when a client is misconfigured.
	ErrInvalidOptions = errors.New("invalid client options")
)

// statusErrors maps error statuses to the sentinel they are reported as.
//
//nolint:gochecknoglobals
var statusErrors = map[int]error{
	http.StatusBadRequest:            ErrBadRequest,
	http.StatusUnauthorized:          ErrUnauthorized,
	http.StatusForbidden:             ErrForbidden,
	http.StatusNotFound:              ErrNotFound,
	http.StatusConflict:              ErrConflict,
	http.StatusGone:                  ErrGone,
	http.StatusRequestEntityTooLarge: ErrOverLimit,
	http.StatusUnsupportedMediaType:  ErrInvalidContentType,
	http.StatusUnprocessableEntity:   ErrUnprocessableEntity,
	http.StatusInternalServerError:   ErrServerFault,
	http.StatusNotImplemented:        ErrNotImplemented,
}

// UnexpectedResponseError is returned for any error status.  It unwraps to
// one of the sentinel errors above so callers can use errors.Is.
type UnexpectedResponseError struct {
	// Method and Path identify the request.
	Method string
	Path   string
	// StatusCode is the response status.
	StatusCode int
	// Message is the fault message extracted from the body, if any.
	Message string
	// Body is the raw response body.
	Body []byte
	// TraceID locates the request in service logs.
	TraceID string

	err error
}

// ExtractError builds the error for a response with an error status.
func ExtractError(method, path string, statusCode int, body []byte, traceID string) *UnexpectedResponseError {
	err, ok := statusErrors[statusCode]
	if !ok {
		err = ErrUnexpectedResponse
	}

	return &UnexpectedResponseError{
		Method:     method,
		Path:       path,
		StatusCode: statusCode,
		Message:    faultMessage(body),
		Body:       body,
		TraceID:    traceID,
		err:        err,
	}
}

func (e *UnexpectedResponseError) Error() string {
	message := e.Message
	if message == "" {
		message = string(e.Body)
	}

	return fmt.Sprintf("%s: %s %s returned %d: %s (trace ID: %s)", e.err, e.Method, e.Path, e.StatusCode, message, e.TraceID)
}

func (e *UnexpectedResponseError) Unwrap() error {
	return e.err
}

// faultMessage digs the human readable message out of the fault shapes the
// services use:
//
//	{"itemNotFound": {"code": 404, "message": "..."}}
//	{"error": {"code": 404, "message": "...", "title": "Not Found"}}
//	{"errors": [{"status": 404, "title": "Not Found", "detail": "..."}]}
//	{"message": "..."}
func faultMessage(body []byte) string {
	var fault map[string]json.RawMessage

	if err := json.Unmarshal(body, &fault); err != nil {
		return ""
	}

	if raw, ok := fault["message"]; ok {
		var message string
		if err := json.Unmarshal(raw, &message); err == nil {
			return message
		}
	}

	if raw, ok := fault["errors"]; ok {
		var list []struct {
			Title  string `json:"title"`
			Detail string `json:"detail"`
		}

		if err := json.Unmarshal(raw, &list); err == nil && len(list) > 0 {
			if list[0].Detail != "" {
				return list[0].Detail
			}

			return list[0].Title
		}
	}

	if len(fault) != 1 {
		return ""
	}

	for _, raw := range fault {
		var wrapped struct {
			Message string `json:"message"`
		}

		if err := json.Unmarshal(raw, &wrapped); err == nil {
			return wrapped.Message
		}
	}

	return ""
}
