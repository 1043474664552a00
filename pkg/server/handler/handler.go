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

// Package handler implements the stub operations of the fake API server.
// Each operation replies with canned responses queued by a test, and every
// request is recorded so tests can inspect what a client sent.
package handler

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/openstack/tempest-sub006/pkg/microversion"
	"github.com/openstack/tempest-sub006/pkg/schema"

	"sigs.k8s.io/controller-runtime/pkg/log"
)

// Stub is a canned response.
type Stub struct {
	// Status defaults to 200.
	Status int
	// Header is added to the response.
	Header http.Header
	// Body is encoded as JSON when not nil.  A []byte or json.RawMessage
	// is written as is.
	Body any
}

// Request is a request the server received.
type Request struct {
	// Operation is the name of the matched operation.
	Operation string
	Method    string
	Path      string
	// Params are the path parameters.
	Params map[string]string
	Query  url.Values
	Header http.Header
	Body   []byte
}

// Options allows behaviour to be defined by tests.
type Options struct {
	// Service describes the microversion headers to expect and echo.
	Service microversion.Service
	// MinVersion and MaxVersion bound the microversions the server accepts,
	// empty meaning unbounded.
	MinVersion string
	MaxVersion string
	// DefaultVersion is reported when a request asks for no microversion.
	DefaultVersion string
}

type Handler struct {
	// options allows behaviour to be defined by tests.
	options Options

	// lock guards everything below.
	lock sync.Mutex

	// stubs are queued responses by operation name, the last is sticky.
	stubs map[string][]Stub

	// requests is everything received, in order.
	requests []Request
}

func New(options Options) *Handler {
	return &Handler{
		options: options,
		stubs:   map[string][]Stub{},
	}
}

// Stub queues responses for an operation.  Each request consumes one, and
// the last is repeated once the queue is drained.
func (h *Handler) Stub(operation string, stubs ...Stub) {
	h.lock.Lock()
	defer h.lock.Unlock()

	h.stubs[operation] = append(h.stubs[operation], stubs...)
}

// Reset forgets all stubs and recorded requests.
func (h *Handler) Reset() {
	h.lock.Lock()
	defer h.lock.Unlock()

	h.stubs = map[string][]Stub{}
	h.requests = nil
}

// Requests returns the recorded requests.
func (h *Handler) Requests() []Request {
	h.lock.Lock()
	defer h.lock.Unlock()

	out := make([]Request, len(h.requests))
	copy(out, h.requests)

	return out
}

// LastRequest returns the most recent request for an operation.
func (h *Handler) LastRequest(operation string) (Request, bool) {
	h.lock.Lock()
	defer h.lock.Unlock()

	for i := len(h.requests) - 1; i >= 0; i-- {
		if h.requests[i].Operation == operation {
			return h.requests[i], true
		}
	}

	return Request{}, false
}

func (h *Handler) next(operation string) (Stub, bool) {
	queue := h.stubs[operation]
	if len(queue) == 0 {
		return Stub{}, false
	}

	stub := queue[0]

	if len(queue) > 1 {
		h.stubs[operation] = queue[1:]
	}

	return stub, true
}

func (h *Handler) record(op *schema.Operation, r *http.Request) (Stub, bool, error) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return Stub{}, false, err
	}

	params := map[string]string{}

	for _, name := range op.Parameters() {
		params[name] = chi.URLParam(r, name)
	}

	h.lock.Lock()
	defer h.lock.Unlock()

	h.requests = append(h.requests, Request{
		Operation: op.Name,
		Method:    r.Method,
		Path:      r.URL.Path,
		Params:    params,
		Query:     r.URL.Query(),
		Header:    r.Header.Clone(),
		Body:      body,
	})

	stub, ok := h.next(op.Name)

	return stub, ok, nil
}

func (h *Handler) setUncacheable(w http.ResponseWriter) {
	w.Header().Add("Cache-Control", "no-cache")
}

// negotiate picks the microversion to respond with, false if the requested
// one is not supported.
func (h *Handler) negotiate(r *http.Request) (string, bool) {
	requested := h.options.Service.ResponseVersion(r.Header)
	if requested == "" {
		return h.options.DefaultVersion, true
	}

	minimum, err := microversion.Parse(h.options.MinVersion)
	if err != nil {
		return "", false
	}

	maximum, err := microversion.Parse(h.options.MaxVersion)
	if err != nil {
		return "", false
	}

	if requested == microversion.Latest {
		if maximum.IsNull() {
			return "", false
		}

		return maximum.String(), true
	}

	version, err := microversion.Parse(requested)
	if err != nil || !version.Matches(minimum, maximum) {
		return "", false
	}

	return version.String(), true
}

// Operation returns the handler for a registered operation.
func (h *Handler) Operation(op *schema.Operation) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := log.FromContext(r.Context())

		stub, ok, err := h.record(op, r)
		if err != nil {
			writeFault(w, http.StatusBadRequest, "unable to read request body")
			return
		}

		h.setUncacheable(w)

		version, supported := h.negotiate(r)
		if !supported {
			writeFault(w, http.StatusNotAcceptable, fmt.Sprintf("Version %s is not supported by the API.", h.options.Service.ResponseVersion(r.Header)))
			return
		}

		if version != "" {
			h.options.Service.SetHeaders(w.Header(), version)
			w.Header().Set("Vary", microversion.HeaderName)
		}

		if !ok {
			log.Info("no stub registered", "operation", op.Name)
			writeFault(w, http.StatusNotImplemented, "no stub registered for "+op.Name)

			return
		}

		for name, values := range stub.Header {
			w.Header()[name] = values
		}

		status := stub.Status
		if status == 0 {
			status = http.StatusOK
		}

		writeJSON(w, status, stub.Body)
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	var data []byte

	switch t := body.(type) {
	case nil:
	case []byte:
		data = t
	case json.RawMessage:
		data = t
	default:
		var err error

		if data, err = json.Marshal(body); err != nil {
			writeFault(w, http.StatusInternalServerError, "unable to marshal stub body")
			return
		}
	}

	if len(data) != 0 {
		w.Header().Set("Content-Type", "application/json")
	}

	w.WriteHeader(status)

	if len(data) != 0 {
		_, _ = w.Write(data)
	}
}

// writeFault replies with the fault shape the compute service uses.
func writeFault(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{
		faultName(status): map[string]any{
			"code":    status,
			"message": message,
		},
	})
}

func faultName(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "badRequest"
	case http.StatusNotFound:
		return "itemNotFound"
	case http.StatusNotAcceptable:
		return "notAcceptable"
	case http.StatusNotImplemented:
		return "notImplemented"
	}

	return "computeFault"
}
