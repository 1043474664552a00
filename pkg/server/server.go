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

// Package server is a fake OpenStack service, routing every registered
// operation of a service to a stub.  It lets clients be exercised without
// a cloud.
package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/openstack/tempest-sub006/pkg/schemas"
	"github.com/openstack/tempest-sub006/pkg/server/handler"
)

// Server routes requests for a service's operations to stubs.
type Server struct {
	// Handler queues stubs and records requests.
	Handler *handler.Handler

	router chi.Router
}

// New returns a server for every operation in the registry.
func New(registry *schemas.Registry, options handler.Options) *Server {
	if !options.Service.Enabled() {
		options.Service = registry.Service
	}

	h := handler.New(options)

	router := chi.NewRouter()
	router.Use(middleware.Recoverer)

	for _, op := range registry.Operations {
		router.Method(op.Method, op.Path, h.Operation(op))
	}

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no operation registered for "+r.Method+" "+r.URL.Path, http.StatusNotFound)
	})

	return &Server{
		Handler: h,
		router:  router,
	}
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
