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

// Package schemas is the registry of response contracts for every supported
// service.
package schemas

import (
	"errors"
	"fmt"
	"slices"

	"github.com/openstack/tempest-sub006/pkg/microversion"
	"github.com/openstack/tempest-sub006/pkg/schema"
	"github.com/openstack/tempest-sub006/pkg/schemas/compute"
	"github.com/openstack/tempest-sub006/pkg/schemas/identity"
	"github.com/openstack/tempest-sub006/pkg/schemas/image"
	"github.com/openstack/tempest-sub006/pkg/schemas/placement"
	"github.com/openstack/tempest-sub006/pkg/schemas/volume"
)

var (
	// ErrServiceNotFound is raised when a service is not registered.
	ErrServiceNotFound = errors.New("service not found")

	// ErrOperationNotFound is raised when an operation is not registered.
	ErrOperationNotFound = errors.New("operation not found")
)

// Registry is the set of operations a service exposes.
type Registry struct {
	// Name is the service type, e.g. compute.
	Name string
	// Service describes how the service negotiates microversions, the
	// zero value meaning it does not.
	Service microversion.Service
	// Operations are the registered operations.
	Operations []*schema.Operation
}

// Operation looks up an operation by name.
func (r *Registry) Operation(name string) (*schema.Operation, error) {
	i := slices.IndexFunc(r.Operations, func(op *schema.Operation) bool {
		return op.Name == name
	})

	if i < 0 {
		return nil, fmt.Errorf("%w: %s %s", ErrOperationNotFound, r.Name, name)
	}

	return r.Operations[i], nil
}

// Check verifies every operation's version table.
func (r *Registry) Check() error {
	for _, op := range r.Operations {
		if err := op.Check(); err != nil {
			return fmt.Errorf("%s: %w", r.Name, err)
		}
	}

	return nil
}

// All returns the registries of every supported service, ordered by name.
func All() []*Registry {
	return []*Registry{
		{
			Name:       "compute",
			Service:    microversion.Compute,
			Operations: compute.Operations(),
		},
		{
			Name:       "identity",
			Operations: identity.Operations(),
		},
		{
			Name:       "image",
			Operations: image.Operations(),
		},
		{
			Name:       "placement",
			Service:    microversion.Placement,
			Operations: placement.Operations(),
		},
		{
			Name:       "volume",
			Service:    microversion.Volume,
			Operations: volume.Operations(),
		},
	}
}

// Lookup returns a service's registry.
func Lookup(name string) (*Registry, error) {
	for _, r := range All() {
		if r.Name == name {
			return r, nil
		}
	}

	return nil, fmt.Errorf("%w: %s", ErrServiceNotFound, name)
}
