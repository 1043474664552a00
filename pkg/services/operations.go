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

// Package services holds what the per-service clients share.
package services

import (
	"context"
	"fmt"

	"github.com/openstack/tempest-sub006/pkg/rest"
	"github.com/openstack/tempest-sub006/pkg/schema"
	"github.com/openstack/tempest-sub006/pkg/schemas"
)

// Operations indexes a service's registered operations by name.
type Operations map[string]*schema.Operation

// Index builds the index for a registered service, it panics if the service
// is unknown as registrations are static.
func Index(service string) Operations {
	registry, err := schemas.Lookup(service)
	if err != nil {
		panic(err)
	}

	ops := make(Operations, len(registry.Operations))

	for _, op := range registry.Operations {
		ops[op.Name] = op
	}

	return ops
}

// Invoke performs a named operation, checking the response against its
// contract.
func (o Operations) Invoke(ctx context.Context, client *rest.Client, name string, request rest.Request) (*rest.Response, error) {
	op, ok := o[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", schemas.ErrOperationNotFound, name)
	}

	return client.Invoke(ctx, op, request)
}

// Decode invokes an operation and decodes the response body into a typed value.
func Decode[T any](ctx context.Context, o Operations, client *rest.Client, name string, request rest.Request) (*T, *rest.Response, error) {
	response, err := o.Invoke(ctx, client, name, request)
	if err != nil {
		return nil, response, err
	}

	var out T

	if err := response.Into(&out); err != nil {
		return nil, response, err
	}

	return &out, response, nil
}
