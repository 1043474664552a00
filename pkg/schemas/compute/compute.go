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

// Package compute describes the compute service's (v2.1) responses across
// microversions 2.1 to 2.100.
package compute

import (
	"net/http"

	"github.com/openstack/tempest-sub006/pkg/schema"
	"github.com/openstack/tempest-sub006/pkg/schemas/types"
)

func version() *schema.Object {
	return schema.NewClosedObject(schema.Properties{
		"id":          schema.String(),
		"links":       types.TypedLinks(),
		"status":      schema.String().WithEnum("CURRENT", "SUPPORTED", "DEPRECATED"),
		"version":     schema.String(),
		"min_version": schema.String(),
		"updated":     types.DateTime(),
		"media-types": schema.NewArray(schema.NewObject(schema.Properties{
			"base": schema.String(),
			"type": schema.String(),
		})),
	}, "id", "links", "status", "version", "min_version", "updated")
}

func versionOperations() []*schema.Operation {
	return []*schema.Operation{
		{
			Name:   "ShowVersion",
			Method: http.MethodGet,
			Path:   "/",
			Table: schema.Static(schema.NewEntry(http.StatusOK).WithBody(schema.NewClosedObject(schema.Properties{
				"version": version(),
			}, "version"))),
		},
	}
}

// Operations returns every registered compute operation.
func Operations() []*schema.Operation {
	var ops []*schema.Operation

	ops = append(ops, versionOperations()...)
	ops = append(ops, serverOperations()...)
	ops = append(ops, flavorOperations()...)
	ops = append(ops, keypairOperations()...)

	return ops
}
