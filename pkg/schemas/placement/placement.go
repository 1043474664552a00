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

// Package placement describes the placement service's responses across
// microversions 1.0 to 1.39.
package placement

import (
	"net/http"

	"github.com/openstack/tempest-sub006/pkg/schema"
	"github.com/openstack/tempest-sub006/pkg/schemas/types"
)

// resourceClassPattern matches standard and CUSTOM_ resource classes.
const resourceClassPattern = `^[A-Z0-9_]+$`

// links are relative to the service root, the version document's self link
// is empty.
func links(href *schema.Primitive) *schema.Array {
	return schema.NewArray(schema.NewClosedObject(schema.Properties{
		"href": href,
		"rel":  schema.String(),
	}, "href", "rel"))
}

func resourceProvider() *schema.Object {
	return schema.NewClosedObject(schema.Properties{
		"uuid":       types.UUID(),
		"name":       schema.String(),
		"generation": schema.Integer(),
		"links":      links(schema.String().WithFormat("uri-reference")),
	}, "uuid", "name", "generation", "links")
}

// resourceProviderV114 adds nested provider trees.
func resourceProviderV114() *schema.Object {
	return resourceProvider().Extend(schema.Properties{
		"parent_provider_uuid": schema.Nullable(types.UUID()),
		"root_provider_uuid":   types.UUID(),
	}).Require("parent_provider_uuid", "root_provider_uuid")
}

func resourceProviderTable(render func(*schema.Object) *schema.Entry) schema.Table {
	return schema.Table{
		{Max: "1.13", Schema: render(resourceProvider())},
		{Min: "1.14", Schema: render(resourceProviderV114())},
	}
}

func inventory() *schema.Object {
	return schema.NewClosedObject(schema.Properties{
		"total":            schema.Integer().WithMinimum(1),
		"reserved":         schema.Integer().WithMinimum(0),
		"min_unit":         schema.Integer().WithMinimum(1),
		"max_unit":         schema.Integer().WithMinimum(1),
		"step_size":        schema.Integer().WithMinimum(1),
		"allocation_ratio": schema.Number(),
	}, "total", "reserved", "min_unit", "max_unit", "step_size", "allocation_ratio")
}

// Operations returns every registered placement operation.
func Operations() []*schema.Operation {
	return []*schema.Operation{
		{
			Name:   "ListVersions",
			Method: http.MethodGet,
			Path:   "/",
			Table: schema.Static(schema.NewEntry(http.StatusOK).WithBody(schema.NewClosedObject(schema.Properties{
				"versions": schema.NewArray(schema.NewClosedObject(schema.Properties{
					"id":          schema.String(),
					"min_version": schema.String(),
					"max_version": schema.String(),
					"status":      schema.String().WithEnum("CURRENT"),
					"links":       links(schema.String()),
				}, "id", "min_version", "max_version", "status", "links")),
			}, "versions"))),
		},
		{
			Name:   "ListResourceProviders",
			Method: http.MethodGet,
			Path:   "/resource_providers",
			Table: resourceProviderTable(func(rp *schema.Object) *schema.Entry {
				return schema.NewEntry(http.StatusOK).WithBody(schema.NewClosedObject(schema.Properties{
					"resource_providers": schema.NewArray(rp),
				}, "resource_providers"))
			}),
		},
		{
			Name:   "ShowResourceProvider",
			Method: http.MethodGet,
			Path:   "/resource_providers/{resource_provider_uuid}",
			Table: resourceProviderTable(func(rp *schema.Object) *schema.Entry {
				return schema.NewEntry(http.StatusOK).WithBody(rp)
			}),
		},
		{
			Name:   "ListTraits",
			Method: http.MethodGet,
			Path:   "/traits",
			Table: schema.Table{
				{Min: "1.6", Schema: schema.NewEntry(http.StatusOK).WithBody(schema.NewClosedObject(schema.Properties{
					"traits": schema.NewArray(schema.String().WithPattern(resourceClassPattern)),
				}, "traits"))},
			},
		},
		{
			Name:   "ListInventories",
			Method: http.MethodGet,
			Path:   "/resource_providers/{resource_provider_uuid}/inventories",
			Table: schema.Static(schema.NewEntry(http.StatusOK).WithBody(schema.NewClosedObject(schema.Properties{
				"inventories": schema.NewPatternProperties(map[string]schema.Node{
					resourceClassPattern: inventory(),
				}),
				"resource_provider_generation": schema.Integer(),
			}, "inventories", "resource_provider_generation"))),
		},
		{
			Name:   "ListUsages",
			Method: http.MethodGet,
			Path:   "/resource_providers/{resource_provider_uuid}/usages",
			Table: schema.Static(schema.NewEntry(http.StatusOK).WithBody(schema.NewClosedObject(schema.Properties{
				"usages": schema.NewPatternProperties(map[string]schema.Node{
					resourceClassPattern: schema.Integer().WithMinimum(0),
				}),
				"resource_provider_generation": schema.Integer(),
			}, "usages", "resource_provider_generation"))),
		},
	}
}
