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

package compute

import (
	"net/http"

	"github.com/openstack/tempest-sub006/pkg/schema"
	"github.com/openstack/tempest-sub006/pkg/schemas/types"
)

func flavorV21() *schema.Object {
	return schema.NewClosedObject(schema.Properties{
		"id":    schema.String(),
		"name":  schema.String(),
		"ram":   schema.Integer(),
		"disk":  schema.Integer(),
		"vcpus": schema.Integer(),
		// Before 2.75 no swap is reported as an empty string.
		"swap":                       schema.NewOneOf(schema.Integer(), schema.String().WithEnum("")),
		"OS-FLV-EXT-DATA:ephemeral":  schema.Integer(),
		"OS-FLV-DISABLED:disabled":   schema.Boolean(),
		"os-flavor-access:is_public": schema.Boolean(),
		"rxtx_factor":                schema.Number(),
		"links":                      types.Links(),
	}, "id", "name", "ram", "disk", "vcpus", "swap", "OS-FLV-EXT-DATA:ephemeral",
		"OS-FLV-DISABLED:disabled", "os-flavor-access:is_public", "rxtx_factor", "links")
}

func flavorV255() *schema.Object {
	return flavorV21().Extend(schema.Properties{
		"description": schema.String().OrNull(),
	}).Require("description")
}

func flavorV261() *schema.Object {
	return flavorV255().Extend(schema.Properties{
		"extra_specs": types.Metadata(),
	})
}

func flavorV275() *schema.Object {
	return flavorV261().Extend(schema.Properties{
		"swap": schema.Integer(),
	})
}

func flavorTable(render func(*schema.Object) *schema.Entry) schema.Table {
	return schema.Table{
		{Max: "2.54", Schema: render(flavorV21())},
		{Min: "2.55", Max: "2.60", Schema: render(flavorV255())},
		{Min: "2.61", Max: "2.74", Schema: render(flavorV261())},
		{Min: "2.75", Schema: render(flavorV275())},
	}
}

func singleFlavor(flavor *schema.Object) *schema.Entry {
	return schema.NewEntry(http.StatusOK).WithBody(schema.NewClosedObject(schema.Properties{
		"flavor": flavor,
	}, "flavor"))
}

func flavorDetail(flavor *schema.Object) *schema.Entry {
	return schema.NewEntry(http.StatusOK).WithBody(schema.NewClosedObject(schema.Properties{
		"flavors":       schema.NewArray(flavor),
		"flavors_links": types.Links(),
	}, "flavors"))
}

func listFlavors(withDescription bool) *schema.Entry {
	flavor := schema.NewClosedObject(schema.Properties{
		"id":    schema.String(),
		"name":  schema.String(),
		"links": types.Links(),
	}, "id", "name", "links")

	if withDescription {
		flavor = flavor.Extend(schema.Properties{
			"description": schema.String().OrNull(),
		}).Require("description")
	}

	return schema.NewEntry(http.StatusOK).WithBody(schema.NewClosedObject(schema.Properties{
		"flavors":       schema.NewArray(flavor),
		"flavors_links": types.Links(),
	}, "flavors"))
}

func flavorOperations() []*schema.Operation {
	return []*schema.Operation{
		{
			Name:   "ListFlavors",
			Method: http.MethodGet,
			Path:   "/flavors",
			Table: schema.Table{
				{Max: "2.54", Schema: listFlavors(false)},
				{Min: "2.55", Schema: listFlavors(true)},
			},
		},
		{
			Name:   "ListFlavorsDetail",
			Method: http.MethodGet,
			Path:   "/flavors/detail",
			Table:  flavorTable(flavorDetail),
		},
		{
			Name:   "ShowFlavor",
			Method: http.MethodGet,
			Path:   "/flavors/{flavor_id}",
			Table:  flavorTable(singleFlavor),
		},
		{
			Name:   "CreateFlavor",
			Method: http.MethodPost,
			Path:   "/flavors",
			Table:  flavorTable(singleFlavor),
		},
		{
			Name:   "DeleteFlavor",
			Method: http.MethodDelete,
			Path:   "/flavors/{flavor_id}",
			Table:  schema.Static(schema.NewEntry(http.StatusAccepted)),
		},
	}
}
