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

func keypairSummary(withType bool) *schema.Object {
	keypair := schema.NewClosedObject(schema.Properties{
		"name":        schema.String(),
		"public_key":  schema.String(),
		"fingerprint": schema.String(),
	}, "name", "public_key", "fingerprint")

	if withType {
		keypair = keypair.Extend(schema.Properties{
			"type": schema.String().WithEnum("ssh", "x509"),
		}).Require("type")
	}

	return keypair
}

func listKeypairs(withType, paginated bool) *schema.Entry {
	properties := schema.Properties{
		"keypairs": schema.NewArray(schema.NewClosedObject(schema.Properties{
			"keypair": keypairSummary(withType),
		}, "keypair")),
	}

	if paginated {
		properties["keypairs_links"] = types.Links()
	}

	return schema.NewEntry(http.StatusOK).WithBody(schema.NewClosedObject(properties, "keypairs"))
}

func showKeypair(withType bool) *schema.Entry {
	keypair := keypairSummary(withType).Extend(schema.Properties{
		"id":         schema.Integer(),
		"user_id":    schema.String(),
		"created_at": types.ISO8601(),
		"updated_at": types.ISO8601().OrNull(),
		"deleted_at": types.ISO8601().OrNull(),
		"deleted":    schema.Boolean(),
	}).Require("id", "user_id", "created_at", "updated_at", "deleted_at", "deleted")

	return schema.NewEntry(http.StatusOK).WithBody(schema.NewClosedObject(schema.Properties{
		"keypair": keypair,
	}, "keypair"))
}

// createKeypair describes the new key pair, the private key is only returned
// when the server generated it, which it stops doing at 2.92.
func createKeypair(status int, withType, generated bool) *schema.Entry {
	keypair := keypairSummary(withType).Extend(schema.Properties{
		"user_id": schema.String(),
	}).Require("user_id")

	if generated {
		keypair = keypair.Extend(schema.Properties{
			"private_key": schema.String(),
		})
	}

	return schema.NewEntry(status).WithBody(schema.NewClosedObject(schema.Properties{
		"keypair": keypair,
	}, "keypair"))
}

func keypairOperations() []*schema.Operation {
	return []*schema.Operation{
		{
			Name:   "ListKeypairs",
			Method: http.MethodGet,
			Path:   "/os-keypairs",
			Table: schema.Table{
				{Max: "2.1", Schema: listKeypairs(false, false)},
				{Min: "2.2", Max: "2.34", Schema: listKeypairs(true, false)},
				{Min: "2.35", Schema: listKeypairs(true, true)},
			},
		},
		{
			Name:   "ShowKeypair",
			Method: http.MethodGet,
			Path:   "/os-keypairs/{keypair_name}",
			Table: schema.Table{
				{Max: "2.1", Schema: showKeypair(false)},
				{Min: "2.2", Schema: showKeypair(true)},
			},
		},
		{
			Name:   "CreateKeypair",
			Method: http.MethodPost,
			Path:   "/os-keypairs",
			Table: schema.Table{
				{Max: "2.1", Schema: createKeypair(http.StatusOK, false, true)},
				{Min: "2.2", Max: "2.91", Schema: createKeypair(http.StatusCreated, true, true)},
				{Min: "2.92", Schema: createKeypair(http.StatusCreated, true, false)},
			},
		},
		{
			Name:   "DeleteKeypair",
			Method: http.MethodDelete,
			Path:   "/os-keypairs/{keypair_name}",
			Table: schema.Table{
				{Max: "2.1", Schema: schema.NewEntry(http.StatusAccepted)},
				{Min: "2.2", Schema: schema.NewEntry(http.StatusNoContent)},
			},
		},
	}
}
