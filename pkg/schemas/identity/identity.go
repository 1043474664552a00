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

// Package identity describes the identity service's (v3) responses.
package identity

import (
	"net/http"

	"github.com/openstack/tempest-sub006/pkg/schema"
	"github.com/openstack/tempest-sub006/pkg/schemas/types"
)

// SubjectTokenHeader carries the issued or validated token.
const SubjectTokenHeader = "X-Subject-Token"

func reference() *schema.Object {
	return schema.NewObject(schema.Properties{
		"id":   schema.String(),
		"name": schema.String(),
	}, "id", "name")
}

func scopedReference() *schema.Object {
	return reference().Extend(schema.Properties{
		"domain": reference(),
	}).Require("domain")
}

func catalog() *schema.Array {
	return schema.NewArray(schema.NewObject(schema.Properties{
		"id":   schema.String(),
		"type": schema.String(),
		"name": schema.String(),
		"endpoints": schema.NewArray(schema.NewObject(schema.Properties{
			"id":        schema.String(),
			"interface": schema.String().WithEnum("public", "internal", "admin"),
			"region":    schema.String().OrNull(),
			"region_id": schema.String().OrNull(),
			"url":       schema.String().WithFormat("uri"),
		}, "id", "interface", "url")),
	}, "id", "type", "endpoints"))
}

func token() *schema.Object {
	return schema.NewObject(schema.Properties{
		"methods": schema.NewArray(schema.String()).WithMinItems(1),
		"user": scopedReference().Extend(schema.Properties{
			"password_expires_at": types.DateTime().OrNull(),
		}),
		"expires_at": types.DateTime(),
		"issued_at":  types.DateTime(),
		"audit_ids":  schema.NewArray(schema.String()),
		"project":    scopedReference(),
		"domain":     reference(),
		"system":     schema.NewObject(nil),
		"is_domain":  schema.Boolean(),
		"roles":      schema.NewArray(reference()),
		"catalog":    catalog(),
	}, "methods", "user", "expires_at", "issued_at", "audit_ids")
}

func tokenEntry(status int) *schema.Entry {
	return schema.NewEntry(status).
		WithBody(schema.NewClosedObject(schema.Properties{
			"token": token(),
		}, "token")).
		WithHeaders(map[string]schema.Node{
			SubjectTokenHeader: schema.String().WithMinLength(1),
		}).
		WithRequiredHeaders(SubjectTokenHeader)
}

func project() *schema.Object {
	return schema.NewObject(schema.Properties{
		"id":          schema.String(),
		"name":        schema.String(),
		"domain_id":   schema.String(),
		"description": schema.String().OrNull(),
		"enabled":     schema.Boolean(),
		"is_domain":   schema.Boolean(),
		"parent_id":   schema.String().OrNull(),
		"tags":        schema.NewArray(schema.String()),
		"options":     schema.NewObject(nil),
		"links":       schema.NewObject(schema.Properties{"self": schema.String().WithFormat("uri")}, "self"),
	}, "id", "name", "domain_id", "enabled", "links")
}

func user() *schema.Object {
	return schema.NewObject(schema.Properties{
		"id":                  schema.String(),
		"name":                schema.String(),
		"domain_id":           schema.String(),
		"enabled":             schema.Boolean(),
		"email":               schema.String(),
		"default_project_id":  schema.String(),
		"password_expires_at": types.DateTime().OrNull(),
		"options":             schema.NewObject(nil),
		"links":               schema.NewObject(schema.Properties{"self": schema.String().WithFormat("uri")}, "self"),
	}, "id", "name", "domain_id", "enabled", "links")
}

func collectionLinks() *schema.Object {
	return schema.NewObject(schema.Properties{
		"self":     schema.String().WithFormat("uri"),
		"previous": schema.String().WithFormat("uri").OrNull(),
		"next":     schema.String().WithFormat("uri").OrNull(),
	}, "self")
}

// Operations returns every registered identity operation.
func Operations() []*schema.Operation {
	return []*schema.Operation{
		{
			Name:   "IssueToken",
			Method: http.MethodPost,
			Path:   "/v3/auth/tokens",
			Table:  schema.Static(tokenEntry(http.StatusCreated)),
		},
		{
			Name:   "ValidateToken",
			Method: http.MethodGet,
			Path:   "/v3/auth/tokens",
			Table:  schema.Static(tokenEntry(http.StatusOK)),
		},
		{
			Name:   "RevokeToken",
			Method: http.MethodDelete,
			Path:   "/v3/auth/tokens",
			Table:  schema.Static(schema.NewEntry(http.StatusNoContent)),
		},
		{
			Name:   "ListProjects",
			Method: http.MethodGet,
			Path:   "/v3/projects",
			Table: schema.Static(schema.NewEntry(http.StatusOK).WithBody(schema.NewClosedObject(schema.Properties{
				"projects": schema.NewArray(project()),
				"links":    collectionLinks(),
			}, "projects", "links"))),
		},
		{
			Name:   "ShowProject",
			Method: http.MethodGet,
			Path:   "/v3/projects/{project_id}",
			Table: schema.Static(schema.NewEntry(http.StatusOK).WithBody(schema.NewClosedObject(schema.Properties{
				"project": project(),
			}, "project"))),
		},
		{
			Name:   "ShowUser",
			Method: http.MethodGet,
			Path:   "/v3/users/{user_id}",
			Table: schema.Static(schema.NewEntry(http.StatusOK).WithBody(schema.NewClosedObject(schema.Properties{
				"user": user(),
			}, "user"))),
		},
	}
}
