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

// Package image describes the image service's (v2) responses.  The image
// API has no microversions, so every table is static.
package image

import (
	"net/http"

	"github.com/openstack/tempest-sub006/pkg/schema"
	"github.com/openstack/tempest-sub006/pkg/schemas/types"
)

// Image is the representation of an image.  Images carry arbitrary user
// properties, so additional keys are allowed.
func Image() *schema.Object {
	return schema.NewObject(schema.Properties{
		"id":               types.UUID(),
		"name":             schema.String().OrNull(),
		"status":           schema.String().WithEnum("queued", "saving", "active", "killed", "deleted", "pending_delete", "deactivated", "uploading", "importing"),
		"visibility":       schema.String().WithEnum("public", "private", "shared", "community"),
		"protected":        schema.Boolean(),
		"os_hidden":        schema.Boolean(),
		"tags":             schema.NewArray(schema.String()),
		"created_at":       types.DateTime(),
		"updated_at":       types.DateTime(),
		"self":             schema.String(),
		"file":             schema.String(),
		"schema":           schema.String(),
		"size":             schema.Integer().OrNull(),
		"virtual_size":     schema.Integer().OrNull(),
		"checksum":         schema.String().OrNull(),
		"os_hash_algo":     schema.String().OrNull(),
		"os_hash_value":    schema.String().OrNull(),
		"container_format": schema.String().OrNull(),
		"disk_format":      schema.String().OrNull(),
		"min_disk":         schema.Integer(),
		"min_ram":          schema.Integer(),
		"owner":            schema.String().OrNull(),
		"direct_url":       schema.String(),
		"locations":        schema.NewArray(schema.NewObject(schema.Properties{"url": schema.String(), "metadata": schema.NewObject(nil)})),
	}, "id", "name", "status", "visibility", "protected", "tags", "created_at",
		"updated_at", "self", "file", "schema", "size", "checksum", "container_format",
		"disk_format", "min_disk", "min_ram", "owner")
}

// Operations returns every registered image operation.
func Operations() []*schema.Operation {
	return []*schema.Operation{
		{
			Name:   "ListImages",
			Method: http.MethodGet,
			Path:   "/v2/images",
			Table: schema.Static(schema.NewEntry(http.StatusOK).WithBody(schema.NewClosedObject(schema.Properties{
				"images": schema.NewArray(Image()),
				"first":  schema.String(),
				"next":   schema.String(),
				"schema": schema.String(),
			}, "images", "first", "schema"))),
		},
		{
			Name:   "ShowImage",
			Method: http.MethodGet,
			Path:   "/v2/images/{image_id}",
			Table:  schema.Static(schema.NewEntry(http.StatusOK).WithBody(Image())),
		},
		{
			Name:   "CreateImage",
			Method: http.MethodPost,
			Path:   "/v2/images",
			Table:  schema.Static(schema.NewEntry(http.StatusCreated).WithBody(Image())),
		},
		{
			Name:   "DeleteImage",
			Method: http.MethodDelete,
			Path:   "/v2/images/{image_id}",
			Table:  schema.Static(schema.NewEntry(http.StatusNoContent)),
		},
		{
			Name:   "AddImageTag",
			Method: http.MethodPut,
			Path:   "/v2/images/{image_id}/tags/{tag}",
			Table:  schema.Static(schema.NewEntry(http.StatusNoContent)),
		},
		{
			Name:   "DeleteImageTag",
			Method: http.MethodDelete,
			Path:   "/v2/images/{image_id}/tags/{tag}",
			Table:  schema.Static(schema.NewEntry(http.StatusNoContent)),
		},
	}
}
