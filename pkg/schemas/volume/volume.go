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

// Package volume describes the block storage service's (v3) responses across
// microversions 3.0 to 3.70.
package volume

import (
	"net/http"

	"github.com/openstack/tempest-sub006/pkg/schema"
	"github.com/openstack/tempest-sub006/pkg/schemas/types"
)

//nolint:gochecknoglobals
var volumeStatuses = []any{
	"available", "attaching", "backing-up", "creating", "deleting", "downloading",
	"uploading", "error", "error_backing-up", "error_deleting", "error_extending",
	"error_restoring", "extending", "in-use", "maintenance", "reserved",
	"restoring-backup", "retyping", "awaiting-transfer",
}

func attachment() *schema.Object {
	return schema.NewObject(schema.Properties{
		"server_id":     types.UUID(),
		"attachment_id": types.UUID(),
		"attached_at":   types.ISO8601().OrNull(),
		"host_name":     schema.String().OrNull(),
		"volume_id":     types.UUID(),
		"device":        schema.String(),
		"id":            types.UUID(),
	}, "server_id", "attachment_id", "host_name", "volume_id", "device", "id")
}

func volumeV30() *schema.Object {
	return schema.NewClosedObject(schema.Properties{
		"id":                             types.UUID(),
		"name":                           schema.String().OrNull(),
		"description":                    schema.String().OrNull(),
		"status":                         schema.String().WithEnum(volumeStatuses...),
		"size":                           schema.Integer(),
		"availability_zone":              schema.String(),
		"created_at":                     types.ISO8601(),
		"updated_at":                     types.ISO8601().OrNull(),
		"volume_type":                    schema.String().OrNull(),
		"snapshot_id":                    schema.Nullable(types.UUID()),
		"source_volid":                   schema.Nullable(types.UUID()),
		"bootable":                       schema.String().WithEnum("true", "false"),
		"encrypted":                      schema.Boolean(),
		"multiattach":                    schema.Boolean(),
		"consistencygroup_id":            schema.Nullable(types.UUID()),
		"replication_status":             schema.String().OrNull(),
		"user_id":                        schema.String(),
		"metadata":                       types.Metadata(),
		"links":                          types.Links(),
		"attachments":                    schema.NewArray(attachment()),
		"migration_status":               schema.String().OrNull(),
		"os-vol-tenant-attr:tenant_id":   schema.String(),
		"os-vol-host-attr:host":          schema.String().OrNull(),
		"os-vol-mig-status-attr:migstat": schema.String().OrNull(),
		"os-vol-mig-status-attr:name_id": schema.Nullable(types.UUID()),
		"volume_image_metadata":          types.Metadata(),
	}, "id", "name", "description", "status", "size", "availability_zone",
		"created_at", "updated_at", "volume_type", "snapshot_id", "source_volid",
		"bootable", "encrypted", "multiattach", "consistencygroup_id",
		"replication_status", "user_id", "metadata", "links", "attachments")
}

//nolint:gochecknoglobals
var volumeRanges = []struct {
	min     string
	max     string
	revised func(*schema.Object) *schema.Object
}{
	{"", "3.12", nil},
	{"3.13", "3.20", func(v *schema.Object) *schema.Object {
		return v.Extend(schema.Properties{"group_id": schema.Nullable(types.UUID())}).Require("group_id")
	}},
	{"3.21", "3.47", func(v *schema.Object) *schema.Object {
		return v.Extend(schema.Properties{"provider_id": schema.String().OrNull()}).Require("provider_id")
	}},
	{"3.48", "3.60", func(v *schema.Object) *schema.Object {
		return v.Extend(schema.Properties{
			"shared_targets": schema.Boolean(),
			"service_uuid":   schema.Nullable(types.UUID()),
		}).Require("shared_targets", "service_uuid")
	}},
	{"3.61", "3.62", func(v *schema.Object) *schema.Object {
		return v.Extend(schema.Properties{"cluster_name": schema.String().OrNull()})
	}},
	{"3.63", "3.64", func(v *schema.Object) *schema.Object {
		return v.Extend(schema.Properties{"volume_type_id": types.UUID()}).Require("volume_type_id")
	}},
	{"3.65", "", func(v *schema.Object) *schema.Object {
		return v.Extend(schema.Properties{"consumes_quota": schema.Boolean()}).Require("consumes_quota")
	}},
}

func volumeTable(render func(*schema.Object) *schema.Entry) schema.Table {
	table := make(schema.Table, len(volumeRanges))
	volume := volumeV30()

	for i, r := range volumeRanges {
		if r.revised != nil {
			volume = r.revised(volume)
		}

		table[i] = schema.VersionRange{
			Min:    r.min,
			Max:    r.max,
			Schema: render(volume),
		}
	}

	return table
}

func singleVolume(status int) func(*schema.Object) *schema.Entry {
	return func(volume *schema.Object) *schema.Entry {
		return schema.NewEntry(status).WithBody(schema.NewClosedObject(schema.Properties{
			"volume": volume,
		}, "volume"))
	}
}

// createdVolume is shown before the scheduler has placed it, so host and
// attachment related attributes may be missing.
func createdVolume(volume *schema.Object) *schema.Entry {
	return singleVolume(http.StatusAccepted)(volume.Unrequire("attachments", "updated_at"))
}

func volumeDetail(volume *schema.Object) *schema.Entry {
	return schema.NewEntry(http.StatusOK).WithBody(schema.NewClosedObject(schema.Properties{
		"volumes":       schema.NewArray(volume),
		"volumes_links": types.Links(),
		"count":         schema.Integer(),
	}, "volumes"))
}

func listVolumes() *schema.Entry {
	return schema.NewEntry(http.StatusOK).WithBody(schema.NewClosedObject(schema.Properties{
		"volumes": schema.NewArray(schema.NewClosedObject(schema.Properties{
			"id":    types.UUID(),
			"name":  schema.String().OrNull(),
			"links": types.Links(),
		}, "id", "name", "links")),
		"volumes_links": types.Links(),
		"count":         schema.Integer(),
	}, "volumes"))
}

func volumeType() *schema.Object {
	return schema.NewObject(schema.Properties{
		"id":                              types.UUID(),
		"name":                            schema.String(),
		"description":                     schema.String().OrNull(),
		"is_public":                       schema.Boolean(),
		"os-volume-type-access:is_public": schema.Boolean(),
		"qos_specs_id":                    schema.Nullable(types.UUID()),
		"extra_specs":                     types.Metadata(),
	}, "id", "name", "description", "is_public")
}

// Operations returns every registered volume operation.
func Operations() []*schema.Operation {
	return []*schema.Operation{
		{
			Name:   "ListVolumes",
			Method: http.MethodGet,
			Path:   "/volumes",
			Table:  schema.Static(listVolumes()),
		},
		{
			Name:   "ListVolumesDetail",
			Method: http.MethodGet,
			Path:   "/volumes/detail",
			Table:  volumeTable(volumeDetail),
		},
		{
			Name:   "ShowVolume",
			Method: http.MethodGet,
			Path:   "/volumes/{volume_id}",
			Table:  volumeTable(singleVolume(http.StatusOK)),
		},
		{
			Name:   "CreateVolume",
			Method: http.MethodPost,
			Path:   "/volumes",
			Table:  volumeTable(createdVolume),
		},
		{
			Name:   "DeleteVolume",
			Method: http.MethodDelete,
			Path:   "/volumes/{volume_id}",
			Table:  schema.Static(schema.NewEntry(http.StatusAccepted)),
		},
		{
			Name:   "ListVolumeTypes",
			Method: http.MethodGet,
			Path:   "/types",
			Table: schema.Static(schema.NewEntry(http.StatusOK).WithBody(schema.NewClosedObject(schema.Properties{
				"volume_types": schema.NewArray(volumeType()),
			}, "volume_types"))),
		},
		{
			Name:   "ShowVolumeType",
			Method: http.MethodGet,
			Path:   "/types/{volume_type_id}",
			Table: schema.Static(schema.NewEntry(http.StatusOK).WithBody(schema.NewClosedObject(schema.Properties{
				"volume_type": volumeType(),
			}, "volume_type"))),
		},
	}
}
