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

// serverRanges are the microversion ranges over which the server
// representation is stable.  serverRevisions[i] turns the representation of
// range i-1 into that of range i.
//
//nolint:gochecknoglobals
var serverRanges = []struct {
	min string
	max string
}{
	{"", "2.2"},
	{"2.3", "2.8"},
	{"2.9", "2.15"},
	{"2.16", "2.18"},
	{"2.19", "2.25"},
	{"2.26", "2.46"},
	{"2.47", "2.62"},
	{"2.63", "2.70"},
	{"2.71", "2.72"},
	{"2.73", "2.95"},
	{"2.96", ""},
}

func addresses() *schema.PatternProperties {
	return schema.NewPatternProperties(map[string]schema.Node{
		`^[a-zA-Z0-9_.-]+$`: schema.NewArray(schema.NewObject(schema.Properties{
			"version":                 schema.Integer().WithEnum(4, 6),
			"addr":                    types.IPAddress(),
			"OS-EXT-IPS:type":         schema.String().WithEnum("fixed", "floating"),
			"OS-EXT-IPS-MAC:mac_addr": types.MACAddress(),
		}, "version", "addr")),
	})
}

func imageReference() schema.Node {
	// Servers booted from volume report an empty string.
	return schema.NewOneOf(
		schema.NewClosedObject(schema.Properties{
			"id":    schema.String(),
			"links": types.Links(),
		}, "id", "links"),
		schema.String().WithEnum(""),
	)
}

func fault() *schema.Object {
	return schema.NewObject(schema.Properties{
		"code":    schema.Integer(),
		"created": types.ISO8601(),
		"message": schema.String(),
		"details": schema.String(),
	}, "code", "created", "message")
}

func accessIP(ip *schema.Primitive) schema.Node {
	return schema.NewOneOf(ip, schema.String().WithEnum(""))
}

func serverBase() *schema.Object {
	return schema.NewObject(schema.Properties{
		"id":     schema.String(),
		"name":   schema.String(),
		"status": schema.String(),
		"image":  imageReference(),
		"flavor": schema.NewClosedObject(schema.Properties{
			"id":    schema.String(),
			"links": types.Links(),
		}, "id", "links"),
		"fault":                       fault(),
		"user_id":                     schema.String(),
		"tenant_id":                   schema.String(),
		"created":                     types.ISO8601(),
		"updated":                     types.ISO8601(),
		"progress":                    schema.Integer(),
		"metadata":                    types.Metadata(),
		"links":                       types.Links(),
		"addresses":                   addresses(),
		"hostId":                      schema.String(),
		"OS-DCF:diskConfig":           schema.String().WithEnum("MANUAL", "AUTO"),
		"accessIPv4":                  accessIP(types.IPv4()),
		"accessIPv6":                  accessIP(types.IPv6()),
		"key_name":                    schema.String().OrNull(),
		"config_drive":                schema.String(),
		"OS-EXT-AZ:availability_zone": schema.String(),
		"OS-EXT-STS:task_state":       schema.String().OrNull(),
		"OS-EXT-STS:vm_state":         schema.String(),
		"OS-EXT-STS:power_state":      schema.Integer(),
		"OS-SRV-USG:launched_at":      types.ISO8601().OrNull(),
		"OS-SRV-USG:terminated_at":    types.ISO8601().OrNull(),
		"security_groups": schema.NewArray(schema.NewObject(schema.Properties{
			"name": schema.String(),
		})),
		"os-extended-volumes:volumes_attached": schema.NewArray(schema.NewClosedObject(schema.Properties{
			"id": schema.String(),
		}, "id")),
		"OS-EXT-SRV-ATTR:host":                schema.String().OrNull(),
		"OS-EXT-SRV-ATTR:instance_name":       schema.String(),
		"OS-EXT-SRV-ATTR:hypervisor_hostname": schema.String().OrNull(),
	}, "id", "name", "status", "image", "flavor", "user_id", "tenant_id", "created",
		"updated", "progress", "metadata", "links", "addresses", "hostId")
}

//nolint:gochecknoglobals
var serverRevisions = []func(*schema.Object) *schema.Object{
	nil,
	// 2.3 exposes more extended attributes to administrators.
	func(s *schema.Object) *schema.Object {
		return s.Extend(schema.Properties{
			"OS-EXT-SRV-ATTR:reservation_id":   schema.String().OrNull(),
			"OS-EXT-SRV-ATTR:launch_index":     schema.Integer(),
			"OS-EXT-SRV-ATTR:kernel_id":        schema.String().OrNull(),
			"OS-EXT-SRV-ATTR:ramdisk_id":       schema.String().OrNull(),
			"OS-EXT-SRV-ATTR:hostname":         schema.String(),
			"OS-EXT-SRV-ATTR:root_device_name": schema.String().OrNull(),
			"OS-EXT-SRV-ATTR:user_data":        schema.String().OrNull(),
			"os-extended-volumes:volumes_attached": schema.NewArray(schema.NewClosedObject(schema.Properties{
				"id":                    schema.String(),
				"delete_on_termination": schema.Boolean(),
			}, "id", "delete_on_termination")),
		})
	},
	// 2.9
	func(s *schema.Object) *schema.Object {
		return s.Extend(schema.Properties{
			"locked": schema.Boolean(),
		}).Require("locked")
	},
	// 2.16
	func(s *schema.Object) *schema.Object {
		return s.Extend(schema.Properties{
			"host_status": schema.String().WithEnum("UP", "DOWN", "MAINTENANCE", "UNKNOWN", ""),
		})
	},
	// 2.19
	func(s *schema.Object) *schema.Object {
		return s.Extend(schema.Properties{
			"description": schema.String().OrNull(),
		}).Require("description")
	},
	// 2.26
	func(s *schema.Object) *schema.Object {
		return s.Extend(schema.Properties{
			"tags": schema.NewArray(schema.String()).WithMaxItems(50),
		}).Require("tags")
	},
	// 2.47 embeds the flavor instead of linking to it.
	func(s *schema.Object) *schema.Object {
		return s.Extend(schema.Properties{
			"flavor": schema.NewClosedObject(schema.Properties{
				"original_name": schema.String(),
				"disk":          schema.Integer(),
				"ephemeral":     schema.Integer(),
				"ram":           schema.Integer(),
				"swap":          schema.Integer(),
				"vcpus":         schema.Integer(),
				"extra_specs":   types.Metadata(),
			}, "original_name", "disk", "ephemeral", "ram", "swap", "vcpus"),
		})
	},
	// 2.63
	func(s *schema.Object) *schema.Object {
		return s.Extend(schema.Properties{
			"trusted_image_certificates": schema.Nullable(schema.NewArray(schema.String())),
		}).Require("trusted_image_certificates")
	},
	// 2.71
	func(s *schema.Object) *schema.Object {
		return s.Extend(schema.Properties{
			"server_groups": schema.NewArray(types.UUID()).WithMaxItems(1),
		})
	},
	// 2.73
	func(s *schema.Object) *schema.Object {
		return s.Extend(schema.Properties{
			"locked_reason": schema.String().OrNull(),
		}).Require("locked_reason")
	},
	// 2.96
	func(s *schema.Object) *schema.Object {
		return s.Extend(schema.Properties{
			"pinned_availability_zone": schema.String().OrNull(),
		}).Require("pinned_availability_zone")
	},
}

// serverTable builds a table over serverRanges, render turns the server
// representation of each range into the response entry.
func serverTable(render func(server *schema.Object) *schema.Entry) schema.Table {
	table := make(schema.Table, len(serverRanges))
	server := serverBase()

	for i, r := range serverRanges {
		if revise := serverRevisions[i]; revise != nil {
			server = revise(server)
		}

		table[i] = schema.VersionRange{
			Min:    r.min,
			Max:    r.max,
			Schema: render(server),
		}
	}

	return table
}

func singleServer(status int) func(*schema.Object) *schema.Entry {
	return func(server *schema.Object) *schema.Entry {
		return schema.NewEntry(status).WithBody(schema.NewClosedObject(schema.Properties{
			"server": server,
		}, "server"))
	}
}

func serverDetail(server *schema.Object) *schema.Entry {
	// Server groups are only shown for a single server.
	return schema.NewEntry(http.StatusOK).WithBody(schema.NewClosedObject(schema.Properties{
		"servers":       schema.NewArray(server.Without("server_groups")),
		"servers_links": types.Links(),
	}, "servers"))
}

func listServers() *schema.Entry {
	return schema.NewEntry(http.StatusOK).WithBody(schema.NewClosedObject(schema.Properties{
		"servers": schema.NewArray(schema.NewClosedObject(schema.Properties{
			"id":    schema.String(),
			"name":  schema.String(),
			"links": types.Links(),
		}, "id", "name", "links")),
		"servers_links": types.Links(),
	}, "servers"))
}

func createServer() *schema.Entry {
	return schema.NewEntry(http.StatusAccepted).WithBody(schema.NewClosedObject(schema.Properties{
		"server": schema.NewClosedObject(schema.Properties{
			"id":                schema.String(),
			"links":             types.Links(),
			"adminPass":         schema.String(),
			"OS-DCF:diskConfig": schema.String(),
			"security_groups": schema.NewArray(schema.NewObject(schema.Properties{
				"name": schema.String(),
			})),
		}, "id", "links"),
	}, "server"))
}

func tags() *schema.Entry {
	return schema.NewEntry(http.StatusOK).WithBody(schema.NewClosedObject(schema.Properties{
		"tags": schema.NewArray(schema.String()),
	}, "tags"))
}

// tagsTable applies from 2.26 when tags were introduced.
func tagsTable(entry *schema.Entry) schema.Table {
	return schema.Table{
		{Min: "2.26", Schema: entry},
	}
}

func serverOperations() []*schema.Operation {
	return []*schema.Operation{
		{
			Name:   "ListServers",
			Method: http.MethodGet,
			Path:   "/servers",
			Table:  schema.Static(listServers()),
		},
		{
			Name:   "ListServersDetail",
			Method: http.MethodGet,
			Path:   "/servers/detail",
			Table:  serverTable(serverDetail),
		},
		{
			Name:   "ShowServer",
			Method: http.MethodGet,
			Path:   "/servers/{server_id}",
			Table:  serverTable(singleServer(http.StatusOK)),
		},
		{
			Name:   "CreateServer",
			Method: http.MethodPost,
			Path:   "/servers",
			Table:  schema.Static(createServer()),
		},
		{
			Name:   "UpdateServer",
			Method: http.MethodPut,
			Path:   "/servers/{server_id}",
			Table:  serverTable(singleServer(http.StatusOK)),
		},
		{
			Name:   "DeleteServer",
			Method: http.MethodDelete,
			Path:   "/servers/{server_id}",
			Table:  schema.Static(schema.NewEntry(http.StatusNoContent)),
		},
		{
			Name:   "ListServerTags",
			Method: http.MethodGet,
			Path:   "/servers/{server_id}/tags",
			Table:  tagsTable(tags()),
		},
		{
			Name:   "ReplaceServerTags",
			Method: http.MethodPut,
			Path:   "/servers/{server_id}/tags",
			Table:  tagsTable(tags()),
		},
		{
			Name:   "CheckServerTag",
			Method: http.MethodGet,
			Path:   "/servers/{server_id}/tags/{tag}",
			Table:  tagsTable(schema.NewEntry(http.StatusNoContent)),
		},
		{
			Name:   "AddServerTag",
			Method: http.MethodPut,
			Path:   "/servers/{server_id}/tags/{tag}",
			Table:  tagsTable(schema.NewEntry(http.StatusCreated, http.StatusNoContent).WithHeaders(map[string]schema.Node{"Location": schema.String().WithFormat("uri")})),
		},
		{
			Name:   "DeleteServerTag",
			Method: http.MethodDelete,
			Path:   "/servers/{server_id}/tags/{tag}",
			Table:  tagsTable(schema.NewEntry(http.StatusNoContent)),
		},
		{
			Name:   "DeleteServerTags",
			Method: http.MethodDelete,
			Path:   "/servers/{server_id}/tags",
			Table:  tagsTable(schema.NewEntry(http.StatusNoContent)),
		},
	}
}
