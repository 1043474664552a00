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

// Package types holds schema fragments shared by every service registry.
package types

import (
	"github.com/openstack/tempest-sub006/pkg/schema"
)

// UUID is a canonical UUID string.
func UUID() *schema.Primitive {
	return schema.String().WithFormat("uuid")
}

// DateTime is an RFC 3339 timestamp.
func DateTime() *schema.Primitive {
	return schema.String().WithFormat("date-time")
}

// ISO8601 is a timestamp in one of the looser shapes services emit, often
// lacking a zone designator.
func ISO8601() *schema.Primitive {
	return schema.String().WithFormat("iso8601-date-time")
}

// IPv4 is a dotted quad address.
func IPv4() *schema.Primitive {
	return schema.String().WithFormat("ipv4")
}

// IPv6 is a colon separated address.
func IPv6() *schema.Primitive {
	return schema.String().WithFormat("ipv6")
}

// IPAddress is either address family.
func IPAddress() schema.Node {
	return schema.NewOneOf(IPv4(), IPv6())
}

// MACAddress is a colon separated EUI-48.
func MACAddress() *schema.Primitive {
	return schema.String().WithFormat("mac-address")
}

// Link is a hypermedia reference.
func Link() *schema.Object {
	return schema.NewClosedObject(schema.Properties{
		"href": schema.String().WithFormat("uri"),
		"rel":  schema.String(),
	}, "href", "rel")
}

// Links is a list of hypermedia references.
func Links() *schema.Array {
	return schema.NewArray(Link())
}

// TypedLinks is a list of hypermedia references that may carry a media type,
// as the version documents do.
func TypedLinks() *schema.Array {
	return schema.NewArray(Link().Extend(schema.Properties{
		"type": schema.String(),
	}))
}

// Metadata is a free form string to string map.
func Metadata() *schema.Object {
	return schema.NewObject(nil).AdditionalValues(schema.String())
}
