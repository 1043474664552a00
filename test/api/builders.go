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


package api

import (
	"fmt"
	"time"

	"github.com/openstack/tempest-sub006/pkg/config"
	"github.com/openstack/tempest-sub006/pkg/services/compute"
)

// UniqueName returns a name for a test resource that is easy to find and
// clean up by hand.
func UniqueName(kind string) string {
	return fmt.Sprintf("tempest-%s-%s", kind, time.Now().Format("20060102-150405.000"))
}

// ServerPayloadBuilder builds server creation requests for testing.
type ServerPayloadBuilder struct {
	request compute.CreateServerRequest
}

// NewServerPayload creates a new server payload builder with the flavor and
// image from config.
func NewServerPayload(options *config.Options) *ServerPayloadBuilder {
	return &ServerPayloadBuilder{
		request: compute.CreateServerRequest{
			Name:      UniqueName("server"),
			FlavorRef: options.FlavorRef,
			ImageRef:  options.ImageRef,
		},
	}
}

// WithName sets the server name.
func (b *ServerPayloadBuilder) WithName(name string) *ServerPayloadBuilder {
	b.request.Name = name
	return b
}

// WithDescription sets the server description, requires 2.19.
func (b *ServerPayloadBuilder) WithDescription(description string) *ServerPayloadBuilder {
	b.request.Description = &description
	return b
}

// WithTags sets the server tags, requires 2.52.
func (b *ServerPayloadBuilder) WithTags(tags ...string) *ServerPayloadBuilder {
	b.request.Tags = tags
	return b
}

// WithMetadata adds a metadata item.
func (b *ServerPayloadBuilder) WithMetadata(key, value string) *ServerPayloadBuilder {
	if b.request.Metadata == nil {
		b.request.Metadata = map[string]string{}
	}

	b.request.Metadata[key] = value

	return b
}

// WithNoNetwork boots without networking, requires 2.37.
func (b *ServerPayloadBuilder) WithNoNetwork() *ServerPayloadBuilder {
	b.request.Networks = "none"
	return b
}

// Build returns the completed request.
func (b *ServerPayloadBuilder) Build() *compute.CreateServerRequest {
	request := b.request

	return &request
}
