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

// Package compute is a client for the compute service.
package compute

import (
	"context"
	"net/url"

	"github.com/openstack/tempest-sub006/pkg/rest"
	"github.com/openstack/tempest-sub006/pkg/services"
)

//nolint:gochecknoglobals
var operations = services.Index("compute")

// Client wraps a REST client pointed at a compute endpoint.  Every response
// is checked against the contract at the client's microversion.
type Client struct {
	client *rest.Client
}

// NewClient returns a new client.
func NewClient(client *rest.Client) *Client {
	return &Client{
		client: client,
	}
}

// ListServersParams are optional filters.
type ListServersParams struct {
	Limit      *int
	Marker     *string
	Name       *string
	Status     *string
	Image      *string
	Flavor     *string
	Tags       *string
	AllTenants *bool
}

func (p *ListServersParams) query() (url.Values, error) {
	values := url.Values{}

	if p == nil {
		return values, nil
	}

	for name, value := range map[string]any{
		"limit":       p.Limit,
		"marker":      p.Marker,
		"name":        p.Name,
		"status":      p.Status,
		"image":       p.Image,
		"flavor":      p.Flavor,
		"tags":        p.Tags,
		"all_tenants": p.AllTenants,
	} {
		if err := rest.AddQuery(values, name, value); err != nil {
			return nil, err
		}
	}

	return values, nil
}

// ShowVersion shows the current API version document.
func (c *Client) ShowVersion(ctx context.Context) (*rest.Response, error) {
	return operations.Invoke(ctx, c.client, "ShowVersion", rest.Request{})
}

// ListServers lists servers in brief.
func (c *Client) ListServers(ctx context.Context, params *ListServersParams) (*rest.Response, error) {
	query, err := params.query()
	if err != nil {
		return nil, err
	}

	return operations.Invoke(ctx, c.client, "ListServers", rest.Request{Query: query})
}

// ListServersDetail lists servers in full.
func (c *Client) ListServersDetail(ctx context.Context, params *ListServersParams) (*rest.Response, error) {
	query, err := params.query()
	if err != nil {
		return nil, err
	}

	return operations.Invoke(ctx, c.client, "ListServersDetail", rest.Request{Query: query})
}

// ShowServer shows a server.
func (c *Client) ShowServer(ctx context.Context, serverID string) (*rest.Response, error) {
	return operations.Invoke(ctx, c.client, "ShowServer", serverRequest(serverID, nil))
}

// CreateServerRequest describes a new server.
type CreateServerRequest struct {
	Name      string            `json:"name"`
	ImageRef  string            `json:"imageRef,omitempty"`
	FlavorRef string            `json:"flavorRef"`
	Networks  any               `json:"networks,omitempty"`
	KeyName   string            `json:"key_name,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	// Tags requires 2.52.
	Tags []string `json:"tags,omitempty"`
	// Description requires 2.19.
	Description *string `json:"description,omitempty"`
}

// CreateServer boots a server, it is accepted before it is built.
func (c *Client) CreateServer(ctx context.Context, server *CreateServerRequest) (*rest.Response, error) {
	return operations.Invoke(ctx, c.client, "CreateServer", rest.Request{
		Body: map[string]any{"server": server},
	})
}

// UpdateServerRequest changes a server's mutable attributes.
type UpdateServerRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	AccessIPv4  *string `json:"accessIPv4,omitempty"`
	AccessIPv6  *string `json:"accessIPv6,omitempty"`
}

// UpdateServer updates a server.
func (c *Client) UpdateServer(ctx context.Context, serverID string, server *UpdateServerRequest) (*rest.Response, error) {
	return operations.Invoke(ctx, c.client, "UpdateServer", serverRequest(serverID, map[string]any{"server": server}))
}

// DeleteServer deletes a server, deletion completes asynchronously.
func (c *Client) DeleteServer(ctx context.Context, serverID string) (*rest.Response, error) {
	return operations.Invoke(ctx, c.client, "DeleteServer", serverRequest(serverID, nil))
}

// ListServerTags lists a server's tags.
func (c *Client) ListServerTags(ctx context.Context, serverID string) (*rest.Response, error) {
	return operations.Invoke(ctx, c.client, "ListServerTags", serverRequest(serverID, nil))
}

// ReplaceServerTags replaces all of a server's tags.
func (c *Client) ReplaceServerTags(ctx context.Context, serverID string, tags []string) (*rest.Response, error) {
	return operations.Invoke(ctx, c.client, "ReplaceServerTags", serverRequest(serverID, map[string]any{"tags": tags}))
}

// DeleteServerTags removes all of a server's tags.
func (c *Client) DeleteServerTags(ctx context.Context, serverID string) (*rest.Response, error) {
	return operations.Invoke(ctx, c.client, "DeleteServerTags", serverRequest(serverID, nil))
}

// CheckServerTag checks a server has a tag, a missing tag is rest.ErrNotFound.
func (c *Client) CheckServerTag(ctx context.Context, serverID, tag string) (*rest.Response, error) {
	return operations.Invoke(ctx, c.client, "CheckServerTag", tagRequest(serverID, tag))
}

// AddServerTag adds a tag to a server.
func (c *Client) AddServerTag(ctx context.Context, serverID, tag string) (*rest.Response, error) {
	return operations.Invoke(ctx, c.client, "AddServerTag", tagRequest(serverID, tag))
}

// DeleteServerTag removes a tag from a server.
func (c *Client) DeleteServerTag(ctx context.Context, serverID, tag string) (*rest.Response, error) {
	return operations.Invoke(ctx, c.client, "DeleteServerTag", tagRequest(serverID, tag))
}

func serverRequest(serverID string, body any) rest.Request {
	return rest.Request{
		Params: map[string]string{"server_id": serverID},
		Body:   body,
	}
}

func tagRequest(serverID, tag string) rest.Request {
	return rest.Request{
		Params: map[string]string{"server_id": serverID, "tag": tag},
	}
}
