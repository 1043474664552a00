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
	"context"
	"net/url"

	"github.com/openstack/tempest-sub006/pkg/rest"
)

// ListFlavorsParams are optional filters.
type ListFlavorsParams struct {
	Limit    *int
	Marker   *string
	MinDisk  *int
	MinRAM   *int
	IsPublic *string
}

func (p *ListFlavorsParams) query() (url.Values, error) {
	values := url.Values{}

	if p == nil {
		return values, nil
	}

	for name, value := range map[string]any{
		"limit":     p.Limit,
		"marker":    p.Marker,
		"minDisk":   p.MinDisk,
		"minRam":    p.MinRAM,
		"is_public": p.IsPublic,
	} {
		if err := rest.AddQuery(values, name, value); err != nil {
			return nil, err
		}
	}

	return values, nil
}

// ListFlavors lists flavors in brief.
func (c *Client) ListFlavors(ctx context.Context, params *ListFlavorsParams) (*rest.Response, error) {
	query, err := params.query()
	if err != nil {
		return nil, err
	}

	return operations.Invoke(ctx, c.client, "ListFlavors", rest.Request{Query: query})
}

// ListFlavorsDetail lists flavors in full.
func (c *Client) ListFlavorsDetail(ctx context.Context, params *ListFlavorsParams) (*rest.Response, error) {
	query, err := params.query()
	if err != nil {
		return nil, err
	}

	return operations.Invoke(ctx, c.client, "ListFlavorsDetail", rest.Request{Query: query})
}

// ShowFlavor shows a flavor.
func (c *Client) ShowFlavor(ctx context.Context, flavorID string) (*rest.Response, error) {
	return operations.Invoke(ctx, c.client, "ShowFlavor", rest.Request{
		Params: map[string]string{"flavor_id": flavorID},
	})
}

// CreateFlavorRequest describes a new flavor.
type CreateFlavorRequest struct {
	Name      string  `json:"name"`
	ID        *string `json:"id,omitempty"`
	RAM       int     `json:"ram"`
	VCPUs     int     `json:"vcpus"`
	Disk      int     `json:"disk"`
	Swap      *int    `json:"swap,omitempty"`
	Ephemeral *int    `json:"OS-FLV-EXT-DATA:ephemeral,omitempty"`
	IsPublic  *bool   `json:"os-flavor-access:is_public,omitempty"`
	// Description requires 2.55.
	Description *string `json:"description,omitempty"`
}

// CreateFlavor creates a flavor, an administrative operation.
func (c *Client) CreateFlavor(ctx context.Context, flavor *CreateFlavorRequest) (*rest.Response, error) {
	return operations.Invoke(ctx, c.client, "CreateFlavor", rest.Request{
		Body: map[string]any{"flavor": flavor},
	})
}

// DeleteFlavor deletes a flavor.
func (c *Client) DeleteFlavor(ctx context.Context, flavorID string) (*rest.Response, error) {
	return operations.Invoke(ctx, c.client, "DeleteFlavor", rest.Request{
		Params: map[string]string{"flavor_id": flavorID},
	})
}
