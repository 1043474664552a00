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

// Package placement is a client for the placement service.
package placement

import (
	"context"
	"net/url"

	"github.com/openstack/tempest-sub006/pkg/rest"
	"github.com/openstack/tempest-sub006/pkg/services"
)

//nolint:gochecknoglobals
var operations = services.Index("placement")

// Client wraps a REST client pointed at a placement endpoint.
type Client struct {
	client *rest.Client
}

// NewClient returns a new client.
func NewClient(client *rest.Client) *Client {
	return &Client{
		client: client,
	}
}

// Inventory is a provider's capacity of one resource class.
type Inventory struct {
	Total           int     `json:"total"`
	Reserved        int     `json:"reserved"`
	MinUnit         int     `json:"min_unit"`
	MaxUnit         int     `json:"max_unit"`
	StepSize        int     `json:"step_size"`
	AllocationRatio float64 `json:"allocation_ratio"`
}

// Inventories are keyed by resource class.
type Inventories struct {
	Inventories map[string]Inventory `json:"inventories"`
	Generation  int                  `json:"resource_provider_generation"`
}

// Usages are keyed by resource class.
type Usages struct {
	Usages     map[string]int `json:"usages"`
	Generation int            `json:"resource_provider_generation"`
}

// ListVersions lists the API versions, it is not microversioned.
func (c *Client) ListVersions(ctx context.Context) (*rest.Response, error) {
	return operations.Invoke(ctx, c.client, "ListVersions", rest.Request{})
}

// ListResourceProvidersParams are optional filters.
type ListResourceProvidersParams struct {
	Name *string
	UUID *string
	// InTree requires 1.14.
	InTree *string
	// Required requires 1.18.
	Required *string
}

// ListResourceProviders lists resource providers.
func (c *Client) ListResourceProviders(ctx context.Context, params *ListResourceProvidersParams) (*rest.Response, error) {
	query := url.Values{}

	if params != nil {
		for name, value := range map[string]any{
			"name":     params.Name,
			"uuid":     params.UUID,
			"in_tree":  params.InTree,
			"required": params.Required,
		} {
			if err := rest.AddQuery(query, name, value); err != nil {
				return nil, err
			}
		}
	}

	return operations.Invoke(ctx, c.client, "ListResourceProviders", rest.Request{Query: query})
}

func provider(uuid string) rest.Request {
	return rest.Request{
		Params: map[string]string{"resource_provider_uuid": uuid},
	}
}

// ShowResourceProvider shows a resource provider.
func (c *Client) ShowResourceProvider(ctx context.Context, uuid string) (*rest.Response, error) {
	return operations.Invoke(ctx, c.client, "ShowResourceProvider", provider(uuid))
}

// ListTraits lists traits, requiring 1.6.
func (c *Client) ListTraits(ctx context.Context) (*rest.Response, error) {
	return operations.Invoke(ctx, c.client, "ListTraits", rest.Request{})
}

// ListInventories lists a provider's inventories.
func (c *Client) ListInventories(ctx context.Context, uuid string) (*Inventories, *rest.Response, error) {
	return services.Decode[Inventories](ctx, operations, c.client, "ListInventories", provider(uuid))
}

// ListUsages lists a provider's usages.
func (c *Client) ListUsages(ctx context.Context, uuid string) (*Usages, *rest.Response, error) {
	return services.Decode[Usages](ctx, operations, c.client, "ListUsages", provider(uuid))
}
