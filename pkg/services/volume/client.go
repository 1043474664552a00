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

// Package volume is a client for the block storage service.
package volume

import (
	"context"
	"net/url"

	"github.com/openstack/tempest-sub006/pkg/rest"
	"github.com/openstack/tempest-sub006/pkg/services"
)

//nolint:gochecknoglobals
var operations = services.Index("volume")

// Client wraps a REST client pointed at a block storage endpoint.
type Client struct {
	client *rest.Client
}

// NewClient returns a new client.
func NewClient(client *rest.Client) *Client {
	return &Client{
		client: client,
	}
}

// ListVolumesParams are optional filters.
type ListVolumesParams struct {
	Limit      *int
	Marker     *string
	Sort       *string
	Name       *string
	Status     *string
	AllTenants *bool
	// WithCount requires 3.45.
	WithCount *bool
}

func (p *ListVolumesParams) query() (url.Values, error) {
	values := url.Values{}

	if p == nil {
		return values, nil
	}

	for name, value := range map[string]any{
		"limit":       p.Limit,
		"marker":      p.Marker,
		"sort":        p.Sort,
		"name":        p.Name,
		"status":      p.Status,
		"all_tenants": p.AllTenants,
		"with_count":  p.WithCount,
	} {
		if err := rest.AddQuery(values, name, value); err != nil {
			return nil, err
		}
	}

	return values, nil
}

// ListVolumes lists volumes in brief.
func (c *Client) ListVolumes(ctx context.Context, params *ListVolumesParams) (*rest.Response, error) {
	query, err := params.query()
	if err != nil {
		return nil, err
	}

	return operations.Invoke(ctx, c.client, "ListVolumes", rest.Request{Query: query})
}

// ListVolumesDetail lists volumes in full.
func (c *Client) ListVolumesDetail(ctx context.Context, params *ListVolumesParams) (*rest.Response, error) {
	query, err := params.query()
	if err != nil {
		return nil, err
	}

	return operations.Invoke(ctx, c.client, "ListVolumesDetail", rest.Request{Query: query})
}

// ShowVolume shows a volume.
func (c *Client) ShowVolume(ctx context.Context, volumeID string) (*rest.Response, error) {
	return operations.Invoke(ctx, c.client, "ShowVolume", rest.Request{
		Params: map[string]string{"volume_id": volumeID},
	})
}

// CreateVolumeRequest describes a new volume.
type CreateVolumeRequest struct {
	Size             int               `json:"size"`
	Name             *string           `json:"name,omitempty"`
	Description      *string           `json:"description,omitempty"`
	VolumeType       *string           `json:"volume_type,omitempty"`
	AvailabilityZone *string           `json:"availability_zone,omitempty"`
	SnapshotID       *string           `json:"snapshot_id,omitempty"`
	SourceVolumeID   *string           `json:"source_volid,omitempty"`
	ImageRef         *string           `json:"imageRef,omitempty"`
	Metadata         map[string]string `json:"metadata,omitempty"`
}

// CreateVolume creates a volume, it is accepted before it is available.
func (c *Client) CreateVolume(ctx context.Context, volume *CreateVolumeRequest) (*rest.Response, error) {
	return operations.Invoke(ctx, c.client, "CreateVolume", rest.Request{
		Body: map[string]any{"volume": volume},
	})
}

// DeleteVolume deletes a volume, cascade also deletes its snapshots.
func (c *Client) DeleteVolume(ctx context.Context, volumeID string, cascade bool) (*rest.Response, error) {
	query := url.Values{}

	if cascade {
		query.Set("cascade", "true")
	}

	return operations.Invoke(ctx, c.client, "DeleteVolume", rest.Request{
		Params: map[string]string{"volume_id": volumeID},
		Query:  query,
	})
}

// ListVolumeTypes lists volume types.
func (c *Client) ListVolumeTypes(ctx context.Context) (*rest.Response, error) {
	return operations.Invoke(ctx, c.client, "ListVolumeTypes", rest.Request{})
}

// ShowVolumeType shows a volume type.
func (c *Client) ShowVolumeType(ctx context.Context, volumeTypeID string) (*rest.Response, error) {
	return operations.Invoke(ctx, c.client, "ShowVolumeType", rest.Request{
		Params: map[string]string{"volume_type_id": volumeTypeID},
	})
}
