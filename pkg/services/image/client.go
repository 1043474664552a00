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

// Package image is a client for the image service.
package image

import (
	"context"
	"encoding/json"
	"net/url"

	"github.com/openstack/tempest-sub006/pkg/rest"
	"github.com/openstack/tempest-sub006/pkg/services"
)

//nolint:gochecknoglobals
var operations = services.Index("image")

// Client wraps a REST client pointed at an image endpoint.
type Client struct {
	client *rest.Client
}

// NewClient returns a new client.
func NewClient(client *rest.Client) *Client {
	return &Client{
		client: client,
	}
}

// ListImagesParams are optional filters.
type ListImagesParams struct {
	Limit      *int
	Marker     *string
	Name       *string
	Status     *string
	Visibility *string
	Owner      *string
	Tag        []string
}

func (p *ListImagesParams) query() (url.Values, error) {
	values := url.Values{}

	if p == nil {
		return values, nil
	}

	for name, value := range map[string]any{
		"limit":      p.Limit,
		"marker":     p.Marker,
		"name":       p.Name,
		"status":     p.Status,
		"visibility": p.Visibility,
		"owner":      p.Owner,
		"tag":        p.Tag,
	} {
		if err := rest.AddQuery(values, name, value); err != nil {
			return nil, err
		}
	}

	return values, nil
}

// ListImages lists images.
func (c *Client) ListImages(ctx context.Context, params *ListImagesParams) (*rest.Response, error) {
	query, err := params.query()
	if err != nil {
		return nil, err
	}

	return operations.Invoke(ctx, c.client, "ListImages", rest.Request{Query: query})
}

// ShowImage shows an image.
func (c *Client) ShowImage(ctx context.Context, imageID string) (*rest.Response, error) {
	return operations.Invoke(ctx, c.client, "ShowImage", rest.Request{
		Params: map[string]string{"image_id": imageID},
	})
}

// CreateImageRequest describes a new image record, data is uploaded
// separately.
type CreateImageRequest struct {
	Name            string   `json:"name,omitempty"`
	ID              string   `json:"id,omitempty"`
	ContainerFormat string   `json:"container_format,omitempty"`
	DiskFormat      string   `json:"disk_format,omitempty"`
	Visibility      string   `json:"visibility,omitempty"`
	Protected       *bool    `json:"protected,omitempty"`
	MinDisk         *int     `json:"min_disk,omitempty"`
	MinRAM          *int     `json:"min_ram,omitempty"`
	Tags            []string `json:"tags,omitempty"`
	// Properties are free form and sent alongside the fields above.
	Properties map[string]string `json:"-"`
}

// MarshalJSON flattens properties into the image document.
func (r *CreateImageRequest) MarshalJSON() ([]byte, error) {
	type plain CreateImageRequest

	data, err := json.Marshal((*plain)(r))
	if err != nil {
		return nil, err
	}

	if len(r.Properties) == 0 {
		return data, nil
	}

	var document map[string]any

	if err := json.Unmarshal(data, &document); err != nil {
		return nil, err
	}

	for k, v := range r.Properties {
		if _, ok := document[k]; !ok {
			document[k] = v
		}
	}

	return json.Marshal(document)
}

// CreateImage creates an image record.
func (c *Client) CreateImage(ctx context.Context, image *CreateImageRequest) (*rest.Response, error) {
	return operations.Invoke(ctx, c.client, "CreateImage", rest.Request{Body: image})
}

// DeleteImage deletes an image.
func (c *Client) DeleteImage(ctx context.Context, imageID string) (*rest.Response, error) {
	return operations.Invoke(ctx, c.client, "DeleteImage", rest.Request{
		Params: map[string]string{"image_id": imageID},
	})
}

// AddImageTag tags an image.
func (c *Client) AddImageTag(ctx context.Context, imageID, tag string) (*rest.Response, error) {
	return operations.Invoke(ctx, c.client, "AddImageTag", rest.Request{
		Params: map[string]string{"image_id": imageID, "tag": tag},
	})
}

// DeleteImageTag removes a tag from an image.
func (c *Client) DeleteImageTag(ctx context.Context, imageID, tag string) (*rest.Response, error) {
	return operations.Invoke(ctx, c.client, "DeleteImageTag", rest.Request{
		Params: map[string]string{"image_id": imageID, "tag": tag},
	})
}
