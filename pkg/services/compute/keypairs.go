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

// ListKeypairs lists key pairs, userID requires 2.10 and administrative
// rights.
func (c *Client) ListKeypairs(ctx context.Context, userID *string) (*rest.Response, error) {
	query := url.Values{}

	if err := rest.AddQuery(query, "user_id", userID); err != nil {
		return nil, err
	}

	return operations.Invoke(ctx, c.client, "ListKeypairs", rest.Request{Query: query})
}

// ShowKeypair shows a key pair.
func (c *Client) ShowKeypair(ctx context.Context, name string) (*rest.Response, error) {
	return operations.Invoke(ctx, c.client, "ShowKeypair", rest.Request{
		Params: map[string]string{"keypair_name": name},
	})
}

// CreateKeypairRequest describes a new key pair.  Leaving PublicKey empty
// asks the service to generate one, which it refuses from 2.92.
type CreateKeypairRequest struct {
	Name      string `json:"name"`
	PublicKey string `json:"public_key,omitempty"`
	// Type requires 2.2.
	Type string `json:"type,omitempty"`
	// UserID requires 2.10.
	UserID string `json:"user_id,omitempty"`
}

// CreateKeypair creates or imports a key pair.
func (c *Client) CreateKeypair(ctx context.Context, keypair *CreateKeypairRequest) (*rest.Response, error) {
	return operations.Invoke(ctx, c.client, "CreateKeypair", rest.Request{
		Body: map[string]any{"keypair": keypair},
	})
}

// DeleteKeypair deletes a key pair.
func (c *Client) DeleteKeypair(ctx context.Context, name string) (*rest.Response, error) {
	return operations.Invoke(ctx, c.client, "DeleteKeypair", rest.Request{
		Params: map[string]string{"keypair_name": name},
	})
}
