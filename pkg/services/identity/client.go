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

// Package identity is a client for the identity (v3) service.
package identity

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/openstack/tempest-sub006/pkg/rest"
	schemas "github.com/openstack/tempest-sub006/pkg/schemas/identity"
	"github.com/openstack/tempest-sub006/pkg/services"
)

//nolint:gochecknoglobals
var operations = services.Index("identity")

// Client wraps a REST client pointed at an identity endpoint.
type Client struct {
	client *rest.Client
}

// NewClient returns a new client.
func NewClient(client *rest.Client) *Client {
	return &Client{
		client: client,
	}
}

// PasswordCredentials authenticate a user by name within a domain.
type PasswordCredentials struct {
	Username   string
	Password   string
	UserDomain string
	// ProjectName and ProjectDomain scope the token when set.
	ProjectName   string
	ProjectDomain string
}

type named struct {
	Name   string `json:"name"`
	Domain *named `json:"domain,omitempty"`
}

type passwordUser struct {
	Name     string `json:"name"`
	Domain   named  `json:"domain"`
	Password string `json:"password"`
}

type passwordIdentity struct {
	Methods  []string `json:"methods"`
	Password struct {
		User passwordUser `json:"user"`
	} `json:"password"`
}

type projectScope struct {
	Project named `json:"project"`
}

type authRequest struct {
	Auth struct {
		Identity passwordIdentity `json:"identity"`
		Scope    *projectScope    `json:"scope,omitempty"`
	} `json:"auth"`
}

func (c *PasswordCredentials) request() *authRequest {
	r := &authRequest{}
	r.Auth.Identity.Methods = []string{"password"}
	r.Auth.Identity.Password.User = passwordUser{
		Name:     c.Username,
		Domain:   named{Name: c.UserDomain},
		Password: c.Password,
	}

	if c.ProjectName != "" {
		r.Auth.Scope = &projectScope{
			Project: named{Name: c.ProjectName, Domain: &named{Name: c.ProjectDomain}},
		}
	}

	return r
}

// Endpoint is a service endpoint from the token's catalog.
type Endpoint struct {
	ID        string  `json:"id"`
	Interface string  `json:"interface"`
	Region    *string `json:"region,omitempty"`
	URL       string  `json:"url"`
}

// CatalogEntry is a service in the token's catalog.
type CatalogEntry struct {
	ID        string     `json:"id"`
	Type      string     `json:"type"`
	Name      string     `json:"name,omitempty"`
	Endpoints []Endpoint `json:"endpoints"`
}

// Token is the subset of an issued token the suites consume.
type Token struct {
	// ID is taken from the X-Subject-Token header, not the body.
	ID        string         `json:"-"`
	Methods   []string       `json:"methods"`
	ExpiresAt time.Time      `json:"expires_at"`
	IssuedAt  time.Time      `json:"issued_at"`
	Catalog   []CatalogEntry `json:"catalog,omitempty"`
	Project   *struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"project,omitempty"`
}

// Endpoint finds the URL of a service type on an interface, optionally
// restricted to a region.
func (t *Token) Endpoint(serviceType, iface, region string) (string, bool) {
	for _, entry := range t.Catalog {
		if entry.Type != serviceType {
			continue
		}

		for _, endpoint := range entry.Endpoints {
			if endpoint.Interface != iface {
				continue
			}

			if region != "" && (endpoint.Region == nil || *endpoint.Region != region) {
				continue
			}

			return endpoint.URL, true
		}
	}

	return "", false
}

type tokenResponse struct {
	Token Token `json:"token"`
}

func decodeToken(ctx context.Context, client *rest.Client, name string, request rest.Request) (*Token, *rest.Response, error) {
	out, response, err := services.Decode[tokenResponse](ctx, operations, client, name, request)
	if err != nil {
		return nil, response, err
	}

	out.Token.ID = response.Header.Get(schemas.SubjectTokenHeader)

	return &out.Token, response, nil
}

// IssueToken authenticates with a password.  The client need not carry a
// token itself.
func (c *Client) IssueToken(ctx context.Context, credentials *PasswordCredentials) (*Token, *rest.Response, error) {
	return decodeToken(ctx, c.client, "IssueToken", rest.Request{
		Body: credentials.request(),
	})
}

func subject(token string) http.Header {
	header := http.Header{}
	header.Set(schemas.SubjectTokenHeader, token)

	return header
}

// ValidateToken checks another token using the client's own.
func (c *Client) ValidateToken(ctx context.Context, token string) (*Token, *rest.Response, error) {
	return decodeToken(ctx, c.client, "ValidateToken", rest.Request{
		Header: subject(token),
	})
}

// RevokeToken revokes another token.
func (c *Client) RevokeToken(ctx context.Context, token string) (*rest.Response, error) {
	return operations.Invoke(ctx, c.client, "RevokeToken", rest.Request{
		Header: subject(token),
	})
}

// ListProjects lists projects, optionally filtered by name.
func (c *Client) ListProjects(ctx context.Context, name *string) (*rest.Response, error) {
	query := url.Values{}

	if err := rest.AddQuery(query, "name", name); err != nil {
		return nil, err
	}

	return operations.Invoke(ctx, c.client, "ListProjects", rest.Request{Query: query})
}

// ShowProject shows a project.
func (c *Client) ShowProject(ctx context.Context, projectID string) (*rest.Response, error) {
	return operations.Invoke(ctx, c.client, "ShowProject", rest.Request{
		Params: map[string]string{"project_id": projectID},
	})
}

// ShowUser shows a user.
func (c *Client) ShowUser(ctx context.Context, userID string) (*rest.Response, error) {
	return operations.Invoke(ctx, c.client, "ShowUser", rest.Request{
		Params: map[string]string{"user_id": userID},
	})
}
