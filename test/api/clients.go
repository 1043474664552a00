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


//nolint:revive,staticcheck // dot imports are standard for Ginkgo/Gomega test code
package api

import (
	"context"
	"errors"
	"fmt"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/openstack/tempest-sub006/pkg/config"
	"github.com/openstack/tempest-sub006/pkg/rest"
	"github.com/openstack/tempest-sub006/pkg/services/compute"
	"github.com/openstack/tempest-sub006/pkg/services/identity"
	"github.com/openstack/tempest-sub006/pkg/services/image"
	"github.com/openstack/tempest-sub006/pkg/services/placement"
	"github.com/openstack/tempest-sub006/pkg/services/volume"
)

var errNoEndpoint = errors.New("no endpoint")

// Clients builds service clients for tests, all sharing one token.
type Clients struct {
	// Options are the loaded configuration, with Token always set.
	Options *config.Options
	// Token is the issued token, nil when one was configured.
	Token *identity.Token

	endpoints map[string]string
}

// NewClients authenticates, issuing a token from the configured credentials
// unless one was given, and resolves endpoints from its catalog.
func NewClients(ctx context.Context, options *config.Options) (*Clients, error) {
	c := &Clients{
		Options:   options,
		endpoints: map[string]string{},
	}

	if options.Token != "" {
		return c, nil
	}

	client, err := c.rest("identity", "")
	if err != nil {
		return nil, err
	}

	credentials := options.Credentials

	token, _, err := identity.NewClient(client).IssueToken(ctx, &identity.PasswordCredentials{
		Username:      credentials.Username,
		Password:      credentials.Password,
		UserDomain:    credentials.UserDomain,
		ProjectName:   credentials.ProjectName,
		ProjectDomain: credentials.ProjectDomain,
	})
	if err != nil {
		return nil, fmt.Errorf("issuing token: %w", err)
	}

	GinkgoWriter.Printf("Issued token for %s expiring at %s\n", credentials.Username, token.ExpiresAt)

	options.Token = token.ID

	c.Token = token
	c.endpoints = ResolveEndpoints(token, options)

	return c, nil
}

func (c *Clients) rest(service, version string) (*rest.Client, error) {
	options, err := c.Options.ClientOptions(service, c.endpoints[service], version)
	if err != nil {
		if errors.Is(err, config.ErrMissing) {
			return nil, fmt.Errorf("%w: %w", errNoEndpoint, err)
		}

		return nil, err
	}

	return rest.New(options)
}

// REST returns a client for a service at the microversion chosen for a test
// supporting testMin to testMax.  The test is skipped when the cloud's
// configured range rules it out, or the service has no endpoint.
func (c *Clients) REST(service, testMin, testMax string) *rest.Client {
	version, reason, err := c.Options.Microversion(service, testMin, testMax)
	Expect(err).NotTo(HaveOccurred())

	if reason != "" {
		Skip(reason)
	}

	client, err := c.rest(service, version)
	if errors.Is(err, errNoEndpoint) {
		Skip(err.Error())
	}

	Expect(err).NotTo(HaveOccurred())

	return client
}

// Compute returns a compute client.
func (c *Clients) Compute(testMin, testMax string) *compute.Client {
	return compute.NewClient(c.REST("compute", testMin, testMax))
}

// Volume returns a volume client.
func (c *Clients) Volume(testMin, testMax string) *volume.Client {
	return volume.NewClient(c.REST("volume", testMin, testMax))
}

// Image returns an image client.
func (c *Clients) Image() *image.Client {
	return image.NewClient(c.REST("image", "", ""))
}

// Identity returns an identity client.
func (c *Clients) Identity() *identity.Client {
	return identity.NewClient(c.REST("identity", "", ""))
}

// Placement returns a placement client.
func (c *Clients) Placement(testMin, testMax string) *placement.Client {
	return placement.NewClient(c.REST("placement", testMin, testMax))
}
