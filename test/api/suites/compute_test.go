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


//nolint:testpackage,revive // test package in suites is standard for these tests
package suites

import (
	"context"
	"net/http"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"k8s.io/utils/ptr"

	"github.com/openstack/tempest-sub006/pkg/rest"
	"github.com/openstack/tempest-sub006/pkg/services/compute"
	"github.com/openstack/tempest-sub006/test/api"
)

var _ = Describe("Compute Servers", func() {
	Context("When listing servers", func() {
		It("should return documents matching the base contract", func(ctx context.Context) {
			response, err := clients.Compute("", "").ListServers(ctx, &compute.ListServersParams{Limit: ptr.To(5)})
			Expect(err).NotTo(HaveOccurred())
			Expect(response.StatusCode).To(Equal(http.StatusOK))
		})

		It("should return detailed documents at the latest configured microversion", func(ctx context.Context) {
			client := clients.Compute("2.1", "latest")

			response, err := client.ListServersDetail(ctx, nil)
			Expect(err).NotTo(HaveOccurred())
			GinkgoWriter.Printf("Listed servers, service replied with microversion %q\n", response.Microversion)
		})
	})

	Context("When managing a server", func() {
		var (
			client   *compute.Client
			serverID string
		)

		BeforeEach(func(ctx context.Context) {
			api.RequireServerRefs(options)

			client = clients.Compute("2.26", "")
			serverID = api.CreateServerWithCleanup(ctx, client, options, api.NewServerPayload(options).
				WithDescription("conformance").
				WithMetadata("purpose", "tempest").
				Build())
		})

		It("should show the active server", func(ctx context.Context) {
			response, err := client.ShowServer(ctx, serverID)
			Expect(err).NotTo(HaveOccurred())

			var body struct {
				Server struct {
					Status      string            `json:"status"`
					Description *string           `json:"description"`
					Metadata    map[string]string `json:"metadata"`
				} `json:"server"`
			}

			Expect(response.Into(&body)).To(Succeed())
			Expect(body.Server.Status).To(Equal("ACTIVE"))
			Expect(body.Server.Description).To(HaveValue(Equal("conformance")))
			Expect(body.Server.Metadata).To(HaveKeyWithValue("purpose", "tempest"))
		})

		It("should rename the server", func(ctx context.Context) {
			name := api.UniqueName("renamed")

			_, err := client.UpdateServer(ctx, serverID, &compute.UpdateServerRequest{Name: &name})
			Expect(err).NotTo(HaveOccurred())

			response, err := client.ShowServer(ctx, serverID)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(response.Raw)).To(ContainSubstring(name))
		})

		It("should manage server tags", func(ctx context.Context) {
			_, err := client.ReplaceServerTags(ctx, serverID, []string{"alpha", "beta"})
			Expect(err).NotTo(HaveOccurred())

			_, err = client.AddServerTag(ctx, serverID, "gamma")
			Expect(err).NotTo(HaveOccurred())

			response, err := client.ListServerTags(ctx, serverID)
			Expect(err).NotTo(HaveOccurred())

			var body struct {
				Tags []string `json:"tags"`
			}

			Expect(response.Into(&body)).To(Succeed())
			Expect(body.Tags).To(ConsistOf("alpha", "beta", "gamma"))

			_, err = client.DeleteServerTag(ctx, serverID, "alpha")
			Expect(err).NotTo(HaveOccurred())

			_, err = client.CheckServerTag(ctx, serverID, "alpha")
			Expect(err).To(MatchError(rest.ErrNotFound))

			_, err = client.DeleteServerTags(ctx, serverID)
			Expect(err).NotTo(HaveOccurred())
		})
	})

	Context("When showing a server that does not exist", func() {
		It("should return 404 Not Found", func(ctx context.Context) {
			_, err := clients.Compute("", "").ShowServer(ctx, "00000000-0000-0000-0000-000000000000")
			Expect(err).To(MatchError(rest.ErrNotFound))
		})
	})
})

var _ = Describe("Compute Flavors and Keypairs", func() {
	Context("When listing flavors", func() {
		It("should show every listed flavor", func(ctx context.Context) {
			client := clients.Compute("2.61", "")

			response, err := client.ListFlavorsDetail(ctx, nil)
			Expect(err).NotTo(HaveOccurred())

			var body struct {
				Flavors []struct {
					ID string `json:"id"`
				} `json:"flavors"`
			}

			Expect(response.Into(&body)).To(Succeed())
			GinkgoWriter.Printf("Found %d flavors\n", len(body.Flavors))

			for _, flavor := range body.Flavors {
				_, err := client.ShowFlavor(ctx, flavor.ID)
				Expect(err).NotTo(HaveOccurred(), "Flavor %s should match its contract", flavor.ID)
			}
		})
	})

	Context("When importing a keypair", func() {
		It("should create, show and delete it", func(ctx context.Context) {
			client := clients.Compute("2.2", "")
			name := api.UniqueName("keypair")

			_, err := client.CreateKeypair(ctx, &compute.CreateKeypairRequest{
				Name:      name,
				PublicKey: "ssh-ed25519 AAAAC3NzaC1lZDI1NTE5AAAAIBnKkQfBsCTy3oVbWmbG7VZC5vCvNVjUW5JgmxR8Mcqq tempest",
				Type:      "ssh",
			})
			Expect(err).NotTo(HaveOccurred())

			DeferCleanup(func(ctx context.Context) {
				_, _ = client.DeleteKeypair(ctx, name)
			})

			_, err = client.ShowKeypair(ctx, name)
			Expect(err).NotTo(HaveOccurred())

			_, err = client.DeleteKeypair(ctx, name)
			Expect(err).NotTo(HaveOccurred())

			_, err = client.ShowKeypair(ctx, name)
			Expect(err).To(MatchError(rest.ErrNotFound))
		})
	})
})
