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

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/openstack/tempest-sub006/pkg/rest"
)

var _ = Describe("Placement", func() {
	Context("When discovering versions", func() {
		It("should return the version document", func(ctx context.Context) {
			_, err := clients.Placement("", "").ListVersions(ctx)
			Expect(err).NotTo(HaveOccurred())
		})
	})

	Context("When inspecting resource providers", func() {
		It("should show each provider with its inventories and usages", func(ctx context.Context) {
			client := clients.Placement("1.14", "")

			response, err := client.ListResourceProviders(ctx, nil)
			Expect(err).NotTo(HaveOccurred())

			var body struct {
				ResourceProviders []struct {
					UUID string `json:"uuid"`
				} `json:"resource_providers"`
			}

			Expect(response.Into(&body)).To(Succeed())
			GinkgoWriter.Printf("Found %d resource providers\n", len(body.ResourceProviders))

			for _, p := range body.ResourceProviders {
				_, err := client.ShowResourceProvider(ctx, p.UUID)
				Expect(err).NotTo(HaveOccurred())

				inventories, _, err := client.ListInventories(ctx, p.UUID)
				Expect(err).NotTo(HaveOccurred())

				usages, _, err := client.ListUsages(ctx, p.UUID)
				Expect(err).NotTo(HaveOccurred())

				for class := range usages.Usages {
					Expect(inventories.Inventories).To(HaveKey(class), "Usage of %s should have an inventory", class)
				}
			}
		})

		It("should return 404 Not Found for an unknown provider", func(ctx context.Context) {
			_, err := clients.Placement("", "").ShowResourceProvider(ctx, "00000000-0000-0000-0000-000000000000")
			Expect(err).To(MatchError(rest.ErrNotFound))
		})
	})

	Context("When listing traits", func() {
		It("should include standard traits", func(ctx context.Context) {
			response, err := clients.Placement("1.6", "").ListTraits(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(response.Raw)).To(ContainSubstring("COMPUTE_"))
		})
	})
})
