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

	"k8s.io/utils/ptr"

	"github.com/openstack/tempest-sub006/pkg/rest"
	"github.com/openstack/tempest-sub006/pkg/services/image"
	"github.com/openstack/tempest-sub006/test/api"
)

var _ = Describe("Images", func() {
	Context("When listing images", func() {
		It("should show every listed image", func(ctx context.Context) {
			client := clients.Image()

			response, err := client.ListImages(ctx, &image.ListImagesParams{Limit: ptr.To(10)})
			Expect(err).NotTo(HaveOccurred())

			var body struct {
				Images []struct {
					ID string `json:"id"`
				} `json:"images"`
			}

			Expect(response.Into(&body)).To(Succeed())
			GinkgoWriter.Printf("Found %d images\n", len(body.Images))

			for _, i := range body.Images {
				_, err := client.ShowImage(ctx, i.ID)
				Expect(err).NotTo(HaveOccurred(), "Image %s should match its contract", i.ID)
			}
		})
	})

	Context("When managing an image record", func() {
		var (
			client  *image.Client
			imageID string
		)

		BeforeEach(func(ctx context.Context) {
			client = clients.Image()
			imageID = api.CreateImageWithCleanup(ctx, client, options, &image.CreateImageRequest{
				Name:            api.UniqueName("image"),
				ContainerFormat: "bare",
				DiskFormat:      "raw",
				Visibility:      "private",
				Properties:      map[string]string{"purpose": "tempest"},
			})
		})

		It("should carry free form properties", func(ctx context.Context) {
			response, err := client.ShowImage(ctx, imageID)
			Expect(err).NotTo(HaveOccurred())

			var body map[string]any

			Expect(response.Into(&body)).To(Succeed())
			Expect(body).To(HaveKeyWithValue("purpose", "tempest"))
			Expect(body).To(HaveKeyWithValue("status", "queued"))
		})

		It("should add and remove tags", func(ctx context.Context) {
			_, err := client.AddImageTag(ctx, imageID, "conformance")
			Expect(err).NotTo(HaveOccurred())

			response, err := client.ShowImage(ctx, imageID)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(response.Raw)).To(ContainSubstring("conformance"))

			_, err = client.DeleteImageTag(ctx, imageID, "conformance")
			Expect(err).NotTo(HaveOccurred())
		})
	})

	Context("When deleting an image that does not exist", func() {
		It("should return 404 Not Found", func(ctx context.Context) {
			_, err := clients.Image().DeleteImage(ctx, "00000000-0000-0000-0000-000000000000")
			Expect(err).To(MatchError(rest.ErrNotFound))
		})
	})
})
