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
	"github.com/openstack/tempest-sub006/pkg/services/volume"
	"github.com/openstack/tempest-sub006/test/api"
)

var _ = Describe("Volumes", func() {
	Context("When listing volume types", func() {
		It("should show every listed type", func(ctx context.Context) {
			client := clients.Volume("", "")

			response, err := client.ListVolumeTypes(ctx)
			Expect(err).NotTo(HaveOccurred())

			var body struct {
				VolumeTypes []struct {
					ID string `json:"id"`
				} `json:"volume_types"`
			}

			Expect(response.Into(&body)).To(Succeed())

			for _, t := range body.VolumeTypes {
				_, err := client.ShowVolumeType(ctx, t.ID)
				Expect(err).NotTo(HaveOccurred())
			}
		})
	})

	Context("When managing a volume", func() {
		var (
			client   *volume.Client
			volumeID string
			name     string
		)

		BeforeEach(func(ctx context.Context) {
			client = clients.Volume("", "latest")
			name = api.UniqueName("volume")

			volumeID = api.CreateVolumeWithCleanup(ctx, client, options, &volume.CreateVolumeRequest{
				Size:     1,
				Name:     &name,
				Metadata: map[string]string{"purpose": "tempest"},
			})
		})

		It("should show the available volume", func(ctx context.Context) {
			response, err := client.ShowVolume(ctx, volumeID)
			Expect(err).NotTo(HaveOccurred())

			var body struct {
				Volume struct {
					Status string `json:"status"`
					Size   int    `json:"size"`
				} `json:"volume"`
			}

			Expect(response.Into(&body)).To(Succeed())
			Expect(body.Volume.Status).To(Equal("available"))
			Expect(body.Volume.Size).To(Equal(1))
		})

		It("should find the volume by name", func(ctx context.Context) {
			response, err := client.ListVolumesDetail(ctx, &volume.ListVolumesParams{Name: &name, Limit: ptr.To(1)})
			Expect(err).NotTo(HaveOccurred())
			Expect(string(response.Raw)).To(ContainSubstring(volumeID))
		})
	})

	Context("When showing a volume that does not exist", func() {
		It("should return 404 Not Found", func(ctx context.Context) {
			_, err := clients.Volume("", "").ShowVolume(ctx, "00000000-0000-0000-0000-000000000000")
			Expect(err).To(MatchError(rest.ErrNotFound))
		})
	})
})
