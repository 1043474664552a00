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

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/openstack/tempest-sub006/pkg/config"
	"github.com/openstack/tempest-sub006/pkg/rest"
	"github.com/openstack/tempest-sub006/pkg/services/compute"
	"github.com/openstack/tempest-sub006/pkg/services/image"
	"github.com/openstack/tempest-sub006/pkg/services/volume"
	"github.com/openstack/tempest-sub006/pkg/waiters"
)

type created struct {
	ID string `json:"id"`
}

// RequireServerRefs skips tests that boot servers when the cloud has no
// flavor or image configured.
func RequireServerRefs(options *config.Options) {
	if options.FlavorRef == "" || options.ImageRef == "" {
		Skip("FLAVOR_REF and IMAGE_REF are required to boot servers")
	}
}

// CreateServerWithCleanup boots a server, waits for it to become active, and
// schedules deletion.
func CreateServerWithCleanup(ctx context.Context, client *compute.Client, options *config.Options, request *compute.CreateServerRequest) string {
	response, err := client.CreateServer(ctx, request)
	Expect(err).NotTo(HaveOccurred(), "Server creation should be accepted")

	var body struct {
		Server created `json:"server"`
	}

	Expect(response.Into(&body)).To(Succeed())

	serverID := body.Server.ID

	GinkgoWriter.Printf("Created server %s (trace %s)\n", serverID, response.TraceID)

	// Registered before waiting so a server that fails to build is still
	// removed.
	DeferCleanup(func(ctx context.Context) {
		GinkgoWriter.Printf("Cleaning up server: %s\n", serverID)

		if _, err := client.DeleteServer(ctx, serverID); err != nil && !errors.Is(err, rest.ErrNotFound) {
			GinkgoWriter.Printf("Warning: Failed to delete server %s: %v\n", serverID, err)
			return
		}

		if err := waiters.ForServerDeletion(ctx, client, serverID, options.WaiterOptions()); err != nil {
			GinkgoWriter.Printf("Warning: Server %s was not deleted: %v\n", serverID, err)
		}
	})

	GinkgoWriter.Printf("Waiting for server %s to become active, this can take up to %s\n", serverID, options.BuildTimeout)

	Expect(waiters.ForServerStatus(ctx, client, serverID, "ACTIVE", options.WaiterOptions())).To(Succeed())

	return serverID
}

// CreateVolumeWithCleanup creates a volume, waits for it to become
// available, and schedules deletion.
func CreateVolumeWithCleanup(ctx context.Context, client *volume.Client, options *config.Options, request *volume.CreateVolumeRequest) string {
	response, err := client.CreateVolume(ctx, request)
	Expect(err).NotTo(HaveOccurred(), "Volume creation should be accepted")

	var body struct {
		Volume created `json:"volume"`
	}

	Expect(response.Into(&body)).To(Succeed())

	volumeID := body.Volume.ID

	GinkgoWriter.Printf("Created volume %s\n", volumeID)

	DeferCleanup(func(ctx context.Context) {
		GinkgoWriter.Printf("Cleaning up volume: %s\n", volumeID)

		if _, err := client.DeleteVolume(ctx, volumeID, true); err != nil && !errors.Is(err, rest.ErrNotFound) {
			GinkgoWriter.Printf("Warning: Failed to delete volume %s: %v\n", volumeID, err)
			return
		}

		if err := waiters.ForVolumeDeletion(ctx, client, volumeID, options.WaiterOptions()); err != nil {
			GinkgoWriter.Printf("Warning: Volume %s was not deleted: %v\n", volumeID, err)
		}
	})

	Expect(waiters.ForVolumeStatus(ctx, client, volumeID, "available", options.WaiterOptions())).To(Succeed())

	return volumeID
}

// CreateImageWithCleanup creates an image record, which stays queued as no
// data is uploaded, and schedules deletion.
func CreateImageWithCleanup(ctx context.Context, client *image.Client, options *config.Options, request *image.CreateImageRequest) string {
	response, err := client.CreateImage(ctx, request)
	Expect(err).NotTo(HaveOccurred(), "Image creation should succeed")

	var body created

	Expect(response.Into(&body)).To(Succeed())

	imageID := body.ID

	GinkgoWriter.Printf("Created image %s\n", imageID)

	DeferCleanup(func(ctx context.Context) {
		GinkgoWriter.Printf("Cleaning up image: %s\n", imageID)

		if _, err := client.DeleteImage(ctx, imageID); err != nil && !errors.Is(err, rest.ErrNotFound) {
			GinkgoWriter.Printf("Warning: Failed to delete image %s: %v\n", imageID, err)
		}
	})

	Expect(waiters.ForImageStatus(ctx, client, imageID, "queued", options.WaiterOptions())).To(Succeed())

	return imageID
}
