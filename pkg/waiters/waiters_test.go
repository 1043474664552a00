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

package waiters_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/openstack/tempest-sub006/pkg/microversion"
	"github.com/openstack/tempest-sub006/pkg/rest"
	"github.com/openstack/tempest-sub006/pkg/schemas"
	"github.com/openstack/tempest-sub006/pkg/server"
	"github.com/openstack/tempest-sub006/pkg/server/handler"
	"github.com/openstack/tempest-sub006/pkg/services/compute"
	"github.com/openstack/tempest-sub006/pkg/services/image"
	"github.com/openstack/tempest-sub006/pkg/services/volume"
	"github.com/openstack/tempest-sub006/pkg/waiters"
)

const id = "9168b536-cd40-4630-b43f-b259807c6e87"

//nolint:gochecknoglobals
var fast = &waiters.Options{
	Interval: time.Millisecond,
	Timeout:  time.Second,
}

func start(t *testing.T, service string, options rest.Options) (*rest.Client, *server.Server) {
	t.Helper()

	registry, err := schemas.Lookup(service)
	require.NoError(t, err)

	s := server.New(registry, handler.Options{})

	ts := httptest.NewServer(s)
	t.Cleanup(ts.Close)

	options.BaseURL = ts.URL
	options.Token = "token"

	client, err := rest.New(options)
	require.NoError(t, err)

	return client, s
}

func serverStub(status string, taskState any) handler.Stub {
	body := map[string]any{
		"id":     id,
		"name":   "waiter",
		"status": status,
		"image":  "",
		"flavor": map[string]any{
			"id":    "1",
			"links": []any{map[string]any{"href": "http://openstack.example.com/flavors/1", "rel": "bookmark"}},
		},
		"user_id":               "fake",
		"tenant_id":             "fake",
		"created":               "2013-09-03T04:01:32Z",
		"updated":               "2013-09-03T04:01:32Z",
		"progress":              0,
		"metadata":              map[string]any{},
		"links":                 []any{},
		"addresses":             map[string]any{},
		"hostId":                "",
		"OS-EXT-STS:task_state": taskState,
	}

	if status == "ERROR" {
		body["fault"] = map[string]any{
			"code":    500,
			"created": "2013-09-03T04:01:40Z",
			"message": "No valid host was found.",
		}
	}

	return handler.Stub{
		Body: map[string]any{"server": body},
	}
}

func computeFixture(t *testing.T) (*compute.Client, *server.Server) {
	t.Helper()

	client, s := start(t, "compute", rest.Options{Service: microversion.Compute})

	return compute.NewClient(client), s
}

func TestForServerStatus(t *testing.T) {
	t.Parallel()

	client, s := computeFixture(t)

	s.Handler.Stub("ShowServer",
		serverStub("BUILD", "spawning"),
		serverStub("ACTIVE", "spawning"),
		serverStub("ACTIVE", nil),
	)

	require.NoError(t, waiters.ForServerStatus(t.Context(), client, id, "ACTIVE", fast))
	require.Len(t, s.Handler.Requests(), 3)
}

func TestForServerStatusError(t *testing.T) {
	t.Parallel()

	client, s := computeFixture(t)

	s.Handler.Stub("ShowServer",
		serverStub("BUILD", "scheduling"),
		serverStub("ERROR", nil),
	)

	err := waiters.ForServerStatus(t.Context(), client, id, "ACTIVE", fast)
	require.ErrorIs(t, err, waiters.ErrResourceInError)
	require.ErrorContains(t, err, "No valid host was found.")
}

func TestForServerStatusTimeout(t *testing.T) {
	t.Parallel()

	client, s := computeFixture(t)

	s.Handler.Stub("ShowServer", serverStub("BUILD", "spawning"))

	err := waiters.ForServerStatus(t.Context(), client, id, "ACTIVE", &waiters.Options{
		Interval: time.Millisecond,
		Timeout:  20 * time.Millisecond,
	})
	require.ErrorIs(t, err, waiters.ErrTimeout)
	require.ErrorContains(t, err, "BUILD")
}

func TestForServerStatusCancelled(t *testing.T) {
	t.Parallel()

	client, s := computeFixture(t)

	s.Handler.Stub("ShowServer", serverStub("BUILD", "spawning"))

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	err := waiters.ForServerStatus(ctx, client, id, "ACTIVE", fast)
	require.ErrorIs(t, err, context.Canceled)
}

func TestForServerStatusSchemaViolation(t *testing.T) {
	t.Parallel()

	client, s := computeFixture(t)

	stub := serverStub("ACTIVE", nil)
	stub.Body.(map[string]any)["server"].(map[string]any)["progress"] = "half"

	s.Handler.Stub("ShowServer", stub)

	err := waiters.ForServerStatus(t.Context(), client, id, "ACTIVE", fast)
	require.Error(t, err)
	require.NotErrorIs(t, err, waiters.ErrTimeout)
}

func TestForServerDeletion(t *testing.T) {
	t.Parallel()

	client, s := computeFixture(t)

	s.Handler.Stub("ShowServer",
		serverStub("ACTIVE", "deleting"),
		handler.Stub{
			Status: http.StatusNotFound,
			Body:   map[string]any{"itemNotFound": map[string]any{"code": 404, "message": "Instance could not be found."}},
		},
	)

	require.NoError(t, waiters.ForServerDeletion(t.Context(), client, id, fast))
}

func volumeStub(status string) handler.Stub {
	return handler.Stub{
		Body: map[string]any{
			"volume": map[string]any{
				"id":                  id,
				"name":                nil,
				"description":         nil,
				"status":              status,
				"size":                1,
				"availability_zone":   "nova",
				"created_at":          "2018-11-29T06:50:07.770785",
				"updated_at":          nil,
				"volume_type":         nil,
				"snapshot_id":         nil,
				"source_volid":        nil,
				"bootable":            "false",
				"encrypted":           false,
				"multiattach":         false,
				"consistencygroup_id": nil,
				"replication_status":  nil,
				"user_id":             "fake",
				"metadata":            map[string]any{},
				"links":               []any{},
				"attachments":         []any{},
			},
		},
	}
}

func TestForVolumeStatus(t *testing.T) {
	t.Parallel()

	client, s := start(t, "volume", rest.Options{Service: microversion.Volume})
	volumes := volume.NewClient(client)

	s.Handler.Stub("ShowVolume", volumeStub("creating"), volumeStub("available"))

	require.NoError(t, waiters.ForVolumeStatus(t.Context(), volumes, id, "available", fast))

	s.Handler.Reset()
	s.Handler.Stub("ShowVolume", volumeStub("extending"), volumeStub("error_extending"))

	err := waiters.ForVolumeStatus(t.Context(), volumes, id, "available", fast)
	require.ErrorIs(t, err, waiters.ErrResourceInError)
	require.ErrorContains(t, err, "error_extending")
}

func TestForVolumeDeletion(t *testing.T) {
	t.Parallel()

	client, s := start(t, "volume", rest.Options{Service: microversion.Volume})

	s.Handler.Stub("ShowVolume", volumeStub("deleting"), handler.Stub{
		Status: http.StatusNotFound,
		Body:   map[string]any{"itemNotFound": map[string]any{"code": 404, "message": "Volume could not be found."}},
	})

	require.NoError(t, waiters.ForVolumeDeletion(t.Context(), volume.NewClient(client), id, fast))
}

func imageStub(status string) handler.Stub {
	return handler.Stub{
		Body: map[string]any{
			"id":               id,
			"name":             nil,
			"status":           status,
			"visibility":       "private",
			"protected":        false,
			"tags":             []any{},
			"created_at":       "2024-01-12T16:53:18Z",
			"updated_at":       "2024-01-12T16:53:20Z",
			"self":             "/v2/images/" + id,
			"file":             "/v2/images/" + id + "/file",
			"schema":           "/v2/schemas/image",
			"size":             nil,
			"checksum":         nil,
			"container_format": nil,
			"disk_format":      nil,
			"min_disk":         0,
			"min_ram":          0,
			"owner":            nil,
		},
	}
}

func TestForImageStatus(t *testing.T) {
	t.Parallel()

	client, s := start(t, "image", rest.Options{})
	images := image.NewClient(client)

	s.Handler.Stub("ShowImage", imageStub("queued"), imageStub("saving"), imageStub("active"))

	require.NoError(t, waiters.ForImageStatus(t.Context(), images, id, "active", fast))

	s.Handler.Reset()
	s.Handler.Stub("ShowImage", imageStub("saving"), imageStub("killed"))

	err := waiters.ForImageStatus(t.Context(), images, id, "active", fast)
	require.ErrorIs(t, err, waiters.ErrResourceInError)
}
