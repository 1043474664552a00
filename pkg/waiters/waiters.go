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

// Package waiters polls resources until they settle into a wanted state.
package waiters

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"k8s.io/apimachinery/pkg/util/wait"

	"github.com/openstack/tempest-sub006/pkg/rest"
	"github.com/openstack/tempest-sub006/pkg/services/compute"
	"github.com/openstack/tempest-sub006/pkg/services/image"
	"github.com/openstack/tempest-sub006/pkg/services/volume"

	"sigs.k8s.io/controller-runtime/pkg/log"
)

const (
	// DefaultInterval is the time between polls.
	DefaultInterval = time.Second

	// DefaultTimeout bounds the whole wait.
	DefaultTimeout = 300 * time.Second
)

var (
	// ErrResourceInError is raised when a resource enters an error state
	// while waiting for another.
	ErrResourceInError = errors.New("resource entered error state")

	// ErrTimeout is raised when a resource does not reach the wanted state
	// in time.
	ErrTimeout = errors.New("timed out waiting for resource")
)

// Options control polling, zero values select the defaults.
type Options struct {
	Interval time.Duration
	Timeout  time.Duration
}

func (o *Options) interval() time.Duration {
	if o == nil || o.Interval == 0 {
		return DefaultInterval
	}

	return o.Interval
}

func (o *Options) timeout() time.Duration {
	if o == nil || o.Timeout == 0 {
		return DefaultTimeout
	}

	return o.Timeout
}

// observation is what one poll saw.
type observation struct {
	// status is the resource status.
	status string
	// settled is false while a task is still running against the resource.
	settled bool
	// fault is a server side explanation of an error state.
	fault string
}

type poller struct {
	kind    string
	id      string
	want    string
	show    func(context.Context) (observation, error)
	inError func(string) bool
}

func (p *poller) run(ctx context.Context, options *Options) error {
	log := log.FromContext(ctx).WithValues("kind", p.kind, "id", p.id, "want", p.want)

	var last string

	err := wait.PollUntilContextTimeout(ctx, options.interval(), options.timeout(), true, func(ctx context.Context) (bool, error) {
		o, err := p.show(ctx)
		if err != nil {
			return false, err
		}

		if o.status != last {
			log.V(1).Info("status changed", "from", last, "to", o.status)

			last = o.status
		}

		if o.status == p.want && o.settled {
			return true, nil
		}

		if p.inError(o.status) {
			if o.fault != "" {
				return false, fmt.Errorf("%w: %s %s is %s: %s", ErrResourceInError, p.kind, p.id, o.status, o.fault)
			}

			return false, fmt.Errorf("%w: %s %s is %s", ErrResourceInError, p.kind, p.id, o.status)
		}

		return false, nil
	})

	if err != nil && wait.Interrupted(err) {
		if cerr := context.Cause(ctx); cerr != nil {
			return cerr
		}

		return fmt.Errorf("%w: %s %s is %s, wanted %s after %v", ErrTimeout, p.kind, p.id, last, p.want, options.timeout())
	}

	return err
}

func serverInError(status string) bool {
	return status == "ERROR"
}

type serverStatus struct {
	Server struct {
		Status    string  `json:"status"`
		TaskState *string `json:"OS-EXT-STS:task_state"`
		Fault     *struct {
			Message string `json:"message"`
		} `json:"fault"`
	} `json:"server"`
}

func showServer(client *compute.Client, id string) func(context.Context) (observation, error) {
	return func(ctx context.Context) (observation, error) {
		response, err := client.ShowServer(ctx, id)
		if err != nil {
			return observation{}, err
		}

		var s serverStatus

		if err := response.Into(&s); err != nil {
			return observation{}, err
		}

		o := observation{
			status:  s.Server.Status,
			settled: s.Server.TaskState == nil || *s.Server.TaskState == "",
		}

		if s.Server.Fault != nil {
			o.fault = s.Server.Fault.Message
		}

		return o, nil
	}
}

// ForServerStatus waits for a server to reach a status with no task in
// progress, failing early if it goes to ERROR.
func ForServerStatus(ctx context.Context, client *compute.Client, id, status string, options *Options) error {
	p := &poller{
		kind:    "server",
		id:      id,
		want:    status,
		show:    showServer(client, id),
		inError: serverInError,
	}

	return p.run(ctx, options)
}

// deleted marks a resource that is gone.
const deleted = "<deleted>"

// gone translates a not found error into the deleted pseudo status.
func gone(show func(context.Context) (observation, error)) func(context.Context) (observation, error) {
	return func(ctx context.Context) (observation, error) {
		o, err := show(ctx)
		if errors.Is(err, rest.ErrNotFound) {
			return observation{status: deleted, settled: true}, nil
		}

		return o, err
	}
}

// ForServerDeletion waits for a server to disappear.
func ForServerDeletion(ctx context.Context, client *compute.Client, id string, options *Options) error {
	p := &poller{
		kind:    "server",
		id:      id,
		want:    deleted,
		show:    gone(showServer(client, id)),
		inError: serverInError,
	}

	return p.run(ctx, options)
}

func volumeInError(status string) bool {
	return status == "error" || strings.HasPrefix(status, "error_")
}

func showVolume(client *volume.Client, id string) func(context.Context) (observation, error) {
	return func(ctx context.Context) (observation, error) {
		response, err := client.ShowVolume(ctx, id)
		if err != nil {
			return observation{}, err
		}

		var v struct {
			Volume struct {
				Status string `json:"status"`
			} `json:"volume"`
		}

		if err := response.Into(&v); err != nil {
			return observation{}, err
		}

		return observation{status: v.Volume.Status, settled: true}, nil
	}
}

// ForVolumeStatus waits for a volume to reach a status, failing early on
// any of the error statuses.
func ForVolumeStatus(ctx context.Context, client *volume.Client, id, status string, options *Options) error {
	p := &poller{
		kind:    "volume",
		id:      id,
		want:    status,
		show:    showVolume(client, id),
		inError: volumeInError,
	}

	return p.run(ctx, options)
}

// ForVolumeDeletion waits for a volume to disappear.
func ForVolumeDeletion(ctx context.Context, client *volume.Client, id string, options *Options) error {
	p := &poller{
		kind:    "volume",
		id:      id,
		want:    deleted,
		show:    gone(showVolume(client, id)),
		inError: func(status string) bool { return status == "error_deleting" },
	}

	return p.run(ctx, options)
}

// ForImageStatus waits for an image to reach a status, an image that is
// killed or deleted will never recover.
func ForImageStatus(ctx context.Context, client *image.Client, id, status string, options *Options) error {
	p := &poller{
		kind: "image",
		id:   id,
		want: status,
		show: func(ctx context.Context) (observation, error) {
			response, err := client.ShowImage(ctx, id)
			if err != nil {
				return observation{}, err
			}

			var i struct {
				Status string `json:"status"`
			}

			if err := response.Into(&i); err != nil {
				return observation{}, err
			}

			return observation{status: i.Status, settled: true}, nil
		},
		inError: func(status string) bool {
			return status == "killed" || status == "deleted"
		},
	}

	return p.run(ctx, options)
}
