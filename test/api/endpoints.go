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


package api

import (
	"github.com/openstack/tempest-sub006/pkg/config"
	"github.com/openstack/tempest-sub006/pkg/services/identity"
)

// catalogTypes are the catalog service types each service may be
// registered under, in order of preference.
//
//nolint:gochecknoglobals
var catalogTypes = map[string][]string{
	"compute":   {"compute"},
	"identity":  {"identity"},
	"image":     {"image"},
	"placement": {"placement"},
	"volume":    {"block-storage", "volumev3", "volume"},
}

// ResolveEndpoints looks up the public endpoint of every service without an
// explicitly configured one in the token's catalog.  Services that cannot be
// found are left out, and tests using them will skip.
func ResolveEndpoints(token *identity.Token, options *config.Options) map[string]string {
	endpoints := map[string]string{}

	for _, name := range options.ServiceNames() {
		if options.Services[name].Endpoint != "" {
			continue
		}

		types, ok := catalogTypes[name]
		if !ok {
			types = []string{name}
		}

		for _, t := range types {
			if url, ok := token.Endpoint(t, "public", options.Region); ok {
				endpoints[name] = url
				break
			}
		}
	}

	return endpoints
}
