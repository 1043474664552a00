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
	"errors"

	"github.com/openstack/tempest-sub006/pkg/config"
)

// envPaths are searched for a .env file, relative to the suites directory.
//
//nolint:gochecknoglobals
var envPaths = []string{
	"../../.env",
	"../../../.env",
}

// LoadTestConfig loads configuration from environment variables and .env
// files.  A non-empty reason means no cloud is configured and the suites
// should be skipped, an error means the configuration is broken.
func LoadTestConfig() (*config.Options, string, error) {
	options := config.New()

	if err := options.LoadFromEnvironment(envPaths...); err != nil {
		return nil, "", err
	}

	if err := options.Validate(); err != nil {
		if errors.Is(err, config.ErrMissing) {
			return nil, err.Error(), nil
		}

		return nil, "", err
	}

	return options, "", nil
}
