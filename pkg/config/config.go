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

// Package config holds what is needed to point the library at a cloud: the
// endpoints, credentials and microversion ranges of each service.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"github.com/openstack/tempest-sub006/pkg/constants"
	"github.com/openstack/tempest-sub006/pkg/microversion"
	"github.com/openstack/tempest-sub006/pkg/rest"
	"github.com/openstack/tempest-sub006/pkg/schemas"
	"github.com/openstack/tempest-sub006/pkg/waiters"
)

var (
	// ErrMissing is raised when required configuration is absent.
	ErrMissing = errors.New("missing required configuration")

	// ErrInvalid is raised when configuration is malformed.
	ErrInvalid = errors.New("invalid configuration")
)

// Service is the configuration of one service.
type Service struct {
	// Endpoint is the service root, e.g. http://cloud:8774/v2.1.
	Endpoint string
	// MinMicroversion and MaxMicroversion bound what tests may request,
	// empty meaning unbounded.
	MinMicroversion string
	MaxMicroversion string
}

// Credentials authenticate against the identity service when no token is
// given.
type Credentials struct {
	Username      string
	Password      string
	UserDomain    string
	ProjectName   string
	ProjectDomain string
}

// Options are everything a client or suite needs.
type Options struct {
	// Services by type, e.g. compute.
	Services map[string]*Service
	// Token authenticates requests directly.
	Token string
	// Credentials are used to issue a token when none is given.
	Credentials Credentials
	// Region selects catalog endpoints when endpoints are not given.
	Region string
	// RequestTimeout bounds each request.
	RequestTimeout time.Duration
	// BuildInterval and BuildTimeout control waiters.
	BuildInterval time.Duration
	BuildTimeout  time.Duration
	// FlavorRef and ImageRef are used to boot servers.
	FlavorRef string
	ImageRef  string
	// LogRequests and LogResponses trace traffic.
	LogRequests  bool
	LogResponses bool
}

// New returns options with defaults and an entry for every registered
// service.
func New() *Options {
	o := &Options{
		Services:       map[string]*Service{},
		RequestTimeout: rest.DefaultTimeout,
		BuildInterval:  waiters.DefaultInterval,
		BuildTimeout:   waiters.DefaultTimeout,
		Credentials: Credentials{
			UserDomain:    "Default",
			ProjectDomain: "Default",
		},
	}

	for _, r := range schemas.All() {
		o.Services[r.Name] = &Service{}
	}

	return o
}

// ServiceNames returns the configured service types in order.
func (o *Options) ServiceNames() []string {
	names := make([]string, 0, len(o.Services))
	for name := range o.Services {
		names = append(names, name)
	}

	slices.Sort(names)

	return names
}

// AddFlags registers flags for every option.
func (o *Options) AddFlags(f *pflag.FlagSet) {
	for _, name := range o.ServiceNames() {
		s := o.service(name)

		f.StringVar(&s.Endpoint, name+"-endpoint", s.Endpoint, "Endpoint of the "+name+" service")

		if registry, err := schemas.Lookup(name); err == nil && registry.Service.Enabled() {
			f.StringVar(&s.MinMicroversion, name+"-min-microversion", s.MinMicroversion, "Lowest "+name+" microversion to request")
			f.StringVar(&s.MaxMicroversion, name+"-max-microversion", s.MaxMicroversion, "Highest "+name+" microversion to request, or latest")
		}
	}

	f.StringVar(&o.Token, "token", o.Token, "Token to authenticate with")
	f.StringVar(&o.Credentials.Username, "username", o.Credentials.Username, "User to authenticate as when no token is given")
	f.StringVar(&o.Credentials.Password, "password", o.Credentials.Password, "Password to authenticate with")
	f.StringVar(&o.Credentials.UserDomain, "user-domain", o.Credentials.UserDomain, "Domain of the user")
	f.StringVar(&o.Credentials.ProjectName, "project", o.Credentials.ProjectName, "Project to scope the token to")
	f.StringVar(&o.Credentials.ProjectDomain, "project-domain", o.Credentials.ProjectDomain, "Domain of the project")
	f.StringVar(&o.Region, "region", o.Region, "Region to select catalog endpoints from")
	f.DurationVar(&o.RequestTimeout, "request-timeout", o.RequestTimeout, "Timeout for each request")
	f.DurationVar(&o.BuildInterval, "build-interval", o.BuildInterval, "Interval between polls when waiting for resources")
	f.DurationVar(&o.BuildTimeout, "build-timeout", o.BuildTimeout, "Timeout when waiting for resources")
	f.StringVar(&o.FlavorRef, "flavor-ref", o.FlavorRef, "Flavor to boot servers with")
	f.StringVar(&o.ImageRef, "image-ref", o.ImageRef, "Image to boot servers with")
	f.BoolVar(&o.LogRequests, "log-requests", o.LogRequests, "Log requests")
	f.BoolVar(&o.LogResponses, "log-responses", o.LogResponses, "Log responses")
}

// envName is the variable a service setting is read from, e.g.
// COMPUTE_MIN_MICROVERSION.
func envName(service, setting string) string {
	return strings.ToUpper(strings.ReplaceAll(service, "-", "_")) + "_" + setting
}

// service returns the named service's configuration, adding it when absent.
func (o *Options) service(name string) *Service {
	if o.Services == nil {
		o.Services = map[string]*Service{}
	}

	s, ok := o.Services[name]
	if !ok || s == nil {
		s = &Service{}
		o.Services[name] = s
	}

	return s
}

// LoadFromEnvironment overlays environment variables onto the options.  The
// first .env file found on the search path is loaded first, without
// overriding variables that are already set.
func (o *Options) LoadFromEnvironment(envPaths ...string) error {
	if err := loadEnvFile(envPaths); err != nil {
		return err
	}

	for _, name := range o.ServiceNames() {
		s := o.service(name)

		setString(&s.Endpoint, envName(name, "ENDPOINT"))
		setString(&s.MinMicroversion, envName(name, "MIN_MICROVERSION"))
		setString(&s.MaxMicroversion, envName(name, "MAX_MICROVERSION"))
	}

	// The identity endpoint follows the usual client convention.
	setString(&o.service("identity").Endpoint, "OS_AUTH_URL")

	setString(&o.Token, "OS_TOKEN")
	setString(&o.Credentials.Username, "OS_USERNAME")
	setString(&o.Credentials.Password, "OS_PASSWORD")
	setString(&o.Credentials.UserDomain, "OS_USER_DOMAIN_NAME")
	setString(&o.Credentials.ProjectName, "OS_PROJECT_NAME")
	setString(&o.Credentials.ProjectDomain, "OS_PROJECT_DOMAIN_NAME")
	setString(&o.Region, "OS_REGION_NAME")
	setString(&o.FlavorRef, "FLAVOR_REF")
	setString(&o.ImageRef, "IMAGE_REF")

	for name, target := range map[string]*time.Duration{
		"REQUEST_TIMEOUT": &o.RequestTimeout,
		"BUILD_INTERVAL":  &o.BuildInterval,
		"BUILD_TIMEOUT":   &o.BuildTimeout,
	} {
		if err := setDuration(target, name); err != nil {
			return err
		}
	}

	for name, target := range map[string]*bool{
		"LOG_REQUESTS":  &o.LogRequests,
		"LOG_RESPONSES": &o.LogResponses,
	} {
		if err := setBool(target, name); err != nil {
			return err
		}
	}

	return nil
}

func loadEnvFile(envPaths []string) error {
	for _, path := range envPaths {
		if _, err := os.Stat(path); err != nil {
			continue
		}

		absPath, err := filepath.Abs(path)
		if err != nil {
			return err
		}

		if err := godotenv.Load(absPath); err != nil {
			return fmt.Errorf("loading %s: %w", absPath, err)
		}

		return nil
	}

	// Not finding one is fine, CI sets variables directly.
	return nil
}

func setString(target *string, key string) {
	if value, ok := os.LookupEnv(key); ok {
		*target = value
	}
}

func setDuration(target *time.Duration, key string) error {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return nil
	}

	duration, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrInvalid, key, err)
	}

	*target = duration

	return nil
}

func setBool(target *bool, key string) error {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return nil
	}

	b, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrInvalid, key, err)
	}

	*target = b

	return nil
}

// Validate checks the options are usable, listing everything that is
// missing at once.
func (o *Options) Validate() error {
	var missing []string

	if o.Services["identity"] == nil || o.Services["identity"].Endpoint == "" {
		missing = append(missing, "identity endpoint (OS_AUTH_URL)")
	}

	if o.Token == "" {
		if o.Credentials.Username == "" {
			missing = append(missing, "username (OS_USERNAME) or token (OS_TOKEN)")
		}

		if o.Credentials.Password == "" {
			missing = append(missing, "password (OS_PASSWORD) or token (OS_TOKEN)")
		}
	}

	if len(missing) != 0 {
		return fmt.Errorf("%w: %s", ErrMissing, strings.Join(missing, ", "))
	}

	for _, name := range o.ServiceNames() {
		s := o.Services[name]
		if s == nil {
			continue
		}

		if s.Endpoint != "" {
			if u, err := url.Parse(s.Endpoint); err != nil || !u.IsAbs() {
				return fmt.Errorf("%w: %s endpoint %q is not an absolute URL", ErrInvalid, name, s.Endpoint)
			}
		}

		if _, err := microversion.CheckSkip("", "", s.MinMicroversion, s.MaxMicroversion); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrInvalid, name, err)
		}
	}

	if o.BuildInterval <= 0 || o.BuildTimeout < o.BuildInterval {
		return fmt.Errorf("%w: build interval %v must be positive and no longer than build timeout %v", ErrInvalid, o.BuildInterval, o.BuildTimeout)
	}

	return nil
}

// Microversion picks the microversion a test needing at least testMin, and
// at most testMax, should request from a service.  A non-empty reason means
// the configured range rules the test out and it should be skipped.
func (o *Options) Microversion(service, testMin, testMax string) (string, string, error) {
	s, ok := o.Services[service]
	if !ok {
		return "", "", fmt.Errorf("%w: %s", schemas.ErrServiceNotFound, service)
	}

	reason, err := microversion.CheckSkip(testMin, testMax, s.MinMicroversion, s.MaxMicroversion)
	if err != nil || reason != "" {
		return "", reason, err
	}

	version, err := microversion.SelectRequestMicroversion(testMin, s.MinMicroversion)
	if err != nil {
		return "", "", err
	}

	return version, "", nil
}

// WaiterOptions returns the polling options for waiters.
func (o *Options) WaiterOptions() *waiters.Options {
	return &waiters.Options{
		Interval: o.BuildInterval,
		Timeout:  o.BuildTimeout,
	}
}

// ClientOptions returns the REST client options for a service at a
// microversion.  The endpoint may be overridden, e.g. from a catalog.
func (o *Options) ClientOptions(service, endpoint, version string) (rest.Options, error) {
	registry, err := schemas.Lookup(service)
	if err != nil {
		return rest.Options{}, err
	}

	if endpoint == "" {
		if s, ok := o.Services[service]; ok {
			endpoint = s.Endpoint
		}
	}

	if endpoint == "" {
		return rest.Options{}, fmt.Errorf("%w: %s endpoint", ErrMissing, service)
	}

	return rest.Options{
		BaseURL:      endpoint,
		Token:        o.Token,
		Microversion: version,
		Service:      registry.Service,
		Timeout:      o.RequestTimeout,
		UserAgent:    constants.UserAgent(),
		LogRequests:  o.LogRequests,
		LogResponses: o.LogResponses,
	}, nil
}
