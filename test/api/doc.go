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


// Package api runs the conformance suites against a live cloud.
//
// Every response the suites receive is checked by the service clients
// against the contract of the microversion that was requested, so a test
// passing means both the behaviour and the document shapes are right.
//
// # Configuration
//
// Configuration comes from the environment, or a test/.env file, using the
// same variables as the tempest-schema command: OS_AUTH_URL and either
// OS_TOKEN or OS_USERNAME and OS_PASSWORD, with <SERVICE>_ENDPOINT and
// <SERVICE>_MIN_MICROVERSION or <SERVICE>_MAX_MICROVERSION to override the
// catalog and bound what is requested.  The suites skip when no cloud is
// configured.
//
// Tests that create servers need FLAVOR_REF and IMAGE_REF and skip when
// they are not set.
package api
