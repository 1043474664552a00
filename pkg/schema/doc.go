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

// Package schema describes the response contracts of API operations and
// checks HTTP responses against them.
//
// A contract (Entry) names the allowed status codes and, optionally, the
// shape of the response body and headers as a tree of Nodes.  Contracts
// evolve with API microversions, so each Operation carries a Table of
// version ranges from which Resolve picks the Entry in force for the
// negotiated microversion.  ValidateResponse then acts as a gate: it returns
// nil, or the first violation found.
//
// Tables are built once at package initialisation, usually by deriving each
// version's schema from its predecessor with Object.Extend and friends, and
// are read only afterwards, so they may be shared freely between goroutines.
package schema
