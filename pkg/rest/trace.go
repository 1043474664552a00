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

package rest

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
)

// randomHex returns n random bytes hex encoded.
func randomHex(n int) string {
	bytes := make([]byte, n)
	_, _ = rand.Read(bytes)

	return hex.EncodeToString(bytes)
}

// newTraceParent creates a W3C traceparent header value, a fresh trace per
// request lets a failure be found in the service logs.
func newTraceParent() string {
	return fmt.Sprintf("00-%s-%s-01", randomHex(16), randomHex(8))
}

// traceID extracts the trace ID from a traceparent header value.
func traceID(traceParent string) string {
	parts := strings.Split(traceParent, "-")
	if len(parts) >= 2 {
		return parts[1]
	}

	return traceParent
}
