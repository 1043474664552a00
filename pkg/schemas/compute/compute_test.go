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

package compute_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/openstack/tempest-sub006/pkg/schema"
	"github.com/openstack/tempest-sub006/pkg/schemas/compute"
)

const serverV21 = `{
  "server": {
    "id": "9168b536-cd40-4630-b43f-b259807c6e87",
    "name": "new-server-test",
    "status": "ACTIVE",
    "image": {
      "id": "70a599e0-31e7-49b7-b260-868f441e862b",
      "links": [{"href": "http://openstack.example.com/images/70a599e0-31e7-49b7-b260-868f441e862b", "rel": "bookmark"}]
    },
    "flavor": {
      "id": "1",
      "links": [{"href": "http://openstack.example.com/flavors/1", "rel": "bookmark"}]
    },
    "user_id": "fake",
    "tenant_id": "6f70656e737461636b20342065766572",
    "created": "2013-09-03T04:01:32Z",
    "updated": "2013-09-03T04:01:32Z",
    "progress": 0,
    "metadata": {"My Server Name": "Apache1"},
    "links": [
      {"href": "http://openstack.example.com/v2.1/servers/9168b536-cd40-4630-b43f-b259807c6e87", "rel": "self"},
      {"href": "http://openstack.example.com/servers/9168b536-cd40-4630-b43f-b259807c6e87", "rel": "bookmark"}
    ],
    "addresses": {
      "private": [
        {"addr": "192.168.1.30", "version": 4, "OS-EXT-IPS:type": "fixed", "OS-EXT-IPS-MAC:mac_addr": "00:0c:29:0d:11:74"}
      ]
    },
    "hostId": "92154fab69d5883ba2c8622b7e65f745dd33257221c07af363c51b29",
    "OS-DCF:diskConfig": "AUTO",
    "accessIPv4": "1.2.3.4",
    "accessIPv6": "",
    "key_name": null,
    "OS-EXT-STS:task_state": null,
    "OS-EXT-STS:vm_state": "active",
    "OS-EXT-STS:power_state": 1,
    "OS-SRV-USG:launched_at": "2013-09-23T13:37:00.880302",
    "OS-SRV-USG:terminated_at": null,
    "security_groups": [{"name": "default"}],
    "os-extended-volumes:volumes_attached": []
  }
}`

func operation(t *testing.T, name string) *schema.Operation {
	t.Helper()

	for _, op := range compute.Operations() {
		if op.Name == name {
			return op
		}
	}

	t.Fatalf("operation %s not registered", name)

	return nil
}

func validate(t *testing.T, name, version string, status int, raw string) error {
	t.Helper()

	entry, err := operation(t, name).Resolve(version)
	require.NoError(t, err)

	return schema.ValidateRawResponse(entry, status, []byte(raw), nil)
}

func TestOperationsCheck(t *testing.T) {
	t.Parallel()

	for _, op := range compute.Operations() {
		require.NoError(t, op.Check(), op.Name)
	}
}

func TestShowServer(t *testing.T) {
	t.Parallel()

	require.NoError(t, validate(t, "ShowServer", "", http.StatusOK, serverV21))
	require.NoError(t, validate(t, "ShowServer", "2.8", http.StatusOK, serverV21))

	// locked is mandatory from 2.9.
	err := validate(t, "ShowServer", "2.9", http.StatusOK, serverV21)
	require.ErrorIs(t, err, schema.ErrInvalidBody)

	var body *schema.InvalidHTTPResponseBody

	require.ErrorAs(t, err, &body)
	require.Equal(t, "body.server.locked", body.Field.Field)
}

func TestShowServerLatest(t *testing.T) {
	t.Parallel()

	var body map[string]any

	require.NoError(t, json.Unmarshal([]byte(serverV21), &body))

	server, ok := body["server"].(map[string]any)
	require.True(t, ok)

	server["locked"] = false
	server["description"] = nil
	server["tags"] = []any{"web"}
	server["trusted_image_certificates"] = nil
	server["locked_reason"] = nil
	server["pinned_availability_zone"] = nil
	server["server_groups"] = []any{}
	server["flavor"] = map[string]any{
		"original_name": "m1.tiny",
		"disk":          1,
		"ephemeral":     0,
		"ram":           512,
		"swap":          0,
		"vcpus":         1,
	}

	raw, err := json.Marshal(body)
	require.NoError(t, err)

	require.NoError(t, validate(t, "ShowServer", "2.100", http.StatusOK, string(raw)))
	require.NoError(t, validate(t, "ShowServer", "latest", http.StatusOK, string(raw)))

	// The old flavor reference is rejected once the flavor is embedded.
	server["flavor"] = map[string]any{"id": "1", "links": []any{}}

	raw, err = json.Marshal(body)
	require.NoError(t, err)

	require.Error(t, validate(t, "ShowServer", "2.100", http.StatusOK, string(raw)))
}

func TestServerTagsRequire226(t *testing.T) {
	t.Parallel()

	_, err := operation(t, "ListServerTags").Resolve("2.25")
	require.ErrorIs(t, err, schema.ErrSchemaNotFound)

	require.NoError(t, validate(t, "ListServerTags", "2.26", http.StatusOK, `{"tags": ["a", "b"]}`))
	require.NoError(t, validate(t, "CheckServerTag", "2.26", http.StatusNoContent, ""))
}

func TestCreateKeypairStatus(t *testing.T) {
	t.Parallel()

	legacy := `{"keypair": {"name": "k", "public_key": "ssh-rsa AAAA", "fingerprint": "aa:bb", "user_id": "u", "private_key": "-----BEGIN"}}`
	typed := `{"keypair": {"name": "k", "public_key": "ssh-rsa AAAA", "fingerprint": "aa:bb", "user_id": "u", "type": "ssh"}}`

	require.NoError(t, validate(t, "CreateKeypair", "2.1", http.StatusOK, legacy))
	require.ErrorIs(t, validate(t, "CreateKeypair", "2.2", http.StatusOK, typed), schema.ErrInvalidStatus)
	require.NoError(t, validate(t, "CreateKeypair", "2.2", http.StatusCreated, typed))

	generated := `{"keypair": {"name": "k", "public_key": "ssh-rsa AAAA", "fingerprint": "aa:bb", "user_id": "u", "type": "ssh", "private_key": "-----BEGIN"}}`

	require.NoError(t, validate(t, "CreateKeypair", "2.91", http.StatusCreated, generated))
	require.ErrorIs(t, validate(t, "CreateKeypair", "2.92", http.StatusCreated, generated), schema.ErrInvalidBody)
}

func TestFlavorSwap(t *testing.T) {
	t.Parallel()

	flavor := `{"flavor": {"id": "1", "name": "m1.tiny", "ram": 512, "disk": 1, "vcpus": 1, "swap": "",
		"OS-FLV-EXT-DATA:ephemeral": 0, "OS-FLV-DISABLED:disabled": false, "os-flavor-access:is_public": true,
		"rxtx_factor":               1.0, "links": [], "description": null}}`

	require.NoError(t, validate(t, "ShowFlavor", "2.74", http.StatusOK, flavor))
	require.ErrorIs(t, validate(t, "ShowFlavor", "2.75", http.StatusOK, flavor), schema.ErrInvalidBody)
}

func TestDeleteServer(t *testing.T) {
	t.Parallel()

	require.NoError(t, validate(t, "DeleteServer", "2.1", http.StatusNoContent, ""))
	require.ErrorIs(t, validate(t, "DeleteServer", "2.1", http.StatusNoContent, `{"server": {}}`), schema.ErrInvalidBody)
}
