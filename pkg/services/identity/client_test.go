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

package identity_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/openstack/tempest-sub006/pkg/rest"
	"github.com/openstack/tempest-sub006/pkg/schema"
	"github.com/openstack/tempest-sub006/pkg/schemas"
	"github.com/openstack/tempest-sub006/pkg/server"
	"github.com/openstack/tempest-sub006/pkg/server/handler"
	"github.com/openstack/tempest-sub006/pkg/services/identity"

	"k8s.io/utils/ptr"
)

func token() map[string]any {
	domain := map[string]any{"id": "default", "name": "Default"}

	return map[string]any{
		"token": map[string]any{
			"methods":    []any{"password"},
			"user":       map[string]any{"id": "ee4dfb6e5540447cb3741905149d9b6e", "name": "admin", "domain": domain, "password_expires_at": nil},
			"expires_at": "2025-06-10T20:55:16.806001Z",
			"issued_at":  "2025-06-10T19:55:16.806001Z",
			"audit_ids":  []any{"3T2dc1CGQxyJsHdDu1xkcw"},
			"project":    map[string]any{"id": "a6944d763bf64ee6a275f1263fae0352", "name": "admin", "domain": domain},
			"catalog": []any{
				map[string]any{
					"id":   "1",
					"type": "compute",
					"name": "nova",
					"endpoints": []any{
						map[string]any{"id": "a", "interface": "internal", "region": "RegionOne", "url": "http://internal:8774/v2.1"},
						map[string]any{"id": "b", "interface": "public", "region": "RegionOne", "url": "http://public:8774/v2.1"},
					},
				},
			},
		},
	}
}

func subject(value string) http.Header {
	return http.Header{"X-Subject-Token": []string{value}}
}

func fixture(t *testing.T, token string) (*identity.Client, *server.Server) {
	t.Helper()

	registry, err := schemas.Lookup("identity")
	require.NoError(t, err)

	s := server.New(registry, handler.Options{})

	ts := httptest.NewServer(s)
	t.Cleanup(ts.Close)

	client, err := rest.New(rest.Options{
		BaseURL: ts.URL,
		Token:   token,
	})
	require.NoError(t, err)

	return identity.NewClient(client), s
}

func TestIssueToken(t *testing.T) {
	t.Parallel()

	client, s := fixture(t, "")

	s.Handler.Stub("IssueToken", handler.Stub{
		Status: http.StatusCreated,
		Header: subject("gAAAAABoSIxk"),
		Body:   token(),
	})

	issued, _, err := client.IssueToken(t.Context(), &identity.PasswordCredentials{
		Username:      "admin",
		Password:      "secret",
		UserDomain:    "Default",
		ProjectName:   "admin",
		ProjectDomain: "Default",
	})
	require.NoError(t, err)
	require.Equal(t, "gAAAAABoSIxk", issued.ID)
	require.Equal(t, []string{"password"}, issued.Methods)

	url, ok := issued.Endpoint("compute", "public", "RegionOne")
	require.True(t, ok)
	require.Equal(t, "http://public:8774/v2.1", url)

	_, ok = issued.Endpoint("volumev3", "public", "")
	require.False(t, ok)

	request, ok := s.Handler.LastRequest("IssueToken")
	require.True(t, ok)
	require.Empty(t, request.Header.Get(rest.AuthTokenHeader))
	require.JSONEq(t, `{
		"auth": {
			"identity": {
				"methods":  ["password"],
				"password": {"user": {"name": "admin", "domain": {"name": "Default"}, "password": "secret"}}
			},
			"scope": {"project": {"name": "admin", "domain": {"name": "Default"}}}
		}
	}`, string(request.Body))
}

func TestIssueTokenRequiresSubjectToken(t *testing.T) {
	t.Parallel()

	client, s := fixture(t, "")

	s.Handler.Stub("IssueToken", handler.Stub{
		Status: http.StatusCreated,
		Body:   token(),
	})

	_, _, err := client.IssueToken(t.Context(), &identity.PasswordCredentials{
		Username: "admin",
		Password: "secret",
	})

	var target *schema.InvalidHTTPResponseHeader
	require.ErrorAs(t, err, &target)
	require.Equal(t, "header[X-Subject-Token]", target.Field.Field)
}

func TestValidateAndRevokeToken(t *testing.T) {
	t.Parallel()

	client, s := fixture(t, "admin-token")

	s.Handler.Stub("ValidateToken", handler.Stub{
		Header: subject("user-token"),
		Body:   token(),
	})
	s.Handler.Stub("RevokeToken", handler.Stub{
		Status: http.StatusNoContent,
	})

	validated, _, err := client.ValidateToken(t.Context(), "user-token")
	require.NoError(t, err)
	require.Equal(t, "user-token", validated.ID)

	_, err = client.RevokeToken(t.Context(), "user-token")
	require.NoError(t, err)

	request, ok := s.Handler.LastRequest("RevokeToken")
	require.True(t, ok)
	require.Equal(t, "admin-token", request.Header.Get(rest.AuthTokenHeader))
	require.Equal(t, "user-token", request.Header.Get("X-Subject-Token"))
}

func TestListProjects(t *testing.T) {
	t.Parallel()

	client, s := fixture(t, "admin-token")

	s.Handler.Stub("ListProjects", handler.Stub{
		Body: map[string]any{
			"projects": []any{
				map[string]any{
					"id":        "a6944d763bf64ee6a275f1263fae0352",
					"name":      "admin",
					"domain_id": "default",
					"enabled":   true,
					"links":     map[string]any{"self": "http://keystone/v3/projects/a6944d763bf64ee6a275f1263fae0352"},
				},
			},
			"links": map[string]any{"self": "http://keystone/v3/projects", "next": nil, "previous": nil},
		},
	})

	_, err := client.ListProjects(t.Context(), ptr.To("admin"))
	require.NoError(t, err)

	request, ok := s.Handler.LastRequest("ListProjects")
	require.True(t, ok)
	require.Equal(t, "admin", request.Query.Get("name"))
}

func TestShowUserForbidden(t *testing.T) {
	t.Parallel()

	client, s := fixture(t, "member-token")

	s.Handler.Stub("ShowUser", handler.Stub{
		Status: http.StatusForbidden,
		Body:   map[string]any{"error": map[string]any{"code": 403, "message": "You are not authorized.", "title": "Forbidden"}},
	})

	_, err := client.ShowUser(t.Context(), "ee4dfb6e5540447cb3741905149d9b6e")
	require.ErrorIs(t, err, rest.ErrForbidden)
	require.ErrorContains(t, err, "You are not authorized.")
}
