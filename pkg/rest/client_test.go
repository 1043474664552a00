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

package rest_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/openstack/tempest-sub006/pkg/microversion"
	"github.com/openstack/tempest-sub006/pkg/rest"
	"github.com/openstack/tempest-sub006/pkg/rest/mock"
	"github.com/openstack/tempest-sub006/pkg/schema"

	"k8s.io/utils/ptr"
)

const (
	baseURL = "http://compute.example.com/v2.1/"
	token   = "gAAAAABk"
)

var errConnectionRefused = errors.New("connection refused")

func response(status int, header http.Header, body string) *http.Response {
	if header == nil {
		header = http.Header{}
	}

	return &http.Response{
		StatusCode: status,
		Header:     header,
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func newClient(t *testing.T, doer rest.Doer, version string) *rest.Client {
	t.Helper()

	client, err := rest.New(rest.Options{
		BaseURL:      baseURL,
		Token:        token,
		Microversion: version,
		Service:      microversion.Compute,
		Doer:         doer,
	})
	require.NoError(t, err)

	return client
}

func showServer() *schema.Operation {
	entry := schema.NewEntry(http.StatusOK).WithBody(schema.NewClosedObject(schema.Properties{
		"server": schema.NewObject(schema.Properties{
			"id": schema.String(),
		}, "id"),
	}, "server"))

	return &schema.Operation{
		Name:   "ShowServer",
		Method: http.MethodGet,
		Path:   "/servers/{server_id}",
		Table: schema.Table{
			{Max: "2.2", Schema: entry},
			{Min: "2.3", Max: "2.50", Schema: entry.WithBody(schema.NewClosedObject(schema.Properties{
				"server": schema.NewObject(schema.Properties{
					"id":     schema.String(),
					"locked": schema.Boolean(),
				}, "id", "locked"),
			}, "server"))},
		},
	}
}

func TestNewValidatesOptions(t *testing.T) {
	t.Parallel()

	_, err := rest.New(rest.Options{BaseURL: "/relative"})
	require.ErrorIs(t, err, rest.ErrInvalidOptions)

	_, err = rest.New(rest.Options{BaseURL: baseURL, Microversion: "2"})
	require.ErrorIs(t, err, rest.ErrInvalidOptions)

	client, err := rest.New(rest.Options{BaseURL: baseURL, Microversion: "2.10"})
	require.NoError(t, err)
	require.Equal(t, "2.10", client.Microversion())
	require.Equal(t, "2.20", client.WithMicroversion("2.20").Microversion())
	require.Equal(t, "2.10", client.Microversion())
}

func TestDoSetsHeaders(t *testing.T) {
	t.Parallel()

	c := gomock.NewController(t)
	defer c.Finish()

	doer := mock.NewMockDoer(c)
	doer.EXPECT().Do(gomock.Any()).DoAndReturn(func(req *http.Request) (*http.Response, error) {
		require.Equal(t, http.MethodPost, req.Method)
		require.Equal(t, "http://compute.example.com/v2.1/servers?limit=10", req.URL.String())
		require.Equal(t, token, req.Header.Get(rest.AuthTokenHeader))
		require.Equal(t, "compute 2.26", req.Header.Get(microversion.HeaderName))
		require.Equal(t, "2.26", req.Header.Get("X-OpenStack-Nova-API-Version"))
		require.Equal(t, "application/json", req.Header.Get("Content-Type"))
		require.Equal(t, "application/json", req.Header.Get("Accept"))
		require.Equal(t, rest.DefaultUserAgent, req.Header.Get("User-Agent"))
		require.Regexp(t, `^00-[0-9a-f]{32}-[0-9a-f]{16}-01$`, req.Header.Get("Traceparent"))
		require.Equal(t, "yes", req.Header.Get("X-Extra"))

		data, err := io.ReadAll(req.Body)
		require.NoError(t, err)
		require.JSONEq(t, `{"server": {"name": "demo"}}`, string(data))

		header := http.Header{}
		header.Set(microversion.HeaderName, "compute 2.26")

		return response(http.StatusAccepted, header, `{"server": {"id": "abc"}}`), nil
	})

	client := newClient(t, doer, "2.26")

	resp, err := client.Do(t.Context(), rest.Request{
		Method: http.MethodPost,
		Path:   "/servers",
		Query:  url.Values{"limit": []string{"10"}},
		Body:   map[string]any{"server": map[string]any{"name": "demo"}},
		Header: http.Header{"X-Extra": []string{"yes"}},
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusAccepted, resp.StatusCode)
	require.Equal(t, "2.26", resp.Microversion)
	require.Len(t, resp.TraceID, 32)
	require.Equal(t, map[string]any{"server": map[string]any{"id": "abc"}}, resp.Body)

	var typed struct {
		Server struct {
			ID string `json:"id"`
		} `json:"server"`
	}

	require.NoError(t, resp.Into(&typed))
	require.Equal(t, "abc", typed.Server.ID)
}

func TestDoNullMicroversionSendsNoHeader(t *testing.T) {
	t.Parallel()

	c := gomock.NewController(t)
	defer c.Finish()

	doer := mock.NewMockDoer(c)
	doer.EXPECT().Do(gomock.Any()).DoAndReturn(func(req *http.Request) (*http.Response, error) {
		require.Empty(t, req.Header.Get(microversion.HeaderName))
		require.Empty(t, req.Header.Get("X-OpenStack-Nova-API-Version"))
		require.Empty(t, req.Header.Get("Content-Type"))

		return response(http.StatusNoContent, nil, ""), nil
	})

	resp, err := newClient(t, doer, "").Do(t.Context(), rest.Request{Method: http.MethodDelete, Path: "/servers/abc"})
	require.NoError(t, err)
	require.Nil(t, resp.Body)
}

func TestDoErrorStatuses(t *testing.T) {
	t.Parallel()

	cases := map[int]error{
		http.StatusBadRequest:            rest.ErrBadRequest,
		http.StatusUnauthorized:          rest.ErrUnauthorized,
		http.StatusForbidden:             rest.ErrForbidden,
		http.StatusNotFound:              rest.ErrNotFound,
		http.StatusConflict:              rest.ErrConflict,
		http.StatusGone:                  rest.ErrGone,
		http.StatusRequestEntityTooLarge: rest.ErrOverLimit,
		http.StatusUnsupportedMediaType:  rest.ErrInvalidContentType,
		http.StatusUnprocessableEntity:   rest.ErrUnprocessableEntity,
		http.StatusInternalServerError:   rest.ErrServerFault,
		http.StatusNotImplemented:        rest.ErrNotImplemented,
		http.StatusServiceUnavailable:    rest.ErrUnexpectedResponse,
	}

	for status, expected := range cases {
		c := gomock.NewController(t)

		doer := mock.NewMockDoer(c)
		doer.EXPECT().Do(gomock.Any()).Return(response(status, nil, `{"itemNotFound": {"code": 404, "message": "Instance abc could not be found."}}`), nil)

		resp, err := newClient(t, doer, "").Do(t.Context(), rest.Request{Method: http.MethodGet, Path: "/servers/abc"})
		require.ErrorIs(t, err, expected, status)
		require.NotNil(t, resp)
		require.Equal(t, status, resp.StatusCode)

		var unexpected *rest.UnexpectedResponseError

		require.ErrorAs(t, err, &unexpected)
		require.Equal(t, "Instance abc could not be found.", unexpected.Message)
		require.Equal(t, resp.TraceID, unexpected.TraceID)

		c.Finish()
	}
}

func TestFaultMessages(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		`{"error": {"code": 401, "message": "The request you have made requires authentication.", "title": "Unauthorized"}}`: "The request you have made requires authentication.",
		`{"errors": [{"status": 404, "title": "Not Found", "detail": "No resource provider with uuid abc found"}]}`:        "No resource provider with uuid abc found",
		`{"message": "Image abc not found"}`: "Image abc not found",
		`<html>Bad Gateway</html>`:           "",
	}

	for body, expected := range cases {
		err := rest.ExtractError(http.MethodGet, "/", http.StatusNotFound, []byte(body), "")
		require.Equal(t, expected, err.Message, body)
	}
}

func TestDoTransportError(t *testing.T) {
	t.Parallel()

	c := gomock.NewController(t)
	defer c.Finish()

	doer := mock.NewMockDoer(c)
	doer.EXPECT().Do(gomock.Any()).Return(nil, errConnectionRefused)

	_, err := newClient(t, doer, "").Do(t.Context(), rest.Request{Method: http.MethodGet, Path: "/servers"})
	require.ErrorIs(t, err, errConnectionRefused)
}

func TestDoInvalidJSON(t *testing.T) {
	t.Parallel()

	c := gomock.NewController(t)
	defer c.Finish()

	doer := mock.NewMockDoer(c)
	doer.EXPECT().Do(gomock.Any()).Return(response(http.StatusOK, nil, `{"servers": [`), nil)

	_, err := newClient(t, doer, "").Do(t.Context(), rest.Request{Method: http.MethodGet, Path: "/servers"})
	require.ErrorIs(t, err, schema.ErrInvalidBody)

	var invalid *schema.InvalidHTTPResponseBody

	require.ErrorAs(t, err, &invalid)
	require.Equal(t, "body", invalid.Field.Field)
}

func TestInvokeChecksStatusBeforeBody(t *testing.T) {
	t.Parallel()

	c := gomock.NewController(t)
	defer c.Finish()

	doer := mock.NewMockDoer(c)
	doer.EXPECT().Do(gomock.Any()).Return(response(http.StatusMultipleChoices, nil, `<html>moved</html>`), nil)

	_, err := newClient(t, doer, "2.1").Invoke(t.Context(), showServer(), rest.Request{
		Params: map[string]string{"server_id": "x"},
	})

	var invalid *schema.InvalidHTTPResponseStatus

	require.ErrorAs(t, err, &invalid)
	require.Equal(t, http.StatusMultipleChoices, invalid.Actual)
	require.Equal(t, []int{http.StatusOK}, invalid.Expected)
	require.NotErrorIs(t, err, schema.ErrInvalidBody)
}

func TestInvokeRejectsInvalidJSON(t *testing.T) {
	t.Parallel()

	c := gomock.NewController(t)
	defer c.Finish()

	header := http.Header{}
	header.Set(microversion.HeaderName, "compute 2.1")

	doer := mock.NewMockDoer(c)
	doer.EXPECT().Do(gomock.Any()).Return(response(http.StatusOK, header, `<html>oops</html>`), nil)

	resp, err := newClient(t, doer, "2.1").Invoke(t.Context(), showServer(), rest.Request{
		Params: map[string]string{"server_id": "x"},
	})
	require.NotNil(t, resp)
	require.Nil(t, resp.Body)

	var invalid *schema.InvalidHTTPResponseBody

	require.ErrorAs(t, err, &invalid)
	require.Equal(t, "body", invalid.Field.Field)
	require.Equal(t, "<html>oops</html>", invalid.Field.BadValue)
}

func TestInvoke(t *testing.T) {
	t.Parallel()

	c := gomock.NewController(t)
	defer c.Finish()

	doer := mock.NewMockDoer(c)
	doer.EXPECT().Do(gomock.Any()).DoAndReturn(func(req *http.Request) (*http.Response, error) {
		require.Equal(t, http.MethodGet, req.Method)
		require.Equal(t, "/v2.1/servers/a%2Fb", req.URL.EscapedPath())

		header := http.Header{}
		header.Set(microversion.HeaderName, "compute 2.3")

		return response(http.StatusOK, header, `{"server": {"id": "a/b", "locked": false}}`), nil
	})

	resp, err := newClient(t, doer, "2.3").Invoke(t.Context(), showServer(), rest.Request{
		Params: map[string]string{"server_id": "a/b"},
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestInvokeRejectsSchemaViolation(t *testing.T) {
	t.Parallel()

	c := gomock.NewController(t)
	defer c.Finish()

	doer := mock.NewMockDoer(c)
	doer.EXPECT().Do(gomock.Any()).DoAndReturn(func(_ *http.Request) (*http.Response, error) {
		header := http.Header{}
		header.Set(microversion.HeaderName, "compute 2.3")

		// locked is missing.
		return response(http.StatusOK, header, `{"server": {"id": "abc"}}`), nil
	})

	_, err := newClient(t, doer, "2.3").Invoke(t.Context(), showServer(), rest.Request{
		Params: map[string]string{"server_id": "abc"},
	})
	require.ErrorIs(t, err, schema.ErrInvalidBody)
	require.ErrorContains(t, err, "body.server.locked")
}

func TestInvokeRejectsMicroversionMismatch(t *testing.T) {
	t.Parallel()

	c := gomock.NewController(t)
	defer c.Finish()

	doer := mock.NewMockDoer(c)
	doer.EXPECT().Do(gomock.Any()).DoAndReturn(func(_ *http.Request) (*http.Response, error) {
		header := http.Header{}
		header.Set(microversion.HeaderName, "compute 2.1")

		return response(http.StatusOK, header, `{"server": {"id": "abc", "locked": true}}`), nil
	})

	_, err := newClient(t, doer, "2.3").Invoke(t.Context(), showServer(), rest.Request{
		Params: map[string]string{"server_id": "abc"},
	})
	require.ErrorIs(t, err, microversion.ErrHeaderMismatch)
}

func TestInvokeUnsupportedMicroversionSendsNothing(t *testing.T) {
	t.Parallel()

	c := gomock.NewController(t)
	defer c.Finish()

	// No expectations, any request fails the test.
	doer := mock.NewMockDoer(c)

	_, err := newClient(t, doer, "2.51").Invoke(t.Context(), showServer(), rest.Request{
		Params: map[string]string{"server_id": "abc"},
	})
	require.ErrorIs(t, err, schema.ErrSchemaNotFound)

	_, err = newClient(t, doer, "2.3").Invoke(t.Context(), showServer(), rest.Request{})
	require.ErrorIs(t, err, rest.ErrMissingParameter)
}

func TestExpand(t *testing.T) {
	t.Parallel()

	path, err := rest.Expand("/servers/{server_id}/tags/{tag}", map[string]string{
		"server_id": "abc",
		"tag":       "a b",
	})
	require.NoError(t, err)
	require.Equal(t, "/servers/abc/tags/a%20b", path)

	_, err = rest.Expand("/servers/{server_id}", nil)
	require.ErrorIs(t, err, rest.ErrMissingParameter)

	_, err = rest.Expand("/servers/{server_id", map[string]string{"server_id": "abc"})
	require.ErrorIs(t, err, rest.ErrMissingParameter)
}

func TestAddQuery(t *testing.T) {
	t.Parallel()

	values := url.Values{}

	require.NoError(t, rest.AddQuery(values, "limit", ptr.To(10)))
	require.NoError(t, rest.AddQuery(values, "marker", (*string)(nil)))
	require.NoError(t, rest.AddQuery(values, "tags", []string{"a", "b"}))
	require.NoError(t, rest.AddQuery(values, "all_tenants", ptr.To(true)))
	require.NoError(t, rest.AddQuery(values, "status", "ACTIVE"))
	require.NoError(t, rest.AddQuery(values, "changes-since", nil))

	require.Equal(t, url.Values{
		"limit":       []string{"10"},
		"tags":        []string{"a", "b"},
		"all_tenants": []string{"true"},
		"status":      []string{"ACTIVE"},
	}, values)
}

func TestContextCancellation(t *testing.T) {
	t.Parallel()

	c := gomock.NewController(t)
	defer c.Finish()

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	doer := mock.NewMockDoer(c)
	doer.EXPECT().Do(gomock.Any()).DoAndReturn(func(req *http.Request) (*http.Response, error) {
		return nil, req.Context().Err()
	})

	_, err := newClient(t, doer, "").Do(ctx, rest.Request{Method: http.MethodGet, Path: "/servers"})
	require.ErrorIs(t, err, context.Canceled)
}
