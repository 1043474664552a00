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
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/openstack/tempest-sub006/pkg/microversion"
	"github.com/openstack/tempest-sub006/pkg/schema"

	"sigs.k8s.io/controller-runtime/pkg/log"
)

const (
	// DefaultTimeout applies when no timeout is configured.
	DefaultTimeout = 60 * time.Second

	// DefaultUserAgent identifies the client to services.
	DefaultUserAgent = "tempest-go"

	// AuthTokenHeader carries the identity token.
	AuthTokenHeader = "X-Auth-Token"
)

// Options configures a client.
type Options struct {
	// BaseURL is the service endpoint, e.g. http://host/compute/v2.1.
	BaseURL string
	// Token is sent as X-Auth-Token when set.
	Token string
	// Microversion is requested from services that take them, empty
	// meaning the service default.
	Microversion string
	// Service describes the microversion headers of the service.
	Service microversion.Service
	// Timeout bounds each request, including reading the body.
	Timeout time.Duration
	// Doer performs requests, defaulting to an *http.Client.
	Doer Doer
	// UserAgent overrides DefaultUserAgent.
	UserAgent string
	// LogRequests logs every request and its status.
	LogRequests bool
	// LogResponses logs response bodies.
	LogResponses bool
}

// Client talks to one service endpoint at one microversion.
type Client struct {
	baseURL string
	options Options
	doer    Doer
}

// New returns a new client.
func New(options Options) (*Client, error) {
	u, err := url.Parse(options.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: base URL: %w", ErrInvalidOptions, err)
	}

	if !u.IsAbs() || u.Host == "" {
		return nil, fmt.Errorf("%w: base URL %q must be absolute", ErrInvalidOptions, options.BaseURL)
	}

	if options.Microversion != "" {
		if _, err := microversion.Parse(options.Microversion); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidOptions, err)
		}
	}

	if options.Timeout == 0 {
		options.Timeout = DefaultTimeout
	}

	if options.UserAgent == "" {
		options.UserAgent = DefaultUserAgent
	}

	doer := options.Doer
	if doer == nil {
		doer = &http.Client{
			Timeout: options.Timeout,
		}
	}

	return &Client{
		baseURL: strings.TrimSuffix(options.BaseURL, "/"),
		options: options,
		doer:    doer,
	}, nil
}

// WithMicroversion returns a copy of the client requesting another microversion.
func (c *Client) WithMicroversion(version string) *Client {
	clone := *c
	clone.options.Microversion = version

	return &clone
}

// WithToken returns a copy of the client authenticating with another token.
func (c *Client) WithToken(token string) *Client {
	clone := *c
	clone.options.Token = token

	return &clone
}

// Microversion returns the requested microversion.
func (c *Client) Microversion() string {
	return c.options.Microversion
}

// Service returns the microversion header family.
func (c *Client) Service() microversion.Service {
	return c.options.Service
}

// Request is a single API call.
type Request struct {
	// Method is the HTTP method, defaulting to the operation's.
	Method string
	// Path is relative to the base URL, defaulting to the operation's path
	// template expanded with Params.
	Path string
	// Params fill in the path template.
	Params map[string]string
	// Query is appended to the URL.
	Query url.Values
	// Body is encoded as JSON when not nil.
	Body any
	// Header adds request headers.
	Header http.Header
}

// Response is a completed API call.
type Response struct {
	StatusCode int
	Header     http.Header
	// Raw is the undecoded body.
	Raw []byte
	// Body is the decoded body with numbers as json.Number, nil when empty.
	Body any
	// Microversion is what the service responded with, if anything.
	Microversion string
	// TraceID locates the request in service logs.
	TraceID string
}

// Into decodes the body into a typed value.
func (r *Response) Into(v any) error {
	if err := json.Unmarshal(r.Raw, v); err != nil {
		return fmt.Errorf("decoding response body: %w", err)
	}

	return nil
}

// send performs a request without decoding the body.
//
//nolint:cyclop
func (c *Client) send(ctx context.Context, r Request) (*Response, error) {
	log := log.FromContext(ctx)

	fullURL := c.baseURL + r.Path
	if len(r.Query) != 0 {
		fullURL += "?" + r.Query.Encode()
	}

	var body io.Reader

	if r.Body != nil {
		data, err := json.Marshal(r.Body)
		if err != nil {
			return nil, fmt.Errorf("marshaling request body: %w", err)
		}

		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, r.Method, fullURL, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	for name, values := range r.Header {
		for _, value := range values {
			req.Header.Add(name, value)
		}
	}

	traceParent := newTraceParent()
	req.Header.Set("Traceparent", traceParent)
	req.Header.Set("Tracestate", "tempest=go")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.options.UserAgent)

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if c.options.Token != "" {
		req.Header.Set(AuthTokenHeader, c.options.Token)
	}

	c.options.Service.SetHeaders(req.Header, c.options.Microversion)

	log = log.WithValues("method", r.Method, "path", r.Path, "traceID", traceID(traceParent))

	start := time.Now()
	resp, err := c.doer.Do(req)
	duration := time.Since(start)

	if err != nil {
		log.Error(err, "http request failed", "duration", duration)
		return nil, fmt.Errorf("http request failed: %w", err)
	}

	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Error(err, "reading response body", "status", resp.StatusCode, "duration", duration)
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	if c.options.LogRequests {
		log.Info("request complete", "status", resp.StatusCode, "duration", duration)
	}

	if c.options.LogResponses && len(raw) > 0 {
		log.Info("response body", "body", string(raw))
	}

	response := &Response{
		StatusCode:   resp.StatusCode,
		Header:       resp.Header,
		Raw:          raw,
		Microversion: c.options.Service.ResponseVersion(resp.Header),
		TraceID:      traceID(traceParent),
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return response, ExtractError(r.Method, r.Path, resp.StatusCode, raw, response.TraceID)
	}

	return response, nil
}

// decode fills in the decoded body.  HEAD responses describe a body they do
// not carry.
func decode(r Request, response *Response) error {
	if r.Method == http.MethodHead {
		return nil
	}

	body, err := schema.DecodeBody(response.Raw)
	if err != nil {
		return fmt.Errorf("%s %s: %w", r.Method, r.Path, err)
	}

	response.Body = body

	return nil
}

// Do performs a request.  Statuses of 400 and above are returned as an
// *UnexpectedResponseError along with the response, a body that is not JSON
// as an *schema.InvalidHTTPResponseBody.
func (c *Client) Do(ctx context.Context, r Request) (*Response, error) {
	response, err := c.send(ctx, r)
	if err != nil {
		return response, err
	}

	if err := decode(r, response); err != nil {
		return response, err
	}

	return response, nil
}

// Invoke performs a registered operation and checks the response against the
// contract in force at the client's microversion.  The contract is resolved
// before anything is sent, so a microversion the operation does not support
// fails fast.
func (c *Client) Invoke(ctx context.Context, op *schema.Operation, r Request) (*Response, error) {
	entry, err := op.Resolve(c.options.Microversion)
	if err != nil {
		return nil, err
	}

	if r.Method == "" {
		r.Method = op.Method
	}

	if r.Path == "" {
		path, err := Expand(op.Path, r.Params)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op.Name, err)
		}

		r.Path = path
	}

	response, err := c.send(ctx, r)
	if err != nil {
		return response, err
	}

	// The status is judged before the body is even decoded.
	if err := schema.ValidateRawResponse(entry, response.StatusCode, response.Raw, response.Header); err != nil {
		log.FromContext(ctx).Info("response violates schema", "operation", op.Name, "microversion", c.options.Microversion, "traceID", response.TraceID, "error", err.Error())

		return response, fmt.Errorf("%s: %w", op.Name, err)
	}

	if err := microversion.AssertHeaderMatchesRequest(c.options.Service, c.options.Microversion, response.Header); err != nil {
		return response, fmt.Errorf("%s: %w", op.Name, err)
	}

	if err := decode(r, response); err != nil {
		return response, fmt.Errorf("%s: %w", op.Name, err)
	}

	return response, nil
}
