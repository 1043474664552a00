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

package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/pflag"

	"github.com/openstack/tempest-sub006/pkg/constants"
	"github.com/openstack/tempest-sub006/pkg/openapi"
	"github.com/openstack/tempest-sub006/pkg/schema"
	"github.com/openstack/tempest-sub006/pkg/schemas"

	cr "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/log"
	"sigs.k8s.io/controller-runtime/pkg/log/zap"
)

var (
	// ErrUsage is raised for bad flag combinations.
	ErrUsage = errors.New("usage error")

	// ErrViolation is raised when a captured response breaks its contract.
	ErrViolation = errors.New("response violates contract")
)

type options struct {
	service      string
	operation    string
	microversion string
	openapi      bool
	list         bool
	validate     string
	status       int
	headers      []string
}

func (o *options) addFlags(f *pflag.FlagSet) {
	f.StringVar(&o.service, "service", "", "Service type, e.g. compute")
	f.StringVar(&o.operation, "operation", "", "Operation name, e.g. ShowServer")
	f.StringVar(&o.microversion, "microversion", "", "Microversion to resolve, empty for the base version")
	f.BoolVar(&o.openapi, "openapi", false, "Print the service as an OpenAPI document")
	f.BoolVar(&o.list, "list", false, "List operations and their microversion ranges")
	f.StringVar(&o.validate, "validate", "", "Validate a captured response body read from a file, - for stdin")
	f.IntVar(&o.status, "status", http.StatusOK, "Status code of the captured response")
	f.StringArrayVar(&o.headers, "header", nil, "Header of the captured response as Name: value, may be repeated")
}

func main() {
	var o options

	o.addFlags(pflag.CommandLine)

	zapOptions := zap.Options{}

	goflags := flag.NewFlagSet("logging", flag.ExitOnError)
	zapOptions.BindFlags(goflags)
	pflag.CommandLine.AddGoFlagSet(goflags)

	pflag.Parse()

	log.SetLogger(zap.New(zap.UseFlagOptions(&zapOptions)))

	logger := log.Log.WithName("init")
	logger.V(1).Info("starting", "application", constants.Application, "version", constants.Version, "revision", constants.Revision)

	ctx := cr.SetupSignalHandler()

	if err := run(ctx, &o, os.Stdin, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)

		if errors.Is(err, ErrUsage) {
			pflag.Usage()
		}

		os.Exit(1)
	}
}

func run(ctx context.Context, o *options, stdin io.Reader, stdout io.Writer) error {
	switch {
	case o.list:
		return list(o, stdout)
	case o.service == "":
		return fmt.Errorf("%w: --service is required", ErrUsage)
	case o.openapi:
		return document(ctx, o, stdout)
	case o.operation == "":
		return fmt.Errorf("%w: --operation is required", ErrUsage)
	case o.validate != "":
		return validate(o, stdin, stdout)
	}

	return show(o, stdout)
}

func registries(o *options) ([]*schemas.Registry, error) {
	if o.service == "" {
		return schemas.All(), nil
	}

	registry, err := schemas.Lookup(o.service)
	if err != nil {
		return nil, err
	}

	return []*schemas.Registry{registry}, nil
}

func list(o *options, stdout io.Writer) error {
	rs, err := registries(o)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(stdout, 0, 8, 2, ' ', 0)

	fmt.Fprintln(w, "SERVICE\tOPERATION\tMETHOD\tPATH\tMICROVERSIONS")

	for _, r := range rs {
		for _, op := range r.Operations {
			ranges := make([]string, len(op.Table))
			for i, vr := range op.Table {
				ranges[i] = vr.String()
			}

			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", r.Name, op.Name, op.Method, op.Path, strings.Join(ranges, " "))
		}
	}

	return w.Flush()
}

func resolve(o *options) (*schema.Entry, error) {
	registry, err := schemas.Lookup(o.service)
	if err != nil {
		return nil, err
	}

	op, err := registry.Operation(o.operation)
	if err != nil {
		return nil, err
	}

	return op.Resolve(o.microversion)
}

// contract is the printable form of an entry.
type contract struct {
	StatusCodes     []int                     `json:"status_codes"`
	Body            map[string]any            `json:"body,omitempty"`
	Headers         map[string]map[string]any `json:"headers,omitempty"`
	RequiredHeaders []string                  `json:"required_headers,omitempty"`
}

func show(o *options, stdout io.Writer) error {
	entry, err := resolve(o)
	if err != nil {
		return err
	}

	c := contract{
		StatusCodes:     entry.StatusCodes(),
		RequiredHeaders: entry.RequiredHeaders(),
	}

	if body := entry.Body(); body != nil {
		c.Body = schema.ToJSONSchema(body)
	}

	if headers := entry.Headers(); len(headers) != 0 {
		c.Headers = make(map[string]map[string]any, len(headers))

		for name, n := range headers {
			c.Headers[name] = schema.ToJSONSchema(n)
		}
	}

	return writeJSON(stdout, c)
}

func document(ctx context.Context, o *options, stdout io.Writer) error {
	registry, err := schemas.Lookup(o.service)
	if err != nil {
		return err
	}

	doc, err := openapi.Document(registry.Name, registry.Operations, o.microversion)
	if err != nil {
		return err
	}

	if err := doc.Validate(ctx); err != nil {
		return err
	}

	return writeJSON(stdout, doc)
}

func validate(o *options, stdin io.Reader, stdout io.Writer) error {
	entry, err := resolve(o)
	if err != nil {
		return err
	}

	var raw []byte

	if o.validate == "-" {
		raw, err = io.ReadAll(stdin)
	} else {
		raw, err = os.ReadFile(o.validate)
	}

	if err != nil {
		return err
	}

	header := http.Header{}

	for _, h := range o.headers {
		name, value, ok := strings.Cut(h, ":")
		if !ok {
			return fmt.Errorf("%w: header %q must be Name: value", ErrUsage, h)
		}

		header.Add(strings.TrimSpace(name), strings.TrimSpace(value))
	}

	if err := schema.ValidateRawResponse(entry, o.status, raw, header); err != nil {
		if errors.Is(err, schema.ErrInvalidSchema) {
			return err
		}

		return fmt.Errorf("%w: %w", ErrViolation, err)
	}

	_, err = fmt.Fprintln(stdout, "ok")

	return err
}

func writeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	return encoder.Encode(v)
}
