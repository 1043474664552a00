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


//nolint:testpackage,revive // test package in suites is standard for these tests
package suites

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/openstack/tempest-sub006/pkg/rest"
	"github.com/openstack/tempest-sub006/pkg/services/identity"
)

var _ = Describe("Identity", func() {
	Context("When validating the suite's own token", func() {
		It("should return the token with its expiry", func(ctx context.Context) {
			token, response, err := clients.Identity().ValidateToken(ctx, options.Token)
			Expect(err).NotTo(HaveOccurred())
			Expect(token.ID).To(Equal(options.Token))
			Expect(token.ExpiresAt).NotTo(BeZero())
			GinkgoWriter.Printf("Token validated (trace %s)\n", response.TraceID)
		})
	})

	Context("When issuing and revoking a token", func() {
		It("should reject the revoked token", func(ctx context.Context) {
			if clients.Token == nil {
				Skip("Credentials are required to issue tokens")
			}

			client := clients.Identity()
			credentials := options.Credentials

			token, _, err := client.IssueToken(ctx, &identity.PasswordCredentials{
				Username:      credentials.Username,
				Password:      credentials.Password,
				UserDomain:    credentials.UserDomain,
				ProjectName:   credentials.ProjectName,
				ProjectDomain: credentials.ProjectDomain,
			})
			Expect(err).NotTo(HaveOccurred())

			_, err = client.RevokeToken(ctx, token.ID)
			Expect(err).NotTo(HaveOccurred())

			_, _, err = client.ValidateToken(ctx, token.ID)
			Expect(err).To(MatchError(rest.ErrNotFound))
		})
	})

	Context("When looking up the scoped project", func() {
		It("should list and show it", func(ctx context.Context) {
			if clients.Token == nil || clients.Token.Project == nil {
				Skip("A project scoped token is required")
			}

			client := clients.Identity()
			project := clients.Token.Project

			_, err := client.ShowProject(ctx, project.ID)
			if err != nil {
				// Listing and showing projects may be administrative.
				Expect(err).To(MatchError(rest.ErrForbidden))
				return
			}

			response, err := client.ListProjects(ctx, &project.Name)
			if err == nil {
				Expect(string(response.Raw)).To(ContainSubstring(project.ID))
			}
		})
	})

	Context("When authenticating with a bad token", func() {
		It("should return 401 Unauthorized", func(ctx context.Context) {
			_, _, err := clients.Identity().ValidateToken(ctx, "not-a-token")
			Expect(err).To(SatisfyAny(MatchError(rest.ErrNotFound), MatchError(rest.ErrUnauthorized)))
		})
	})
})
