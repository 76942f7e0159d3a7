// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package github

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/go-github/v60/github"
	"github.com/rs/zerolog"
	"github.com/walteh/regexrules/pkg/provider"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/oauth2"
)

func init() {
	provider.Register(provider.SchemeGitHub, New)
}

// 🎯 Provider reads rule files from GitHub repositories
type Provider struct {
	client *github.Client
}

// 🏭 New creates a GitHub provider. GITHUB_TOKEN is used when set, which
// also gives access to private repositories.
func New(ctx context.Context) (provider.Provider, error) {
	logger := zerolog.Ctx(ctx)

	token := os.Getenv("GITHUB_TOKEN")
	if token == "" {
		logger.Debug().Msg("GITHUB_TOKEN not set, using unauthenticated client")
		return NewWithClient(github.NewClient(nil)), nil
	}

	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	return NewWithClient(github.NewClient(oauth2.NewClient(ctx, ts))), nil
}

// NewWithClient wraps an existing client
func NewWithClient(client *github.Client) *Provider {
	return &Provider{client: client}
}

// 🔍 GetFile retrieves a single file's contents
func (p *Provider) GetFile(ctx context.Context, src provider.Source) (io.ReadCloser, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("source", src.String()).Msg("fetching rules from github")

	var opts *github.RepositoryContentGetOptions
	if src.Ref != "" {
		opts = &github.RepositoryContentGetOptions{Ref: src.Ref}
	}

	content, _, _, err := p.client.Repositories.GetContents(ctx, src.Owner, src.Repo, src.Path, opts)
	if err != nil {
		return nil, errors.Errorf("getting file content: %w", err)
	}
	if content == nil {
		return nil, errors.Errorf("%s is a directory, not a file", src.Path)
	}

	data, err := content.GetContent()
	if err != nil {
		return nil, errors.Errorf("decoding content: %w", err)
	}

	return io.NopCloser(strings.NewReader(data)), nil
}

// 🔗 GetPermalink returns a link to the file on github.com
func (p *Provider) GetPermalink(ctx context.Context, src provider.Source) (string, error) {
	ref := src.Ref
	if ref == "" {
		ref = "HEAD"
	}
	return fmt.Sprintf("https://github.com/%s/%s/blob/%s/%s", src.Owner, src.Repo, ref, src.Path), nil
}
