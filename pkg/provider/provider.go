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
package provider

import (
	"context"
	"io"
	"net/http"
	"path"
	"strings"
	"sync"

	"gitlab.com/tozd/go/errors"
)

// 🔌 Provider fetches rule configuration files from a remote location
type Provider interface {
	// 📄 GetFile retrieves the file's contents
	GetFile(ctx context.Context, src Source) (io.ReadCloser, error)

	// 🔗 GetPermalink returns a browsable link to the file
	GetPermalink(ctx context.Context, src Source) (string, error)
}

// 🏭 Factory creates a new provider
type Factory func(ctx context.Context) (Provider, error)

var (
	mu sync.RWMutex

	// 🗺️ providers maps source schemes to factories
	providers = make(map[string]Factory)
)

// 📝 Register registers a provider factory for a scheme
func Register(scheme string, factory Factory) {
	mu.Lock()
	defer mu.Unlock()
	providers[scheme] = factory
}

// 🎯 Get creates the provider registered for scheme
func Get(ctx context.Context, scheme string) (Provider, error) {
	mu.RLock()
	factory, ok := providers[scheme]
	mu.RUnlock()
	if !ok {
		return nil, errors.Errorf("unknown provider: %s", scheme)
	}
	return factory(ctx)
}

// 📦 Source locates a remote configuration file.
//
//	github:<owner>/<repo>/<path>[@ref]
//	https://host/path/rules.yaml
type Source struct {
	Scheme string
	Owner  string
	Repo   string
	Path   string
	Ref    string
	URL    string
}

// String returns the source in the form it was written
func (s Source) String() string {
	if s.Scheme != SchemeGitHub {
		return s.URL
	}
	out := s.Scheme + ":" + s.Owner + "/" + s.Repo + "/" + s.Path
	if s.Ref != "" {
		out += "@" + s.Ref
	}
	return out
}

// Filename returns the base name of the remote file, used to pick a parser.
func (s Source) Filename() string {
	if s.Scheme == SchemeGitHub {
		return path.Base(s.Path)
	}
	u := s.URL
	if i := strings.IndexAny(u, "?#"); i >= 0 {
		u = u[:i]
	}
	return path.Base(u)
}

const (
	SchemeGitHub = "github"
	SchemeHTTPS  = "https"
)

// IsRemote reports whether s names a remote source rather than a local path.
func IsRemote(s string) bool {
	return strings.HasPrefix(s, SchemeGitHub+":") || strings.HasPrefix(s, "https://") || strings.HasPrefix(s, "http://")
}

// 🔍 ParseSource parses a remote source string
func ParseSource(s string) (Source, error) {
	switch {
	case strings.HasPrefix(s, "https://"), strings.HasPrefix(s, "http://"):
		return Source{Scheme: SchemeHTTPS, URL: s}, nil
	case strings.HasPrefix(s, SchemeGitHub+":"):
	default:
		return Source{}, errors.Errorf("invalid source %q: expected github:<owner>/<repo>/<path>[@ref] or an https url", s)
	}

	rest := strings.TrimPrefix(s, SchemeGitHub+":")
	ref := ""
	if i := strings.LastIndexByte(rest, '@'); i >= 0 {
		rest, ref = rest[:i], rest[i+1:]
		if ref == "" {
			return Source{}, errors.Errorf("invalid source %q: empty ref", s)
		}
	}

	parts := strings.SplitN(rest, "/", 3)
	if len(parts) < 3 || parts[0] == "" || parts[1] == "" || strings.Trim(parts[2], "/") == "" {
		return Source{}, errors.Errorf("invalid source %q: expected github:<owner>/<repo>/<path>[@ref]", s)
	}

	return Source{
		Scheme: SchemeGitHub,
		Owner:  parts[0],
		Repo:   parts[1],
		Path:   strings.Trim(parts[2], "/"),
		Ref:    ref,
	}, nil
}

// 📥 Fetch resolves the provider for src and reads the whole file
func Fetch(ctx context.Context, src Source) ([]byte, error) {
	p, err := Get(ctx, src.Scheme)
	if err != nil {
		return nil, err
	}

	rc, err := p.GetFile(ctx, src)
	if err != nil {
		return nil, errors.Errorf("getting %s: %w", src, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, errors.Errorf("reading %s: %w", src, err)
	}
	return data, nil
}

// 🔗 Permalink returns a browsable link for src from its provider
func Permalink(ctx context.Context, src Source) (string, error) {
	p, err := Get(ctx, src.Scheme)
	if err != nil {
		return "", err
	}

	link, err := p.GetPermalink(ctx, src)
	if err != nil {
		return "", errors.Errorf("getting permalink for %s: %w", src, err)
	}
	return link, nil
}

// 📥 DownloadFile downloads a file from a URL
func DownloadFile(ctx context.Context, client *http.Client, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Errorf("creating request: %w", err)
	}

	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, errors.Errorf("making request: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, errors.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	return resp.Body, nil
}
