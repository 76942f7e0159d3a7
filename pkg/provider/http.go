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
)

func init() {
	Register(SchemeHTTPS, func(ctx context.Context) (Provider, error) {
		return &HTTPProvider{}, nil
	})
}

// 🌐 HTTPProvider fetches configuration from a plain URL
type HTTPProvider struct {
	Client *http.Client
}

// GetFile downloads src.URL
func (p *HTTPProvider) GetFile(ctx context.Context, src Source) (io.ReadCloser, error) {
	return DownloadFile(ctx, p.Client, src.URL)
}

// GetPermalink returns the URL itself
func (p *HTTPProvider) GetPermalink(ctx context.Context, src Source) (string, error) {
	return src.URL, nil
}
