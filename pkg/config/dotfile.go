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

package config

import (
	"context"
	"path/filepath"
	"strings"

	"gitlab.com/tozd/go/errors"
)

// 🔧 DotfileParser handles .regexrules files, which may hold YAML or HCL
type DotfileParser struct{}

func init() {
	Register(&DotfileParser{})
}

func (p *DotfileParser) CanParse(filename string) bool {
	return filepath.Base(filename) == ".regexrules" || strings.EqualFold(filepath.Ext(filename), ".regexrules")
}

func (p *DotfileParser) Parse(ctx context.Context, data []byte) (*Config, error) {
	cfg, yamlErr := YAML.Parse(ctx, data)
	if yamlErr == nil {
		return cfg, nil
	}

	cfg, hclErr := (&HCLParser{}).Parse(ctx, data)
	if hclErr == nil {
		return cfg, nil
	}

	return nil, errors.Errorf("not YAML (%s) or HCL (%s)", yamlErr.Error(), hclErr.Error())
}
