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
	"bytes"
	"context"
	"encoding/json"
	"io"
	"path/filepath"
	"slices"
	"strings"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"
)

// 🔧 StructuredParser decodes a config format that maps directly onto Config,
// rejecting fields it does not know
type StructuredParser struct {
	Format     string
	Extensions []string
	decode     func(data []byte, cfg *Config) error
}

var (
	// JSON parses .json files with encoding/json
	JSON = &StructuredParser{Format: "JSON", Extensions: []string{".json"}, decode: decodeJSON}

	// YAML parses .yaml and .yml files with yaml.v3; an empty document is an
	// empty config
	YAML = &StructuredParser{Format: "YAML", Extensions: []string{".yaml", ".yml"}, decode: decodeYAML}
)

func init() {
	Register(YAML)
	Register(JSON)
}

// 🔍 CanParse matches on the file extension, ignoring case
func (p *StructuredParser) CanParse(filename string) bool {
	ext := strings.ToLower(filepath.Ext(strings.TrimSpace(filename)))
	return slices.Contains(p.Extensions, ext)
}

// 📝 Parse decodes data into a new Config
func (p *StructuredParser) Parse(ctx context.Context, data []byte) (*Config, error) {
	var cfg Config
	if err := p.decode(data, &cfg); err != nil {
		return nil, errors.Errorf("parsing %s: %w", p.Format, err)
	}

	zerolog.Ctx(ctx).Debug().
		Str("format", p.Format).
		Int("rules", len(cfg.Rules)).
		Int("rulesets", len(cfg.Rulesets)).
		Msg("decoded config")

	return &cfg, nil
}

func decodeJSON(data []byte, cfg *Config) error {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	return decoder.Decode(cfg)
}

func decodeYAML(data []byte, cfg *Config) error {
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
