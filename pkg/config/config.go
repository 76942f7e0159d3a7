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
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/walteh/regexrules/pkg/provider"
	"github.com/walteh/regexrules/pkg/rule"
	"gitlab.com/tozd/go/errors"
)

// 🔌 Parser is the interface for config parsers
type Parser interface {
	// 📝 Parse parses the config from bytes
	Parse(ctx context.Context, data []byte) (*Config, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// 📚 Config is a read-only snapshot of every rule and ruleset loaded
type Config struct {
	Rules    map[string]rule.Rule    `json:"rules,omitempty" yaml:"rules,omitempty"`
	Rulesets map[string]rule.Ruleset `json:"rulesets,omitempty" yaml:"rulesets,omitempty"`

	sources []string
}

// 🎯 Load loads a local configuration file
func Load(ctx context.Context, path string) (*Config, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading configuration")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	return parse(ctx, path, data)
}

// 🌐 LoadSource loads a local path or a remote source such as
// github:<owner>/<repo>/<path>[@ref]
func LoadSource(ctx context.Context, src string) (*Config, error) {
	if !provider.IsRemote(src) {
		return Load(ctx, src)
	}

	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("source", src).Msg("loading remote configuration")

	s, err := provider.ParseSource(src)
	if err != nil {
		return nil, err
	}

	data, err := provider.Fetch(ctx, s)
	if err != nil {
		return nil, errors.Errorf("fetching config: %w", err)
	}

	cfg, err := parseAs(ctx, s.Filename(), data)
	if err != nil {
		return nil, errors.Errorf("%s: %w", src, err)
	}
	cfg.sources = []string{src}
	return cfg, nil
}

// 🔗 LoadAll loads every source in order and merges them. A rule or ruleset
// defined again by a later source replaces the earlier definition.
func LoadAll(ctx context.Context, sources ...string) (*Config, error) {
	merged := New()
	for _, src := range sources {
		cfg, err := LoadSource(ctx, src)
		if err != nil {
			return nil, err
		}
		merged.Merge(ctx, cfg)
	}
	return merged, nil
}

func parse(ctx context.Context, path string, data []byte) (*Config, error) {
	cfg, err := parseAs(ctx, path, data)
	if err != nil {
		return nil, errors.Errorf("%s: %w", path, err)
	}
	cfg.sources = []string{path}
	return cfg, nil
}

func parseAs(ctx context.Context, filename string, data []byte) (*Config, error) {
	p := GetParser(filename)
	if p == nil {
		return nil, errors.Errorf("no parser found for file: %s", filepath.Base(filename))
	}

	cfg, err := p.Parse(ctx, data)
	if err != nil {
		return nil, errors.Errorf("parsing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// New returns an empty configuration
func New() *Config {
	return &Config{
		Rules:    map[string]rule.Rule{},
		Rulesets: map[string]rule.Ruleset{},
	}
}

// Merge copies other's definitions into cfg, replacing any with the same name.
func (cfg *Config) Merge(ctx context.Context, other *Config) {
	logger := zerolog.Ctx(ctx)

	if cfg.Rules == nil {
		cfg.Rules = map[string]rule.Rule{}
	}
	if cfg.Rulesets == nil {
		cfg.Rulesets = map[string]rule.Ruleset{}
	}

	for name, r := range other.Rules {
		if _, ok := cfg.Rules[name]; ok {
			logger.Debug().Str("rule", name).Strs("source", other.sources).Msg("rule overridden")
		}
		cfg.Rules[name] = r
	}
	for name, rs := range other.Rulesets {
		if _, ok := cfg.Rulesets[name]; ok {
			logger.Debug().Str("ruleset", name).Strs("source", other.sources).Msg("ruleset overridden")
		}
		cfg.Rulesets[name] = rs
	}
	cfg.sources = append(cfg.sources, other.sources...)
}

// 🔍 Validate checks the configuration shape. Rule bodies are not checked
// here; a missing find, a bad pattern or a dangling ruleset member fails only
// the rule it belongs to, when that rule is applied.
func (cfg *Config) Validate() error {
	for name := range cfg.Rules {
		if strings.TrimSpace(name) == "" {
			return errors.Errorf("rules: empty rule name")
		}
	}
	for name, rs := range cfg.Rulesets {
		if strings.TrimSpace(name) == "" {
			return errors.Errorf("rulesets: empty ruleset name")
		}
		for i, member := range rs.Rules {
			if member == "" {
				return errors.Errorf("ruleset %q: rules[%d] is empty", name, i)
			}
		}
	}
	return nil
}

// GetRule returns the named rule
func (cfg *Config) GetRule(name string) (rule.Rule, bool) {
	r, ok := cfg.Rules[name]
	return r, ok
}

// GetRuleset returns the named ruleset
func (cfg *Config) GetRuleset(name string) (rule.Ruleset, bool) {
	rs, ok := cfg.Rulesets[name]
	return rs, ok
}

// RuleNames returns every rule name, sorted
func (cfg *Config) RuleNames() []string {
	return sortedKeys(cfg.Rules)
}

// RulesetNames returns every ruleset name, sorted
func (cfg *Config) RulesetNames() []string {
	return sortedKeys(cfg.Rulesets)
}

// Sources lists where the configuration was loaded from, in load order
func (cfg *Config) Sources() []string {
	return cfg.sources
}

// 📝 String returns a short summary of the config
func (cfg *Config) String() string {
	return strings.Join(cfg.sources, ", ") + ": " +
		plural(len(cfg.Rules), "rule") + ", " + plural(len(cfg.Rulesets), "ruleset")
}

func plural(n int, word string) string {
	if n == 1 {
		return "1 " + word
	}
	return strconv.Itoa(n) + " " + word + "s"
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
