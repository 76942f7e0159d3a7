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
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/regexrules/pkg/rule"
)

func setupTestContext(t *testing.T) context.Context {
	logger := zerolog.New(zerolog.TestWriter{T: t}).Level(zerolog.DebugLevel)
	return logger.WithContext(context.Background())
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name         string
		path         string
		wantRules    []string
		wantRulesets []string
		wantError    string
	}{
		{
			name:         "yaml",
			path:         "testdata/rules.yaml",
			wantRules:    []string{"collapse-blank-lines", "py-print", "strip-trailing-ws"},
			wantRulesets: []string{"cleanup"},
		},
		{
			name:         "json",
			path:         "testdata/rules.json",
			wantRules:    []string{"bracket-numbers", "strip-trailing-ws"},
			wantRulesets: []string{"numbers"},
		},
		{
			name:         "hcl",
			path:         "testdata/rules.hcl",
			wantRules:    []string{"either-word", "todo-owner"},
			wantRulesets: []string{"owners"},
		},
		{
			name:         "dotfile",
			path:         "testdata/.regexrules",
			wantRules:    []string{"dot"},
			wantRulesets: []string{},
		},
		{
			name:      "missing_file",
			path:      "testdata/nope.yaml",
			wantError: "reading config file",
		},
	}

	ctx := setupTestContext(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(ctx, tt.path)
			if tt.wantError != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantError)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantRules, cfg.RuleNames())
			assert.Equal(t, tt.wantRulesets, cfg.RulesetNames())
			assert.Equal(t, []string{tt.path}, cfg.Sources())
		})
	}
}

func TestLoad_SameRuleAcrossFormats(t *testing.T) {
	ctx := setupTestContext(t)

	yamlCfg, err := Load(ctx, "testdata/rules.yaml")
	require.NoError(t, err)

	r, ok := yamlCfg.GetRule("py-print")
	require.True(t, ok)
	assert.Equal(t, "^print (.*)$", r.FindString())
	assert.Equal(t, "gm", r.FlagsString())
	assert.Equal(t, []string{"python"}, r.Languages)

	collapse, ok := yamlCfg.GetRule("collapse-blank-lines")
	require.True(t, ok)
	assert.Equal(t, `\n{3,}`, collapse.FindString())
	assert.Equal(t, "\n\n", collapse.ReplaceString())

	hclCfg, err := Load(ctx, "testdata/rules.hcl")
	require.NoError(t, err)
	todo, ok := hclCfg.GetRule("todo-owner")
	require.True(t, ok)
	assert.Equal(t, "TODO:\nFIXME:", todo.FindString())
	assert.True(t, todo.Literal)

	either, ok := hclCfg.GetRule("either-word")
	require.True(t, ok)
	assert.Equal(t, "foo|bar", either.FindString())
	assert.Equal(t, "gi", either.FlagsString())
}

func TestLoadAll_LaterSourceWins(t *testing.T) {
	ctx := setupTestContext(t)
	dir := t.TempDir()

	base := filepath.Join(dir, "base.yaml")
	require.NoError(t, os.WriteFile(base, []byte(`
rules:
  trim: {find: " +$"}
  keep: {find: keep}
rulesets:
  all: {rules: [trim, keep]}
`), 0644))

	override := filepath.Join(dir, "override.json")
	require.NoError(t, os.WriteFile(override, []byte(`{
		"rules": {"trim": {"find": "[ \\t]+$", "flags": "g"}},
		"rulesets": {"all": {"rules": ["trim"]}}
	}`), 0644))

	cfg, err := LoadAll(ctx, base, override)
	require.NoError(t, err)

	trim, ok := cfg.GetRule("trim")
	require.True(t, ok)
	assert.Equal(t, `[ \t]+$`, trim.FindString(), "later definition should replace earlier")
	assert.Equal(t, "g", trim.FlagsString())

	_, ok = cfg.GetRule("keep")
	assert.True(t, ok, "rules only in the earlier source survive")

	all, ok := cfg.GetRuleset("all")
	require.True(t, ok)
	assert.Equal(t, []string{"trim"}, all.Rules)

	assert.Equal(t, []string{base, override}, cfg.Sources())
	assert.Equal(t, base+", "+override+": 2 rules, 1 ruleset", cfg.String())
}

func TestLoadAll_Remote(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "rules:\n  remote: {find: r}\n")
	}))
	defer server.Close()

	ctx := setupTestContext(t)
	cfg, err := LoadAll(ctx, "testdata/rules.json", server.URL+"/pack.yaml")
	require.NoError(t, err)
	assert.Equal(t, []string{"bracket-numbers", "remote", "strip-trailing-ws"}, cfg.RuleNames())

	_, err = LoadAll(ctx, server.URL+"/pack.txt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no parser found for file: pack.txt")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		cfg       *Config
		wantError string
	}{
		{
			name: "valid",
			cfg: &Config{
				Rules:    map[string]rule.Rule{"a": {Find: rule.String("x")}},
				Rulesets: map[string]rule.Ruleset{"s": {Rules: []string{"a", "missing"}}},
			},
		},
		{
			name: "empty_find_left_to_apply_time",
			cfg: &Config{Rules: map[string]rule.Rule{
				"a":    {Find: rule.String("")},
				"good": {Find: rule.String("x")},
			}},
		},
		{
			name:      "empty_rule_name",
			cfg:       &Config{Rules: map[string]rule.Rule{" ": {Find: rule.String("x")}}},
			wantError: "empty rule name",
		},
		{
			name:      "empty_member",
			cfg:       &Config{Rulesets: map[string]rule.Ruleset{"s": {Rules: []string{"a", ""}}}},
			wantError: `ruleset "s": rules[1] is empty`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantError != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantError)
				return
			}
			assert.NoError(t, err)
		})
	}
}
