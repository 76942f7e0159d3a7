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

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/walteh/regexrules/pkg/rule"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
	"gitlab.com/tozd/go/errors"
)

func init() {
	Register(&HCLParser{})
}

// 🔧 HCLParser implements the Parser interface for HCL files
//
//	rule "strip-trailing-ws" {
//	  find  = " +$"
//	  flags = "gm"
//	}
//	ruleset "cleanup" {
//	  rules = ["strip-trailing-ws"]
//	}
type HCLParser struct{}

type hclRule struct {
	Name      string     `hcl:"name,label"`
	Find      cty.Value  `hcl:"find"`
	Replace   *cty.Value `hcl:"replace,optional"`
	Flags     *cty.Value `hcl:"flags,optional"`
	Languages []string   `hcl:"languages,optional"`
	Literal   bool       `hcl:"literal,optional"`
}

type hclRuleset struct {
	Name  string   `hcl:"name,label"`
	Rules []string `hcl:"rules"`
}

type hclConfig struct {
	Rules    []hclRule    `hcl:"rule,block"`
	Rulesets []hclRuleset `hcl:"ruleset,block"`
}

// 🔍 CanParse checks if this parser can handle the given file
func (p *HCLParser) CanParse(filename string) bool {
	return strings.EqualFold(filepath.Ext(filename), ".hcl")
}

// 📝 Parse parses the config from HCL
func (p *HCLParser) Parse(ctx context.Context, data []byte) (*Config, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(data, "rules.hcl")
	if diags.HasErrors() {
		return nil, errors.Errorf("parsing HCL: %s", diags.Error())
	}

	var hclCfg hclConfig
	diags = gohcl.DecodeBody(hclFile.Body, evalContext(), &hclCfg)
	if diags.HasErrors() {
		return nil, errors.Errorf("decoding HCL: %s", diags.Error())
	}

	cfg := New()
	for _, hr := range hclCfg.Rules {
		if _, dup := cfg.Rules[hr.Name]; dup {
			return nil, errors.Errorf("rule %q: defined more than once", hr.Name)
		}
		r, err := hr.toRule()
		if err != nil {
			return nil, errors.Errorf("rule %q: %w", hr.Name, err)
		}
		cfg.Rules[hr.Name] = r
	}
	for _, hrs := range hclCfg.Rulesets {
		if _, dup := cfg.Rulesets[hrs.Name]; dup {
			return nil, errors.Errorf("ruleset %q: defined more than once", hrs.Name)
		}
		cfg.Rulesets[hrs.Name] = rule.Ruleset{Rules: hrs.Rules}
	}

	return cfg, nil
}

func (hr hclRule) toRule() (rule.Rule, error) {
	find, err := rule.TextFromCty(hr.Find)
	if err != nil {
		return rule.Rule{}, errors.Errorf("find: %w", err)
	}

	r := rule.Rule{
		Find:      find,
		Languages: hr.Languages,
		Literal:   hr.Literal,
	}

	if hr.Replace != nil && !hr.Replace.IsNull() {
		replace, err := rule.TextFromCty(*hr.Replace)
		if err != nil {
			return rule.Rule{}, errors.Errorf("replace: %w", err)
		}
		r.Replace = &replace
	}
	if hr.Flags != nil && !hr.Flags.IsNull() {
		flags, err := rule.TextFromCty(*hr.Flags)
		if err != nil {
			return rule.Rule{}, errors.Errorf("flags: %w", err)
		}
		r.Flags = &flags
	}

	return r, nil
}

// evalContext exposes a few string functions so long patterns can be built
// from pieces, e.g. find = join("|", ["foo", "bar"]).
func evalContext() *hcl.EvalContext {
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{},
		Functions: map[string]function.Function{
			"join":    stdlib.JoinFunc,
			"concat":  stdlib.ConcatFunc,
			"lower":   stdlib.LowerFunc,
			"upper":   stdlib.UpperFunc,
			"format":  stdlib.FormatFunc,
			"replace": stdlib.ReplaceFunc,
		},
	}
}
