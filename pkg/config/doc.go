/*
Package config loads the rule store: named rules and rulesets read from
JSON, YAML or HCL files, local or remote.

	 rules.yaml   rules.json   rules.hcl   github:owner/repo/x.yaml
	      \            |           |            /
	       +------ GetParser(filename) ------+
	                        |
	                  Validate, Merge
	                        |
	                  *Config snapshot
	           GetRule / GetRuleset / *Names

🎯 Purpose:
- Decode the rule shapes, accepting a string or a list of strings for find,
  replace and flags
- Reject unknown fields
- Merge several sources, later definitions replacing earlier ones

🔄 Formats:
- .json and .yaml/.yml use the rules/rulesets maps directly
- .hcl uses rule "name" {} and ruleset "name" {} blocks; join, concat,
  format, lower, upper and replace are available in expressions
- .regexrules is tried as YAML, then HCL

🔍 Example:

	cfg, err := config.LoadAll(ctx, "rules.yaml", "github:walteh/rules/go.hcl@main")
	if err != nil {
		return err
	}
	r, ok := cfg.GetRule("strip-trailing-ws")
*/
package config
