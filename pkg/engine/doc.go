/*
Package engine applies configured find/replace rules to text.

	  rule.Rule ──▶ Normalize ──▶ compile ──▶ Compiled.Replace ──▶ Result
	                   │              │
	             join lists,     ecmascript (regexp2)
	             parse flags,    or re2 (go-re2)
	             escape literal

	  rule.Ruleset ──▶ resolve all names ──▶ for each applicable member:
	                                          text = member.Replace(text)

🎯 Purpose:
- Turn a rule definition into one pattern, one replacement and parsed flags
- Apply a single rule, or chain the members of a ruleset in order
- Report failures as *Error values tagged with a Kind

⚡ Semantics:
- Missing flags mean "gm": every match, ^ and $ per line
- Without g only the first match is replaced; with y matches must be
  contiguous from the start of the text
- Replacements understand $1..$99, $<name>, $&, $`, $' and $$ unless the rule
  is literal
- A directly invoked rule whose languages exclude the document fails with
  KindNotApplicable; inside a ruleset it is skipped
- Errors never come with a partial result

🔍 Example:

	e := engine.New()
	res, err := e.ApplyRule(ctx, "digits", rule.Rule{
		Find:    rule.String(`(\d+)`),
		Replace: rule.String("[$1]").Ptr(),
		Flags:   rule.String("g").Ptr(),
	}, "a1b22", "plaintext")
	// res.Text == "a[1]b[22]"
*/
package engine
