/*
Package invoke is the command surface between a document and the engine.

	 selection(s) or clipboard ──▶ Invoker ──▶ engine ──▶ new document
	                                  │
	                                  └──▶ Tracker.Record(name)

🎯 Purpose:
- Run a rule or ruleset on every selection independently
- Paste variants: transform the clipboard, put the result in place of the
  selections
- Transform the clipboard in place
- Record usage once per invocation of an existing rule or ruleset

⚡ Guarantees:
- The new document is built only after every range transformed
- A failing tracker is logged and never changes the outcome
*/
package invoke
