/*
Package operation applies one rule or ruleset to many files at once.

	  patterns ──▶ doublestar.Glob ──▶ minus excludes ──▶ sorted paths
	                                                         │
	                                          Runner (errgroup, SetLimit)
	                                                         │
	                          read ──▶ Applier.Apply ──▶ pending changes
	                                                         │
	                             all files ok? ──▶ commit (backup, write,
	                                               roll back on failure)

🎯 Purpose:
- Select files under a root with doublestar globs
- Run the target over each file on a bounded worker pool
- Write changed files only after every file succeeded, unless it is a dry run

⚡ Outcomes per file:
- modified: the target changed the content
- unchanged: nothing matched
- skipped: the rule excludes the file's language
- failed: anything else, which also cancels the rest of the batch

🔍 Example:

	op, err := operation.New(operation.Options{
		Applier:  invoker,
		Target:   invoke.Ruleset("cleanup"),
		Root:     ".",
		Patterns: []string{"docs/*.md", "guides/*.md"},
		Exclude:  []string{"docs/draft-*.md"},
		Jobs:     4,
	})
	report, err := op.Execute(ctx)
*/
package operation
