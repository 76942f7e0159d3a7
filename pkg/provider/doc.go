/*
Package provider fetches rule configuration that lives outside the local
filesystem.

	            +-------------+
	            |   Source    |
	            | github:/url |
	            +------+------+
	                   |
	      +-----------+-----------+
	      |                       |
	+-----+-----+           +----+----+
	|  GitHub   |           |  HTTPS  |
	| Provider  |           |  URL    |
	+-----------+           +---------+

🎯 Purpose:
- Parse remote source strings given to --config
- Resolve a provider by scheme and read the file

🔄 Flow:
1. ParseSource splits github:<owner>/<repo>/<path>[@ref] or keeps an https url
2. Get builds the provider registered for the scheme
3. GetFile streams the file; the config package picks a parser from Filename

🤝 Interfaces:
- Provider: GetFile and GetPermalink
- Factory: registered per scheme in init

🔍 Example:

	src, err := provider.ParseSource("github:walteh/rules/packs/markdown.yaml@v1")
	if err != nil {
		return err
	}
	data, err := provider.Fetch(ctx, src)
*/
package provider
