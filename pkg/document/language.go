package document

import (
	"path/filepath"
	"strings"
)

// PlainText is the language id used when nothing more specific is known
const PlainText = "plaintext"

var byExtension = map[string]string{
	".go":         "go",
	".mod":        "go.mod",
	".py":         "python",
	".pyi":        "python",
	".js":         "javascript",
	".mjs":        "javascript",
	".cjs":        "javascript",
	".jsx":        "javascriptreact",
	".ts":         "typescript",
	".mts":        "typescript",
	".tsx":        "typescriptreact",
	".md":         "markdown",
	".markdown":   "markdown",
	".json":       "json",
	".jsonc":      "jsonc",
	".yaml":       "yaml",
	".yml":        "yaml",
	".toml":       "toml",
	".hcl":        "hcl",
	".tf":         "terraform",
	".sh":         "shellscript",
	".bash":       "shellscript",
	".zsh":        "shellscript",
	".rs":         "rust",
	".java":       "java",
	".kt":         "kotlin",
	".c":          "c",
	".h":          "c",
	".cc":         "cpp",
	".cpp":        "cpp",
	".hpp":        "cpp",
	".cs":         "csharp",
	".rb":         "ruby",
	".php":        "php",
	".swift":      "swift",
	".lua":        "lua",
	".sql":        "sql",
	".html":       "html",
	".htm":        "html",
	".css":        "css",
	".scss":       "scss",
	".xml":        "xml",
	".txt":        PlainText,
	".regexrules": "yaml",
}

var byBasename = map[string]string{
	"dockerfile":  "dockerfile",
	"makefile":    "makefile",
	"go.sum":      "go.sum",
	".bashrc":     "shellscript",
	".zshrc":      "shellscript",
	".gitignore":  "ignore",
	".regexrules": "yaml",
}

// DetectLanguage maps a file path to an editor language id, falling back to
// plaintext.
func DetectLanguage(path string) string {
	if path == "" {
		return PlainText
	}
	base := strings.ToLower(filepath.Base(path))
	if id, ok := byBasename[base]; ok {
		return id
	}
	if id, ok := byExtension[strings.ToLower(filepath.Ext(base))]; ok {
		return id
	}
	return PlainText
}
