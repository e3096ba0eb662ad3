package highlight

import "strings"

var fenceAliases = map[string]string{
	"sh":    "bash",
	"shell": "bash",
	"zsh":   "bash",
	"js":    "javascript",
	"ts":    "typescript",
	"mdx":   "markdown",
	"md":    "markdown",
	"yml":   "yaml",
	"conf":  "nginx",
	"text":  "",
	"txt":   "",
	"plain": "",
}

// FenceLanguage maps a code fence info string ("jsx title=app.jsx") to a
// Chroma lexer name. Empty means no highlighting.
func FenceLanguage(info string) string {
	fields := strings.Fields(info)
	if len(fields) == 0 {
		return ""
	}
	lang := strings.ToLower(strings.TrimPrefix(fields[0], "language-"))
	if alias, ok := fenceAliases[lang]; ok {
		return alias
	}
	return lang
}
