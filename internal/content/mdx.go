package content

import (
	"bytes"
	"strings"
	"unicode"

	"golang.org/x/net/html"

	"github.com/xonecas/mimir/internal/highlight"
)

// Block is a run of page text rendered with one lexer.
type Block struct {
	Lang string // Chroma lexer; "markdown" for prose
	Text string
}

// Clean turns MDX into plain markdown: module import/export lines and
// component tags (capitalized JSX names) are dropped, their children kept.
// Code fences pass through untouched.
func Clean(src string) string {
	var out []string
	inFence := false
	for line := range strings.SplitSeq(src, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") {
			inFence = !inFence
			out = append(out, line)
			continue
		}
		if inFence {
			out = append(out, line)
			continue
		}
		if strings.HasPrefix(trimmed, "import ") || strings.HasPrefix(trimmed, "export ") {
			continue
		}
		if strings.Contains(line, "<") {
			line = stripComponents(line)
			if strings.TrimSpace(line) == "" && trimmed != "" {
				continue
			}
		}
		out = append(out, line)
	}
	return collapseBlank(strings.Join(out, "\n"))
}

// stripComponents removes JSX component tags from one line, leaving lower
// case HTML and text alone.
func stripComponents(line string) string {
	z := html.NewTokenizer(strings.NewReader(line))
	var buf bytes.Buffer
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			break
		}
		raw := z.Raw()
		switch tt {
		case html.StartTagToken, html.EndTagToken, html.SelfClosingTagToken:
			if isComponent(raw) {
				continue
			}
		}
		buf.Write(raw)
	}
	return buf.String()
}

// isComponent reports whether a raw tag ("<Callout type=x>", "</Callout>")
// names a component. The tokenizer lowercases names, so look at the raw
// bytes.
func isComponent(raw []byte) bool {
	name := bytes.TrimLeft(raw, "</")
	return len(name) > 0 && unicode.IsUpper(rune(name[0]))
}

func collapseBlank(s string) string {
	var out []string
	blank := 0
	for line := range strings.SplitSeq(s, "\n") {
		if strings.TrimSpace(line) == "" {
			blank++
			if blank > 1 {
				continue
			}
		} else {
			blank = 0
		}
		out = append(out, line)
	}
	return strings.Trim(strings.Join(out, "\n"), "\n")
}

// Split separates cleaned markdown into prose and fenced code blocks. An
// unterminated fence runs to the end of the page.
func Split(md string) []Block {
	var blocks []Block
	var cur []string
	lang := "markdown"
	flush := func() {
		text := strings.Trim(strings.Join(cur, "\n"), "\n")
		if text != "" {
			blocks = append(blocks, Block{Lang: lang, Text: text})
		}
		cur = cur[:0]
	}
	inFence := false
	for line := range strings.SplitSeq(md, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") {
			flush()
			if inFence {
				lang = "markdown"
			} else {
				lang = highlight.FenceLanguage(strings.TrimPrefix(trimmed, "```"))
			}
			inFence = !inFence
			continue
		}
		cur = append(cur, line)
	}
	flush()
	return blocks
}
