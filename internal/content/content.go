// Package content serves the embedded MDX lesson sites.
package content

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

//go:embed sites
var sitesFS embed.FS

// Heading is one entry of a page outline.
type Heading struct {
	Level int
	Text  string
}

// Page is a parsed lesson.
type Page struct {
	Slug     string
	Title    string
	Markdown string // cleaned of MDX constructs
	Headings []Heading
	Blocks   []Block
}

// Site is an ordered set of pages.
type Site struct {
	Name  string
	Pages []Page
}

// Sites lists the embedded site names.
func Sites() []string {
	entries, err := fs.ReadDir(sitesFS, "sites")
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	return names
}

// Load parses every page of the named site, ordered by file name.
func Load(name string) (*Site, error) {
	return LoadFS(sitesFS, path.Join("sites", name))
}

// LoadFS is Load against an arbitrary directory in fsys.
func LoadFS(fsys fs.FS, dir string) (*Site, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("unknown site %q: %w", path.Base(dir), err)
	}
	site := &Site{Name: path.Base(dir)}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".mdx") {
			continue
		}
		data, err := fs.ReadFile(fsys, path.Join(dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", e.Name(), err)
		}
		site.Pages = append(site.Pages, Parse(slugOf(e.Name()), string(data)))
	}
	if len(site.Pages) == 0 {
		return nil, fmt.Errorf("site %q has no pages", site.Name)
	}
	return site, nil
}

// Parse builds a Page from MDX source.
func Parse(slug, src string) Page {
	md := Clean(src)
	p := Page{
		Slug:     slug,
		Markdown: md,
		Headings: Outline(md),
		Blocks:   Split(md),
	}
	p.Title = titleOf(slug)
	for _, h := range p.Headings {
		if h.Level == 1 {
			p.Title = h.Text
			break
		}
	}
	return p
}

// Outline returns the markdown's headings in document order.
func Outline(md string) []Heading {
	src := []byte(md)
	doc := goldmark.New().Parser().Parse(text.NewReader(src))
	var out []Heading
	ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		h, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}
		out = append(out, Heading{Level: h.Level, Text: inlineText(h, src)})
		return ast.WalkSkipChildren, nil
	})
	return out
}

func inlineText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			buf.Write(t.Segment.Value(src))
			if t.SoftLineBreak() {
				buf.WriteByte(' ')
			}
			continue
		}
		buf.WriteString(inlineText(c, src))
	}
	return strings.TrimSpace(buf.String())
}

// slugOf strips the ordering prefix and extension: "02-layout.mdx" -> "layout".
func slugOf(file string) string {
	slug := strings.TrimSuffix(file, ".mdx")
	if i := strings.IndexByte(slug, '-'); i > 0 && strings.Trim(slug[:i], "0123456789") == "" {
		slug = slug[i+1:]
	}
	return slug
}

func titleOf(slug string) string {
	words := strings.Split(slug, "-")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

// Index returns the position of slug in the site, or -1.
func (s *Site) Index(slug string) int {
	return slices.IndexFunc(s.Pages, func(p Page) bool { return p.Slug == slug })
}
