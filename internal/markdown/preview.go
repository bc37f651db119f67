package markdown

import (
	"bytes"
	"fmt"
	"html"
	"io"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	goldhtml "github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
)

// PreviewOptions tune the HTML preview.
type PreviewOptions struct {
	// SafeMode drops raw HTML such as video embeds from the output.
	SafeMode bool
	// HardWraps renders soft line breaks as <br>.
	HardWraps bool
}

// Previewer renders page documents to HTML the way the reader application
// presents them: each chunk becomes a section, and chunks with a
// constructed-response item end with an i-question element.
// The previewer is stateless and safe for concurrent use.
type Previewer struct {
	engine goldmark.Markdown
}

// NewPreviewer constructs a Previewer with GFM and heading attributes enabled.
func NewPreviewer(opts PreviewOptions) *Previewer {
	rendererOptions := []renderer.Option{}
	if opts.HardWraps {
		rendererOptions = append(rendererOptions, goldhtml.WithHardWraps())
	}
	if !opts.SafeMode {
		rendererOptions = append(rendererOptions, goldhtml.WithUnsafe())
	}

	return &Previewer{
		engine: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithParserOptions(
				parser.WithAttribute(),
				parser.WithAutoHeadingID(),
			),
			goldmark.WithRendererOptions(rendererOptions...),
		),
	}
}

// RenderHTML renders doc's body into sectioned HTML.
func (p *Previewer) RenderHTML(doc *Document) ([]byte, error) {
	if doc == nil {
		return nil, fmt.Errorf("markdown preview: document is required")
	}

	source := doc.Body
	root := p.engine.Parser().Parse(text.NewReader(source))
	chunkSlugs := doc.ChunkSlugs()
	cri := doc.CRIBySlug()

	var (
		buf     bytes.Buffer
		current string
		open    bool
	)
	closeSection := func() {
		if !open {
			return
		}
		if item, ok := cri[current]; ok {
			fmt.Fprintf(&buf, "<i-question question=\"%s\" answer=\"%s\"></i-question>\n",
				html.EscapeString(item.Question), html.EscapeString(item.Answer))
		}
		buf.WriteString("</section>\n")
		open = false
	}

	for node := root.FirstChild(); node != nil; node = node.NextSibling() {
		if slug, ok := chunkHeadingSlug(node, chunkSlugs); ok {
			closeSection()
			if buf.Len() > 0 {
				buf.WriteString("\n")
			}
			escaped := html.EscapeString(slug)
			fmt.Fprintf(&buf, "<section class=\"content-chunk\" data-chunk-slug=\"%s\" aria-labelledby=\"%s\">\n", escaped, escaped)
			current = slug
			open = true
		}
		if err := p.renderNode(&buf, source, node); err != nil {
			return nil, fmt.Errorf("markdown preview %s: %w", doc.FrontMatter.Slug, err)
		}
	}
	closeSection()

	return buf.Bytes(), nil
}

func (p *Previewer) renderNode(w io.Writer, source []byte, node ast.Node) error {
	return p.engine.Renderer().Render(w, source, node)
}

func chunkHeadingSlug(node ast.Node, chunkSlugs map[string]struct{}) (string, bool) {
	heading, ok := node.(*ast.Heading)
	if !ok {
		return "", false
	}
	raw, ok := heading.AttributeString("id")
	if !ok {
		return "", false
	}
	var id string
	switch v := raw.(type) {
	case []byte:
		id = string(v)
	case string:
		id = v
	default:
		return "", false
	}
	if _, known := chunkSlugs[id]; !known {
		return "", false
	}
	return id, true
}
