package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goliatone/go-textbook/internal/markdown"
)

type previewCmd struct {
	Dir  string `arg:"" name:"dir" type:"existingdir" help:"Directory holding rendered page documents."`
	Page string `name:"page" help:"Render a single document, relative to dir."`
	Out  string `name:"out" help:"Write one HTML file per page here instead of printing."`
	Safe bool   `name:"safe" help:"Drop raw HTML such as video embeds."`
}

func (c *previewCmd) Run(rt *runtime) error {
	loader := markdown.NewLoader(os.DirFS(c.Dir), markdown.LoaderConfig{BasePath: c.Dir})

	var docs []*markdown.Document
	if page := strings.TrimSpace(c.Page); page != "" {
		doc, err := loader.LoadFile(rt.ctx, page)
		if err != nil {
			return err
		}
		docs = append(docs, doc)
	} else {
		loaded, err := loader.LoadDirectory(rt.ctx, ".")
		if err != nil {
			return err
		}
		docs = loaded
	}
	if len(docs) == 0 {
		return fmt.Errorf("no page documents found in %s", c.Dir)
	}

	previewer := markdown.NewPreviewer(markdown.PreviewOptions{SafeMode: c.Safe})
	if c.Out != "" {
		if err := os.MkdirAll(c.Out, 0o755); err != nil {
			return fmt.Errorf("create preview directory: %w", err)
		}
	}

	for _, doc := range docs {
		rendered, err := previewer.RenderHTML(doc)
		if err != nil {
			return err
		}
		if c.Out == "" {
			fmt.Fprintf(rt.stdout, "<!-- %s -->\n%s\n", doc.FilePath, rendered)
			continue
		}
		name := strings.TrimSuffix(filepath.Base(doc.FilePath), filepath.Ext(doc.FilePath)) + ".html"
		path := filepath.Join(c.Out, name)
		if err := os.WriteFile(path, rendered, 0o644); err != nil {
			return fmt.Errorf("write preview %s: %w", path, err)
		}
		fmt.Fprintf(rt.stdout, "Wrote %s\n", path)
	}
	return nil
}
