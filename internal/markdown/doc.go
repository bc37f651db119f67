// Package markdown turns canonical pages into Markdown documents with YAML
// frontmatter, injects sub-heading anchors, and reads rendered documents back
// for HTML previews.
package markdown
