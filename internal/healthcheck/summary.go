package healthcheck

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

const summaryRule = "--------------------"

// SummaryOptions tune the human readable summary.
type SummaryOptions struct {
	// Color enables ANSI emphasis. Leave it off for files and tests.
	Color bool
}

type palette struct {
	bold   *color.Color
	green  *color.Color
	red    *color.Color
	yellow *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		bold:   color.New(color.Bold),
		green:  color.New(color.FgGreen),
		red:    color.New(color.FgRed),
		yellow: color.New(color.FgYellow),
	}
	for _, c := range []*color.Color{p.bold, p.green, p.red, p.yellow} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

// WriteSummary prints the report breakdown to w and returns whether the
// validation passed.
func WriteSummary(w io.Writer, report *Report, opts SummaryOptions) (bool, error) {
	if report == nil {
		return false, fmt.Errorf("healthcheck: report is required")
	}
	p := newPalette(opts.Color)
	sw := &summaryWriter{w: w}

	sw.line(summaryRule)
	sw.line("\n" + p.bold.Sprint("HEALTH CHECK SUMMARY:"))
	sw.line(summaryRule)
	sw.printf("Volume: %s (Slug: %s)\n", report.VolumeTitle, report.VolumeSlug)
	sw.printf("Total chunks: %d\n", report.TotalChunks)
	sw.printf("✓ Existing in Supabase: %s\n", p.bold.Sprint(report.ExistingChunksCount))

	passed := report.Passed()
	if passed {
		sw.line("✓ All chunks found in Supabase!")
	} else {
		sw.printf("✗ Missing from Supabase: %s\n", p.bold.Sprint(report.MissingChunksCount))
		sw.line("\nMissing chunks by page:")
		for _, page := range report.PagesWithMissing() {
			sw.printf("  Page '%s': %d missing\n", page.PageTitle, len(page.MissingChunks))
			for _, slug := range page.MissingChunks {
				sw.printf("    - %s\n", slug)
			}
		}
		sw.line(p.yellow.Sprint("Tip: Verify that all pages have been successfully published. If there was an issue, try publishing the page with missing chunks again."))
	}
	sw.line("")

	if passed {
		sw.line(p.green.Sprint("✅ Vector validation passed!"))
	} else {
		sw.line(p.red.Sprint("❌ Vector validation failed!"))
	}
	return passed, sw.err
}

type summaryWriter struct {
	w   io.Writer
	err error
}

func (s *summaryWriter) printf(format string, args ...any) {
	if s.err != nil {
		return
	}
	_, s.err = fmt.Fprintf(s.w, format, args...)
}

func (s *summaryWriter) line(text string) {
	s.printf("%s\n", text)
}
