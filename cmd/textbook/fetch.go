package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	volumecmd "github.com/goliatone/go-textbook/internal/commands/volume"
	"github.com/goliatone/go-textbook/internal/healthcheck"
	"github.com/goliatone/go-textbook/internal/runtimeconfig"
)

type fetchCmd struct {
	VolumeID  string `arg:"" name:"volume-id" help:"CMS document id of the volume."`
	OutputDir string `arg:"" optional:"" name:"output-dir" default:"output/textbook" help:"Directory that receives the rendered documents."`

	Workers   int    `name:"workers" help:"Concurrent page renders (0 uses every CPU)."`
	NoClean   bool   `name:"no-clean" help:"Keep existing files in the output directory."`
	DryRun    bool   `name:"dry-run" help:"Render documents without writing them."`
	ReportDSN string `name:"report-dsn" help:"Store health check reports in this sqlite path or postgres URL."`
	SkipCheck bool   `name:"skip-check" help:"Skip vector validation even when credentials are set."`
}

// fetchError marks failures of the fetch stage so the caller can print usage
// hints.
type fetchError struct {
	err error
}

func (e *fetchError) Error() string { return e.err.Error() }
func (e *fetchError) Unwrap() error { return e.err }

func (c *fetchCmd) Run(rt *runtime) error {
	cfg, err := rt.config()
	if err != nil {
		return err
	}
	cfg.Output.Dir = c.OutputDir
	cfg.Output.Clean = !c.NoClean
	cfg.Output.DryRun = c.DryRun
	if c.Workers != 0 {
		cfg.Render.Workers = c.Workers
	}
	if dsn := strings.TrimSpace(c.ReportDSN); dsn != "" {
		cfg.ReportLog.DSN = dsn
	}
	if c.SkipCheck {
		cfg.Embeddings = runtimeconfig.EmbeddingsConfig{Table: cfg.Embeddings.Table}
	}

	resources, err := moduleBuilder(cfg)
	if err != nil {
		return err
	}
	if resources.close != nil {
		defer func() {
			if cerr := resources.close(); cerr != nil {
				fmt.Fprintf(rt.stderr, "close: %v\n", cerr)
			}
		}()
	}
	if resources.handlers.fetch == nil {
		return fmt.Errorf("fetch handler not configured")
	}

	var fetched volumecmd.FetchResult
	err = resources.handlers.fetch.Execute(rt.ctx, volumecmd.FetchVolumeCommand{
		VolumeID:       c.VolumeID,
		OutputDir:      c.OutputDir,
		Clean:          !c.NoClean,
		DryRun:         c.DryRun,
		ResultCallback: func(result volumecmd.FetchResult) { fetched = result },
	})
	if err != nil {
		return &fetchError{err: err}
	}

	if fetched.Volume != nil {
		fmt.Fprintf(rt.stdout, "Volume: %s (%s)\n", fetched.Volume.Title, fetched.Volume.Slug)
	}
	if build := fetched.Build; build != nil {
		if build.DryRun {
			fmt.Fprintf(rt.stdout, "Rendered %d pages for %s (dry run)\n", build.PagesBuilt, build.OutputDir)
		} else {
			fmt.Fprintf(rt.stdout, "Created %d pages in %s\n", build.PagesBuilt, build.OutputDir)
		}
	}
	fmt.Fprintln(rt.stdout)

	if !resources.healthCheck || resources.handlers.check == nil {
		fmt.Fprintln(rt.stdout, rt.paint(color.FgYellow).Sprint("⚠️  Skipping vector validation (Supabase credentials not provided)"))
		fmt.Fprintln(rt.stdout, rt.paint(color.FgGreen).Sprint("✅ Content fetched successfully"))
		return nil
	}

	fmt.Fprintln(rt.stdout, rt.paint(color.FgYellow).Sprint("🔍 Starting vector validation..."))

	var checked volumecmd.CheckResult
	err = resources.handlers.check.Execute(rt.ctx, volumecmd.HealthCheckCommand{
		VolumeID:       c.VolumeID,
		Volume:         fetched.Volume,
		ResultCallback: func(result volumecmd.CheckResult) { checked = result },
	})
	if err != nil {
		return fmt.Errorf("vector validation: %w", err)
	}
	if checked.SaveErr != nil {
		fmt.Fprintf(rt.stderr, "⚠️  Health check report not saved: %v\n", checked.SaveErr)
	}

	passed, err := healthcheck.WriteSummary(rt.stdout, checked.Report, healthcheck.SummaryOptions{Color: rt.color})
	if err != nil {
		return err
	}
	if !passed {
		return errValidationFailed
	}
	return nil
}
