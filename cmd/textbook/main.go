package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"
	"github.com/fatih/color"
	command "github.com/goliatone/go-command"

	"github.com/goliatone/go-textbook"
	volumecmd "github.com/goliatone/go-textbook/internal/commands/volume"
	"github.com/goliatone/go-textbook/internal/strapi"
)

// errValidationFailed ends the process with a failure status after the
// summary has already been printed.
var errValidationFailed = errors.New("vector validation failed")

type handlerSet struct {
	fetch command.Commander[volumecmd.FetchVolumeCommand]
	check command.Commander[volumecmd.HealthCheckCommand]
}

type moduleResources struct {
	handlers    handlerSet
	healthCheck bool
	close       func() error
}

var (
	moduleBuilder = buildModule
	lookupEnv     = os.LookupEnv
)

func buildModule(cfg textbook.Config) (*moduleResources, error) {
	module, err := textbook.New(cfg)
	if err != nil {
		return nil, err
	}
	return &moduleResources{
		handlers: handlerSet{
			fetch: module.FetchHandler(),
			check: module.HealthCheckHandler(),
		},
		healthCheck: module.HealthCheckEnabled(),
		close:       module.Close,
	}, nil
}

type globals struct {
	LogLevel    string `name:"log-level" help:"Log level (trace, debug, info, warn, error)."`
	LogProvider string `name:"log-provider" help:"Logger backend (console, gologger, zap)."`
	LogFormat   string `name:"log-format" help:"Log format understood by the selected provider."`
	NoColor     bool   `name:"no-color" help:"Disable colored output."`
}

type cli struct {
	Globals globals `embed:""`

	Fetch   fetchCmd   `cmd:"" help:"Fetch a volume from the CMS, write its documents and validate embeddings."`
	Preview previewCmd `cmd:"" help:"Render written page documents to sectioned HTML."`
}

type runtime struct {
	ctx    context.Context
	stdout io.Writer
	stderr io.Writer
	color  bool
	globals
}

func (rt *runtime) config() (textbook.Config, error) {
	cfg := textbook.DefaultConfig()
	if err := cfg.ApplyEnv(lookupEnv); err != nil {
		return cfg, err
	}
	if rt.LogLevel != "" {
		cfg.Logging.Level = rt.LogLevel
	}
	if rt.LogProvider != "" {
		cfg.Logging.Provider = rt.LogProvider
	}
	if rt.LogFormat != "" {
		cfg.Logging.Format = rt.LogFormat
	}
	return cfg, nil
}

func (rt *runtime) paint(attr color.Attribute) *color.Color {
	c := color.New(attr)
	if rt.color {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c
}

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	var root cli
	parser, err := kong.New(&root,
		kong.Name("textbook"),
		kong.Description("Fetch textbook volumes from the CMS and render them as Markdown documents."),
		kong.UsageOnError(),
		kong.Writers(stdout, stderr),
	)
	if err != nil {
		fmt.Fprintf(stderr, "textbook: %v\n", err)
		return 1
	}

	kctx, err := parser.Parse(args)
	if err != nil {
		parser.Errorf("%s", err)
		fmt.Fprintln(stderr, "Usage: textbook fetch <volume-id> [output-dir]")
		return 1
	}

	rt := &runtime{
		ctx:     ctx,
		stdout:  stdout,
		stderr:  stderr,
		color:   !root.Globals.NoColor && !color.NoColor && isTerminal(stdout),
		globals: root.Globals,
	}

	if err := kctx.Run(rt); err != nil {
		if errors.Is(err, errValidationFailed) {
			return 1
		}
		fmt.Fprintf(stderr, "%s %v\n", rt.paint(color.FgRed).Sprint("Error:"), err)
		var fetchErr *fetchError
		if errors.As(err, &fetchErr) {
			fmt.Fprintf(stderr, "Make sure to use the documentId from %s\n", strapi.DefaultBaseURL)
			fmt.Fprintln(stderr, "Usage: textbook fetch <volume-id> [output-dir]")
		}
		return 1
	}
	return 0
}

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := file.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
