package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/erraggy/oasatlas"
	"github.com/erraggy/oasatlas/dataset"
	"github.com/erraggy/oasatlas/docsfetch"
	"github.com/erraggy/oasatlas/document"
	"github.com/erraggy/oasatlas/internal/mcpserver"
	"github.com/erraggy/oasatlas/probe"
	"github.com/erraggy/oasatlas/specfetch"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "version", "-v", "--version":
		fmt.Printf("oasatlas v%s\n", oasatlas.Version())
	case "help", "-h", "--help":
		printUsage()
	case "build":
		if err := handleBuild(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "fetch":
		if err := handleFetch(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "probe":
		if err := handleProbe(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "mcp":
		if err := handleMCP(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

// newLogger builds the CLI logger. Verbose mode enables debug output.
func newLogger(verbose bool) dataset.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	return dataset.NewSlogAdapter(slog.New(handler))
}

// buildFlags contains flags for the build command
type buildFlags struct {
	out            string
	docsBase       string
	noDocsExamples bool
	maxDepth       int
	verbose        bool
}

func setupBuildFlags() (*flag.FlagSet, *buildFlags) {
	fs := flag.NewFlagSet("build", flag.ContinueOnError)
	flags := &buildFlags{}

	fs.StringVar(&flags.out, "o", "data/endpoints.json", "output JSON path")
	fs.StringVar(&flags.docsBase, "docs-base", "", "hosted docs reference base URL for example synthesis")
	fs.BoolVar(&flags.noDocsExamples, "no-docs-examples", false, "do not fetch the docs schema to synthesize response examples")
	fs.IntVar(&flags.maxDepth, "max-depth", 0, "example synthesis recursion cap (default 6)")
	fs.BoolVar(&flags.verbose, "verbose", false, "enable debug logging")

	fs.Usage = func() {
		output := fs.Output()
		_, _ = fmt.Fprintf(output, "Usage: oasatlas build [flags] <file|url>\n\n")
		_, _ = fmt.Fprintf(output, "Build a normalized endpoint dataset from an OpenAPI document.\n\n")
		_, _ = fmt.Fprintf(output, "Flags:\n")
		fs.PrintDefaults()
		_, _ = fmt.Fprintf(output, "\nExamples:\n")
		_, _ = fmt.Fprintf(output, "  oasatlas build data/api.yaml\n")
		_, _ = fmt.Fprintf(output, "  oasatlas build -o data/endpoints.json --docs-base https://developer.example.com/reference data/api.yaml\n")
		_, _ = fmt.Fprintf(output, "  oasatlas build --no-docs-examples https://api.example.com/openapi.yaml\n")
	}

	return fs, flags
}

func handleBuild(args []string) error {
	fs, flags := setupBuildFlags()

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil
		}
		return err
	}

	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("build command requires exactly one file path or URL")
	}

	log := newLogger(flags.verbose)
	ctx := context.Background()

	doc, err := document.Load(fs.Arg(0))
	if err != nil {
		return fmt.Errorf("loading spec: %w", err)
	}

	var docsSchema *document.Map
	if flags.docsBase != "" && !flags.noDocsExamples {
		slug, ok := docsfetch.SeedSlug(doc.Root)
		if !ok {
			log.Warn("could not find a seed endpoint to load the docs schema")
		} else {
			seedURL := docsfetch.SeedURL(flags.docsBase, slug)
			fetcher := docsfetch.Fetcher{Logger: log}
			docsSchema, err = fetcher.FetchSchema(ctx, seedURL)
			if err != nil {
				log.Warn("failed to load docs schema; response examples may be empty", "url", seedURL, "error", err)
			}
		}
	}

	builder := &dataset.Builder{Logger: log, MaxDepth: flags.maxDepth}
	ds, err := builder.Build(doc, docsSchema)
	if err != nil {
		return fmt.Errorf("building dataset: %w", err)
	}

	encoded, err := ds.MarshalIndent()
	if err != nil {
		return fmt.Errorf("encoding dataset: %w", err)
	}
	if err := writeFileMkdir(flags.out, append(encoded, '\n')); err != nil {
		return err
	}

	fmt.Printf("wrote %s (endpoints=%d, edges=%d)\n", flags.out, len(ds.Endpoints), len(ds.Edges))
	return nil
}

// fetchFlags contains flags for the fetch command
type fetchFlags struct {
	out     string
	verbose bool
}

func setupFetchFlags() (*flag.FlagSet, *fetchFlags) {
	fs := flag.NewFlagSet("fetch", flag.ContinueOnError)
	flags := &fetchFlags{}

	fs.StringVar(&flags.out, "o", "data/api.yaml", "output file path")
	fs.BoolVar(&flags.verbose, "verbose", false, "enable debug logging")

	fs.Usage = func() {
		output := fs.Output()
		_, _ = fmt.Fprintf(output, "Usage: oasatlas fetch [flags] <url>\n\n")
		_, _ = fmt.Fprintf(output, "Download a published OpenAPI spec file.\n\n")
		_, _ = fmt.Fprintf(output, "Flags:\n")
		fs.PrintDefaults()
		_, _ = fmt.Fprintf(output, "\nExamples:\n")
		_, _ = fmt.Fprintf(output, "  oasatlas fetch https://api.example.com/docs/openapi/api.yaml\n")
		_, _ = fmt.Fprintf(output, "  oasatlas fetch -o data/api.yaml https://api.example.com/docs/openapi/api.yaml\n")
	}

	return fs, flags
}

func handleFetch(args []string) error {
	fs, flags := setupFetchFlags()

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil
		}
		return err
	}

	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("fetch command requires exactly one URL")
	}

	fetcher := specfetch.Fetcher{Logger: newLogger(flags.verbose)}
	result, err := fetcher.Download(context.Background(), fs.Arg(0), flags.out)
	if err != nil {
		return fmt.Errorf("downloading spec: %w", err)
	}

	fmt.Printf("wrote %s (%d bytes, sha256=%s)\n", result.Path, result.Size, result.SHA256[:12])
	return nil
}

// probeFlags contains flags for the probe command
type probeFlags struct {
	dataset string
	out     string
	envFile string
	delay   time.Duration
	verbose bool
}

func setupProbeFlags() (*flag.FlagSet, *probeFlags) {
	fs := flag.NewFlagSet("probe", flag.ContinueOnError)
	flags := &probeFlags{}

	fs.StringVar(&flags.dataset, "dataset", "data/endpoints.json", "dataset JSON path")
	fs.StringVar(&flags.out, "out", "data/responses", "directory for saved responses")
	fs.StringVar(&flags.envFile, "env", ".env", "path to a .env file with credentials")
	fs.DurationVar(&flags.delay, "delay", 150*time.Millisecond, "pause between endpoint calls")
	fs.BoolVar(&flags.verbose, "verbose", false, "enable debug logging")

	fs.Usage = func() {
		output := fs.Output()
		_, _ = fmt.Fprintf(output, "Usage: oasatlas probe [flags]\n\n")
		_, _ = fmt.Fprintf(output, "Call the safe read-only subset of a built dataset's endpoints and save responses.\n\n")
		_, _ = fmt.Fprintf(output, "Credentials come from OASATLAS_* environment variables, optionally loaded from a .env file:\n")
		_, _ = fmt.Fprintf(output, "  %s, %s, %s, %s\n", probe.EnvBaseURL, probe.EnvClientID, probe.EnvClientSecret, probe.EnvERPToken)
		_, _ = fmt.Fprintf(output, "  %s (optional; skips authentication)\n\n", probe.EnvAccessToken)
		_, _ = fmt.Fprintf(output, "Flags:\n")
		fs.PrintDefaults()
		_, _ = fmt.Fprintf(output, "\nExamples:\n")
		_, _ = fmt.Fprintf(output, "  oasatlas probe\n")
		_, _ = fmt.Fprintf(output, "  oasatlas probe -dataset data/endpoints.json -out data/responses -delay 250ms\n")
	}

	return fs, flags
}

func handleProbe(args []string) error {
	fs, flags := setupProbeFlags()

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil
		}
		return err
	}
	if fs.NArg() != 0 {
		fs.Usage()
		return fmt.Errorf("probe command takes no positional arguments")
	}

	log := newLogger(flags.verbose)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := probe.LoadDotenv(flags.envFile); err != nil {
		return err
	}
	cfg, err := probe.ConfigFromEnv()
	if err != nil {
		return err
	}

	token := cfg.AccessToken
	if token == "" {
		token, err = probe.Authenticate(ctx, nil, cfg)
		if err != nil {
			return fmt.Errorf("authenticating: %w", err)
		}
	}

	data, err := os.ReadFile(flags.dataset)
	if err != nil {
		return fmt.Errorf("reading dataset: %w", err)
	}
	ds, err := dataset.Unmarshal(data)
	if err != nil {
		return fmt.Errorf("decoding dataset: %w", err)
	}

	prober := &probe.Prober{
		BaseURL:    cfg.BaseURL,
		Token:      token,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
		Delay:      flags.delay,
		Logger:     log,
	}
	summary, err := prober.Run(ctx, ds.Endpoints, flags.out)
	if err != nil {
		return err
	}

	fmt.Printf("done: called=%d ok=%d fail=%d (responses in %s)\n", summary.Called, summary.OK, summary.Failed, flags.out)
	return nil
}

func handleMCP() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return mcpserver.Run(ctx)
}

// writeFileMkdir writes data to path, creating parent directories as needed.
func writeFileMkdir(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

func printUsage() {
	fmt.Println(`oasatlas - OpenAPI Endpoint Dataset Tools

Usage:
  oasatlas <command> [options]

Commands:
  build       Build a normalized endpoint dataset from an OpenAPI document
  fetch       Download a published OpenAPI spec file
  probe       Call the safe read-only endpoint subset and save responses
  mcp         Run the MCP server over stdio
  version     Show version information
  help        Show this help message

Examples:
  oasatlas fetch -o data/api.yaml https://api.example.com/docs/openapi/api.yaml
  oasatlas build -o data/endpoints.json --docs-base https://developer.example.com/reference data/api.yaml
  oasatlas probe -dataset data/endpoints.json -out data/responses
  oasatlas mcp

Run 'oasatlas <command> --help' for more information on a command.`)
}
