package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/bodrovis/tfcx/apierr"
	"github.com/bodrovis/tfcx/client"
	"github.com/bodrovis/tfcx/config"
)

const defaultConcurrency = 4

// errFetchFailed means at least one URL came back with an error.
var errFetchFailed = errors.New("one or more requests failed")

type getOptions struct {
	configFile  string
	envFile     string
	concurrency int
	logLevel    string
}

func getCmd() *cobra.Command {
	var opts getOptions

	cmd := &cobra.Command{
		Use:   "get URL...",
		Short: "Fetch one or more API resources",
		Long: `Fetch API resources and print each response as indented JSON.

Relative URLs are resolved against https://<hostname>/api/v2/. Failures are
printed as JSON:API failure documents and make the command exit with 1.

Settings come from --config, --env-file and TFCX_* environment variables
(TFCX_TOKEN, TFCX_HOSTNAME, TFCX_TIMEOUT, TFCX_MAX_RETRIES, ...).`,
		Example: `  tfcx get https://app.terraform.io/api/meta/ip-ranges
  tfcx get organizations workspaces/ws-123 --concurrency 2`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGet(cmd.Context(), opts, args, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	cmd.Flags().StringVarP(&opts.configFile, "config", "c", "", "YAML settings file")
	cmd.Flags().StringVar(&opts.envFile, "env-file", "", ".env file with TFCX_* settings")
	cmd.Flags().IntVarP(&opts.concurrency, "concurrency", "n", defaultConcurrency, "maximum parallel requests")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", "warn", "log level (debug, info, warn, error, disabled)")

	return cmd
}

type result struct {
	url  string
	body json.RawMessage
	err  error
}

func runGet(ctx context.Context, opts getOptions, args []string, stdout, stderr io.Writer) error {
	if opts.concurrency < 1 {
		return fmt.Errorf("--concurrency must be at least 1, got %d", opts.concurrency)
	}
	logger, err := newLogger(opts.logLevel, stderr)
	if err != nil {
		return err
	}

	var loadOpts []config.Option
	if opts.configFile != "" {
		loadOpts = append(loadOpts, config.WithFile(opts.configFile))
	}
	if opts.envFile != "" {
		loadOpts = append(loadOpts, config.WithDotEnv(opts.envFile))
	}
	settings, err := config.LoadSettings(loadOpts...)
	if err != nil {
		return err
	}

	targets, err := resolveAll(settings.BaseURL(), args)
	if err != nil {
		return err
	}

	c, err := settings.Builder().SetLogger(logger).Build()
	if err != nil {
		return err
	}

	results := fetchAll(ctx, c, targets, opts.concurrency)
	if failed := writeResults(stdout, results); failed > 0 {
		logger.Warn().Int("failed", failed).Int("total", len(results)).Msg("some requests failed")
		return errFetchFailed
	}
	return nil
}

func newLogger(level string, w io.Writer) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("--log-level: %w", err)
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}).
		Level(lvl).
		With().Timestamp().Logger(), nil
}

// resolveAll turns relative references into absolute URLs under base.
func resolveAll(base string, refs []string) ([]string, error) {
	baseURL, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("base URL %q: %w", base, err)
	}
	out := make([]string, len(refs))
	for i, ref := range refs {
		u, err := url.Parse(ref)
		if err != nil {
			return nil, fmt.Errorf("url %q: %w", ref, err)
		}
		out[i] = baseURL.ResolveReference(u).String()
	}
	return out, nil
}

// fetchAll GETs every URL with at most limit requests in flight. Results
// keep the order of urls.
func fetchAll(ctx context.Context, c client.HTTPClient, urls []string, limit int) []result {
	results := make([]result, len(urls))

	var g errgroup.Group
	g.SetLimit(limit)
	for i, u := range urls {
		g.Go(func() error {
			body, err := client.Get[json.RawMessage](ctx, c, u, nil, nil)
			results[i] = result{url: u, body: body, err: err}
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// writeResults prints every result and returns how many failed.
func writeResults(w io.Writer, results []result) int {
	failed := 0
	for i, r := range results {
		if len(results) > 1 {
			if i > 0 {
				fmt.Fprintln(w)
			}
			fmt.Fprintf(w, "==> %s <==\n", r.url)
		}
		if r.err != nil {
			failed++
			fmt.Fprintln(w, apierr.AsFailure(r.err))
			continue
		}
		fmt.Fprintln(w, indent(r.body))
	}
	return failed
}

func indent(body json.RawMessage) string {
	if len(body) == 0 {
		return "null"
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, body, "", "  "); err != nil {
		return string(body)
	}
	return buf.String()
}
