package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kitbuilder587/gemini-sdk/generative"
	"github.com/kitbuilder587/gemini-sdk/internal/config"
	"github.com/kitbuilder587/gemini-sdk/internal/metrics"
	"github.com/kitbuilder587/gemini-sdk/internal/render"
)

type itemList []string

func (l *itemList) String() string { return strings.Join(*l, ", ") }

func (l *itemList) Set(v string) error {
	*l = append(*l, v)
	return nil
}

type options struct {
	envFile  string
	dataFile string
	items    itemList
	html     bool
	parallel int
	prompts  []string
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run() error {
	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		return err
	}

	cfg, err := config.Load(opts.envFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := config.NewLogger(cfg.Log)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer logger.Sync()

	m := metrics.New(prometheus.DefaultRegisterer)
	if cfg.Metrics.Addr != "" {
		srv := &http.Server{Addr: cfg.Metrics.Addr, Handler: metrics.Handler(), ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server failed", zap.Error(err))
			}
		}()
		defer srv.Close()
		logger.Info("metrics server started", zap.String("addr", cfg.Metrics.Addr))
	}

	client, err := generative.New(cfg.Gemini.APIKey, cfg.Gemini.Model,
		generative.WithBaseURL(cfg.Gemini.BaseURL),
		generative.WithTimeouts(cfg.Gemini.ConnectTimeout, cfg.Gemini.Timeout),
		generative.WithLogger(logger),
		generative.WithMetrics(m),
	)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	results, err := generateAll(ctx, client, opts)
	if err != nil {
		return err
	}

	for i, text := range results {
		if opts.html {
			if text, err = render.HTML(text); err != nil {
				return err
			}
		}
		if len(results) > 1 {
			fmt.Printf("### %s\n\n", opts.prompts[i])
		}
		fmt.Println(text)
	}

	return nil
}

func parseFlags(args []string) (*options, error) {
	fs := flag.NewFlagSet("gemini", flag.ContinueOnError)
	opts := &options{}

	fs.StringVar(&opts.envFile, "env", config.DefaultEnvFile, "override file with GEMINI_* variables")
	fs.StringVar(&opts.dataFile, "file", "", "comma-separated data file to embed as a table")
	fs.Var(&opts.items, "item", "data item to append to the prompt (repeatable)")
	fs.BoolVar(&opts.html, "html", false, "render the answer as HTML")
	fs.IntVar(&opts.parallel, "parallel", 4, "maximum number of prompts sent at once")
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "usage: gemini [flags] prompt [prompt...]")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	opts.prompts = fs.Args()
	if len(opts.prompts) == 0 {
		fs.Usage()
		return nil, errors.New("at least one prompt is required")
	}
	if opts.dataFile != "" && len(opts.items) > 0 {
		return nil, errors.New("-file and -item cannot be combined")
	}
	if opts.parallel < 1 {
		opts.parallel = 1
	}

	return opts, nil
}

type prompter interface {
	Prompt(ctx context.Context, text string) (string, error)
	PromptFile(ctx context.Context, text, path string) (string, error)
	PromptItems(ctx context.Context, text string, items []string) (string, error)
}

// generateAll sends every prompt with the same data and keeps argument order.
func generateAll(ctx context.Context, client prompter, opts *options) ([]string, error) {
	results := make([]string, len(opts.prompts))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.parallel)

	for i, p := range opts.prompts {
		i, p := i, p
		g.Go(func() error {
			var (
				text string
				err  error
			)
			switch {
			case opts.dataFile != "":
				text, err = client.PromptFile(ctx, p, opts.dataFile)
			case len(opts.items) > 0:
				text, err = client.PromptItems(ctx, p, opts.items)
			default:
				text, err = client.Prompt(ctx, p)
			}
			if err != nil {
				return fmt.Errorf("prompt %d: %w", i+1, err)
			}
			results[i] = text
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
