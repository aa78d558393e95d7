// Package generative is a small client for the Gemini generateContent API.
//
// A Client sends one prompt per call, optionally augmented with tabular text
// or a list of items, and returns the first generated text:
//
//	c, err := generative.Connect()
//	if err != nil {
//		return err
//	}
//	answer, err := c.PromptItems(ctx, "Top sellers this month:", []string{
//		"Juan - North - $12000",
//		"Maria - South - $18000",
//	})
//
// A Client holds only immutable settings and may be shared between
// goroutines.
package generative

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kitbuilder587/gemini-sdk/internal/config"
	"github.com/kitbuilder587/gemini-sdk/internal/llm"
	"github.com/kitbuilder587/gemini-sdk/internal/llm/gemini"
	"github.com/kitbuilder587/gemini-sdk/internal/metrics"
	"github.com/kitbuilder587/gemini-sdk/internal/prompt"
)

type Client struct {
	model     string
	transport llm.Client
	logger    *zap.Logger
	metrics   *metrics.Metrics
}

type options struct {
	logger         *zap.Logger
	metrics        *metrics.Metrics
	baseURL        string
	connectTimeout time.Duration
	timeout        time.Duration
	envFile        string
	transport      Transport
}

type Option func(*options)

func WithLogger(logger *zap.Logger) Option {
	return func(o *options) { o.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(o *options) { o.metrics = m }
}

func WithBaseURL(baseURL string) Option {
	return func(o *options) { o.baseURL = baseURL }
}

// WithTimeouts sets the connect and overall request timeouts. Values <= 0
// keep the defaults.
func WithTimeouts(connect, total time.Duration) Option {
	return func(o *options) {
		o.connectTimeout = connect
		o.timeout = total
	}
}

// WithEnvFile changes the override file read by Connect. An empty path
// disables it.
func WithEnvFile(path string) Option {
	return func(o *options) { o.envFile = path }
}

// WithTransport replaces the HTTP client, mostly for tests.
func WithTransport(t Transport) Option {
	return func(o *options) { o.transport = t }
}

// Connect reads GEMINI_API_KEY and GEMINI_MODEL from the environment, with
// values from a local .env file taking precedence.
func Connect(opts ...Option) (*Client, error) {
	o := options{envFile: config.DefaultEnvFile}
	for _, opt := range opts {
		opt(&o)
	}

	cfg, err := config.LoadGemini(o.envFile)
	if err != nil {
		return nil, err
	}

	base := []Option{
		WithBaseURL(cfg.BaseURL),
		WithTimeouts(cfg.ConnectTimeout, cfg.Timeout),
	}
	return New(cfg.APIKey, cfg.Model, append(base, opts...)...)
}

// New validates the credentials up front; a blank key or model fails with an
// error wrapping ErrConfiguration.
func New(apiKey, model string, opts ...Option) (*Client, error) {
	gc := config.GeminiConfig{APIKey: strings.TrimSpace(apiKey), Model: strings.TrimSpace(model)}
	if err := gc.Validate(); err != nil {
		return nil, err
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}

	transport := o.transport
	if transport == nil {
		transport = gemini.New(gemini.Config{
			APIKey:         gc.APIKey,
			Model:          gc.Model,
			BaseURL:        o.baseURL,
			ConnectTimeout: o.connectTimeout,
			Timeout:        o.timeout,
		}, o.logger, o.metrics)
	}

	return &Client{
		model:     gc.Model,
		transport: transport,
		logger:    o.logger,
		metrics:   o.metrics,
	}, nil
}

func (c *Client) Model() string {
	return c.model
}

func (c *Client) Prompt(ctx context.Context, text string) (string, error) {
	return c.Generate(ctx, text, None())
}

// PromptFile embeds a comma-separated file as a table. A missing or empty
// file sends the plain prompt.
func (c *Client) PromptFile(ctx context.Context, text, path string) (string, error) {
	info, err := os.Stat(path)
	if err == nil && info.IsDir() {
		return "", fmt.Errorf("read data file: %s is a directory", path)
	}
	if errors.Is(err, os.ErrNotExist) || (err == nil && info.Size() == 0) {
		c.logger.Debug("data file missing or empty, sending plain prompt", zap.String("path", path))
		return c.Prompt(ctx, text)
	}
	if err != nil {
		return "", fmt.Errorf("read data file: %w", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read data file: %w", err)
	}
	return c.Generate(ctx, text, RawText(string(raw)))
}

func (c *Client) PromptReader(ctx context.Context, text string, r io.Reader) (string, error) {
	if r == nil {
		return c.Prompt(ctx, text)
	}
	raw, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read data: %w", err)
	}
	return c.Generate(ctx, text, RawText(string(raw)))
}

func (c *Client) PromptItems(ctx context.Context, text string, items []string) (string, error) {
	return c.Generate(ctx, text, Items(items...))
}

// Generate is the single entry point behind the Prompt helpers.
func (c *Client) Generate(ctx context.Context, text string, aux AuxData) (string, error) {
	req := prompt.Build(text, aux)

	if c.metrics != nil {
		c.metrics.RecordPrompt(aux.Kind.String(), len(req.Text()))
	}

	result, err := c.transport.Generate(ctx, req)
	if err != nil {
		return "", fmt.Errorf("generate: %w", err)
	}
	return result, nil
}
