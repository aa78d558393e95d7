package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kitbuilder587/gemini-sdk/internal/llm"
	"github.com/kitbuilder587/gemini-sdk/internal/metrics"
)

const (
	DefaultBaseURL        = "https://generativelanguage.googleapis.com/v1beta/models"
	DefaultConnectTimeout = 10 * time.Second
	DefaultTimeout        = 30 * time.Second
)

type Config struct {
	APIKey         string
	Model          string
	BaseURL        string
	ConnectTimeout time.Duration
	Timeout        time.Duration
}

type Client struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
	logger  *zap.Logger
	metrics *metrics.Metrics
}

func New(cfg Config, logger *zap.Logger, m *metrics.Metrics) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = DefaultConnectTimeout
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.DialContext = (&net.Dialer{Timeout: cfg.ConnectTimeout}).DialContext
	transport.TLSHandshakeTimeout = cfg.ConnectTimeout

	return &Client{
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		client:  &http.Client{Timeout: cfg.Timeout, Transport: transport},
		logger:  logger,
		metrics: m,
	}
}

// endpoint keeps the key in the query string because that is the documented
// shape of the public endpoint.
// TODO: switch to the x-goog-api-key header once callers no longer rely on
// the query form through proxies.
func (c *Client) endpoint() string {
	return c.baseURL + "/" + url.PathEscape(c.model) + ":generateContent?key=" + url.QueryEscape(c.apiKey)
}

func (c *Client) Generate(ctx context.Context, req llm.GenerateRequest) (string, error) {
	requestID := uuid.New().String()
	logger := c.logger.With(zap.String("request_id", requestID), zap.String("model", c.model))

	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(), bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", c.redact(err))
	}
	httpReq.Header.Set("Content-Type", "application/json")

	if c.metrics != nil {
		c.metrics.IncRequestsInFlight()
		defer c.metrics.DecRequestsInFlight()
	}

	start := time.Now()
	respBody, statusCode, err := llm.DoRequest(c.client, httpReq)
	duration := time.Since(start)
	if err != nil {
		err = c.redact(err)
		c.record(metrics.StatusTransport, duration)
		logger.Warn("gemini transport failure", zap.Error(err), zap.Duration("duration", duration))
		return "", err
	}

	if !llm.IsSuccess(statusCode) {
		c.record(metrics.StatusProviderError, duration)
		return "", llm.HandleHTTPError(statusCode, respBody, logger, c.model)
	}

	resp, err := llm.ParseResponse(respBody)
	if err != nil {
		c.record(metrics.StatusInvalid, duration)
		return "", err
	}

	c.record(metrics.StatusOK, duration)
	logger.Debug("gemini request completed",
		zap.Int("status", statusCode),
		zap.Duration("duration", duration),
	)

	return resp.FirstText(), nil
}

func (c *Client) record(status string, duration time.Duration) {
	if c.metrics != nil {
		c.metrics.RecordRequest(c.model, status, duration)
	}
}

// redact strips the api key from url errors before they leave the client.
func (c *Client) redact(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		urlErr.URL = redactKey(urlErr.URL)
	}
	return err
}

func redactKey(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "[redacted]"
	}
	q := u.Query()
	if q.Has("key") {
		q.Set("key", "REDACTED")
		u.RawQuery = q.Encode()
	}
	return u.String()
}

var _ llm.Client = (*Client)(nil)
