package mock

import (
	"context"
	"sync"
	"time"

	"github.com/kitbuilder587/gemini-sdk/internal/llm"
)

type Client struct {
	Response string
	Error    error
	Delay    time.Duration

	mu        sync.Mutex
	CallCount int
	LastText  string
	AllCalls  []llm.GenerateRequest
}

func New() *Client {
	return &Client{
		Response: "This is a mock response.",
	}
}

func (c *Client) WithResponse(response string) *Client {
	c.Response = response
	return c
}

func (c *Client) WithError(err error) *Client {
	c.Error = err
	return c
}

func (c *Client) WithDelay(delay time.Duration) *Client {
	c.Delay = delay
	return c
}

func (c *Client) Generate(ctx context.Context, req llm.GenerateRequest) (string, error) {
	c.mu.Lock()
	c.CallCount++
	c.LastText = req.Text()
	c.AllCalls = append(c.AllCalls, req)
	c.mu.Unlock()

	if c.Delay > 0 {
		select {
		case <-ctx.Done():
			return "", &llm.TransportError{Err: ctx.Err()}
		case <-time.After(c.Delay):
		}
	}

	if c.Error != nil {
		return "", c.Error
	}

	return c.Response, nil
}

func (c *Client) Calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.CallCount
}

func (c *Client) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.CallCount = 0
	c.LastText = ""
	c.AllCalls = nil
}

var _ llm.Client = (*Client)(nil)
