package generative

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"testing/iotest"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"

	"github.com/kitbuilder587/gemini-sdk/internal/llm/mock"
	"github.com/kitbuilder587/gemini-sdk/internal/metrics"
)

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name    string
		apiKey  string
		model   string
		wantErr error
	}{
		{"valid", "key", "gemini-2.0-flash", nil},
		{"empty key", "", "gemini-2.0-flash", ErrMissingAPIKey},
		{"blank key", "  \t", "gemini-2.0-flash", ErrMissingAPIKey},
		{"empty model", "key", "", ErrMissingModel},
		{"blank model", "key", " ", ErrMissingModel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			transport := mock.New()
			c, err := New(tt.apiKey, tt.model, WithTransport(transport))

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) || !errors.Is(err, ErrConfiguration) {
					t.Errorf("New() error = %v, want %v", err, tt.wantErr)
				}
				if c != nil {
					t.Error("New() should not return a client on error")
				}
				if transport.Calls() != 0 {
					t.Error("no call should be attempted")
				}
				return
			}

			if err != nil {
				t.Fatalf("New() unexpected error = %v", err)
			}
			if c.Model() != tt.model {
				t.Errorf("Model() = %q, want %q", c.Model(), tt.model)
			}
		})
	}
}

func TestClient_Prompt(t *testing.T) {
	transport := mock.New().WithResponse("answer")
	c := newTestClient(t, transport)

	got, err := c.Prompt(context.Background(), "Explain machine learning.")
	if err != nil {
		t.Fatalf("Prompt() error = %v", err)
	}
	if got != "answer" {
		t.Errorf("Prompt() = %q, want answer", got)
	}
	if transport.LastText != "Explain machine learning." {
		t.Errorf("sent text = %q", transport.LastText)
	}
}

func TestClient_PromptItems(t *testing.T) {
	tests := []struct {
		name  string
		items []string
		want  string
	}{
		{"nil items", nil, "List:"},
		{"empty items", []string{}, "List:"},
		{"two items", []string{"a", "b"}, "List:\n\nData loaded:\n• a\n• b\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			transport := mock.New()
			c := newTestClient(t, transport)

			if _, err := c.PromptItems(context.Background(), "List:", tt.items); err != nil {
				t.Fatalf("PromptItems() error = %v", err)
			}
			if transport.LastText != tt.want {
				t.Errorf("sent text = %q, want %q", transport.LastText, tt.want)
			}
		})
	}
}

func TestClient_PromptFile(t *testing.T) {
	dir := t.TempDir()
	csv := filepath.Join(dir, "phones.csv")
	if err := os.WriteFile(csv, []byte("name,score\nAda,10\nLin,8\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	empty := filepath.Join(dir, "empty.csv")
	if err := os.WriteFile(empty, nil, 0o600); err != nil {
		t.Fatal(err)
	}
	blank := filepath.Join(dir, "blank.csv")
	if err := os.WriteFile(blank, []byte("\n  \n"), 0o600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name      string
		path      string
		wantPlain bool
	}{
		{"csv file", csv, false},
		{"missing file", filepath.Join(dir, "missing.csv"), true},
		{"empty file", empty, true},
		{"whitespace file", blank, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			transport := mock.New()
			c := newTestClient(t, transport)

			if _, err := c.PromptFile(context.Background(), "Summarize", tt.path); err != nil {
				t.Fatalf("PromptFile() error = %v", err)
			}

			if tt.wantPlain {
				if transport.LastText != "Summarize" {
					t.Errorf("sent text = %q, want plain prompt", transport.LastText)
				}
				return
			}

			for _, want := range []string{"| name | score |", "|---|---|", "| Ada | 10 |", "| Lin | 8 |"} {
				if !strings.Contains(transport.LastText, want) {
					t.Errorf("sent text missing %q:\n%s", want, transport.LastText)
				}
			}
			if strings.Index(transport.LastText, "| Lin | 8 |") > strings.LastIndex(transport.LastText, "Summarize") {
				t.Error("table should come before the question")
			}
		})
	}
}

func TestClient_PromptFile_Directory(t *testing.T) {
	transport := mock.New()
	c := newTestClient(t, transport)

	_, err := c.PromptFile(context.Background(), "Summarize", t.TempDir())
	if err == nil {
		t.Fatal("PromptFile() expected error for a directory")
	}
	if transport.Calls() != 0 {
		t.Error("no call should be attempted when the file cannot be read")
	}
}

func TestClient_PromptReader(t *testing.T) {
	transport := mock.New()
	c := newTestClient(t, transport)

	if _, err := c.PromptReader(context.Background(), "Q", strings.NewReader("a,b\n1,2")); err != nil {
		t.Fatalf("PromptReader() error = %v", err)
	}
	if !strings.Contains(transport.LastText, "| a | b |\n|---|---|\n| 1 | 2 |\n") {
		t.Errorf("sent text = %q", transport.LastText)
	}

	if _, err := c.PromptReader(context.Background(), "Q", nil); err != nil {
		t.Fatalf("PromptReader(nil) error = %v", err)
	}
	if transport.LastText != "Q" {
		t.Errorf("sent text = %q, want plain prompt", transport.LastText)
	}

	readErr := errors.New("disk gone")
	if _, err := c.PromptReader(context.Background(), "Q", iotest.ErrReader(readErr)); !errors.Is(err, readErr) {
		t.Errorf("PromptReader() error = %v, want %v", err, readErr)
	}
}

func TestClient_Generate_PropagatesErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"provider error", &ProviderError{StatusCode: 500, Body: "boom"}},
		{"transport error", &TransportError{Err: context.DeadlineExceeded}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			transport := mock.New().WithError(tt.err)
			c := newTestClient(t, transport)

			got, err := c.Generate(context.Background(), "p", None())
			if !errors.Is(err, tt.err) {
				t.Errorf("Generate() error = %v, want %v", err, tt.err)
			}
			if got != "" {
				t.Errorf("Generate() = %q, want empty on failure", got)
			}
			if transport.Calls() != 1 {
				t.Errorf("calls = %d, want exactly one attempt", transport.Calls())
			}
		})
	}
}

func TestClient_Generate_Cancelled(t *testing.T) {
	transport := mock.New().WithDelay(time.Second)
	c := newTestClient(t, transport)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Generate(ctx, "p", None())
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Generate() error = %v, want context.Canceled", err)
	}
}

func TestClient_ConcurrentUse(t *testing.T) {
	transport := mock.New()
	c := newTestClient(t, transport)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := c.PromptItems(context.Background(), "p", []string{"x"}); err != nil {
				t.Errorf("PromptItems() error = %v", err)
			}
		}()
	}
	wg.Wait()

	if transport.Calls() != 20 {
		t.Errorf("calls = %d, want 20", transport.Calls())
	}
}

func TestClient_RecordsPromptSize(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	c, err := New("key", "model", WithTransport(mock.New()), WithMetrics(m))
	if err != nil {
		t.Fatal(err)
	}

	c.Prompt(context.Background(), "p")
	c.PromptItems(context.Background(), "p", []string{"a"})

	if got := testutil.CollectAndCount(m.PromptBytes); got != 2 {
		t.Errorf("prompt size series = %d, want 2", got)
	}
}

func TestClient_EndToEnd(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/gemini-test:generateContent" || r.URL.Query().Get("key") != "test-key" {
			t.Errorf("unexpected url %s", r.URL)
		}

		var req Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}

		resp := map[string]any{
			"candidates": []any{
				map[string]any{"content": map[string]any{"parts": []any{map[string]any{"text": "echo: " + req.Text()}}}},
			},
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	c, err := New("test-key", "gemini-test", WithBaseURL(server.URL), WithTimeouts(time.Second, 5*time.Second), WithLogger(zap.NewNop()))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	got, err := c.Prompt(context.Background(), "hello")
	if err != nil {
		t.Fatalf("Prompt() error = %v", err)
	}
	if got != "echo: hello" {
		t.Errorf("Prompt() = %q, want %q", got, "echo: hello")
	}
}

func TestClient_EndToEnd_ProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		io.WriteString(w, `{"error":{"status":"PERMISSION_DENIED"}}`)
	}))
	defer server.Close()

	c, err := New("test-key", "gemini-test", WithBaseURL(server.URL))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	_, err = c.Prompt(context.Background(), "hello")

	var pe *ProviderError
	if !errors.As(err, &pe) {
		t.Fatalf("Prompt() error = %v, want *ProviderError", err)
	}
	if pe.StatusCode != http.StatusForbidden || !strings.Contains(pe.Body, "PERMISSION_DENIED") {
		t.Errorf("ProviderError = %+v", pe)
	}
}

func TestConnect(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "env-key")
	t.Setenv("GEMINI_MODEL", "env-model")

	envFile := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(envFile, []byte("GEMINI_MODEL=file-model\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	c, err := Connect(WithEnvFile(envFile), WithTransport(mock.New()))
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	if c.Model() != "file-model" {
		t.Errorf("Model() = %q, want file-model", c.Model())
	}
}

func TestConnect_MissingConfiguration(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("GEMINI_MODEL", "m")

	_, err := Connect(WithEnvFile(""))
	if !errors.Is(err, ErrMissingAPIKey) {
		t.Errorf("Connect() error = %v, want %v", err, ErrMissingAPIKey)
	}
}

func newTestClient(t *testing.T, transport Transport) *Client {
	t.Helper()
	c, err := New("test-key", "gemini-test", WithTransport(transport))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return c
}
