package llm

import (
	"fmt"
	"io"
	"net/http"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

const (
	NoCandidates = "No candidates found."
	NoText       = "No text available"
)

type GenerateRequest struct {
	Contents []Content `json:"contents"`
}

type Content struct {
	Parts []Part `json:"parts"`
}

type Part struct {
	Text string `json:"text"`
}

func NewGenerateRequest(text string) GenerateRequest {
	return GenerateRequest{
		Contents: []Content{
			{Parts: []Part{{Text: text}}},
		},
	}
}

// Text returns the text of the single part, or "" for a malformed request.
func (r GenerateRequest) Text() string {
	if len(r.Contents) == 0 || len(r.Contents[0].Parts) == 0 {
		return ""
	}
	return r.Contents[0].Parts[0].Text
}

// RawResponse is the provider response tree. Its shape is only partially
// trusted, so every lookup goes through gjson paths instead of a struct.
type RawResponse struct {
	root gjson.Result
}

func ParseResponse(body []byte) (RawResponse, error) {
	if !gjson.ValidBytes(body) {
		return RawResponse{}, fmt.Errorf("%w: body is not valid json", ErrInvalidResponse)
	}
	return RawResponse{root: gjson.ParseBytes(body)}, nil
}

// FirstText returns candidates[0].content.parts[0].text, or a sentinel
// string when the tree stops short of it.
func (r RawResponse) FirstText() string {
	candidates := r.root.Get("candidates")
	if !candidates.IsArray() || len(candidates.Array()) == 0 {
		return NoCandidates
	}

	text := candidates.Get("0.content.parts.0.text")
	switch {
	case !text.Exists(), text.Type == gjson.Null, text.IsObject(), text.IsArray():
		return NoText
	}
	return text.String()
}

func HandleHTTPError(statusCode int, body []byte, logger *zap.Logger, model string) error {
	logger.Error("gemini request failed",
		zap.String("model", model),
		zap.Int("status", statusCode),
		zap.String("body", string(body)),
	)
	return &ProviderError{StatusCode: statusCode, Body: string(body)}
}

func IsSuccess(statusCode int) bool {
	return statusCode >= 200 && statusCode < 300
}

func DoRequest(client *http.Client, req *http.Request) ([]byte, int, error) {
	resp, err := client.Do(req)
	if err != nil {
		return nil, 0, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, &TransportError{Err: fmt.Errorf("read response: %w", err)}
	}

	return body, resp.StatusCode, nil
}
