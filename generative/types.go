package generative

import (
	"github.com/kitbuilder587/gemini-sdk/internal/llm"
	"github.com/kitbuilder587/gemini-sdk/internal/prompt"
)

type AuxData = prompt.AuxData

var (
	None    = prompt.None
	RawText = prompt.RawText
	Items   = prompt.Items
)

// ItemsOf renders each item with fmt.Sprint.
func ItemsOf[T any](items []T) AuxData {
	return prompt.ItemsOf(items)
}

// Transport sends a built request and returns the extracted text.
type Transport = llm.Client

type Request = llm.GenerateRequest

type (
	ProviderError  = llm.ProviderError
	TransportError = llm.TransportError
)

var (
	ErrConfiguration   = llm.ErrConfiguration
	ErrMissingAPIKey   = llm.ErrMissingAPIKey
	ErrMissingModel    = llm.ErrMissingModel
	ErrInvalidResponse = llm.ErrInvalidResponse
)

const (
	NoCandidates = llm.NoCandidates
	NoText       = llm.NoText
)
