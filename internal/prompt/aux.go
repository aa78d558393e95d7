package prompt

import "fmt"

type AuxKind int

const (
	AuxNone AuxKind = iota
	AuxRawText
	AuxItems
)

func (k AuxKind) String() string {
	switch k {
	case AuxRawText:
		return "raw_text"
	case AuxItems:
		return "items"
	default:
		return "none"
	}
}

// AuxData is extra context merged into a prompt. Only the field matching
// Kind is meaningful.
type AuxData struct {
	Kind  AuxKind
	Text  string
	Items []string
}

func None() AuxData {
	return AuxData{Kind: AuxNone}
}

// RawText wraps comma-separated rows, usually the contents of a CSV file.
func RawText(text string) AuxData {
	return AuxData{Kind: AuxRawText, Text: text}
}

func Items(items ...string) AuxData {
	return AuxData{Kind: AuxItems, Items: append([]string(nil), items...)}
}

// ItemsOf renders each item with fmt.Sprint.
func ItemsOf[T any](items []T) AuxData {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = fmt.Sprint(item)
	}
	return AuxData{Kind: AuxItems, Items: out}
}
