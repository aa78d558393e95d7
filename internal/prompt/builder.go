package prompt

import (
	"fmt"
	"strings"

	"github.com/kitbuilder587/gemini-sdk/internal/llm"
)

const (
	tableTemplate = `The following data is presented as a table:

%s
Based solely on this information, answer the following question:
%s
`
	itemsLabel  = "Data loaded"
	itemsBullet = "• "
)

func Build(prompt string, aux AuxData) llm.GenerateRequest {
	return llm.NewGenerateRequest(Compose(prompt, aux))
}

// Compose merges aux into prompt. Empty aux data of any kind leaves the
// prompt untouched.
func Compose(prompt string, aux AuxData) string {
	switch aux.Kind {
	case AuxRawText:
		if strings.TrimSpace(aux.Text) == "" {
			return prompt
		}
		return fmt.Sprintf(tableTemplate, ToTable(aux.Text), prompt)

	case AuxItems:
		if len(aux.Items) == 0 {
			return prompt
		}
		var sb strings.Builder
		sb.WriteString(prompt)
		sb.WriteString("\n\n" + itemsLabel + ":\n")
		for _, item := range aux.Items {
			sb.WriteString(itemsBullet)
			sb.WriteString(item)
			sb.WriteString("\n")
		}
		return sb.String()

	default:
		return prompt
	}
}
