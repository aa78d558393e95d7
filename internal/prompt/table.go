package prompt

import (
	"regexp"
	"strings"
)

var lineBreak = regexp.MustCompile(`\r\n|\r|\n`)

// ToTable renders comma-separated rows as a markdown table, using the first
// line as the header.
//
// Cells are split on every comma. Quoted fields are not understood, so
// `"Doe, Jane",30` becomes three cells. Rows keep their own cell count even
// when it differs from the header.
func ToTable(raw string) string {
	lines := splitLines(raw)
	if len(lines) == 0 {
		return raw
	}

	header := strings.Split(lines[0], ",")

	var sb strings.Builder
	writeRow(&sb, header)
	sb.WriteString("|")
	sb.WriteString(strings.Repeat("---|", len(header)))
	sb.WriteString("\n")

	for _, line := range lines[1:] {
		writeRow(&sb, strings.Split(line, ","))
	}

	return sb.String()
}

func writeRow(sb *strings.Builder, cells []string) {
	sb.WriteString("| ")
	sb.WriteString(strings.Join(cells, " | "))
	sb.WriteString(" |\n")
}

// splitLines drops trailing blank lines; blank input yields no lines.
func splitLines(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	lines := lineBreak.Split(raw, -1)
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
