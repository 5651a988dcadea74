package assemble

import "strings"

// FormatHeader renders license lines as a block comment followed by one blank line:
//
//	/**
//	 * line one
//	 * line two
//	 */
//
// Each line is trimmed of surrounding whitespace. Empty input yields a header
// with an empty body.
func FormatHeader(lines []string) string {
	var b strings.Builder
	b.WriteString("/**\n")
	for _, line := range lines {
		b.WriteString(" * ")
		b.WriteString(strings.TrimSpace(line))
		b.WriteString("\n")
	}
	b.WriteString(" */\n\n")
	return b.String()
}

// SplitLicense splits raw license text into lines for FormatHeader.
// A single trailing newline does not produce an extra empty line.
func SplitLicense(text string) []string {
	if text == "" {
		return nil
	}
	text = strings.TrimSuffix(text, "\n")
	return strings.Split(text, "\n")
}
