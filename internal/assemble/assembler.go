package assemble

import "strings"

// SplitLines splits text into lines that keep their "\n" terminator.
// The last line has no terminator when the text does not end with a newline.
func SplitLines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.SplitAfter(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// IsMarked reports whether the trimmed line ends with marker.
func IsMarked(line, marker string) bool {
	if marker == "" {
		return false
	}
	return strings.HasSuffix(strings.TrimSpace(line), marker)
}

// Assemble concatenates the header and the fragments of plan in order.
//
// Line 0 of a fragment with SkipFirstLine is never emitted. A marked line of a
// filterable fragment is dropped entirely when the plan strips marked lines.
// When a fragment's last emitted line lacks a newline and a later fragment
// emits a line, one "\n" is inserted between them. The final fragment is
// never terminated, so its bytes are kept exactly.
func Assemble(plan Plan) string {
	var b strings.Builder
	b.WriteString(plan.Header)

	open := false
	for _, frag := range plan.Fragments {
		for idx, line := range frag.Lines {
			if idx == 0 && frag.SkipFirstLine {
				continue
			}
			if frag.Filterable && plan.StripMarked && IsMarked(line, plan.Marker) {
				continue
			}
			if open {
				b.WriteString("\n")
			}
			b.WriteString(line)
			open = !strings.HasSuffix(line, "\n")
		}
	}
	return b.String()
}
