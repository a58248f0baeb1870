package structured

import (
	"strings"
)

const fence = "```"

// ExtractJSONBlock isolates the JSON object in raw advisor text. Blank input
// becomes "{}". A leading code fence line is dropped, along with a closing
// fence on the last line, then the span from the first "{" to the last "}"
// is returned. Text without such a span is returned trimmed so the decoder
// reports the failure.
func ExtractJSONBlock(raw string) string {
	text := strings.TrimSpace(raw)
	if text == "" {
		return "{}"
	}

	if strings.HasPrefix(text, fence) {
		lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
		lines = lines[1:]
		if n := len(lines); n > 0 && strings.HasPrefix(strings.TrimSpace(lines[n-1]), fence) {
			lines = lines[:n-1]
		}
		text = strings.TrimSpace(strings.Join(lines, "\n"))
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start >= 0 && end > start {
		return text[start : end+1]
	}
	return text
}
