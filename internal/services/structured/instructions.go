package structured

import (
	"fmt"
	"strings"
)

const schemaBlock = `Return ONLY valid JSON with this schema:
{
  "agent": "string",
  "ticker": "string",
  "thesis": "string",
  "recommendation": "buy|hold|avoid",
  "confidence": 0.0-1.0,
  "claims": [
    {
      "statement": "string",
      "stance": "bullish|bearish|neutral",
      "evidence_keys": ["array of strings"],
      "confidence": 0.0-1.0
    }
  ],
  "caveats": ["array of strings"]
}
`

// Instructions renders the output contract appended to an advisor prompt.
// The text is a stable contract with the generation layer.
func Instructions(allowedEvidenceKeys []string, minClaims, maxClaims int, focusHint string) string {
	var b strings.Builder
	b.WriteString(schemaBlock)
	fmt.Fprintf(&b, "Provide %d-%d claims.\n", minClaims, maxClaims)
	b.WriteString("Each claim should include at least one evidence key.\n")
	fmt.Fprintf(&b, "Use only these evidence_keys when possible: [%s].\n", strings.Join(allowedEvidenceKeys, ", "))
	if focusHint != "" {
		fmt.Fprintf(&b, "\nFocus guidance: %s\n", focusHint)
	} else {
		b.WriteString("\n")
	}
	b.WriteString("Do not include markdown, code fences, or extra text.")
	return b.String()
}
