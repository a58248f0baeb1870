package structured

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/ternarybob/verity/internal/models"
)

// ErrNotObject is returned when the extracted payload is valid JSON but not an object
var ErrNotObject = errors.New("structured output must be a JSON object")

// ErrNullField is returned when a schema field is present with a null value
var ErrNullField = errors.New("structured output field is null")

// Options identify the advisor whose output is being parsed
type Options struct {
	Agent               string   // default when the document omits agent
	Ticker              string   // default when the document omits ticker
	AllowedEvidenceKeys []string // empty disables pruning
	MinClaims           int      // 0 disables the shortfall caveat
}

// Parser validates advisor output against the analysis schema.
// A Parser is safe for concurrent use.
type Parser struct {
	validate *validator.Validate
}

// NewParser creates a new Parser
func NewParser() *Parser {
	return &Parser{validate: validator.New()}
}

// Parse converts raw advisor text into a StructuredAnalysis. The returned
// analysis is always usable: when the text cannot be decoded or violates the
// schema, the fallback analysis is returned together with the cause.
func (p *Parser) Parse(raw string, opts Options) (models.StructuredAnalysis, error) {
	analysis, err := p.decode(ExtractJSONBlock(raw), opts)
	if err != nil {
		return Fallback(opts.Agent, opts.Ticker, "Could not parse structured output. Raw snippet: "+snippet(raw)), err
	}

	if len(opts.AllowedEvidenceKeys) > 0 {
		pruneEvidence(&analysis, opts.AllowedEvidenceKeys)
	}

	if opts.MinClaims > 0 && len(analysis.Claims) < opts.MinClaims {
		analysis.Caveats = append(analysis.Caveats,
			fmt.Sprintf("Expected at least %d claims, but got %d.", opts.MinClaims, len(analysis.Claims)))
	}

	return analysis, nil
}

func (p *Parser) decode(payload string, opts Options) (models.StructuredAnalysis, error) {
	var data interface{}
	if err := json.Unmarshal([]byte(payload), &data); err != nil {
		return models.StructuredAnalysis{}, fmt.Errorf("failed to decode structured output: %w", err)
	}
	obj, ok := data.(map[string]interface{})
	if !ok {
		return models.StructuredAnalysis{}, ErrNotObject
	}

	if err := rejectNulls(obj); err != nil {
		return models.StructuredAnalysis{}, err
	}
	normalize(obj, opts)

	// Round-trip the repaired map through the typed document
	normalized, err := json.Marshal(obj)
	if err != nil {
		return models.StructuredAnalysis{}, fmt.Errorf("failed to encode normalized output: %w", err)
	}
	var doc analysisDocument
	if err := json.Unmarshal(normalized, &doc); err != nil {
		return models.StructuredAnalysis{}, fmt.Errorf("structured output does not match schema: %w", err)
	}
	if err := p.validate.Struct(doc); err != nil {
		return models.StructuredAnalysis{}, fmt.Errorf("structured output failed validation: %w", err)
	}

	return doc.toAnalysis(), nil
}

// rejectNulls fails on an explicit null in any schema field other than agent
// and ticker, which normalize fills from the options. A null must not reach
// the typed document, where it would be indistinguishable from an omission.
func rejectNulls(obj map[string]interface{}) error {
	for _, key := range []string{"thesis", "recommendation", "confidence", "claims", "caveats"} {
		if v, ok := obj[key]; ok && v == nil {
			return fmt.Errorf("%w: %s", ErrNullField, key)
		}
	}
	if err := rejectNullElements(obj["caveats"], "caveats"); err != nil {
		return err
	}

	claims, _ := obj["claims"].([]interface{})
	for i, c := range claims {
		if c == nil {
			return fmt.Errorf("%w: claims[%d]", ErrNullField, i)
		}
		claim, ok := c.(map[string]interface{})
		if !ok {
			continue
		}
		for _, key := range []string{"statement", "stance", "evidence_keys", "confidence"} {
			if v, ok := claim[key]; ok && v == nil {
				return fmt.Errorf("%w: claims[%d].%s", ErrNullField, i, key)
			}
		}
		if err := rejectNullElements(claim["evidence_keys"], fmt.Sprintf("claims[%d].evidence_keys", i)); err != nil {
			return err
		}
	}
	return nil
}

func rejectNullElements(v interface{}, field string) error {
	list, _ := v.([]interface{})
	for i, item := range list {
		if item == nil {
			return fmt.Errorf("%w: %s[%d]", ErrNullField, field, i)
		}
	}
	return nil
}

// normalize repairs common generation quirks in place: missing agent or
// ticker, mixed-case enums, and confidences on a 0-100 scale.
func normalize(obj map[string]interface{}, opts Options) {
	obj["agent"] = stringOr(obj["agent"], opts.Agent)
	obj["ticker"] = stringOr(obj["ticker"], opts.Ticker)
	lowerField(obj, "recommendation")
	rescaleConfidence(obj)

	claims, ok := obj["claims"].([]interface{})
	if !ok {
		return
	}
	for _, c := range claims {
		claim, ok := c.(map[string]interface{})
		if !ok {
			continue
		}
		lowerField(claim, "stance")
		rescaleConfidence(claim)
	}
}

func lowerField(obj map[string]interface{}, key string) {
	if s, ok := obj[key].(string); ok {
		obj[key] = strings.ToLower(strings.TrimSpace(s))
	}
}

func rescaleConfidence(obj map[string]interface{}) {
	if c, ok := obj["confidence"].(float64); ok && c > 1.0 {
		obj["confidence"] = c / 100.0
	}
}

// stringOr renders v as a string, or returns fallback when v is empty-ish.
// Numbers use Go's shortest formatting, so 5.0 renders as "5" rather than
// "5.0". Agent and ticker are labels, so the difference is cosmetic.
func stringOr(v interface{}, fallback string) string {
	switch val := v.(type) {
	case nil:
		return fallback
	case string:
		if val == "" {
			return fallback
		}
		return val
	case bool:
		if !val {
			return fallback
		}
		return "True"
	case float64:
		if val == 0 {
			return fallback
		}
		return fmt.Sprint(val)
	case []interface{}:
		if len(val) == 0 {
			return fallback
		}
	case map[string]interface{}:
		if len(val) == 0 {
			return fallback
		}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fallback
	}
	return string(b)
}

// pruneEvidence drops evidence keys outside allowed and records what was
// removed as caveats.
func pruneEvidence(analysis *models.StructuredAnalysis, allowed []string) {
	allowedSet := make(map[string]struct{}, len(allowed))
	for _, k := range allowed {
		allowedSet[k] = struct{}{}
	}

	removed := 0
	emptyClaims := 0
	for i := range analysis.Claims {
		kept := make([]string, 0, len(analysis.Claims[i].EvidenceKeys))
		for _, k := range analysis.Claims[i].EvidenceKeys {
			if _, ok := allowedSet[k]; ok {
				kept = append(kept, k)
			}
		}
		removed += len(analysis.Claims[i].EvidenceKeys) - len(kept)
		analysis.Claims[i].EvidenceKeys = kept
		if len(kept) == 0 {
			emptyClaims++
		}
	}

	if removed > 0 {
		analysis.Caveats = append(analysis.Caveats,
			fmt.Sprintf("%d evidence keys were removed for being outside the allowed set.", removed))
	}
	if emptyClaims > 0 {
		analysis.Caveats = append(analysis.Caveats,
			fmt.Sprintf("%d claims have no allowed evidence keys.", emptyClaims))
	}
}

// Fallback builds the canonical low-confidence analysis used whenever an
// advisor's output is unusable.
func Fallback(agent, ticker, message string) models.StructuredAnalysis {
	return models.StructuredAnalysis{
		Agent:          agent,
		Ticker:         ticker,
		Thesis:         FallbackThesis,
		Recommendation: models.RecommendationHold,
		Confidence:     FallbackConfidence,
		Claims:         []models.Claim{},
		Caveats:        []string{message},
	}
}

// IsFallback reports whether analysis is the canonical fallback shape
func IsFallback(analysis models.StructuredAnalysis) bool {
	return analysis.Thesis == FallbackThesis &&
		analysis.Confidence == FallbackConfidence &&
		len(analysis.Claims) == 0
}

// snippet returns the first RawSnippetLength characters of raw
func snippet(raw string) string {
	runes := []rune(raw)
	if len(runes) > RawSnippetLength {
		runes = runes[:RawSnippetLength]
	}
	return string(runes)
}
