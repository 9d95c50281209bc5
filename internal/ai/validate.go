package ai

import (
	"encoding/json"
	"fmt"
	"strings"

	"lease-risk-eval/internal/report"
	"lease-risk-eval/internal/scoring"
)

const (
	// Confidence reported by the AI path.
	Confidence = 85

	// matchedTextLimit bounds excerpts carried in from model output.
	matchedTextLimit = 200

	// scoreTolerance is how far the model's declared score may deviate
	// from the recomputed one before the response is rejected. The
	// recomputed score is what the result carries either way.
	scoreTolerance = 15
)

// ParseResult turns raw model output into the canonical result shape.
// The response is untrusted input: it is fence-stripped, parsed, and
// schema-validated before anything enters the data model, and the risk
// score is recomputed rather than taken at face value.
func ParseResult(raw string) (report.AnalysisResult, error) {
	content := normalizeJSONBlock(raw)
	if content == "" {
		return report.AnalysisResult{}, ErrEmptyResponse
	}

	var payload aiPayload
	if err := json.Unmarshal([]byte(content), &payload); err != nil {
		return report.AnalysisResult{}, fmt.Errorf("%w: %v", ErrParse, err)
	}
	if err := validatePayload(payload); err != nil {
		return report.AnalysisResult{}, err
	}

	result := report.AnalysisResult{
		Summary:         strings.TrimSpace(payload.Summary),
		KeyDetails:      mapKeyDetails(payload.KeyDetails),
		FlaggedClauses:  mapFlagged(payload.FlaggedClauses),
		Recommendations: trimAll(payload.Recommendations),
		AnalysisMethod:  report.MethodAI,
		Confidence:      Confidence,
	}

	recomputed, level := scoring.Score(result.FlaggedClauses)
	if diff := *payload.OverallRiskScore - recomputed; diff > scoreTolerance || diff < -scoreTolerance {
		return report.AnalysisResult{}, fmt.Errorf("%w: declared score %d deviates from recomputed %d", ErrValidation, *payload.OverallRiskScore, recomputed)
	}
	result.OverallRiskScore = recomputed
	result.RiskLevel = level

	return result, nil
}

func validatePayload(payload aiPayload) error {
	if strings.TrimSpace(payload.Summary) == "" {
		return fmt.Errorf("%w: summary missing", ErrValidation)
	}
	if payload.OverallRiskScore == nil {
		return fmt.Errorf("%w: overall_risk_score missing", ErrValidation)
	}
	if *payload.OverallRiskScore < 0 || *payload.OverallRiskScore > scoring.MaxScore {
		return fmt.Errorf("%w: overall_risk_score %d out of range", ErrValidation, *payload.OverallRiskScore)
	}
	if !report.ValidRiskLevel(report.RiskLevel(payload.RiskLevel)) {
		return fmt.Errorf("%w: unknown risk_level %q", ErrValidation, payload.RiskLevel)
	}
	for i, fc := range payload.FlaggedClauses {
		if strings.TrimSpace(fc.Name) == "" {
			return fmt.Errorf("%w: flagged clause %d has no name", ErrValidation, i)
		}
		if !report.ValidSeverity(report.Severity(fc.Severity)) {
			return fmt.Errorf("%w: flagged clause %q has severity %q", ErrValidation, fc.Name, fc.Severity)
		}
		if fc.IsMalicious == nil {
			return fmt.Errorf("%w: flagged clause %q missing is_malicious", ErrValidation, fc.Name)
		}
	}
	return nil
}

// mapKeyDetails keeps only declared details with non-null values and
// unique labels; the model is never allowed to fabricate a fact.
func mapKeyDetails(in []aiKeyDetail) []report.KeyDetail {
	var out []report.KeyDetail
	seen := map[string]bool{}
	for _, d := range in {
		label := strings.TrimSpace(d.Label)
		if label == "" || seen[label] {
			continue
		}
		if d.Value == nil || strings.TrimSpace(*d.Value) == "" {
			continue
		}
		seen[label] = true
		out = append(out, report.KeyDetail{
			Label:    label,
			Value:    strings.TrimSpace(*d.Value),
			Category: strings.TrimSpace(d.Category),
		})
	}
	return out
}

// mapFlagged wraps each declared item in a synthesized clause pattern,
// deduplicated by pattern identity.
func mapFlagged(in []aiFlagged) []report.FlaggedClause {
	var out []report.FlaggedClause
	seen := map[string]bool{}
	for _, fc := range in {
		id := slug(fc.Name)
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, report.FlaggedClause{
			Clause: report.ClausePattern{
				ID:             id,
				Category:       report.NormalizeCategory(strings.TrimSpace(fc.Category)),
				Name:           strings.TrimSpace(fc.Name),
				Explanation:    strings.TrimSpace(fc.Explanation),
				IsMalicious:    *fc.IsMalicious,
				Severity:       report.Severity(fc.Severity),
				LegalReference: strings.TrimSpace(fc.LegalReference),
			},
			MatchedText: clip(strings.Join(strings.Fields(fc.MatchedText), " "), matchedTextLimit),
			AIInsight:   strings.TrimSpace(fc.Insight),
		})
	}
	return out
}

// normalizeJSONBlock strips code-fence wrapping the model may emit
// despite the raw-JSON instruction, then isolates the outermost object.
func normalizeJSONBlock(input string) string {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return ""
	}
	if strings.HasPrefix(trimmed, "```") {
		trimmed = strings.TrimPrefix(trimmed, "```")
		if idx := strings.IndexRune(trimmed, '\n'); idx >= 0 {
			trimmed = trimmed[idx+1:]
		}
		if strings.HasSuffix(trimmed, "```") {
			trimmed = trimmed[:len(trimmed)-3]
		}
	}
	trimmed = strings.TrimSpace(trimmed)
	start := strings.Index(trimmed, "{")
	end := strings.LastIndex(trimmed, "}")
	if start >= 0 && end >= start {
		return strings.TrimSpace(trimmed[start : end+1])
	}
	return trimmed
}

func slug(name string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

func clip(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	cut := limit
	for cut > 0 && s[cut]&0xC0 == 0x80 {
		cut--
	}
	return s[:cut]
}

func trimAll(in []string) []string {
	var out []string
	for _, s := range in {
		if t := strings.TrimSpace(s); t != "" {
			out = append(out, t)
		}
	}
	return out
}
