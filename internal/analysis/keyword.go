package analysis

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"lease-risk-eval/internal/extract"
	"lease-risk-eval/internal/patterns"
	"lease-risk-eval/internal/report"
	"lease-risk-eval/internal/scoring"
)

const (
	// Confidence reported by the keyword path. Pattern matching is not
	// semantic, so this stays visibly below the AI path's constant.
	Confidence = 60

	// excerptWindow bounds matchedText to a fixed character window
	// around the keyword hit.
	excerptWindow = 200

	// depositRatioLimit and its tolerance implement the half-month
	// deposit ceiling. Ratios at or under the limit (plus rounding
	// slack) are legal.
	depositRatioLimit     = 0.5
	depositRatioTolerance = 0.01
)

// Analyze runs the deterministic fallback analysis. It never fails:
// empty or garbled text produces a zero-score, zero-flag result.
// Identical input always yields an identical result.
func Analyze(text string) report.AnalysisResult {
	facts := extract.FromText(text)
	lower := strings.ToLower(text)

	var flagged []report.FlaggedClause
	for _, pattern := range patterns.Catalog() {
		pos, keyword := earliestMatch(lower, pattern.Keywords)
		if pos < 0 {
			continue
		}
		if patterns.DepositRelated(pattern.ID) && !depositViolation(facts) {
			// The deposit rules are numeric; a keyword hit alone is
			// not evidence of a violation.
			continue
		}
		flagged = append(flagged, report.FlaggedClause{
			Clause:      pattern,
			MatchedText: excerpt(text, pos, len(keyword)),
			Position:    pos,
		})
	}

	score, level := scoring.Score(flagged)
	malicious := 0
	for _, fc := range flagged {
		if fc.Clause.IsMalicious {
			malicious++
		}
	}

	return report.AnalysisResult{
		Summary:          summarize(len(flagged), malicious, level),
		KeyDetails:       facts.Details,
		FlaggedClauses:   flagged,
		OverallRiskScore: score,
		RiskLevel:        level,
		Recommendations:  recommend(flagged),
		AnalysisMethod:   report.MethodKeyword,
		Confidence:       Confidence,
	}
}

func depositViolation(facts extract.Facts) bool {
	ratio, ok := facts.DepositRatio()
	if !ok {
		return false
	}
	return ratio > depositRatioLimit+depositRatioTolerance
}

// earliestMatch returns the leftmost case-insensitive, word-boundary
// occurrence of any keyword, or -1 when nothing matches.
func earliestMatch(lower string, keywords []string) (int, string) {
	best := -1
	var bestKeyword string
	for _, keyword := range keywords {
		k := strings.ToLower(keyword)
		if pos := findWord(lower, k); pos >= 0 && (best < 0 || pos < best) {
			best = pos
			bestKeyword = k
		}
	}
	return best, bestKeyword
}

func findWord(lower, keyword string) int {
	if keyword == "" {
		return -1
	}
	from := 0
	for {
		idx := strings.Index(lower[from:], keyword)
		if idx < 0 {
			return -1
		}
		pos := from + idx
		if boundaryBefore(lower, pos) && boundaryAfter(lower, pos+len(keyword)) {
			return pos
		}
		from = pos + 1
	}
}

func boundaryBefore(s string, pos int) bool {
	if pos == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(s[:pos])
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}

func boundaryAfter(s string, pos int) bool {
	if pos >= len(s) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(s[pos:])
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}

// excerpt takes a fixed window centred on the match, snapped to rune
// boundaries, with whitespace collapsed so PDF artifacts do not leak
// into the report.
func excerpt(text string, pos, matchLen int) string {
	center := pos + matchLen/2
	start := center - excerptWindow/2
	if start < 0 {
		start = 0
	}
	end := start + excerptWindow
	if end > len(text) {
		end = len(text)
		if start = end - excerptWindow; start < 0 {
			start = 0
		}
	}
	for start > 0 && !utf8.RuneStart(text[start]) {
		start--
	}
	for end < len(text) && !utf8.RuneStart(text[end]) {
		end++
	}
	return strings.Join(strings.Fields(text[start:end]), " ")
}

func summarize(total, malicious int, level report.RiskLevel) string {
	if total == 0 {
		return "Pattern-based review found no recognizable clauses of concern in this agreement."
	}
	if malicious == 0 {
		return fmt.Sprintf("Pattern-based review identified %d standard clause(s) and no violations; overall risk is %s.", total, level)
	}
	return fmt.Sprintf("Pattern-based review flagged %d clause(s), including %d potential violation(s) of tenancy regulations; overall risk is %s.", total, malicious, level)
}

// categoryAdvice maps each violation category to its remediation line.
var categoryAdvice = map[report.Category]string{
	report.CategorySecurityDeposit: "Ask the landlord to reduce the deposit to no more than half of one month's rent and confirm in writing that it is refundable.",
	report.CategoryRent:            "Challenge late-fee and rent-increase terms that exceed the statutory limits before signing.",
	report.CategoryTermination:     "Reject any eviction or termination language that bypasses the statutory notice process.",
	report.CategoryMaintenance:     "Confirm in writing that structural and health-and-safety repairs remain the landlord's responsibility.",
	report.CategoryPrivacy:         "Require 24 hours' written notice for any non-emergency entry to the unit.",
	report.CategoryPets:            "Verify that any pet deposit stays within the half-month statutory cap.",
	report.CategorySubletting:      "Clarify the subletting terms and your right to request consent before agreeing to a blanket ban.",
	report.CategoryUtilities:       "Confirm exactly which utilities you are responsible for and get the split in writing.",
	report.CategoryOther:           "Have the flagged terms reviewed; statutory tenant rights cannot be signed away by contract.",
}

// recommend emits one line per distinct violation category, in catalog
// order, plus a generic closing line when nothing was flagged.
func recommend(flagged []report.FlaggedClause) []string {
	var out []string
	seen := map[report.Category]bool{}
	for _, fc := range flagged {
		if !fc.Clause.IsMalicious || seen[fc.Clause.Category] {
			continue
		}
		seen[fc.Clause.Category] = true
		if advice, ok := categoryAdvice[fc.Clause.Category]; ok {
			out = append(out, advice)
		}
	}
	if len(out) == 0 {
		out = append(out, "No violations were detected; still read the full agreement carefully before signing.")
	}
	return out
}
