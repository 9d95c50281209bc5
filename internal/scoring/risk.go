package scoring

import "lease-risk-eval/internal/report"

// Severity points per flagged violation.
const (
	pointsHigh   = 30
	pointsMedium = 15
	pointsLow    = 5

	// MaxScore caps the overall risk score.
	MaxScore = 100
)

// Points returns the contribution of one severity grade to the overall
// risk score.
func Points(s report.Severity) int {
	switch s {
	case report.SeverityHigh:
		return pointsHigh
	case report.SeverityMedium:
		return pointsMedium
	case report.SeverityLow:
		return pointsLow
	}
	return 0
}

// Score sums severity points over the malicious flagged clauses only and
// caps the total. Informational clauses never contribute. This is the
// single source of truth for both analysis paths; externally declared
// scores are cross-checked against it, never trusted.
func Score(flagged []report.FlaggedClause) (int, report.RiskLevel) {
	total := 0
	for _, fc := range flagged {
		if !fc.Clause.IsMalicious {
			continue
		}
		total += Points(fc.Clause.Severity)
	}
	if total > MaxScore {
		total = MaxScore
	}
	return total, Level(total)
}

// Level maps a risk score onto its discrete label.
func Level(score int) report.RiskLevel {
	switch {
	case score <= 0:
		return report.RiskLow
	case score < 30:
		return report.RiskModerate
	case score < 60:
		return report.RiskHigh
	default:
		return report.RiskCritical
	}
}
