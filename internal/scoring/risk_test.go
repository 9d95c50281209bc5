package scoring

import (
	"testing"

	"lease-risk-eval/internal/report"
)

func flag(severity report.Severity, malicious bool) report.FlaggedClause {
	return report.FlaggedClause{Clause: report.ClausePattern{
		ID:          string(severity),
		Severity:    severity,
		IsMalicious: malicious,
	}}
}

func TestScore(t *testing.T) {
	tests := []struct {
		name          string
		flagged       []report.FlaggedClause
		expectedScore int
		expectedLevel report.RiskLevel
	}{
		{"empty", nil, 0, report.RiskLow},
		{"single medium", []report.FlaggedClause{flag(report.SeverityMedium, true)}, 15, report.RiskModerate},
		{"single high", []report.FlaggedClause{flag(report.SeverityHigh, true)}, 30, report.RiskHigh},
		{"two high", []report.FlaggedClause{flag(report.SeverityHigh, true), flag(report.SeverityHigh, true)}, 60, report.RiskCritical},
		{"informational ignored", []report.FlaggedClause{flag(report.SeverityHigh, false), flag(report.SeverityLow, true)}, 5, report.RiskModerate},
		{"capped at 100", []report.FlaggedClause{
			flag(report.SeverityHigh, true), flag(report.SeverityHigh, true),
			flag(report.SeverityHigh, true), flag(report.SeverityHigh, true),
		}, 100, report.RiskCritical},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			score, level := Score(tc.flagged)
			if score != tc.expectedScore {
				t.Fatalf("expected score %d got %d", tc.expectedScore, score)
			}
			if level != tc.expectedLevel {
				t.Fatalf("expected level %s got %s", tc.expectedLevel, level)
			}
		})
	}
}

func TestLevelBoundaries(t *testing.T) {
	tests := []struct {
		score    int
		expected report.RiskLevel
	}{
		{0, report.RiskLow},
		{1, report.RiskModerate},
		{29, report.RiskModerate},
		{30, report.RiskHigh},
		{59, report.RiskHigh},
		{60, report.RiskCritical},
		{100, report.RiskCritical},
	}
	for _, tc := range tests {
		if got := Level(tc.score); got != tc.expected {
			t.Fatalf("score %d: expected %s got %s", tc.score, tc.expected, got)
		}
	}
}
