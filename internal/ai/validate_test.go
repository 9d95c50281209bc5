package ai

import (
	"errors"
	"reflect"
	"testing"

	"lease-risk-eval/internal/report"
)

const wellFormedResponse = `{
  "summary": "Fixed-term tenancy with two serious violations.",
  "key_details": [
    {"label": "Monthly Rent", "value": "$2,000", "category": "rent"},
    {"label": "Security Deposit", "value": "$1,500", "category": "deposit"},
    {"label": "Lease End Date", "value": null, "category": "dates"}
  ],
  "flagged_clauses": [
    {"name": "Excessive security deposit", "category": "security_deposit", "explanation": "Deposit is 75% of monthly rent.", "matched_text": "a security deposit of $1,500", "is_malicious": true, "severity": "high", "legal_reference": "Residential Tenancies Act s.19(1)", "insight": "Ask for the excess back."},
    {"name": "Unrestricted landlord entry", "category": "privacy", "explanation": "Entry without notice.", "matched_text": "may enter at any time", "is_malicious": true, "severity": "high", "legal_reference": "Residential Tenancies Act s.29", "insight": ""},
    {"name": "Standard notice period", "category": "termination", "explanation": "Thirty days notice to end the tenancy.", "matched_text": "30 days' notice", "is_malicious": false, "severity": "low", "legal_reference": ""}
  ],
  "overall_risk_score": 60,
  "risk_level": "critical",
  "recommendations": ["Negotiate the deposit down.", "Require written notice before entry."]
}`

func TestParseResultWellFormed(t *testing.T) {
	result, err := ParseResult(wellFormedResponse)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if result.OverallRiskScore != 60 {
		t.Fatalf("expected score 60 got %d", result.OverallRiskScore)
	}
	if result.RiskLevel != report.RiskCritical {
		t.Fatalf("expected critical got %s", result.RiskLevel)
	}
	if len(result.FlaggedClauses) != 3 {
		t.Fatalf("expected 3 flagged got %d", len(result.FlaggedClauses))
	}
	if result.AnalysisMethod != report.MethodAI {
		t.Fatalf("expected ai method got %s", result.AnalysisMethod)
	}
	if result.Confidence != Confidence {
		t.Fatalf("expected confidence %d got %d", Confidence, result.Confidence)
	}

	// The null-valued detail must not become an entry.
	if len(result.KeyDetails) != 2 {
		t.Fatalf("expected 2 key details got %d", len(result.KeyDetails))
	}
	for _, d := range result.KeyDetails {
		if d.Label == "Lease End Date" {
			t.Fatal("null detail was fabricated into the result")
		}
	}

	if result.FlaggedClauses[0].AIInsight == "" {
		t.Fatal("ai insight dropped")
	}
	if result.FlaggedClauses[0].Clause.ID != "excessive-security-deposit" {
		t.Fatalf("unexpected synthesized id %q", result.FlaggedClauses[0].Clause.ID)
	}
}

func TestParseResultCodeFenced(t *testing.T) {
	plain, err := ParseResult(wellFormedResponse)
	if err != nil {
		t.Fatalf("plain parse: %v", err)
	}
	fenced, err := ParseResult("```json\n" + wellFormedResponse + "\n```")
	if err != nil {
		t.Fatalf("fenced parse: %v", err)
	}
	if !reflect.DeepEqual(plain, fenced) {
		t.Fatal("fenced payload parsed differently from plain payload")
	}
}

func TestParseResultFailures(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected error
	}{
		{"empty", "   ", ErrEmptyResponse},
		{"not json", "I could not analyze this document.", ErrParse},
		{"truncated json", `{"summary": "x", "overall_`, ErrParse},
		{"missing summary", `{"overall_risk_score": 0, "risk_level": "low"}`, ErrValidation},
		{"missing score", `{"summary": "x", "risk_level": "low"}`, ErrValidation},
		{"score out of range", `{"summary": "x", "overall_risk_score": 140, "risk_level": "low"}`, ErrValidation},
		{"unknown risk level", `{"summary": "x", "overall_risk_score": 0, "risk_level": "severe"}`, ErrValidation},
		{"bad severity", `{"summary": "x", "overall_risk_score": 0, "risk_level": "low", "flagged_clauses": [{"name": "y", "severity": "fatal", "is_malicious": true}]}`, ErrValidation},
		{"missing is_malicious", `{"summary": "x", "overall_risk_score": 0, "risk_level": "low", "flagged_clauses": [{"name": "y", "severity": "high"}]}`, ErrValidation},
		{"inconsistent score", `{"summary": "x", "overall_risk_score": 95, "risk_level": "critical", "flagged_clauses": [{"name": "y", "severity": "low", "is_malicious": true}]}`, ErrValidation},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseResult(tc.raw)
			if !errors.Is(err, tc.expected) {
				t.Fatalf("expected %v got %v", tc.expected, err)
			}
		})
	}
}

func TestParseResultRecomputesScore(t *testing.T) {
	// Declared 10, recomputed 5: inside tolerance, so the recomputed
	// value wins and the level matches it.
	raw := `{"summary": "x", "overall_risk_score": 10, "risk_level": "low", "flagged_clauses": [{"name": "minor", "severity": "low", "is_malicious": true}]}`
	result, err := ParseResult(raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if result.OverallRiskScore != 5 {
		t.Fatalf("expected recomputed score 5 got %d", result.OverallRiskScore)
	}
	if result.RiskLevel != report.RiskModerate {
		t.Fatalf("expected moderate got %s", result.RiskLevel)
	}
}

func TestParseResultDeduplicatesClauses(t *testing.T) {
	raw := `{"summary": "x", "overall_risk_score": 30, "risk_level": "high", "flagged_clauses": [
	  {"name": "Excessive late fees", "severity": "medium", "is_malicious": true},
	  {"name": "excessive late fees", "severity": "medium", "is_malicious": true},
	  {"name": "Waiver of rights", "severity": "high", "is_malicious": true}
	]}`
	result, err := ParseResult(raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(result.FlaggedClauses) != 2 {
		t.Fatalf("expected 2 deduplicated clauses got %d", len(result.FlaggedClauses))
	}
	if result.OverallRiskScore != 45 {
		t.Fatalf("expected score 45 got %d", result.OverallRiskScore)
	}
}

func TestSlug(t *testing.T) {
	tests := []struct{ in, out string }{
		{"Excessive security deposit", "excessive-security-deposit"},
		{"  Rent -- increase!  ", "rent-increase"},
		{"A1 B2", "a1-b2"},
	}
	for _, tc := range tests {
		if got := slug(tc.in); got != tc.out {
			t.Fatalf("slug(%q): expected %q got %q", tc.in, tc.out, got)
		}
	}
}
