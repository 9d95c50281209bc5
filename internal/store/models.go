package store

import (
	"encoding/json"
	"strings"
	"time"

	"lease-risk-eval/internal/report"
)

// Analysis persists one contract analysis outcome. Sequence-valued
// fields are stored as JSON text columns with accessor helpers.
type Analysis struct {
	ID                  uint   `gorm:"primaryKey"`
	DocumentName        string `gorm:"size:255;index"`
	Summary             string `gorm:"type:text"`
	OverallRiskScore    int    `gorm:"index"`
	RiskLevel           string `gorm:"size:16;index"`
	AnalysisMethod      string `gorm:"size:16"`
	Confidence          int
	ProcessingTimeMs    int64
	KeyDetailsJSON      string `gorm:"type:text"`
	FlaggedClausesJSON  string `gorm:"type:text"`
	RecommendationsJSON string `gorm:"type:text"`
	CreatedAt           time.Time
}

// FromResult builds a persistable row from the canonical result.
func FromResult(documentName string, r report.AnalysisResult) *Analysis {
	a := &Analysis{
		DocumentName:     strings.TrimSpace(documentName),
		Summary:          r.Summary,
		OverallRiskScore: r.OverallRiskScore,
		RiskLevel:        string(r.RiskLevel),
		AnalysisMethod:   string(r.AnalysisMethod),
		Confidence:       r.Confidence,
		ProcessingTimeMs: r.ProcessingTimeMs,
	}
	a.KeyDetailsJSON = marshalJSON(r.KeyDetails)
	a.FlaggedClausesJSON = marshalJSON(r.FlaggedClauses)
	a.RecommendationsJSON = marshalJSON(r.Recommendations)
	return a
}

// Result reconstructs the canonical result from the stored row.
func (a *Analysis) Result() report.AnalysisResult {
	return report.AnalysisResult{
		Summary:          a.Summary,
		KeyDetails:       a.KeyDetails(),
		FlaggedClauses:   a.FlaggedClauses(),
		OverallRiskScore: a.OverallRiskScore,
		RiskLevel:        report.RiskLevel(a.RiskLevel),
		Recommendations:  a.Recommendations(),
		AnalysisMethod:   report.Method(a.AnalysisMethod),
		Confidence:       a.Confidence,
		ProcessingTimeMs: a.ProcessingTimeMs,
	}
}

// KeyDetails returns the unmarshalled key-detail list.
func (a *Analysis) KeyDetails() []report.KeyDetail {
	var out []report.KeyDetail
	unmarshalJSON(a.KeyDetailsJSON, &out)
	return out
}

// FlaggedClauses returns the unmarshalled flagged-clause list.
func (a *Analysis) FlaggedClauses() []report.FlaggedClause {
	var out []report.FlaggedClause
	unmarshalJSON(a.FlaggedClausesJSON, &out)
	return out
}

// Recommendations returns the unmarshalled recommendation list.
func (a *Analysis) Recommendations() []string {
	var out []string
	unmarshalJSON(a.RecommendationsJSON, &out)
	return out
}

func marshalJSON(v any) string {
	payload, err := json.Marshal(v)
	if err != nil {
		return "[]"
	}
	return string(payload)
}

func unmarshalJSON(raw string, v any) {
	if strings.TrimSpace(raw) == "" {
		return
	}
	_ = json.Unmarshal([]byte(raw), v)
}
