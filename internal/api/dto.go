package api

import (
	"time"

	"lease-risk-eval/internal/report"
	"lease-risk-eval/internal/store"
)

// AnalyzeRequest carries one contract document for analysis.
type AnalyzeRequest struct {
	DocumentName string `json:"document_name"`
	Text         string `json:"text"`
}

// AnalysisDTO is the API representation of a stored analysis.
type AnalysisDTO struct {
	ID               uint                   `json:"id"`
	DocumentName     string                 `json:"document_name"`
	Summary          string                 `json:"summary"`
	KeyDetails       []report.KeyDetail     `json:"key_details"`
	FlaggedClauses   []report.FlaggedClause `json:"flagged_clauses"`
	OverallRiskScore int                    `json:"overall_risk_score"`
	RiskLevel        report.RiskLevel       `json:"risk_level"`
	Recommendations  []string               `json:"recommendations"`
	AnalysisMethod   report.Method          `json:"analysis_method"`
	Confidence       int                    `json:"confidence"`
	ProcessingTimeMs int64                  `json:"processing_time_ms"`
	CreatedAt        time.Time              `json:"created_at"`
}

// AnalysesResponse is the paginated history response.
type AnalysesResponse struct {
	Items []AnalysisDTO `json:"items"`
	Total int64         `json:"total"`
}

// FromModel converts a store.Analysis into the DTO representation.
func FromModel(a store.Analysis) AnalysisDTO {
	result := a.Result()
	return AnalysisDTO{
		ID:               a.ID,
		DocumentName:     a.DocumentName,
		Summary:          result.Summary,
		KeyDetails:       result.KeyDetails,
		FlaggedClauses:   result.FlaggedClauses,
		OverallRiskScore: result.OverallRiskScore,
		RiskLevel:        result.RiskLevel,
		Recommendations:  result.Recommendations,
		AnalysisMethod:   result.AnalysisMethod,
		Confidence:       result.Confidence,
		ProcessingTimeMs: result.ProcessingTimeMs,
		CreatedAt:        a.CreatedAt,
	}
}
