package report

// Category classifies the subject matter of a clause pattern.
type Category string

// Known clause categories.
const (
	CategorySecurityDeposit Category = "security_deposit"
	CategoryRent            Category = "rent"
	CategoryTermination     Category = "termination"
	CategoryMaintenance     Category = "maintenance"
	CategoryPrivacy         Category = "privacy"
	CategoryPets            Category = "pets"
	CategorySubletting      Category = "subletting"
	CategoryUtilities       Category = "utilities"
	CategoryOther           Category = "other"
)

// Severity grades how serious a clause pattern is when present.
type Severity string

// Severity grades.
const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// RiskLevel is the discrete label derived from the numeric risk score.
type RiskLevel string

// Risk levels in ascending order of concern.
const (
	RiskLow      RiskLevel = "low"
	RiskModerate RiskLevel = "moderate"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

// Method identifies which analysis path produced a result.
type Method string

// Analysis methods.
const (
	MethodAI      Method = "ai"
	MethodKeyword Method = "keyword"
)

// ClausePattern is a named rule used to detect one kind of contract clause.
// Catalog entries are immutable for the process lifetime; the AI path
// synthesizes additional patterns from model output.
type ClausePattern struct {
	ID             string   `json:"id"`
	Category       Category `json:"category"`
	Name           string   `json:"name"`
	Explanation    string   `json:"explanation"`
	Keywords       []string `json:"keywords"`
	IsMalicious    bool     `json:"is_malicious"`
	Severity       Severity `json:"severity"`
	LegalReference string   `json:"legal_reference,omitempty"`
}

// KeyDetail is a structured fact extracted from the contract text. Absent
// facts are never fabricated; a missing value means no entry at all.
type KeyDetail struct {
	Label    string `json:"label"`
	Value    string `json:"value"`
	Category string `json:"category"`
}

// FlaggedClause pairs a clause pattern with the evidence that triggered it.
type FlaggedClause struct {
	Clause      ClausePattern `json:"clause"`
	MatchedText string        `json:"matched_text"`
	Position    int           `json:"position"`
	AIInsight   string        `json:"ai_insight,omitempty"`
}

// AnalysisResult is the sole externally visible artifact of an analysis.
// Both paths produce it with identical field semantics, so consumers never
// branch on the method.
type AnalysisResult struct {
	Summary          string          `json:"summary"`
	KeyDetails       []KeyDetail     `json:"key_details"`
	FlaggedClauses   []FlaggedClause `json:"flagged_clauses"`
	OverallRiskScore int             `json:"overall_risk_score"`
	RiskLevel        RiskLevel       `json:"risk_level"`
	Recommendations  []string        `json:"recommendations"`
	AnalysisMethod   Method          `json:"analysis_method"`
	Confidence       int             `json:"confidence"`
	ProcessingTimeMs int64           `json:"processing_time_ms,omitempty"`
}

// ValidCategory reports whether the supplied category is one of the fixed
// enumeration values.
func ValidCategory(c Category) bool {
	switch c {
	case CategorySecurityDeposit, CategoryRent, CategoryTermination,
		CategoryMaintenance, CategoryPrivacy, CategoryPets,
		CategorySubletting, CategoryUtilities, CategoryOther:
		return true
	}
	return false
}

// ValidSeverity reports whether the supplied severity is a known grade.
func ValidSeverity(s Severity) bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh:
		return true
	}
	return false
}

// ValidRiskLevel reports whether the supplied level is a known label.
func ValidRiskLevel(l RiskLevel) bool {
	switch l {
	case RiskLow, RiskModerate, RiskHigh, RiskCritical:
		return true
	}
	return false
}

// NormalizeCategory maps free-form category text onto the fixed
// enumeration, defaulting to CategoryOther.
func NormalizeCategory(raw string) Category {
	c := Category(raw)
	if ValidCategory(c) {
		return c
	}
	return CategoryOther
}
