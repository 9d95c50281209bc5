package ai

import (
	"context"
	"errors"
)

// Generator exposes the external generative-AI capability: submit one
// prompt, receive text or a classified failure.
type Generator interface {
	Enabled() bool
	Generate(ctx context.Context, prompt string) (string, error)
}

// Config holds OpenAI configuration parameters.
type Config struct {
	APIKey      string
	Model       string
	BaseURL     string
	Temperature float64
	MaxTokens   int
}

// Failure taxonomy. Transient failures are retried with backoff up to the
// attempt budget; fatal ones short-circuit straight to the keyword path.
var (
	// ErrNoCredential means no API key is configured. Fatal, never retried.
	ErrNoCredential = errors.New("ai analysis disabled: no api key configured")
	// ErrEmptyResponse means the model returned no usable content. Transient.
	ErrEmptyResponse = errors.New("ai returned an empty response")
	// ErrParse means the response was not well-formed JSON. Transient.
	ErrParse = errors.New("ai response parse failed")
	// ErrValidation means the parsed response violated the output schema. Transient.
	ErrValidation = errors.New("ai response failed validation")
	// ErrTransport covers network, status and rate-limit failures. Transient.
	ErrTransport = errors.New("ai transport failed")
)

// retryable reports whether the failure is worth another attempt.
// Anything unclassified is treated as fatal for the current analysis.
func retryable(err error) bool {
	return errors.Is(err, ErrEmptyResponse) ||
		errors.Is(err, ErrParse) ||
		errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrTransport) ||
		errors.Is(err, context.DeadlineExceeded)
}

// aiPayload mirrors the JSON object the prompt instructs the model to
// emit. Pointer fields distinguish absent from zero so validation can
// reject incomplete responses instead of silently defaulting them.
type aiPayload struct {
	Summary          string        `json:"summary"`
	KeyDetails       []aiKeyDetail `json:"key_details"`
	FlaggedClauses   []aiFlagged   `json:"flagged_clauses"`
	OverallRiskScore *int          `json:"overall_risk_score"`
	RiskLevel        string        `json:"risk_level"`
	Recommendations  []string      `json:"recommendations"`
}

type aiKeyDetail struct {
	Label    string  `json:"label"`
	Value    *string `json:"value"`
	Category string  `json:"category"`
}

type aiFlagged struct {
	Name           string `json:"name"`
	Category       string `json:"category"`
	Explanation    string `json:"explanation"`
	MatchedText    string `json:"matched_text"`
	IsMalicious    *bool  `json:"is_malicious"`
	Severity       string `json:"severity"`
	LegalReference string `json:"legal_reference"`
	Insight        string `json:"insight"`
}
