package ai

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"lease-risk-eval/internal/report"
)

type stubGenerator struct {
	outputs []stubOutput
	calls   int
	enabled bool
}

type stubOutput struct {
	text string
	err  error
}

func (s *stubGenerator) Enabled() bool { return s.enabled }

func (s *stubGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	if s.calls >= len(s.outputs) {
		return "", fmt.Errorf("unexpected call %d", s.calls)
	}
	out := s.outputs[s.calls]
	s.calls++
	return out.text, out.err
}

// testAnalyzer swaps the real sleeper for one that records backoff
// durations instead of waiting.
func testAnalyzer(gen Generator, attempts int) (*Analyzer, *[]time.Duration) {
	a := NewAnalyzer(gen, AnalyzerConfig{MaxAttempts: attempts})
	var slept []time.Duration
	a.sleep = func(ctx context.Context, d time.Duration) error {
		slept = append(slept, d)
		return nil
	}
	return a, &slept
}

const contractText = `The monthly rent is $2,000 and the tenant shall pay a security deposit of $1,050. The landlord may enter at any time without notice.`

func TestAnalyzeSucceedsOnThirdAttempt(t *testing.T) {
	gen := &stubGenerator{enabled: true, outputs: []stubOutput{
		{err: ErrEmptyResponse},
		{text: "not json at all"},
		{text: wellFormedResponse},
	}}
	analyzer, slept := testAnalyzer(gen, 3)

	result := analyzer.Analyze(context.Background(), contractText)
	if result.AnalysisMethod != report.MethodAI {
		t.Fatalf("expected ai method got %s", result.AnalysisMethod)
	}
	if gen.calls != 3 {
		t.Fatalf("expected 3 attempts got %d", gen.calls)
	}

	// Exponential backoff between the failed attempts: 1s then 2s.
	expected := []time.Duration{time.Second, 2 * time.Second}
	if len(*slept) != len(expected) {
		t.Fatalf("expected %d sleeps got %v", len(expected), *slept)
	}
	for i, d := range expected {
		if (*slept)[i] != d {
			t.Fatalf("sleep %d: expected %v got %v", i, d, (*slept)[i])
		}
	}
}

func TestAnalyzeFallsBackAfterExhaustion(t *testing.T) {
	gen := &stubGenerator{enabled: true, outputs: []stubOutput{
		{err: ErrTransport},
		{err: ErrTransport},
		{err: ErrTransport},
	}}
	analyzer, _ := testAnalyzer(gen, 3)

	result := analyzer.Analyze(context.Background(), contractText)
	if result.AnalysisMethod != report.MethodKeyword {
		t.Fatalf("expected keyword fallback got %s", result.AnalysisMethod)
	}
	if gen.calls != 3 {
		t.Fatalf("expected 3 attempts got %d", gen.calls)
	}
	// The fallback result is still complete and well formed.
	if result.OverallRiskScore < 0 || result.OverallRiskScore > 100 {
		t.Fatalf("score out of bounds: %d", result.OverallRiskScore)
	}
	if len(result.FlaggedClauses) == 0 {
		t.Fatal("fallback found no clauses in a risky contract")
	}
	seen := map[string]bool{}
	for _, fc := range result.FlaggedClauses {
		if seen[fc.Clause.ID] {
			t.Fatalf("duplicate clause %s", fc.Clause.ID)
		}
		seen[fc.Clause.ID] = true
	}
}

func TestAnalyzeFatalErrorSkipsRetries(t *testing.T) {
	gen := &stubGenerator{enabled: true, outputs: []stubOutput{
		{err: fmt.Errorf("unclassified transport explosion")},
	}}
	analyzer, slept := testAnalyzer(gen, 3)

	result := analyzer.Analyze(context.Background(), contractText)
	if result.AnalysisMethod != report.MethodKeyword {
		t.Fatalf("expected keyword fallback got %s", result.AnalysisMethod)
	}
	if gen.calls != 1 {
		t.Fatalf("fatal error should not be retried, got %d calls", gen.calls)
	}
	if len(*slept) != 0 {
		t.Fatalf("fatal error should not back off, slept %v", *slept)
	}
}

func TestAnalyzeDisabledGeneratorNeverCalls(t *testing.T) {
	gen := &stubGenerator{enabled: false}
	analyzer, _ := testAnalyzer(gen, 3)

	result := analyzer.Analyze(context.Background(), contractText)
	if result.AnalysisMethod != report.MethodKeyword {
		t.Fatalf("expected keyword method got %s", result.AnalysisMethod)
	}
	if gen.calls != 0 {
		t.Fatalf("disabled generator was called %d times", gen.calls)
	}
}

func TestAnalyzeNilGenerator(t *testing.T) {
	analyzer := NewAnalyzer(nil, AnalyzerConfig{})
	result := analyzer.Analyze(context.Background(), contractText)
	if result.AnalysisMethod != report.MethodKeyword {
		t.Fatalf("expected keyword method got %s", result.AnalysisMethod)
	}
}

func TestAnalyzeShortTextSkipsAI(t *testing.T) {
	gen := &stubGenerator{enabled: true}
	analyzer, _ := testAnalyzer(gen, 3)

	result := analyzer.Analyze(context.Background(), "too short")
	if result.AnalysisMethod != report.MethodKeyword {
		t.Fatalf("expected keyword method got %s", result.AnalysisMethod)
	}
	if gen.calls != 0 {
		t.Fatal("short input should never reach the network")
	}
}

func TestAnalyzeEmptyTextDegenerate(t *testing.T) {
	gen := &stubGenerator{enabled: true}
	analyzer, _ := testAnalyzer(gen, 3)

	result := analyzer.Analyze(context.Background(), "   \n ")
	if result.OverallRiskScore != 0 || result.RiskLevel != report.RiskLow {
		t.Fatalf("expected degenerate zero result got %d/%s", result.OverallRiskScore, result.RiskLevel)
	}
	if len(result.FlaggedClauses) != 0 {
		t.Fatal("degenerate result should carry no flags")
	}
	if gen.calls != 0 {
		t.Fatal("empty input should never reach the network")
	}
}

func TestAnalyzeCancelledBackoffFallsBack(t *testing.T) {
	gen := &stubGenerator{enabled: true, outputs: []stubOutput{
		{err: ErrTransport},
	}}
	analyzer := NewAnalyzer(gen, AnalyzerConfig{MaxAttempts: 3})
	analyzer.sleep = func(ctx context.Context, d time.Duration) error {
		return context.Canceled
	}

	result := analyzer.Analyze(context.Background(), contractText)
	if result.AnalysisMethod != report.MethodKeyword {
		t.Fatalf("expected keyword fallback got %s", result.AnalysisMethod)
	}
	if gen.calls != 1 {
		t.Fatalf("expected a single attempt got %d", gen.calls)
	}
}

func TestBuildPromptDeterministic(t *testing.T) {
	if BuildPrompt(contractText) != BuildPrompt(contractText) {
		t.Fatal("identical text produced different prompts")
	}
	if !strings.Contains(BuildPrompt(contractText), contractText) {
		t.Fatal("prompt does not carry the contract text")
	}
}

func TestBuildPromptTruncates(t *testing.T) {
	long := strings.Repeat("the tenant shall maintain the premises in good order. ", 2000)
	prompt := BuildPrompt(long)
	if strings.Contains(prompt, long) {
		t.Fatal("oversized text was not truncated")
	}
	if !strings.Contains(prompt, long[:maxContractChars]) {
		t.Fatal("truncation point moved")
	}
}
