package ai

import (
	"context"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"lease-risk-eval/internal/analysis"
	"lease-risk-eval/internal/report"
	"lease-risk-eval/internal/util"
)

// Orchestration defaults.
const (
	// DefaultMaxAttempts is the AI-path retry budget per analysis.
	DefaultMaxAttempts = 3

	// defaultBackoffBase seeds the exponential backoff: 1s, 2s, 4s.
	defaultBackoffBase = time.Second

	// defaultAttemptTimeout bounds each AI attempt so an unbounded hang
	// cannot block the orchestration. A timeout is treated like any
	// other transient failure.
	defaultAttemptTimeout = 60 * time.Second

	// minTextLength gates the AI path: shorter input cannot be a real
	// contract and is not worth a network call.
	minTextLength = 50
)

// AnalyzerConfig tunes the orchestrator. Zero values take the defaults.
type AnalyzerConfig struct {
	MaxAttempts    int
	BackoffBase    time.Duration
	AttemptTimeout time.Duration
}

// Analyzer drives the dual-path analysis: attempt the AI path with
// bounded retries and backoff, fall back to the deterministic keyword
// analyzer on exhaustion or fatal error. It always returns a result,
// never an error.
type Analyzer struct {
	generator      Generator
	maxAttempts    int
	backoffBase    time.Duration
	attemptTimeout time.Duration
	sleep          func(ctx context.Context, d time.Duration) error
}

// NewAnalyzer constructs the orchestrator. A nil generator means the AI
// path is permanently disabled and every analysis uses the keyword path.
func NewAnalyzer(generator Generator, cfg AnalyzerConfig) *Analyzer {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = DefaultMaxAttempts
	}
	if cfg.BackoffBase <= 0 {
		cfg.BackoffBase = defaultBackoffBase
	}
	if cfg.AttemptTimeout <= 0 {
		cfg.AttemptTimeout = defaultAttemptTimeout
	}
	return &Analyzer{
		generator:      generator,
		maxAttempts:    cfg.MaxAttempts,
		backoffBase:    cfg.BackoffBase,
		attemptTimeout: cfg.AttemptTimeout,
		sleep:          sleepContext,
	}
}

// AIEnabled reports whether the AI path can be attempted at all.
func (a *Analyzer) AIEnabled() bool {
	return a != nil && a.generator != nil && a.generator.Enabled()
}

// MaxAttempts returns the configured retry budget.
func (a *Analyzer) MaxAttempts() int {
	if a == nil {
		return 0
	}
	return a.maxAttempts
}

// Analyze runs one analysis end to end. Processing time covers the whole
// flow regardless of which path resolved it.
func (a *Analyzer) Analyze(ctx context.Context, text string) report.AnalysisResult {
	timer := util.StartTimer()
	result := a.run(ctx, text)
	result.ProcessingTimeMs = timer.ElapsedMs()
	return result
}

func (a *Analyzer) run(ctx context.Context, text string) report.AnalysisResult {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" || len(trimmed) < minTextLength || !a.AIEnabled() {
		// Fatal preconditions: never attempt a doomed network call.
		return analysis.Analyze(text)
	}

	prompt := BuildPrompt(text)
	for attempt := 1; attempt <= a.maxAttempts; attempt++ {
		result, err := a.attempt(ctx, prompt)
		if err == nil {
			return result
		}
		if !retryable(err) {
			logrus.WithError(err).Warn("ai analysis failed fatally, using keyword fallback")
			break
		}
		if attempt == a.maxAttempts {
			logrus.WithError(err).WithField("attempts", a.maxAttempts).Warn("ai retry budget exhausted, using keyword fallback")
			break
		}
		backoff := a.backoffBase << (attempt - 1)
		logrus.WithError(err).WithFields(logrus.Fields{
			"attempt": attempt,
			"backoff": backoff,
		}).Debug("ai attempt failed, retrying")
		if a.sleep(ctx, backoff) != nil {
			// Caller gave up waiting; the keyword path still owes them
			// a result.
			break
		}
	}
	return analysis.Analyze(text)
}

func (a *Analyzer) attempt(ctx context.Context, prompt string) (report.AnalysisResult, error) {
	actx, cancel := context.WithTimeout(ctx, a.attemptTimeout)
	defer cancel()

	raw, err := a.generator.Generate(actx, prompt)
	if err != nil {
		return report.AnalysisResult{}, err
	}
	return ParseResult(raw)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
