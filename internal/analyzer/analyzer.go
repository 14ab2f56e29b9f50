// Package analyzer classifies wireless controller syslog text into findings.
//
// Analysis is a single pass: every trimmed, non-empty line is tested against
// a fixed pattern table, the matches are collected into Signals, and a fixed
// list of rules turns the signals into findings filled from static tables.
// Progress messages are reported through a callback with a cosmetic pause
// after each one.
package analyzer

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"github.com/joshsymonds/rasa/internal/models"
	"github.com/joshsymonds/rasa/pkg/logger"
)

// DefaultStepDelay is the pause after each progress step.
const DefaultStepDelay = 600 * time.Millisecond

// StepFunc receives progress messages. It may be nil.
type StepFunc func(models.Step)

// Analyzer runs the classification rules.
type Analyzer struct {
	logger logger.Logger
	tips   TipPicker
	now    func() time.Time
	rules  []Rule
	delay  time.Duration
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithStepDelay sets the pause after each progress step. Zero disables it.
func WithStepDelay(d time.Duration) Option {
	return func(a *Analyzer) {
		a.delay = d
	}
}

// WithTipPicker sets the source used to choose pro tips.
func WithTipPicker(p TipPicker) Option {
	return func(a *Analyzer) {
		a.tips = p
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(a *Analyzer) {
		a.logger = l
	}
}

// WithClock overrides time.Now for run timestamps.
func WithClock(now func() time.Time) Option {
	return func(a *Analyzer) {
		a.now = now
	}
}

// WithRules replaces the default rule set.
func WithRules(rules ...Rule) Option {
	return func(a *Analyzer) {
		a.rules = rules
	}
}

type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

// DefaultRules returns the rules in emission order.
func DefaultRules() []Rule {
	return []Rule{
		&JoinFailureRule{},
		&ClientIssueRule{},
		&RFInterferenceRule{},
	}
}

// New creates an analyzer with the default rules.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{
		logger: logger.WithComponent("analyzer"),
		tips:   globalRand{},
		now:    time.Now,
		rules:  DefaultRules(),
		delay:  DefaultStepDelay,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze classifies raw log text. Empty input yields an empty slice and no
// progress steps.
func (a *Analyzer) Analyze(ctx context.Context, raw string, onStep StepFunc) ([]models.Finding, error) {
	findings, _, err := a.analyze(ctx, SplitLines(raw), onStep)
	return findings, err
}

// Run classifies raw log text and wraps the result in an AnalysisRun.
func (a *Analyzer) Run(ctx context.Context, source, raw string, onStep StepFunc) (*models.AnalysisRun, error) {
	run := &models.AnalysisRun{
		ID:        uuid.New().String(),
		Source:    source,
		StartedAt: a.now(),
	}

	lines := SplitLines(raw)
	findings, platform, err := a.analyze(ctx, lines, onStep)
	if err != nil {
		return nil, err
	}

	run.Findings = findings
	run.Platform = platform
	run.LineCount = len(lines)
	run.CompletedAt = a.now()

	a.logger.Info("Analysis complete",
		"run", run.ID,
		"source", source,
		"platform", platform,
		"lines", run.LineCount,
		"findings", len(findings))

	return run, nil
}

func (a *Analyzer) analyze(ctx context.Context, lines []string, onStep StepFunc) ([]models.Finding, string, error) {
	findings := []models.Finding{}
	if len(lines) == 0 {
		return findings, models.PlatformUnknown, nil
	}

	p := &progress{ctx: ctx, delay: a.delay, onStep: onStep}

	if err := p.step("Detecting WLC Operating System..."); err != nil {
		return nil, "", err
	}
	platform := DetectPlatform(lines)
	if err := p.step(fmt.Sprintf("OS Identified: %s", platform)); err != nil {
		return nil, "", err
	}

	if err := p.step("Correlating MAC addresses and state transitions..."); err != nil {
		return nil, "", err
	}
	if err := p.step(fmt.Sprintf("Running %s Optimized Regex Suite...", platform)); err != nil {
		return nil, "", err
	}

	in := Input{
		Signals:  Scan(lines),
		Platform: platform,
		Tips:     a.tips,
	}
	a.logger.Debug("Signals collected",
		"join_failure", in.Signals.JoinFailure,
		"dtls_teardown", in.Signals.DTLSTeardown,
		"reasons", len(in.Signals.DeauthReasons),
		"radar", len(in.Signals.RadarChannels))

	for _, rule := range a.rules {
		out := rule.Evaluate(in)
		if len(out) > 0 {
			a.logger.Debug("Rule matched", "rule", rule.Name(), "findings", len(out))
		}
		findings = append(findings, out...)
	}

	if len(findings) == 0 {
		if err := p.step("Parsing general anomalies..."); err != nil {
			return nil, "", err
		}
		if in.Signals.GenericFault {
			findings = append(findings, generalFinding(in))
		}
	}

	if err := p.step("Finalizing remediation and pro-tips..."); err != nil {
		return nil, "", err
	}

	return findings, platform, nil
}

// progress reports steps and applies the cosmetic delay.
type progress struct {
	ctx    context.Context
	onStep StepFunc
	delay  time.Duration
	n      int
}

func (p *progress) step(message string) error {
	if err := p.ctx.Err(); err != nil {
		return err
	}
	if p.onStep != nil {
		p.onStep(models.NewStep(p.n, message))
	}
	p.n++

	if p.delay <= 0 {
		return nil
	}
	timer := time.NewTimer(p.delay)
	defer timer.Stop()
	select {
	case <-p.ctx.Done():
		return p.ctx.Err()
	case <-timer.C:
		return nil
	}
}
