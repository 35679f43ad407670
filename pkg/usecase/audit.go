package usecase

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/argos/pkg/domain/interfaces"
	"github.com/secmon-lab/argos/pkg/domain/model"
	"github.com/secmon-lab/argos/pkg/domain/types"
)

// Audit runs the report pipeline: fetch resolved issues, group by assignee,
// sample, render, deliver. One invocation performs one pass and holds no
// state across runs.
type Audit struct {
	source            interfaces.IssueSource
	sender            interfaces.ReportSender
	notifier          interfaces.Notifier
	policy            *model.Policy
	sampleSize        int
	includeUnassigned bool
	rng               *rand.Rand
	clock             func() time.Time
}

// Option configures an Audit use case
type Option func(*Audit)

// WithNotifier adds a post-run chat notification
func WithNotifier(n interfaces.Notifier) Option {
	return func(a *Audit) {
		a.notifier = n
	}
}

// WithPolicy applies an audit policy file's overrides
func WithPolicy(p *model.Policy) Option {
	return func(a *Audit) {
		a.policy = p
	}
}

// WithIncludeUnassigned controls whether unassigned issues get a section
func WithIncludeUnassigned(include bool) Option {
	return func(a *Audit) {
		a.includeUnassigned = include
	}
}

// WithRand injects the randomness source for deterministic sampling
func WithRand(rng *rand.Rand) Option {
	return func(a *Audit) {
		a.rng = rng
	}
}

// WithClock injects the report timestamp source
func WithClock(clock func() time.Time) Option {
	return func(a *Audit) {
		a.clock = clock
	}
}

// New creates the audit use case. sampleSize is the per-assignee draw limit.
func New(source interfaces.IssueSource, sender interfaces.ReportSender, sampleSize int, opts ...Option) *Audit {
	a := &Audit{
		source:            source,
		sender:            sender,
		sampleSize:        sampleSize,
		includeUnassigned: true,
		rng:               rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		clock:             time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// effectiveSampleSize resolves policy overrides against the configured size
func (a *Audit) effectiveSampleSize() int {
	if a.policy != nil && a.policy.SampleSize > 0 {
		return a.policy.SampleSize
	}
	return a.sampleSize
}

func (a *Audit) effectiveIncludeUnassigned() bool {
	if a.policy != nil && a.policy.IncludeUnassigned != nil {
		return *a.policy.IncludeUnassigned
	}
	return a.includeUnassigned
}

// Run executes one audit pass for the given query and window
func (a *Audit) Run(ctx context.Context, jql string, window model.AuditWindow) (*model.Report, error) {
	logger := ctxlog.From(ctx)

	runID, err := types.NewRunID()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to generate run ID")
	}
	logger.Info("starting audit run",
		slog.String("run_id", runID.String()),
		slog.String("window", window.Label()),
		slog.String("jql", jql),
	)

	issues, err := a.source.Search(ctx, jql)
	if err != nil {
		return nil, err
	}

	assigned := 0
	for _, issue := range issues {
		if !issue.Assignee.AccountID.IsUnassigned() {
			assigned++
		}
	}
	logger.Info("retrieved resolved issues",
		slog.Int("total", len(issues)),
		slog.Int("assigned", assigned),
		slog.Int("unassigned", len(issues)-assigned),
	)

	groups := groupByAssignee(issues, a.effectiveIncludeUnassigned(), a.policy)
	sampleGroups(groups, a.effectiveSampleSize(), a.rng)

	report := &model.Report{
		RunID:       runID,
		Window:      window,
		TotalIssues: len(issues),
		Groups:      groups,
		GeneratedAt: a.clock(),
	}
	report.SortGroups()

	html, err := Render(report)
	if err != nil {
		return nil, err
	}

	if err := a.sender.Send(ctx, report, html); err != nil {
		return nil, err
	}

	if a.notifier != nil {
		// The summary ping is best-effort; the report already went out.
		if err := a.notifier.PostSummary(ctx, report); err != nil {
			logger.Warn("failed to post run summary", "error", err)
		}
	}

	logger.Info("audit run completed",
		slog.String("run_id", runID.String()),
		slog.Int("groups", len(report.Groups)),
		slog.Int("sampled", report.SampledTotal()),
	)
	return report, nil
}
