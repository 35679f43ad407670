package cli

import (
	"context"
	"log/slog"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/secmon-lab/argos/pkg/cli/config"
	"github.com/secmon-lab/argos/pkg/service/jira"
	"github.com/secmon-lab/argos/pkg/usecase"
	"github.com/secmon-lab/argos/pkg/utils/apperr"
)

// runAudit wires configuration into the pipeline and executes one pass.
// All validation happens before the Jira client is built, so configuration
// problems never reach the network.
func runAudit(ctx context.Context, jiraCfg *config.Jira, reportCfg *config.Report, mailCfg *config.Mail, slackCfg *config.Slack) error {
	logger := ctxlog.From(ctx)

	for _, validate := range []func() error{
		jiraCfg.Validate,
		reportCfg.Validate,
		mailCfg.Validate,
	} {
		if err := validate(); err != nil {
			apperr.Handle(ctx, err)
			return err
		}
	}

	policy, err := reportCfg.LoadPolicy()
	if err != nil {
		apperr.Handle(ctx, err)
		return err
	}

	window, err := jiraCfg.Window(time.Now())
	if err != nil {
		apperr.Handle(ctx, err)
		return err
	}

	status := jiraCfg.ResolvedStatus
	if policy != nil && policy.ResolvedStatus != "" {
		status = policy.ResolvedStatus
	}
	jql := jira.BuildJQL(jiraCfg.Projects(), status, window)

	logger.Info("starting audit",
		slog.Any("jira", jiraCfg),
		slog.Any("report", reportCfg),
		slog.Any("mail", mailCfg),
		slog.Any("slack", slackCfg),
	)

	opts := []usecase.Option{
		usecase.WithIncludeUnassigned(reportCfg.IncludeUnassigned),
	}
	if policy != nil {
		opts = append(opts, usecase.WithPolicy(policy))
	}
	if notifier := slackCfg.ConfigureOptional(logger); notifier != nil {
		opts = append(opts, usecase.WithNotifier(notifier))
	}

	uc := usecase.New(
		jiraCfg.Configure(),
		mailCfg.Configure(reportCfg.PreviewPrefix),
		reportCfg.SampleSize,
		opts...,
	)

	if _, err := uc.Run(ctx, jql, window); err != nil {
		apperr.Handle(ctx, err)
		return err
	}

	return nil
}
