package cli

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/argos/pkg/cli/config"
	"github.com/urfave/cli/v3"
)

// Run runs the CLI application. The job has exactly one mode of invocation,
// so the pipeline hangs off the root command rather than a subcommand.
func Run(ctx context.Context, args []string) error {
	var (
		loggerCfg config.Logger
		jiraCfg   config.Jira
		reportCfg config.Report
		mailCfg   config.Mail
		slackCfg  config.Slack
	)

	app := &cli.Command{
		Name:    "argos",
		Usage:   "Daily audit report of resolved Jira issues, sampled per assignee",
		Version: "0.1.0",
		Flags: joinFlags(
			loggerCfg.Flags(),
			jiraCfg.Flags(),
			reportCfg.Flags(),
			mailCfg.Flags(),
			slackCfg.Flags(),
		),
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			logger, err := loggerCfg.Configure()
			if err != nil {
				return nil, err
			}

			slog.SetDefault(logger)
			ctx = ctxlog.With(ctx, logger)
			return ctx, nil
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			return runAudit(ctx, &jiraCfg, &reportCfg, &mailCfg, &slackCfg)
		},
	}

	if err := app.Run(ctx, args); err != nil {
		return goerr.Wrap(err, "CLI execution failed")
	}

	return nil
}
