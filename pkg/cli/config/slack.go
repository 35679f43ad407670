package config

import (
	"log/slog"

	slackSvc "github.com/secmon-lab/argos/pkg/service/slack"
	"github.com/urfave/cli/v3"
)

// Slack holds the optional run-summary notification configuration
type Slack struct {
	OAuthToken string
	Channel    string
}

// Flags returns CLI flags for Slack configuration
func (s *Slack) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "slack-oauth-token",
			Usage:       "Slack OAuth token for the summary notification",
			Category:    "Slack",
			Sources:     cli.EnvVars("ARGOS_SLACK_OAUTH_TOKEN"),
			Destination: &s.OAuthToken,
		},
		&cli.StringFlag{
			Name:        "slack-channel",
			Usage:       "Channel for the summary notification",
			Category:    "Slack",
			Sources:     cli.EnvVars("ARGOS_SLACK_CHANNEL"),
			Destination: &s.Channel,
		},
	}
}

// IsConfigured checks whether the notification is enabled
func (s *Slack) IsConfigured() bool {
	return s.OAuthToken != "" && s.Channel != ""
}

// ConfigureOptional creates a Notifier if configured, returns nil if not
func (s *Slack) ConfigureOptional(logger *slog.Logger) *slackSvc.Notifier {
	if !s.IsConfigured() {
		return nil
	}
	logger.Info("Slack summary notification enabled", slog.String("channel", s.Channel))
	return slackSvc.New(s.OAuthToken, s.Channel)
}

// LogValue returns structured log value
func (s Slack) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Bool("has_oauth_token", s.OAuthToken != ""),
		slog.String("channel", s.Channel),
	)
}
