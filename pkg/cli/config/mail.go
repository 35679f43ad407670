package config

import (
	"log/slog"
	netmail "net/mail"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/argos/pkg/domain/interfaces"
	"github.com/secmon-lab/argos/pkg/domain/model"
	"github.com/secmon-lab/argos/pkg/service/mail"
	"github.com/urfave/cli/v3"
)

// Mail holds delivery configuration: envelope, transport selection, and the
// dry-run switch. Dry-run defaults to true so a bare invocation never sends.
type Mail struct {
	Recipients      []string
	Sender          string
	DisplayName     string
	ReplyTo         string
	AlertRecipients []string
	DryRun          bool

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string

	UseGraph          bool
	GraphTenantID     string
	GraphClientID     string
	GraphClientSecret string
}

// Flags returns CLI flags for Mail configuration
func (m *Mail) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringSliceFlag{
			Name:        "recipients",
			Usage:       "Report recipient addresses (comma separated)",
			Category:    "Mail",
			Sources:     cli.EnvVars("ARGOS_RECIPIENTS"),
			Destination: &m.Recipients,
		},
		&cli.StringFlag{
			Name:        "sender",
			Usage:       "Sender address",
			Category:    "Mail",
			Sources:     cli.EnvVars("ARGOS_SENDER"),
			Destination: &m.Sender,
		},
		&cli.StringFlag{
			Name:        "display-name",
			Usage:       "Sender display name",
			Category:    "Mail",
			Sources:     cli.EnvVars("ARGOS_DISPLAY_NAME"),
			Destination: &m.DisplayName,
		},
		&cli.StringFlag{
			Name:        "reply-to",
			Usage:       "Reply-To address",
			Category:    "Mail",
			Sources:     cli.EnvVars("ARGOS_REPLY_TO"),
			Destination: &m.ReplyTo,
		},
		&cli.StringSliceFlag{
			Name:        "alert-recipients",
			Usage:       "Reserved for external failure notification tooling",
			Category:    "Mail",
			Sources:     cli.EnvVars("ARGOS_ALERT_RECIPIENTS"),
			Destination: &m.AlertRecipients,
		},
		&cli.BoolFlag{
			Name:        "dry-run",
			Usage:       "Write a local preview instead of sending email",
			Category:    "Mail",
			Value:       true,
			Sources:     cli.EnvVars("ARGOS_DRY_RUN"),
			Destination: &m.DryRun,
		},
		&cli.StringFlag{
			Name:        "smtp-host",
			Usage:       "SMTP submission host",
			Category:    "SMTP",
			Sources:     cli.EnvVars("ARGOS_SMTP_HOST"),
			Destination: &m.SMTPHost,
		},
		&cli.IntFlag{
			Name:        "smtp-port",
			Usage:       "SMTP submission port",
			Category:    "SMTP",
			Value:       587,
			Sources:     cli.EnvVars("ARGOS_SMTP_PORT"),
			Destination: &m.SMTPPort,
		},
		&cli.StringFlag{
			Name:        "smtp-username",
			Usage:       "SMTP username (defaults to the sender address)",
			Category:    "SMTP",
			Sources:     cli.EnvVars("ARGOS_SMTP_USERNAME"),
			Destination: &m.SMTPUsername,
		},
		&cli.StringFlag{
			Name:        "smtp-password",
			Usage:       "SMTP password (empty skips authentication)",
			Category:    "SMTP",
			Sources:     cli.EnvVars("ARGOS_SMTP_PASSWORD"),
			Destination: &m.SMTPPassword,
		},
		&cli.BoolFlag{
			Name:        "use-graph",
			Usage:       "Send through the Microsoft Graph API instead of SMTP",
			Category:    "Graph",
			Sources:     cli.EnvVars("ARGOS_USE_GRAPH"),
			Destination: &m.UseGraph,
		},
		&cli.StringFlag{
			Name:        "graph-tenant-id",
			Usage:       "Entra tenant ID for the Graph transport",
			Category:    "Graph",
			Sources:     cli.EnvVars("ARGOS_GRAPH_TENANT_ID"),
			Destination: &m.GraphTenantID,
		},
		&cli.StringFlag{
			Name:        "graph-client-id",
			Usage:       "Application (client) ID for the Graph transport",
			Category:    "Graph",
			Sources:     cli.EnvVars("ARGOS_GRAPH_CLIENT_ID"),
			Destination: &m.GraphClientID,
		},
		&cli.StringFlag{
			Name:        "graph-client-secret",
			Usage:       "Client secret for the Graph transport",
			Category:    "Graph",
			Sources:     cli.EnvVars("ARGOS_GRAPH_CLIENT_SECRET"),
			Destination: &m.GraphClientSecret,
		},
	}
}

// Validate checks envelope and transport settings. Transport settings are
// only required when the run will actually send.
func (m *Mail) Validate() error {
	if len(m.Recipients) == 0 {
		return goerr.Wrap(model.ErrConfiguration, "recipients is required")
	}
	for _, addr := range m.Recipients {
		if _, err := netmail.ParseAddress(addr); err != nil {
			return goerr.Wrap(model.ErrConfiguration, "invalid recipient address",
				goerr.V("address", addr))
		}
	}
	if m.Sender == "" {
		return goerr.Wrap(model.ErrConfiguration, "sender is required")
	}
	if _, err := netmail.ParseAddress(m.Sender); err != nil {
		return goerr.Wrap(model.ErrConfiguration, "invalid sender address",
			goerr.V("address", m.Sender))
	}

	if m.DryRun {
		return nil
	}

	if m.UseGraph {
		if m.GraphTenantID == "" || m.GraphClientID == "" || m.GraphClientSecret == "" {
			return goerr.Wrap(model.ErrConfiguration, "graph-tenant-id, graph-client-id and graph-client-secret are required for the Graph transport")
		}
		return nil
	}

	if m.SMTPHost == "" {
		return goerr.Wrap(model.ErrConfiguration, "smtp-host is required for live delivery")
	}
	if m.SMTPPort <= 0 || m.SMTPPort > 65535 {
		return goerr.Wrap(model.ErrConfiguration, "smtp-port must be a valid port",
			goerr.V("port", m.SMTPPort))
	}
	return nil
}

// Envelope builds the mail envelope from the configuration
func (m *Mail) Envelope() mail.Envelope {
	return mail.Envelope{
		From:        m.Sender,
		DisplayName: m.DisplayName,
		ReplyTo:     m.ReplyTo,
		To:          m.Recipients,
	}
}

// Configure selects the delivery implementation: preview writer in dry-run,
// otherwise Graph or SMTP per the transport switch.
func (m *Mail) Configure(previewPrefix string) interfaces.ReportSender {
	if m.DryRun {
		return mail.NewPreviewSender(previewPrefix)
	}

	if m.UseGraph {
		return mail.NewGraphSender(m.GraphTenantID, m.GraphClientID, m.GraphClientSecret, m.Envelope())
	}

	username := m.SMTPUsername
	if username == "" {
		username = m.Sender
	}
	return mail.NewSMTPSender(m.SMTPHost, m.SMTPPort, username, m.SMTPPassword, m.Envelope())
}

// LogValue returns structured log value without credentials
func (m Mail) LogValue() slog.Value {
	transport := "smtp"
	if m.DryRun {
		transport = "dry-run"
	} else if m.UseGraph {
		transport = "graph"
	}
	return slog.GroupValue(
		slog.Int("recipients", len(m.Recipients)),
		slog.String("sender", m.Sender),
		slog.String("transport", transport),
		slog.String("smtp_host", m.SMTPHost),
		slog.Int("smtp_port", m.SMTPPort),
		slog.Bool("has_smtp_password", m.SMTPPassword != ""),
		slog.Bool("has_graph_secret", m.GraphClientSecret != ""),
	)
}
