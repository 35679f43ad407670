package config_test

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/argos/pkg/cli/config"
	"github.com/secmon-lab/argos/pkg/domain/model"
)

func validJira() config.Jira {
	return config.Jira{
		BaseURL:        "https://example.atlassian.net",
		Email:          "auditor@example.com",
		APIToken:       "token-123",
		ProjectKeys:    []string{"SJ"},
		ResolvedStatus: "Resolved",
		Timezone:       "UTC",
		PageSize:       100,
	}
}

func TestJiraValidate(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		cfg := validJira()
		gt.NoError(t, cfg.Validate())
	})

	cases := []struct {
		name   string
		mutate func(*config.Jira)
	}{
		{"Missing base URL", func(c *config.Jira) { c.BaseURL = "" }},
		{"Relative base URL", func(c *config.Jira) { c.BaseURL = "example.atlassian.net" }},
		{"Missing email", func(c *config.Jira) { c.Email = "" }},
		{"Missing token", func(c *config.Jira) { c.APIToken = "" }},
		{"No project keys", func(c *config.Jira) { c.ProjectKeys = nil }},
		{"Zero page size", func(c *config.Jira) { c.PageSize = 0 }},
		{"Unknown timezone", func(c *config.Jira) { c.Timezone = "Mars/Olympus" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validJira()
			tc.mutate(&cfg)
			err := cfg.Validate()
			gt.Error(t, err)
			gt.True(t, errors.Is(err, model.ErrConfiguration))
		})
	}
}

func TestJiraWindow(t *testing.T) {
	now := time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC)

	t.Run("Defaults to yesterday", func(t *testing.T) {
		cfg := validJira()
		w, err := cfg.Window(now)
		gt.NoError(t, err)
		gt.Equal(t, "2025-03-14", w.Label())
	})

	t.Run("Audit date override", func(t *testing.T) {
		cfg := validJira()
		cfg.AuditDate = "2025-01-02"
		w, err := cfg.Window(now)
		gt.NoError(t, err)
		gt.Equal(t, "2025-01-02", w.Label())
	})

	t.Run("Bad override", func(t *testing.T) {
		cfg := validJira()
		cfg.AuditDate = "yesterday"
		_, err := cfg.Window(now)
		gt.Error(t, err)
		gt.True(t, errors.Is(err, model.ErrConfiguration))
	})
}

func validMail() config.Mail {
	return config.Mail{
		Recipients: []string{"lead@example.com"},
		Sender:     "audit@example.com",
		DryRun:     true,
		SMTPPort:   587,
	}
}

func TestMailValidate(t *testing.T) {
	t.Run("Dry run needs no transport", func(t *testing.T) {
		cfg := validMail()
		gt.NoError(t, cfg.Validate())
	})

	t.Run("Missing recipients", func(t *testing.T) {
		cfg := validMail()
		cfg.Recipients = nil
		err := cfg.Validate()
		gt.Error(t, err)
		gt.True(t, errors.Is(err, model.ErrConfiguration))
	})

	t.Run("Invalid recipient", func(t *testing.T) {
		cfg := validMail()
		cfg.Recipients = []string{"not an address"}
		gt.Error(t, cfg.Validate())
	})

	t.Run("Missing sender", func(t *testing.T) {
		cfg := validMail()
		cfg.Sender = ""
		gt.Error(t, cfg.Validate())
	})

	t.Run("Live SMTP requires host", func(t *testing.T) {
		cfg := validMail()
		cfg.DryRun = false
		err := cfg.Validate()
		gt.Error(t, err)
		gt.S(t, err.Error()).Contains("smtp-host")
	})

	t.Run("Live SMTP with host", func(t *testing.T) {
		cfg := validMail()
		cfg.DryRun = false
		cfg.SMTPHost = "smtp.example.com"
		gt.NoError(t, cfg.Validate())
	})

	t.Run("Graph transport requires credentials", func(t *testing.T) {
		cfg := validMail()
		cfg.DryRun = false
		cfg.UseGraph = true
		err := cfg.Validate()
		gt.Error(t, err)
		gt.S(t, err.Error()).Contains("graph-tenant-id")
	})

	t.Run("Graph transport with credentials", func(t *testing.T) {
		cfg := validMail()
		cfg.DryRun = false
		cfg.UseGraph = true
		cfg.GraphTenantID = "tenant"
		cfg.GraphClientID = "client"
		cfg.GraphClientSecret = "secret"
		gt.NoError(t, cfg.Validate())
	})
}

func TestReportValidate(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		cfg := config.Report{SampleSize: 3, PreviewPrefix: "audit_preview"}
		gt.NoError(t, cfg.Validate())
	})

	t.Run("Sample size must be positive", func(t *testing.T) {
		cfg := config.Report{SampleSize: 0, PreviewPrefix: "audit_preview"}
		err := cfg.Validate()
		gt.Error(t, err)
		gt.True(t, errors.Is(err, model.ErrConfiguration))
	})
}

func TestReportLoadPolicy(t *testing.T) {
	t.Run("No policy configured", func(t *testing.T) {
		cfg := config.Report{SampleSize: 3, PreviewPrefix: "p"}
		policy, err := cfg.LoadPolicy()
		gt.NoError(t, err)
		gt.V(t, policy).Nil()
	})

	t.Run("Valid policy file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "policy.yml")
		body := "resolved_status: Listo para Cierre\nsample_size: 5\ninclude_unassigned: false\nexcluded_accounts:\n  - acc-bot\n"
		gt.NoError(t, os.WriteFile(path, []byte(body), 0o644))

		cfg := config.Report{SampleSize: 3, PreviewPrefix: "p", PolicyPath: path}
		policy, err := cfg.LoadPolicy()
		gt.NoError(t, err)
		gt.Equal(t, "Listo para Cierre", policy.ResolvedStatus)
		gt.Equal(t, 5, policy.SampleSize)
		gt.B(t, *policy.IncludeUnassigned).False()
		gt.Equal(t, []string{"acc-bot"}, policy.ExcludedAccounts)
	})

	t.Run("Missing file", func(t *testing.T) {
		cfg := config.Report{SampleSize: 3, PreviewPrefix: "p", PolicyPath: "/no/such/policy.yml"}
		_, err := cfg.LoadPolicy()
		gt.Error(t, err)
		gt.True(t, errors.Is(err, model.ErrConfiguration))
	})

	t.Run("Invalid policy", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "policy.yml")
		gt.NoError(t, os.WriteFile(path, []byte("sample_size: -2\n"), 0o644))

		cfg := config.Report{SampleSize: 3, PreviewPrefix: "p", PolicyPath: path}
		_, err := cfg.LoadPolicy()
		gt.Error(t, err)
		gt.True(t, errors.Is(err, model.ErrConfiguration))
	})
}

func TestMailConfigureTransport(t *testing.T) {
	t.Run("Dry run selects preview sender", func(t *testing.T) {
		cfg := validMail()
		sender := cfg.Configure("audit_preview")
		gt.S(t, typeName(sender)).Contains("PreviewSender")
	})

	t.Run("Live selects SMTP sender", func(t *testing.T) {
		cfg := validMail()
		cfg.DryRun = false
		cfg.SMTPHost = "smtp.example.com"
		sender := cfg.Configure("audit_preview")
		gt.S(t, typeName(sender)).Contains("SMTPSender")
	})

	t.Run("Graph switch selects Graph sender", func(t *testing.T) {
		cfg := validMail()
		cfg.DryRun = false
		cfg.UseGraph = true
		cfg.GraphTenantID = "tenant"
		cfg.GraphClientID = "client"
		cfg.GraphClientSecret = "secret"
		sender := cfg.Configure("audit_preview")
		gt.S(t, typeName(sender)).Contains("GraphSender")
	})
}

func typeName(v any) string {
	return fmt.Sprintf("%T", v)
}
