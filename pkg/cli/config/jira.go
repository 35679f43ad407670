package config

import (
	"log/slog"
	"net/url"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/argos/pkg/domain/model"
	"github.com/secmon-lab/argos/pkg/domain/types"
	"github.com/secmon-lab/argos/pkg/service/jira"
	"github.com/urfave/cli/v3"
)

// Jira holds tracker query configuration
type Jira struct {
	BaseURL        string
	Email          string
	APIToken       string
	ProjectKeys    []string
	ResolvedStatus string
	Timezone       string
	AuditDate      string
	PageSize       int
}

// Flags returns CLI flags for Jira configuration
func (j *Jira) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "jira-base-url",
			Usage:       "Jira site base URL (https://yoursite.atlassian.net)",
			Category:    "Jira",
			Sources:     cli.EnvVars("ARGOS_JIRA_BASE_URL"),
			Destination: &j.BaseURL,
		},
		&cli.StringFlag{
			Name:        "jira-email",
			Usage:       "Account email for API authentication",
			Category:    "Jira",
			Sources:     cli.EnvVars("ARGOS_JIRA_EMAIL"),
			Destination: &j.Email,
		},
		&cli.StringFlag{
			Name:        "jira-api-token",
			Usage:       "API token for the account",
			Category:    "Jira",
			Sources:     cli.EnvVars("ARGOS_JIRA_API_TOKEN"),
			Destination: &j.APIToken,
		},
		&cli.StringSliceFlag{
			Name:        "jira-project-keys",
			Usage:       "Project keys scoping the query (comma separated)",
			Category:    "Jira",
			Sources:     cli.EnvVars("ARGOS_JIRA_PROJECT_KEYS"),
			Destination: &j.ProjectKeys,
		},
		&cli.StringFlag{
			Name:        "jira-resolved-status",
			Usage:       "Workflow status name that marks an issue resolved",
			Category:    "Jira",
			Value:       "Resolved",
			Sources:     cli.EnvVars("ARGOS_JIRA_RESOLVED_STATUS"),
			Destination: &j.ResolvedStatus,
		},
		&cli.StringFlag{
			Name:        "timezone",
			Usage:       "IANA timezone used to compute the audit day",
			Category:    "Jira",
			Value:       "UTC",
			Sources:     cli.EnvVars("ARGOS_TIMEZONE"),
			Destination: &j.Timezone,
		},
		&cli.StringFlag{
			Name:        "audit-date",
			Usage:       "Audit a specific day (YYYY-MM-DD) instead of yesterday",
			Category:    "Jira",
			Sources:     cli.EnvVars("ARGOS_AUDIT_DATE"),
			Destination: &j.AuditDate,
		},
		&cli.IntFlag{
			Name:        "jira-page-size",
			Usage:       "Search page size",
			Category:    "Jira",
			Value:       100,
			Sources:     cli.EnvVars("ARGOS_JIRA_PAGE_SIZE"),
			Destination: &j.PageSize,
		},
	}
}

// Validate checks required tracker settings
func (j *Jira) Validate() error {
	if j.BaseURL == "" {
		return goerr.Wrap(model.ErrConfiguration, "jira-base-url is required")
	}
	if u, err := url.Parse(j.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		return goerr.Wrap(model.ErrConfiguration, "jira-base-url must be an absolute URL",
			goerr.V("url", j.BaseURL))
	}
	if j.Email == "" {
		return goerr.Wrap(model.ErrConfiguration, "jira-email is required")
	}
	if j.APIToken == "" {
		return goerr.Wrap(model.ErrConfiguration, "jira-api-token is required")
	}
	if len(j.Projects()) == 0 {
		return goerr.Wrap(model.ErrConfiguration, "jira-project-keys is required")
	}
	if j.PageSize <= 0 {
		return goerr.Wrap(model.ErrConfiguration, "jira-page-size must be positive",
			goerr.V("page_size", j.PageSize))
	}
	if _, err := time.LoadLocation(j.Timezone); err != nil {
		return goerr.Wrap(model.ErrConfiguration, "unknown timezone",
			goerr.V("timezone", j.Timezone))
	}
	return nil
}

// Projects returns the configured project keys as typed values
func (j *Jira) Projects() []types.ProjectKey {
	keys := make([]types.ProjectKey, 0, len(j.ProjectKeys))
	for _, k := range j.ProjectKeys {
		if k != "" {
			keys = append(keys, types.ProjectKey(k))
		}
	}
	return keys
}

// Window computes the audit window for this run, honoring the audit-date
// override when present.
func (j *Jira) Window(now time.Time) (model.AuditWindow, error) {
	loc, err := time.LoadLocation(j.Timezone)
	if err != nil {
		return model.AuditWindow{}, goerr.Wrap(model.ErrConfiguration, "unknown timezone",
			goerr.V("timezone", j.Timezone))
	}
	if j.AuditDate != "" {
		w, err := model.ParseAuditDate(j.AuditDate, loc)
		if err != nil {
			return model.AuditWindow{}, goerr.Wrap(model.ErrConfiguration, "invalid audit-date",
				goerr.V("audit_date", j.AuditDate))
		}
		return w, nil
	}
	return model.NewAuditWindow(now, loc, 1), nil
}

// Configure creates the Jira client
func (j *Jira) Configure() *jira.Client {
	return jira.New(j.BaseURL, j.Email, j.APIToken, jira.WithPageSize(j.PageSize))
}

// LogValue returns structured log value without credentials
func (j Jira) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("base_url", j.BaseURL),
		slog.String("email", j.Email),
		slog.Bool("has_api_token", j.APIToken != ""),
		slog.Any("project_keys", j.ProjectKeys),
		slog.String("resolved_status", j.ResolvedStatus),
		slog.String("timezone", j.Timezone),
		slog.String("audit_date", j.AuditDate),
		slog.Int("page_size", j.PageSize),
	)
}
