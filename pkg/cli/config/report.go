package config

import (
	"log/slog"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/argos/pkg/domain/model"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

// Report holds sampling and preview configuration
type Report struct {
	SampleSize        int
	IncludeUnassigned bool
	PolicyPath        string
	PreviewPrefix     string
}

// Flags returns CLI flags for Report configuration
func (r *Report) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:        "sample-size",
			Usage:       "Issues sampled per assignee",
			Category:    "Report",
			Sources:     cli.EnvVars("ARGOS_SAMPLE_SIZE"),
			Destination: &r.SampleSize,
		},
		&cli.BoolFlag{
			Name:        "include-unassigned",
			Usage:       "Give unassigned issues their own report section",
			Category:    "Report",
			Value:       true,
			Sources:     cli.EnvVars("ARGOS_INCLUDE_UNASSIGNED"),
			Destination: &r.IncludeUnassigned,
		},
		&cli.StringFlag{
			Name:        "policy",
			Usage:       "Path to an audit policy YAML file",
			Category:    "Report",
			Sources:     cli.EnvVars("ARGOS_POLICY"),
			Destination: &r.PolicyPath,
		},
		&cli.StringFlag{
			Name:        "preview-prefix",
			Usage:       "Filename prefix for dry-run preview files",
			Category:    "Report",
			Value:       "audit_preview",
			Sources:     cli.EnvVars("ARGOS_PREVIEW_PREFIX"),
			Destination: &r.PreviewPrefix,
		},
	}
}

// Validate checks sampling settings
func (r *Report) Validate() error {
	if r.SampleSize <= 0 {
		return goerr.Wrap(model.ErrConfiguration, "sample-size must be a positive integer",
			goerr.V("sample_size", r.SampleSize))
	}
	if r.PreviewPrefix == "" {
		return goerr.Wrap(model.ErrConfiguration, "preview-prefix must not be empty")
	}
	return nil
}

// LoadPolicy reads and validates the policy file. Returns nil when no file
// is configured.
func (r *Report) LoadPolicy() (*model.Policy, error) {
	if r.PolicyPath == "" {
		return nil, nil
	}

	data, err := os.ReadFile(r.PolicyPath)
	if err != nil {
		return nil, goerr.Wrap(model.ErrConfiguration, "failed to read policy file",
			goerr.V("path", r.PolicyPath),
			goerr.V("cause", err.Error()))
	}

	var policy model.Policy
	if err := yaml.Unmarshal(data, &policy); err != nil {
		return nil, goerr.Wrap(model.ErrConfiguration, "failed to parse policy YAML",
			goerr.V("path", r.PolicyPath),
			goerr.V("cause", err.Error()))
	}

	if err := policy.Validate(); err != nil {
		return nil, goerr.Wrap(model.ErrConfiguration, "invalid policy",
			goerr.V("path", r.PolicyPath),
			goerr.V("cause", err.Error()))
	}

	return &policy, nil
}

// LogValue returns structured log value
func (r Report) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("sample_size", r.SampleSize),
		slog.Bool("include_unassigned", r.IncludeUnassigned),
		slog.String("policy_path", r.PolicyPath),
		slog.String("preview_prefix", r.PreviewPrefix),
	)
}
