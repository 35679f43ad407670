package model

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/argos/pkg/domain/types"
)

// Policy is the optional audit policy loaded from a YAML file. Every field
// overrides the corresponding flag/env setting; absent fields keep the
// configured value.
type Policy struct {
	// ResolvedStatus is the workflow status name the query matches against
	ResolvedStatus string `yaml:"resolved_status,omitempty"`

	// SampleSize overrides the per-assignee sample size when positive
	SampleSize int `yaml:"sample_size,omitempty"`

	// IncludeUnassigned controls whether issues without an assignee get
	// their own report section
	IncludeUnassigned *bool `yaml:"include_unassigned,omitempty"`

	// ExcludedAccounts lists assignee account IDs left out of the report
	ExcludedAccounts []string `yaml:"excluded_accounts,omitempty"`
}

// Validate validates the policy
func (p *Policy) Validate() error {
	if p.SampleSize < 0 {
		return goerr.New("sample_size must not be negative",
			goerr.V("sample_size", p.SampleSize))
	}

	seen := make(map[string]bool)
	for _, acc := range p.ExcludedAccounts {
		if acc == "" {
			return goerr.New("excluded_accounts must not contain empty entries")
		}
		if seen[acc] {
			return goerr.New("duplicate excluded account", goerr.V("account", acc))
		}
		seen[acc] = true
	}

	return nil
}

// Excludes reports whether the policy removes the account from the report
func (p *Policy) Excludes(id types.AccountID) bool {
	if p == nil {
		return false
	}
	for _, acc := range p.ExcludedAccounts {
		if types.AccountID(acc) == id {
			return true
		}
	}
	return false
}
