package model

import (
	"sort"
	"strings"
	"time"

	"github.com/secmon-lab/argos/pkg/domain/types"
)

// AssigneeGroup holds one assignee's full issue list for the window and the
// subset drawn for the report.
type AssigneeGroup struct {
	Assignee Actor
	Issues   []*Issue
	Sampled  []*Issue
}

// Report is the audit result handed to the renderer and delivery layer.
// Groups are ordered case-insensitively by display name, with the unassigned
// group last.
type Report struct {
	RunID       types.RunID
	Window      AuditWindow
	TotalIssues int
	Groups      []*AssigneeGroup
	GeneratedAt time.Time
}

// SampledTotal returns the number of issues that appear in the report
func (r *Report) SampledTotal() int {
	total := 0
	for _, g := range r.Groups {
		total += len(g.Sampled)
	}
	return total
}

// SortGroups orders groups by display name, keeping the unassigned group at
// the end regardless of its label.
func (r *Report) SortGroups() {
	sort.SliceStable(r.Groups, func(i, j int) bool {
		gi, gj := r.Groups[i], r.Groups[j]
		if gi.Assignee.AccountID.IsUnassigned() != gj.Assignee.AccountID.IsUnassigned() {
			return gj.Assignee.AccountID.IsUnassigned()
		}
		return strings.ToLower(gi.Assignee.DisplayName) < strings.ToLower(gj.Assignee.DisplayName)
	})
}

// Subject returns the email subject line for the report
func (r *Report) Subject() string {
	return "[Audit] Issues resolved on " + r.Window.Label()
}
