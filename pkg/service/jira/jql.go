package jira

import (
	"fmt"
	"strings"

	"github.com/secmon-lab/argos/pkg/domain/model"
	"github.com/secmon-lab/argos/pkg/domain/types"
)

// BuildJQL translates the audit scope into a JQL filter: issues in the given
// projects whose status changed to the resolved status during the window.
// Date-only bounds let Jira apply its own timezone handling, matching the
// half-open window semantics ([start, end) with end rendered as the next day
// is interpreted by DURING as start-of-day bounds).
func BuildJQL(projects []types.ProjectKey, status string, w model.AuditWindow) string {
	keys := make([]string, 0, len(projects))
	for _, p := range projects {
		if s := strings.TrimSpace(p.String()); s != "" {
			keys = append(keys, s)
		}
	}

	return fmt.Sprintf(`project in (%s) AND status CHANGED TO %q DURING (%q, %q)`,
		strings.Join(keys, ", "), status, w.StartDate(), w.EndDate())
}
