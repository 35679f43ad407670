package types

import (
	"strings"

	"github.com/google/uuid"
)

// AccountID represents a tracker account identifier
type AccountID string

// String returns the string representation
func (id AccountID) String() string {
	return string(id)
}

// AccountUnassigned is the sentinel account for issues without an assignee
const AccountUnassigned AccountID = "UNASSIGNED"

// IsUnassigned reports whether the account is the unassigned sentinel
func (id AccountID) IsUnassigned() bool {
	return id == AccountUnassigned
}

// IssueKey represents a tracker issue key such as "SJ-1024"
type IssueKey string

// String returns the string representation
func (k IssueKey) String() string {
	return string(k)
}

// ProjectKey returns the project portion of the key ("SJ" for "SJ-1024")
func (k IssueKey) ProjectKey() ProjectKey {
	if i := strings.IndexByte(string(k), '-'); i > 0 {
		return ProjectKey(k[:i])
	}
	return ProjectKey(k)
}

// ProjectKey represents a tracker project key
type ProjectKey string

// String returns the string representation
func (k ProjectKey) String() string {
	return string(k)
}

// RunID identifies a single audit invocation
type RunID string

// String returns the string representation
func (id RunID) String() string {
	return string(id)
}

// NewRunID creates a new RunID using UUID v7
func NewRunID() (RunID, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return RunID(id.String()), nil
}
