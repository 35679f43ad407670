package model

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/argos/pkg/domain/types"
)

// Actor is the person an issue is assigned to. The unassigned sentinel actor
// groups issues that have no assignee.
type Actor struct {
	AccountID   types.AccountID
	DisplayName string
}

// UnassignedActor returns the sentinel actor for issues without an assignee
func UnassignedActor() Actor {
	return Actor{
		AccountID:   types.AccountUnassigned,
		DisplayName: "(Unassigned)",
	}
}

// Issue is a resolved work item retrieved from the tracker. Immutable after
// construction.
type Issue struct {
	ID        string
	Key       types.IssueKey
	Summary   string
	Assignee  Actor
	BrowseURL string
}

// NewIssue creates an Issue and validates the fields the report depends on
func NewIssue(id string, key types.IssueKey, summary string, assignee Actor, browseURL string) (*Issue, error) {
	if key == "" {
		return nil, goerr.New("issue key is required")
	}
	if browseURL == "" {
		return nil, goerr.New("issue browse URL is required", goerr.V("key", key))
	}
	if assignee.AccountID == "" {
		assignee = UnassignedActor()
	}
	return &Issue{
		ID:        id,
		Key:       key,
		Summary:   summary,
		Assignee:  assignee,
		BrowseURL: browseURL,
	}, nil
}
