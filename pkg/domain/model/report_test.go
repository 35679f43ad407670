package model_test

import (
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/argos/pkg/domain/model"
	"github.com/secmon-lab/argos/pkg/domain/types"
)

func testGroup(actor model.Actor, sampled int) *model.AssigneeGroup {
	g := &model.AssigneeGroup{Assignee: actor}
	for i := 0; i < sampled; i++ {
		issue, _ := model.NewIssue("1", "SJ-1", "s", actor, "https://x/browse/SJ-1")
		g.Sampled = append(g.Sampled, issue)
		g.Issues = append(g.Issues, issue)
	}
	return g
}

func namedActor(name string) model.Actor {
	return model.Actor{AccountID: types.AccountID("acc-" + name), DisplayName: name}
}

func TestReportSortGroups(t *testing.T) {
	report := &model.Report{
		Groups: []*model.AssigneeGroup{
			testGroup(namedActor("zoe"), 1),
			testGroup(model.UnassignedActor(), 1),
			testGroup(namedActor("Alice"), 2),
			testGroup(namedActor("bob"), 1),
		},
	}
	report.SortGroups()

	gt.Equal(t, "Alice", report.Groups[0].Assignee.DisplayName)
	gt.Equal(t, "bob", report.Groups[1].Assignee.DisplayName)
	gt.Equal(t, "zoe", report.Groups[2].Assignee.DisplayName)
	gt.Equal(t, "(Unassigned)", report.Groups[3].Assignee.DisplayName)
	gt.True(t, report.Groups[3].Assignee.AccountID.IsUnassigned())
}

func TestReportSampledTotal(t *testing.T) {
	report := &model.Report{
		Groups: []*model.AssigneeGroup{
			testGroup(namedActor("a"), 2),
			testGroup(namedActor("b"), 1),
			testGroup(namedActor("c"), 0),
		},
	}
	gt.Equal(t, 3, report.SampledTotal())
}

func TestReportSubject(t *testing.T) {
	w := model.NewAuditWindow(time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC), time.UTC, 1)
	report := &model.Report{Window: w}
	gt.Equal(t, "[Audit] Issues resolved on 2025-03-14", report.Subject())
}
