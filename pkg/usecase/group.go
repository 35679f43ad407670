package usecase

import (
	"math/rand/v2"

	"github.com/secmon-lab/argos/pkg/domain/model"
	"github.com/secmon-lab/argos/pkg/domain/types"
)

// groupByAssignee partitions issues into per-assignee groups in first-seen
// order. Every issue lands in exactly one group; issues without an assignee
// go to the unassigned sentinel group. Groups excluded by policy or by the
// include-unassigned switch are dropped whole.
func groupByAssignee(issues []*model.Issue, includeUnassigned bool, policy *model.Policy) []*model.AssigneeGroup {
	var groups []*model.AssigneeGroup
	index := make(map[types.AccountID]*model.AssigneeGroup)

	for _, issue := range issues {
		id := issue.Assignee.AccountID
		if id.IsUnassigned() && !includeUnassigned {
			continue
		}
		if policy.Excludes(id) {
			continue
		}

		g, ok := index[id]
		if !ok {
			g = &model.AssigneeGroup{Assignee: issue.Assignee}
			index[id] = g
			groups = append(groups, g)
		}
		g.Issues = append(g.Issues, issue)
	}

	return groups
}

// sampleGroups draws min(n, len) issues per group uniformly at random
// without replacement.
func sampleGroups(groups []*model.AssigneeGroup, n int, rng *rand.Rand) {
	for _, g := range groups {
		k := n
		if k > len(g.Issues) {
			k = len(g.Issues)
		}
		if k <= 0 {
			g.Sampled = nil
			continue
		}

		perm := rng.Perm(len(g.Issues))
		g.Sampled = make([]*model.Issue, 0, k)
		for _, idx := range perm[:k] {
			g.Sampled = append(g.Sampled, g.Issues[idx])
		}
	}
}
