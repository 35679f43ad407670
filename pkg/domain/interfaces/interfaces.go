package interfaces

import (
	"context"

	"github.com/secmon-lab/argos/pkg/domain/model"
)

// IssueSource retrieves resolved issues from the issue tracker
type IssueSource interface {
	Search(ctx context.Context, jql string) ([]*model.Issue, error)
}

// ReportSender delivers a rendered report. Implementations: SMTP, Microsoft
// Graph, and the dry-run preview writer.
type ReportSender interface {
	Send(ctx context.Context, report *model.Report, html string) error
}

// Notifier posts a short post-run summary to a chat channel
type Notifier interface {
	PostSummary(ctx context.Context, report *model.Report) error
}
