package mail_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/argos/pkg/domain/model"
	"github.com/secmon-lab/argos/pkg/service/mail"
)

func previewReport() *model.Report {
	actor := model.Actor{AccountID: "acc-1", DisplayName: "Dana Reyes"}
	issue, _ := model.NewIssue("10001", "SJ-1", "VPN access broken", actor, "https://example.atlassian.net/browse/SJ-1")

	return &model.Report{
		Window:      model.NewAuditWindow(time.Date(2025, 3, 15, 8, 0, 0, 0, time.UTC), time.UTC, 1),
		TotalIssues: 3,
		Groups: []*model.AssigneeGroup{
			{
				Assignee: actor,
				Issues:   []*model.Issue{issue, issue, issue},
				Sampled:  []*model.Issue{issue},
			},
		},
	}
}

func TestPreviewSender(t *testing.T) {
	dir := t.TempDir()
	var console bytes.Buffer

	fixed := time.Date(2025, 3, 15, 8, 30, 45, 0, time.UTC)
	sender := mail.NewPreviewSender("audit_preview",
		mail.WithPreviewDir(dir),
		mail.WithPreviewOutput(&console),
		mail.WithPreviewClock(func() time.Time { return fixed }),
	)

	html := "<html><body>preview body</body></html>"
	gt.NoError(t, sender.Send(context.Background(), previewReport(), html))

	path := filepath.Join(dir, "audit_preview_20250315_083045.html")
	data, err := os.ReadFile(path)
	gt.NoError(t, err)
	gt.Equal(t, html, string(data))

	out := console.String()
	gt.S(t, out).Contains("Total resolved issues: 3")
	gt.S(t, out).Contains("Dana Reyes (1 of 3)")
	gt.S(t, out).Contains("SJ-1")
	gt.S(t, out).Contains(path)
}

func TestPreviewSenderEmptyReport(t *testing.T) {
	dir := t.TempDir()
	var console bytes.Buffer

	sender := mail.NewPreviewSender("audit_preview",
		mail.WithPreviewDir(dir),
		mail.WithPreviewOutput(&console),
	)

	report := &model.Report{
		Window: model.NewAuditWindow(time.Date(2025, 3, 15, 8, 0, 0, 0, time.UTC), time.UTC, 1),
	}
	gt.NoError(t, sender.Send(context.Background(), report, "<html></html>"))
	gt.S(t, console.String()).Contains("No issues found")
}

func TestPreviewSenderWriteFailure(t *testing.T) {
	sender := mail.NewPreviewSender("audit_preview",
		mail.WithPreviewDir(filepath.Join(t.TempDir(), "does-not-exist")),
		mail.WithPreviewOutput(&bytes.Buffer{}),
	)

	err := sender.Send(context.Background(), previewReport(), "<html></html>")
	gt.Error(t, err)
	gt.True(t, errors.Is(err, model.ErrPersistence))
}
