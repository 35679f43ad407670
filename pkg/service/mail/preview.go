package mail

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/argos/pkg/domain/model"
)

// PreviewSender is the dry-run delivery: it writes the HTML report to a
// timestamped local file and prints a console summary. It never touches the
// network.
type PreviewSender struct {
	prefix string
	dir    string
	out    io.Writer
	now    func() time.Time
}

// PreviewOption configures a PreviewSender
type PreviewOption func(*PreviewSender)

// WithPreviewDir writes previews to dir instead of the working directory
func WithPreviewDir(dir string) PreviewOption {
	return func(p *PreviewSender) {
		p.dir = dir
	}
}

// WithPreviewOutput redirects the console summary, used by tests
func WithPreviewOutput(w io.Writer) PreviewOption {
	return func(p *PreviewSender) {
		p.out = w
	}
}

// WithPreviewClock replaces the timestamp source, used by tests
func WithPreviewClock(now func() time.Time) PreviewOption {
	return func(p *PreviewSender) {
		p.now = now
	}
}

// NewPreviewSender creates a dry-run sender writing <prefix>_<timestamp>.html
func NewPreviewSender(prefix string, opts ...PreviewOption) *PreviewSender {
	p := &PreviewSender{
		prefix: prefix,
		out:    os.Stdout,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Send writes the preview file and prints the summary
func (p *PreviewSender) Send(ctx context.Context, report *model.Report, html string) error {
	logger := ctxlog.From(ctx)

	name := fmt.Sprintf("%s_%s.html", p.prefix, p.now().Format("20060102_150405"))
	path := filepath.Join(p.dir, name)

	if err := os.WriteFile(path, []byte(html), 0o644); err != nil {
		return goerr.Wrap(model.ErrPersistence, "failed to write preview file",
			goerr.V("path", path),
			goerr.V("cause", err.Error()))
	}

	p.printSummary(report, path)

	logger.Info("dry run: preview written",
		slog.String("path", path),
		slog.Int("issues", report.SampledTotal()),
	)
	return nil
}

func (p *PreviewSender) printSummary(report *model.Report, path string) {
	fmt.Fprintf(p.out, "\n=== Audit summary (%s) ===\n", report.Window.Label())
	fmt.Fprintf(p.out, "Total resolved issues: %d\n", report.TotalIssues)

	if len(report.Groups) == 0 {
		fmt.Fprintln(p.out, "No issues found for the audit window.")
	}

	for _, g := range report.Groups {
		fmt.Fprintf(p.out, "\n%s (%d of %d):\n", g.Assignee.DisplayName, len(g.Sampled), len(g.Issues))
		for _, issue := range g.Sampled {
			fmt.Fprintf(p.out, "  - %s — %s — %s\n", issue.Key, shorten(issue.Summary, 100), issue.BrowseURL)
		}
	}

	fmt.Fprintf(p.out, "\nPreview saved to: %s\n", path)
}

func shorten(s string, maxLen int) string {
	if s == "" {
		return "(no summary)"
	}
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
