package slack

import (
	"context"
	"fmt"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/argos/pkg/domain/model"
	"github.com/slack-go/slack"
)

// Notifier posts a short run summary to a Slack channel after the report is
// delivered. It is a courtesy ping for the audit team, not the delivery
// channel itself.
type Notifier struct {
	client  *slack.Client
	channel string
}

// New creates a Notifier posting to the given channel
func New(token, channel string) *Notifier {
	return &Notifier{
		client:  slack.New(token),
		channel: channel,
	}
}

// PostSummary posts the per-assignee sample counts for the run
func (n *Notifier) PostSummary(ctx context.Context, report *model.Report) error {
	blocks := buildSummaryBlocks(report)

	_, _, err := n.client.PostMessageContext(ctx, n.channel,
		slack.MsgOptionBlocks(blocks...),
		slack.MsgOptionText(report.Subject(), false),
	)
	if err != nil {
		return goerr.Wrap(err, "failed to post summary to Slack",
			goerr.V("channel", n.channel))
	}

	return nil
}

func buildSummaryBlocks(report *model.Report) []slack.Block {
	header := slack.NewHeaderBlock(
		slack.NewTextBlockObject(slack.PlainTextType,
			fmt.Sprintf("Resolved issue audit — %s", report.Window.Label()), false, false),
	)

	overview := slack.NewSectionBlock(
		slack.NewTextBlockObject(slack.MarkdownType,
			fmt.Sprintf("*%d* issues resolved, *%d* sampled for review",
				report.TotalIssues, report.SampledTotal()), false, false),
		nil, nil,
	)

	blocks := []slack.Block{header, overview}

	if len(report.Groups) > 0 {
		var lines []string
		for _, g := range report.Groups {
			lines = append(lines, fmt.Sprintf("• %s: %d of %d",
				g.Assignee.DisplayName, len(g.Sampled), len(g.Issues)))
		}
		blocks = append(blocks, slack.NewSectionBlock(
			slack.NewTextBlockObject(slack.MarkdownType, strings.Join(lines, "\n"), false, false),
			nil, nil,
		))
	}

	return blocks
}
