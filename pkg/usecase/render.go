package usecase

import (
	"bytes"
	"html/template"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/argos/pkg/domain/model"
)

// reportTemplate renders the audit report as a self-contained email-safe
// HTML document (table layout, inline styles). Tracker-supplied text goes
// through the template engine, which escapes it.
var reportTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8" />
  <meta name="x-apple-disable-message-reformatting" />
  <meta name="color-scheme" content="light only" />
  <title>Resolved issue audit</title>
</head>
<body style="margin:0; padding:0; background-color:#faf6fa;">
  <div style="display:none; overflow:hidden; line-height:1px; opacity:0; max-height:0; max-width:0; mso-hide:all;">
    Total resolved issues: {{.TotalIssues}} — {{.Window.Label}}
  </div>
  <table role="presentation" cellpadding="0" cellspacing="0" border="0" width="100%" style="background-color:#faf6fa;">
    <tr>
      <td align="center" style="padding:24px;">
        <table role="presentation" cellpadding="0" cellspacing="0" border="0" width="600" style="width:600px; max-width:600px; background:#ffffff; border:1px solid #eaeef2; border-radius:8px;">
          <tr>
            <td style="padding:24px; font-family:-apple-system,Segoe UI,Roboto,Arial,Helvetica,sans-serif; color:#0f172a; font-size:14px; line-height:1.6;">
              <h2 style="margin:0 0 8px 0; font-size:20px; line-height:1.3; color:#0f172a;">
                Resolved issue audit — {{.Window.Label}}
              </h2>
              <p style="margin:0 0 16px 0; color:#334155;">
                Total resolved issues: <strong style="color:#0f172a;">{{.TotalIssues}}</strong>
              </p>
{{- if not .Groups}}
              <p style="margin:0; color:#334155;">
                <em>No resolved issues were found for this audit window.</em>
              </p>
{{- end}}
{{- range .Groups}}
              <div style="margin:16px 0; padding:12px; border:1px solid #e5e7eb; border-radius:8px;">
                <h3 style="margin:0 0 8px 0; font-size:16px; color:#0f172a;">
                  {{.Assignee.DisplayName}} <span style="color:#334155;">({{len .Sampled}} of {{len .Issues}})</span>
                </h3>
                <ol style="margin:0; padding-left:20px;">
{{- range .Sampled}}
                  <li style="margin:0 0 6px 0;">
                    <a href="{{.BrowseURL}}" style="color:#0b57d0; text-decoration:none;">{{.Key}}</a>
                    &nbsp;&ndash;&nbsp;{{.Summary}}
                    &nbsp;&ndash;&nbsp;<strong style="color:#0f172a;">{{.Assignee.DisplayName}}</strong>
                  </li>
{{- end}}
                </ol>
              </div>
{{- end}}
              <p style="margin:16px 0 0 0; color:#334155; font-size:12px;">
                {{.SampledTotal}} issues sampled for review. This report was generated automatically; do not reply.
              </p>
            </td>
          </tr>
        </table>
        <div style="height:24px; line-height:24px;">&nbsp;</div>
      </td>
    </tr>
  </table>
</body>
</html>
`))

// Render converts the report into the HTML document sent to recipients
func Render(report *model.Report) (string, error) {
	var buf bytes.Buffer
	if err := reportTemplate.Execute(&buf, report); err != nil {
		return "", goerr.Wrap(err, "failed to render report")
	}
	return buf.String(), nil
}
