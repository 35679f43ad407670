package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/argos/pkg/domain/model"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

const graphDefaultBaseURL = "https://graph.microsoft.com"

// GraphSender delivers the report through the Microsoft Graph sendMail API
// using an application token obtained by the client credentials grant.
type GraphSender struct {
	sender   string
	envelope Envelope
	creds    clientcredentials.Config
	baseURL  string
	client   *http.Client
}

// GraphOption configures a GraphSender
type GraphOption func(*GraphSender)

// WithGraphBaseURL overrides the Graph endpoint, used by tests
func WithGraphBaseURL(u string) GraphOption {
	return func(g *GraphSender) {
		g.baseURL = u
	}
}

// WithGraphHTTPClient replaces the HTTP client; the client credentials flow
// is skipped when set, so tests can stub the whole transport.
func WithGraphHTTPClient(hc *http.Client) GraphOption {
	return func(g *GraphSender) {
		g.client = hc
	}
}

// NewGraphSender creates a Graph-based report sender for the given tenant
func NewGraphSender(tenantID, clientID, clientSecret string, env Envelope, opts ...GraphOption) *GraphSender {
	g := &GraphSender{
		sender:   env.From,
		envelope: env,
		creds: clientcredentials.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			TokenURL:     fmt.Sprintf("https://login.microsoftonline.com/%s/oauth2/v2.0/token", tenantID),
			Scopes:       []string{"https://graph.microsoft.com/.default"},
		},
		baseURL: graphDefaultBaseURL,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

type graphAddress struct {
	Address string `json:"address"`
}

type graphRecipient struct {
	EmailAddress graphAddress `json:"emailAddress"`
}

type graphMessage struct {
	Subject string `json:"subject"`
	Body    struct {
		ContentType string `json:"contentType"`
		Content     string `json:"content"`
	} `json:"body"`
	ToRecipients []graphRecipient `json:"toRecipients"`
	ReplyTo      []graphRecipient `json:"replyTo,omitempty"`
}

type sendMailRequest struct {
	Message         graphMessage `json:"message"`
	SaveToSentItems bool         `json:"saveToSentItems"`
}

// Send posts the report to /v1.0/users/{sender}/sendMail
func (g *GraphSender) Send(ctx context.Context, report *model.Report, html string) error {
	logger := ctxlog.From(ctx)

	if err := g.envelope.Validate(); err != nil {
		return goerr.Wrap(model.ErrDelivery, "invalid envelope",
			goerr.V("cause", err.Error()))
	}

	payload := sendMailRequest{SaveToSentItems: true}
	payload.Message.Subject = report.Subject()
	payload.Message.Body.ContentType = "HTML"
	payload.Message.Body.Content = html
	for _, rcpt := range g.envelope.To {
		payload.Message.ToRecipients = append(payload.Message.ToRecipients,
			graphRecipient{EmailAddress: graphAddress{Address: rcpt}})
	}
	if g.envelope.ReplyTo != "" {
		payload.Message.ReplyTo = []graphRecipient{
			{EmailAddress: graphAddress{Address: g.envelope.ReplyTo}},
		}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return goerr.Wrap(model.ErrDelivery, "failed to encode sendMail request",
			goerr.V("cause", err.Error()))
	}

	client := g.client
	if client == nil {
		client = g.creds.Client(ctx)
	}

	endpoint := fmt.Sprintf("%s/v1.0/users/%s/sendMail", g.baseURL, g.sender)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return goerr.Wrap(model.ErrDelivery, "failed to build sendMail request",
			goerr.V("cause", err.Error()))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) {
			return goerr.Wrap(model.ErrAuthentication, "token request rejected",
				goerr.V("status", retrieveErr.Response.StatusCode))
		}
		return goerr.Wrap(model.ErrDelivery, "sendMail request failed",
			goerr.V("cause", err.Error()))
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))

	switch {
	case resp.StatusCode == http.StatusAccepted:
		logger.Info("report sent via Graph API",
			slog.String("sender", g.sender),
			slog.Int("recipients", len(g.envelope.To)),
		)
		return nil
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return goerr.Wrap(model.ErrAuthentication, "Graph API rejected credentials",
			goerr.V("status", resp.StatusCode),
			goerr.V("body", string(respBody)))
	default:
		return goerr.Wrap(model.ErrDelivery, "Graph API rejected message",
			goerr.V("status", resp.StatusCode),
			goerr.V("body", string(respBody)))
	}
}
