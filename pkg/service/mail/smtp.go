package mail

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net"
	"net/smtp"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/argos/pkg/domain/model"
)

// SMTPSender delivers the report over an authenticated SMTP submission
// endpoint with STARTTLS.
type SMTPSender struct {
	host     string
	port     int
	username string
	password string
	envelope Envelope
	now      func() time.Time
}

// NewSMTPSender creates an SMTP-based report sender. An empty password skips
// authentication (open relay inside a trusted network).
func NewSMTPSender(host string, port int, username, password string, env Envelope) *SMTPSender {
	return &SMTPSender{
		host:     host,
		port:     port,
		username: username,
		password: password,
		envelope: env,
		now:      time.Now,
	}
}

// Send transmits the rendered report to every recipient in the envelope
func (s *SMTPSender) Send(ctx context.Context, report *model.Report, html string) error {
	logger := ctxlog.From(ctx)

	msg, err := BuildMessage(s.envelope, report.Subject(), html, s.now())
	if err != nil {
		return goerr.Wrap(model.ErrDelivery, "failed to build message",
			goerr.V("cause", err.Error()))
	}

	addr := fmt.Sprintf("%s:%d", s.host, s.port)
	dialer := &net.Dialer{Timeout: 30 * time.Second}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return goerr.Wrap(model.ErrDelivery, "failed to connect to SMTP server",
			goerr.V("addr", addr),
			goerr.V("cause", err.Error()))
	}

	client, err := smtp.NewClient(conn, s.host)
	if err != nil {
		conn.Close()
		return goerr.Wrap(model.ErrDelivery, "SMTP handshake failed",
			goerr.V("addr", addr),
			goerr.V("cause", err.Error()))
	}
	defer client.Close()

	if err := client.StartTLS(&tls.Config{ServerName: s.host}); err != nil {
		return goerr.Wrap(model.ErrDelivery, "STARTTLS failed",
			goerr.V("addr", addr),
			goerr.V("cause", err.Error()))
	}

	if s.password != "" {
		auth := smtp.PlainAuth("", s.username, s.password, s.host)
		if err := client.Auth(auth); err != nil {
			return goerr.Wrap(model.ErrAuthentication, "SMTP authentication rejected",
				goerr.V("username", s.username),
				goerr.V("cause", err.Error()))
		}
	}

	if err := client.Mail(s.envelope.From); err != nil {
		return goerr.Wrap(model.ErrDelivery, "sender rejected",
			goerr.V("from", s.envelope.From),
			goerr.V("cause", err.Error()))
	}
	for _, rcpt := range s.envelope.To {
		if err := client.Rcpt(rcpt); err != nil {
			return goerr.Wrap(model.ErrDelivery, "recipient rejected",
				goerr.V("recipient", rcpt),
				goerr.V("cause", err.Error()))
		}
	}

	w, err := client.Data()
	if err != nil {
		return goerr.Wrap(model.ErrDelivery, "DATA command failed",
			goerr.V("cause", err.Error()))
	}
	if _, err := w.Write(msg); err != nil {
		return goerr.Wrap(model.ErrDelivery, "failed to write message body",
			goerr.V("cause", err.Error()))
	}
	if err := w.Close(); err != nil {
		return goerr.Wrap(model.ErrDelivery, "message rejected by server",
			goerr.V("cause", err.Error()))
	}

	if err := client.Quit(); err != nil {
		logger.Warn("SMTP QUIT failed after successful delivery", "error", err)
	}

	logger.Info("report sent via SMTP",
		slog.String("host", s.host),
		slog.Int("recipients", len(s.envelope.To)),
	)
	return nil
}
