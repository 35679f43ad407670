package mail

import (
	"bytes"
	"mime/multipart"
	"mime/quotedprintable"
	"net/mail"
	"net/textproto"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
)

// Envelope carries the addressing for a report email
type Envelope struct {
	From        string
	DisplayName string
	ReplyTo     string
	To          []string
}

// Validate checks the envelope has a sender and at least one recipient
func (e Envelope) Validate() error {
	if e.From == "" {
		return goerr.New("sender address is required")
	}
	if len(e.To) == 0 {
		return goerr.New("at least one recipient is required")
	}
	for _, addr := range e.To {
		if _, err := mail.ParseAddress(addr); err != nil {
			return goerr.Wrap(err, "invalid recipient address", goerr.V("address", addr))
		}
	}
	return nil
}

func (e Envelope) fromHeader() string {
	addr := mail.Address{Name: e.DisplayName, Address: e.From}
	return addr.String()
}

// BuildMessage assembles a multipart/alternative MIME message with the HTML
// report as its body.
func BuildMessage(env Envelope, subject, htmlBody string, now time.Time) ([]byte, error) {
	if err := env.Validate(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	headers := []string{
		"From: " + env.fromHeader(),
		"To: " + strings.Join(env.To, ", "),
		"Subject: " + subject,
		"Date: " + now.Format(time.RFC1123Z),
		"MIME-Version: 1.0",
		`Content-Type: multipart/alternative; boundary="` + mw.Boundary() + `"`,
	}
	if env.ReplyTo != "" {
		headers = append(headers, "Reply-To: "+env.ReplyTo)
	}

	var msg bytes.Buffer
	for _, h := range headers {
		msg.WriteString(h)
		msg.WriteString("\r\n")
	}
	msg.WriteString("\r\n")

	part, err := mw.CreatePart(textproto.MIMEHeader{
		"Content-Type":              {`text/html; charset="utf-8"`},
		"Content-Transfer-Encoding": {"quoted-printable"},
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create HTML part")
	}

	qp := quotedprintable.NewWriter(part)
	if _, err := qp.Write([]byte(htmlBody)); err != nil {
		return nil, goerr.Wrap(err, "failed to encode HTML body")
	}
	if err := qp.Close(); err != nil {
		return nil, goerr.Wrap(err, "failed to finalize HTML body")
	}
	if err := mw.Close(); err != nil {
		return nil, goerr.Wrap(err, "failed to finalize message")
	}

	msg.Write(buf.Bytes())
	return msg.Bytes(), nil
}
