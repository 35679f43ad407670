package mail_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/argos/pkg/domain/model"
	"github.com/secmon-lab/argos/pkg/service/mail"
)

func graphEnvelope() mail.Envelope {
	return mail.Envelope{
		From:    "audit@example.com",
		ReplyTo: "soc@example.com",
		To:      []string{"lead@example.com"},
	}
}

func graphReport() *model.Report {
	return &model.Report{
		Window: model.NewAuditWindow(time.Date(2025, 3, 15, 8, 0, 0, 0, time.UTC), time.UTC, 1),
	}
}

func TestGraphSenderSend(t *testing.T) {
	var captured map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gt.Equal(t, http.MethodPost, r.Method)
		gt.Equal(t, "/v1.0/users/audit@example.com/sendMail", r.URL.Path)
		gt.Equal(t, "application/json", r.Header.Get("Content-Type"))
		gt.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	sender := mail.NewGraphSender("tenant-1", "client-1", "secret", graphEnvelope(),
		mail.WithGraphBaseURL(srv.URL),
		mail.WithGraphHTTPClient(srv.Client()),
	)

	gt.NoError(t, sender.Send(context.Background(), graphReport(), "<html>report</html>"))

	msg := captured["message"].(map[string]any)
	gt.Equal(t, "[Audit] Issues resolved on 2025-03-14", msg["subject"])

	body := msg["body"].(map[string]any)
	gt.Equal(t, "HTML", body["contentType"])
	gt.Equal(t, "<html>report</html>", body["content"])

	recipients := msg["toRecipients"].([]any)
	gt.Equal(t, 1, len(recipients))
}

func TestGraphSenderAuthRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	sender := mail.NewGraphSender("tenant-1", "client-1", "bad-secret", graphEnvelope(),
		mail.WithGraphBaseURL(srv.URL),
		mail.WithGraphHTTPClient(srv.Client()),
	)

	err := sender.Send(context.Background(), graphReport(), "<html></html>")
	gt.Error(t, err)
	gt.True(t, errors.Is(err, model.ErrAuthentication))
}

func TestGraphSenderDeliveryRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	sender := mail.NewGraphSender("tenant-1", "client-1", "secret", graphEnvelope(),
		mail.WithGraphBaseURL(srv.URL),
		mail.WithGraphHTTPClient(srv.Client()),
	)

	err := sender.Send(context.Background(), graphReport(), "<html></html>")
	gt.Error(t, err)
	gt.True(t, errors.Is(err, model.ErrDelivery))
}

func TestGraphSenderInvalidEnvelope(t *testing.T) {
	env := graphEnvelope()
	env.To = nil
	sender := mail.NewGraphSender("tenant-1", "client-1", "secret", env)

	err := sender.Send(context.Background(), graphReport(), "<html></html>")
	gt.Error(t, err)
	gt.True(t, errors.Is(err, model.ErrDelivery))
}
