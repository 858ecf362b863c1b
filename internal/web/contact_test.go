package web_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/ianmwanzi/portfolio/internal/contact"
	"github.com/ianmwanzi/portfolio/internal/content"
	"github.com/ianmwanzi/portfolio/internal/mailer"
	mockmailer "github.com/ianmwanzi/portfolio/internal/mailer/mock"
	"github.com/ianmwanzi/portfolio/internal/metrics"
	"github.com/ianmwanzi/portfolio/internal/storage"
	"github.com/ianmwanzi/portfolio/internal/storage/sqlite"
	"github.com/ianmwanzi/portfolio/internal/web"
)

var formValues = url.Values{
	"name":    {"Ada Lovelace"},
	"email":   {"ada@example.com"},
	"subject": {"Engines"},
	"message": {"Shall we build one?"},
}

var formMessage = contact.Message{
	Name:    "Ada Lovelace",
	Email:   "ada@example.com",
	Subject: "Engines",
	Message: "Shall we build one?",
}

func TestContactSubmitSuccessClearsFields(t *testing.T) {
	env := newTestEnv(t, testOptions())
	env.sender.EXPECT().Send(gomock.Any(), formMessage).Return(nil)

	rec := env.do(postForm("/contact", formValues))
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	require.Contains(t, body, "Message sent successfully!")
	require.Contains(t, body, `toast-success`)
	require.NotContains(t, body, `value="Ada Lovelace"`)
	require.Contains(t, body, "<html")
}

func TestContactSubmitFailureKeepsFields(t *testing.T) {
	env := newTestEnv(t, testOptions())
	env.sender.EXPECT().Send(gomock.Any(), formMessage).
		Return(&contact.DeliveryError{Status: http.StatusInternalServerError, ServerMessage: "mail failure"})

	body := env.do(postForm("/contact", formValues)).Body.String()
	require.Contains(t, body, "Failed to send message")
	require.Contains(t, body, "mail failure")
	require.Contains(t, body, `value="Ada Lovelace"`)
	require.Contains(t, body, "Shall we build one?</textarea>")
}

func TestContactSubmitTransportFailure(t *testing.T) {
	env := newTestEnv(t, testOptions())
	env.sender.EXPECT().Send(gomock.Any(), gomock.Any()).Return(errors.New("connection refused"))

	body := env.do(postForm("/contact", formValues)).Body.String()
	require.Contains(t, body, "Please try again later or contact me directly.")
}

func TestContactSubmitMissingFieldSkipsSender(t *testing.T) {
	env := newTestEnv(t, testOptions())

	values := url.Values{}
	for k, v := range formValues {
		values[k] = v
	}
	values.Set("subject", "  ")

	rec := env.do(postForm("/contact", values))
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.Contains(t, rec.Body.String(), "Missing information")
	require.Contains(t, rec.Body.String(), `value="Ada Lovelace"`)
}

func TestContactSubmitHTMXReturnsFragment(t *testing.T) {
	env := newTestEnv(t, testOptions())
	env.sender.EXPECT().Send(gomock.Any(), formMessage).Return(nil)

	req := postForm("/contact", formValues)
	req.Header.Set("HX-Request", "true")
	rec := env.do(req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	require.True(t, strings.HasPrefix(strings.TrimSpace(body), `<form id="contact-form"`))
	require.NotContains(t, body, "<html")
	require.Contains(t, body, "Message sent successfully!")
}

func TestContactSubmitHTMXValidationStays2xx(t *testing.T) {
	env := newTestEnv(t, testOptions())

	req := postForm("/contact", url.Values{"name": {"Ada"}})
	req.Header.Set("HX-Request", "true")
	rec := env.do(req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Missing information")
}

func relayRequest(t *testing.T, msg any) *http.Request {
	t.Helper()

	b, err := json.Marshal(msg)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, contact.RelayPath, strings.NewReader(string(b)))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestRelayDelivers(t *testing.T) {
	env := newTestEnv(t, testOptions())
	env.mailer.EXPECT().Send(gomock.Any(), mailer.Envelope{
		Name:    formMessage.Name,
		Email:   formMessage.Email,
		Subject: formMessage.Subject,
		Body:    formMessage.Message,
	}).Return(nil)

	rec := env.do(relayRequest(t, formMessage))
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"success":true}`, rec.Body.String())

	msgs, err := env.store.ListMessages(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	require.Equal(t, storage.StatusSent, msgs[0].Status)
	require.Equal(t, "Shall we build one?", msgs[0].Body)
}

func TestRelayMailerFailure(t *testing.T) {
	env := newTestEnv(t, testOptions())
	env.mailer.EXPECT().Send(gomock.Any(), gomock.Any()).Return(errors.New("smtp: 554 rejected"))

	rec := env.do(relayRequest(t, formMessage))
	require.Equal(t, http.StatusBadGateway, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotEmpty(t, body["error"])

	msgs, err := env.store.ListMessages(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	require.Equal(t, storage.StatusFailed, msgs[0].Status)
	require.Contains(t, msgs[0].Error, "554")
}

func TestRelayNotConfigured(t *testing.T) {
	env := newTestEnv(t, testOptions())
	env.mailer.EXPECT().Send(gomock.Any(), gomock.Any()).Return(mailer.ErrNotConfigured)

	rec := env.do(relayRequest(t, formMessage))
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestRelayRejectsInvalidPayload(t *testing.T) {
	env := newTestEnv(t, testOptions())

	bad := []any{
		map[string]string{"name": "Ada"},
		contact.Message{Name: "Ada", Email: "not-an-email", Subject: "s", Message: "m"},
		contact.Message{Name: " ", Email: "ada@example.com", Subject: "s", Message: "m"},
	}
	for _, msg := range bad {
		rec := env.do(relayRequest(t, msg))
		require.Equal(t, http.StatusBadRequest, rec.Code)
	}

	msgs, err := env.store.ListMessages(context.Background(), 10)
	require.NoError(t, err)
	require.Empty(t, msgs)
}

// TestContactThroughRelay drives the page handler against the server's own
// relay over real HTTP.
func TestContactThroughRelay(t *testing.T) {
	ctrl := gomock.NewController(t)
	mail := mockmailer.NewMockMailer(ctrl)

	c, err := content.Default()
	require.NoError(t, err)
	store, err := sqlite.Open(context.Background(), filepath.Join(t.TempDir(), "relay.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	ts := httptest.NewUnstartedServer(nil)
	opts := testOptions()
	opts.ContactEndpoint = "http://" + ts.Listener.Addr().String()

	srv, err := web.New(web.Deps{
		Content: c,
		Storage: store,
		Mailer:  mail,
		Metrics: metrics.New(prometheus.NewRegistry()),
	}, opts)
	require.NoError(t, err)
	ts.Config.Handler = srv.Handler()
	ts.Start()
	t.Cleanup(ts.Close)

	gomock.InOrder(
		mail.EXPECT().Send(gomock.Any(), gomock.Any()).Return(errors.New("smtp down")),
		mail.EXPECT().Send(gomock.Any(), gomock.Any()).Return(nil),
	)

	post := func() string {
		resp, err := ts.Client().PostForm(ts.URL+"/contact", formValues)
		require.NoError(t, err)
		defer resp.Body.Close()
		var b strings.Builder
		_, err = io.Copy(&b, resp.Body)
		require.NoError(t, err)
		return b.String()
	}

	failed := post()
	require.Contains(t, failed, "Failed to send message")
	require.Contains(t, failed, `value="ada@example.com"`)

	sent := post()
	require.Contains(t, sent, "Message sent successfully!")
	require.NotContains(t, sent, `value="ada@example.com"`)
}
