package web

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ianmwanzi/portfolio/internal/contact"
	"github.com/ianmwanzi/portfolio/internal/logger"
	"github.com/ianmwanzi/portfolio/internal/mailer"
	"github.com/ianmwanzi/portfolio/internal/storage"
)

const (
	missingTitle       = "Missing information"
	missingDescription = "Please fill in every field before sending."

	relayInvalid       = "Name, email, subject and message are required, and the email must be valid."
	relayNotConfigured = "Email service is not configured."
	relayFailed        = "Failed to send email."
)

func (s *Server) setupContact(r *gin.Engine) {
	r.GET("/contact", s.contactPage)
	r.POST("/contact", s.submitContact)
	r.POST(contact.RelayPath, s.relay)
}

func (s *Server) contactPage(c *gin.Context) {
	s.renderContact(c, http.StatusOK, contact.Message{}, nil)
}

// submitContact runs one submission through a request-local contact.Form
// and renders the resulting fields and toast. HTMX requests get the form
// fragment only.
func (s *Server) submitContact(c *gin.Context) {
	var msg contact.Message
	for _, f := range contact.Fields {
		msg.Set(f, c.PostForm(string(f)))
	}

	var recorder contact.Recorder
	form := contact.NewForm(s.sender, &recorder)
	form.Fill(msg)

	status := http.StatusOK
	err := form.Submit(c.Request.Context())
	switch {
	case errors.Is(err, contact.ErrValidation):
		s.deps.Metrics.ContactSubmissions.WithLabelValues("invalid").Inc()
		status = http.StatusUnprocessableEntity
		recorder.Notify(contact.Notification{
			Kind:        contact.KindFailure,
			Title:       missingTitle,
			Description: missingDescription,
		})
	case err != nil:
		s.deps.Metrics.ContactSubmissions.WithLabelValues("failure").Inc()
		logger.Warn(c.Request.Context(), "contact submission failed", zap.Error(err))
	default:
		s.deps.Metrics.ContactSubmissions.WithLabelValues("success").Inc()
	}

	toast, _ := recorder.Last()
	s.renderContact(c, status, form.Values(), &toast)
}

func (s *Server) renderContact(c *gin.Context, status int, values contact.Message, toast *contact.Notification) {
	data := gin.H{
		"Form":  values,
		"Toast": toast,
		"FAQ":   s.deps.Content.FAQ,
	}
	// htmx only swaps 2xx responses.
	if isHTMX(c) {
		c.HTML(http.StatusOK, "contact-form.html", data)
		return
	}
	s.render(c, status, "contact", "contact.html", s.pageData(c, "Contact", data))
}

// relay is the mail endpoint the contact form posts to. Every message is
// logged before delivery and marked sent or failed afterwards.
func (s *Server) relay(c *gin.Context) {
	ctx := c.Request.Context()

	var msg contact.Message
	if err := c.ShouldBindJSON(&msg); err != nil {
		s.deps.Metrics.RelayMessages.WithLabelValues("invalid").Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": relayInvalid})
		return
	}
	if err := msg.Validate(); err != nil {
		s.deps.Metrics.RelayMessages.WithLabelValues("invalid").Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": relayInvalid})
		return
	}

	id := uuid.NewString()
	ctx = logger.WithFields(ctx, zap.String("message_id", id))

	stored := true
	if err := s.deps.Storage.SaveMessage(ctx, storage.Message{
		ID:      id,
		Name:    msg.Name,
		Email:   msg.Email,
		Subject: msg.Subject,
		Body:    msg.Message,
		Status:  storage.StatusPending,
	}); err != nil {
		stored = false
		logger.Error(ctx, "could not store contact message", zap.Error(err))
	}

	start := time.Now()
	err := s.deps.Mailer.Send(ctx, mailer.Envelope{
		Name:    msg.Name,
		Email:   msg.Email,
		Subject: msg.Subject,
		Body:    msg.Message,
	})
	s.deps.Metrics.RelayDuration.Observe(time.Since(start).Seconds())

	status, errText := storage.StatusSent, ""
	if err != nil {
		status, errText = storage.StatusFailed, err.Error()
	}
	if stored {
		if serr := s.deps.Storage.SetMessageStatus(ctx, id, status, errText); serr != nil {
			logger.Error(ctx, "could not update contact message", zap.Error(serr))
		}
	}

	if err != nil {
		s.deps.Metrics.RelayMessages.WithLabelValues("failed").Inc()
		logger.Error(ctx, "could not deliver contact message", zap.Error(err))
		if errors.Is(err, mailer.ErrNotConfigured) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": relayNotConfigured})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": relayFailed})
		return
	}

	s.deps.Metrics.RelayMessages.WithLabelValues("sent").Inc()
	logger.Info(ctx, "contact message delivered")
	c.JSON(http.StatusOK, gin.H{"success": true})
}
