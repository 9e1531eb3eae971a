package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/consultium-ai/demo-booking-service/internal/domain"
)

const emailJSSendPath = "/api/v1.0/email/send"

// EmailJSConfig holds configuration for the EmailJS REST API.
type EmailJSConfig struct {
	BaseURL   string
	ServiceID string
	PublicKey string
}

// EmailJSTransport sends notifications through the EmailJS relay. The
// delivery channel maps to an EmailJS template id.
type EmailJSTransport struct {
	cfg        EmailJSConfig
	httpClient *http.Client
	logger     *zap.Logger
}

// NewEmailJSTransport creates an EmailJS transport. A nil httpClient falls
// back to a client with a conservative timeout.
func NewEmailJSTransport(cfg EmailJSConfig, httpClient *http.Client, logger *zap.Logger) *EmailJSTransport {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &EmailJSTransport{
		cfg:        EmailJSConfig{BaseURL: strings.TrimRight(cfg.BaseURL, "/"), ServiceID: cfg.ServiceID, PublicKey: cfg.PublicKey},
		httpClient: httpClient,
		logger:     logger,
	}
}

type emailJSPayload struct {
	ServiceID      string               `json:"service_id"`
	TemplateID     string               `json:"template_id"`
	UserID         string               `json:"user_id"`
	TemplateParams emailJSTemplateParams `json:"template_params"`
}

// emailJSTemplateParams matches the variable names the mail templates expect.
type emailJSTemplateParams struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
	ToEmail string `json:"to_email"`
}

// Send posts one notification to the EmailJS send endpoint. A non-2xx status
// is returned as an error so the dispatcher can move to the next channel.
func (t *EmailJSTransport) Send(ctx context.Context, channel domain.DeliveryChannel, req domain.NotificationRequest) error {
	payload := emailJSPayload{
		ServiceID:  t.cfg.ServiceID,
		TemplateID: string(channel),
		UserID:     t.cfg.PublicKey,
		TemplateParams: emailJSTemplateParams{
			Name:    req.RecipientName,
			Email:   req.ReplyTo,
			Subject: req.Subject,
			Message: req.Body,
			ToEmail: req.RecipientAddress,
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("emailjs: encode payload: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, t.cfg.BaseURL+emailJSSendPath, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("emailjs: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := t.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("emailjs: send via %s: %w", channel, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		t.logger.Debug("emailjs rejected template",
			zap.String("template_id", string(channel)),
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", detail))
		return fmt.Errorf("emailjs: template %s returned status %d", channel, resp.StatusCode)
	}

	t.logger.Info("notification sent via emailjs",
		zap.String("template_id", string(channel)),
		zap.String("to", req.RecipientAddress),
		zap.String("subject", req.Subject))
	return nil
}

var _ Transport = (*EmailJSTransport)(nil)
