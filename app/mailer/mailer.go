package mailer

import (
	"context"
	"fmt"
	"time"

	"github.com/narang24/Journal-Website-Backend/app/config"
	"github.com/narang24/Journal-Website-Backend/app/metrics"
	amqp "github.com/rabbitmq/amqp091-go"
)

// Email is a rendered message ready for delivery.
type Email struct {
	To       string `json:"to"`
	Subject  string `json:"subject"`
	Body     string `json:"body"`
	From     string `json:"from"`
	FromName string `json:"from_name"`
}

// Provider delivers rendered emails. Implementations: smtp (direct), amqp
// (hand off to a delivery worker), log (development).
type Provider interface {
	Send(ctx context.Context, email *Email) error
	Name() string
}

// Mailer renders named templates and dispatches them. Callers decide whether a
// failed dispatch is fatal to their operation.
type Mailer interface {
	SendVerification(ctx context.Context, to, fullName, verificationURL string) error
	SendWelcome(ctx context.Context, to, fullName, loginURL string) error
	SendLoginWelcome(ctx context.Context, to, fullName string, loginTime time.Time, dashboardURL string) error
	SendPasswordReset(ctx context.Context, to, fullName, resetURL string) error
	SendPasswordChanged(ctx context.Context, to, fullName, loginURL string) error
}

// Config holds mail transport settings.
type Config struct {
	Provider     string
	FromEmail    string
	FromName     string
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
}

// ConfigFromEnv builds mail settings from the environment.
func ConfigFromEnv() Config {
	return Config{
		Provider:     config.GetString("MAIL_PROVIDER", "smtp"),
		FromEmail:    config.GetString("MAIL_FROM", "no-reply@journal-platform.local"),
		FromName:     config.GetString("MAIL_FROM_NAME", "Journal Platform"),
		SMTPHost:     config.GetString("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:     config.GetInt("SMTP_PORT", 587),
		SMTPUsername: config.GetString("SMTP_USERNAME", ""),
		SMTPPassword: config.GetString("SMTP_PASSWORD", ""),
	}
}

// Service is the default Mailer backed by a pluggable provider.
type Service struct {
	provider Provider
	cfg      Config
}

// NewService selects the configured provider. The AMQP provider requires an
// open channel; pass nil for the other providers.
func NewService(cfg Config, ch *amqp.Channel) (*Service, error) {
	var provider Provider
	var err error

	switch cfg.Provider {
	case "smtp":
		provider, err = NewSMTPProvider(cfg)
	case "amqp":
		provider, err = NewAMQPProvider(ch)
	case "log":
		provider = NewLogProvider()
	default:
		return nil, fmt.Errorf("unsupported mail provider: %s", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to initialize mail provider: %w", err)
	}

	return &Service{provider: provider, cfg: cfg}, nil
}

// ProviderName returns the name of the active provider.
func (s *Service) ProviderName() string {
	if s.provider == nil {
		return "unknown"
	}
	return s.provider.Name()
}

func (s *Service) send(ctx context.Context, to, tmpl string, data any) error {
	subject, body, err := Render(tmpl, data)
	if err != nil {
		return fmt.Errorf("render %s: %w", tmpl, err)
	}
	err = s.provider.Send(ctx, &Email{
		To:       to,
		Subject:  subject,
		Body:     body,
		From:     s.cfg.FromEmail,
		FromName: s.cfg.FromName,
	})
	if err != nil {
		metrics.RecordEmailFailed(tmpl)
		return err
	}
	metrics.RecordEmailSent(tmpl)
	return nil
}

func (s *Service) SendVerification(ctx context.Context, to, fullName, verificationURL string) error {
	return s.send(ctx, to, TemplateVerification, VerificationData{
		FullName:        fullName,
		VerificationURL: verificationURL,
	})
}

func (s *Service) SendWelcome(ctx context.Context, to, fullName, loginURL string) error {
	return s.send(ctx, to, TemplateWelcome, WelcomeData{
		FullName: fullName,
		LoginURL: loginURL,
	})
}

func (s *Service) SendLoginWelcome(ctx context.Context, to, fullName string, loginTime time.Time, dashboardURL string) error {
	return s.send(ctx, to, TemplateLoginWelcome, LoginWelcomeData{
		FullName:     fullName,
		LoginTime:    loginTime.Format("Jan 2, 2006 at 3:04 PM MST"),
		DashboardURL: dashboardURL,
	})
}

func (s *Service) SendPasswordReset(ctx context.Context, to, fullName, resetURL string) error {
	return s.send(ctx, to, TemplatePasswordReset, PasswordResetData{
		FullName: fullName,
		ResetURL: resetURL,
	})
}

func (s *Service) SendPasswordChanged(ctx context.Context, to, fullName, loginURL string) error {
	return s.send(ctx, to, TemplatePasswordChanged, PasswordChangedData{
		FullName: fullName,
		LoginURL: loginURL,
	})
}
