package mailer

import (
	"context"

	"github.com/narang24/Journal-Website-Backend/app/logger"
)

// LogProvider renders and logs instead of delivering. Development only.
type LogProvider struct{}

func NewLogProvider() *LogProvider {
	return &LogProvider{}
}

func (p *LogProvider) Send(ctx context.Context, email *Email) error {
	logger.Logger.Info().
		Str("to", email.To).
		Str("subject", email.Subject).
		Int("body_bytes", len(email.Body)).
		Msg("mail (log provider, not delivered)")
	return nil
}

func (p *LogProvider) Name() string {
	return "log"
}
