package mailer

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/narang24/Journal-Website-Backend/app/config"
	amqp "github.com/rabbitmq/amqp091-go"
)

// AMQPProvider publishes rendered mail to a RabbitMQ topic exchange for an
// external delivery worker to pick up.
type AMQPProvider struct {
	ch *amqp.Channel
}

func NewAMQPProvider(ch *amqp.Channel) (*AMQPProvider, error) {
	if ch == nil {
		return nil, fmt.Errorf("amqp mail provider requires an open channel")
	}
	return &AMQPProvider{ch: ch}, nil
}

func (p *AMQPProvider) Send(ctx context.Context, email *Email) error {
	body, err := json.Marshal(email)
	if err != nil {
		return err
	}

	headers := make(amqp.Table)
	if requestID, ok := ctx.Value("request_id").(string); ok && requestID != "" {
		headers["X-Request-ID"] = requestID
	}

	return p.ch.PublishWithContext(
		ctx,
		config.MailExchange, // exchange
		"email.send",        // routing key
		false,               // mandatory
		false,               // immediate
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
			Headers:     headers,
		},
	)
}

func (p *AMQPProvider) Name() string {
	return "amqp"
}
