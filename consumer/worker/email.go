package worker

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/tnqbao/gau-video-service/infra"
	"github.com/tnqbao/gau-video-service/infra/produce"
	"github.com/tnqbao/gau-video-service/repository"
)

type EmailConsumer struct {
	channel    *amqp.Channel
	infra      *infra.Infra
	repository *repository.Repository
}

func NewEmailConsumer(channel *amqp.Channel, infra *infra.Infra, repo *repository.Repository) *EmailConsumer {
	return &EmailConsumer{
		channel:    channel,
		infra:      infra,
		repository: repo,
	}
}

func (c *EmailConsumer) Start(ctx context.Context) error {
	msgs, err := c.channel.Consume(
		produce.EmailNotificationQueue,
		"",
		false, // manual ack
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to register email consumer: %w", err)
	}

	c.infra.Logger.InfoWithContextf(ctx, "[Email Consumer] Started listening on queue: %s", produce.EmailNotificationQueue)

	go func() {
		for {
			select {
			case <-ctx.Done():
				c.infra.Logger.InfoWithContextf(ctx, "[Email Consumer] Shutting down...")
				return
			case msg, ok := <-msgs:
				if !ok {
					c.infra.Logger.WarningWithContextf(ctx, "[Email Consumer] Channel closed")
					return
				}
				c.handleEmail(ctx, msg)
			}
		}
	}()

	return nil
}

func (c *EmailConsumer) handleEmail(ctx context.Context, msg amqp.Delivery) {
	var payload produce.EmailMessage
	if err := json.Unmarshal(msg.Body, &payload); err != nil {
		c.infra.Logger.ErrorWithContextf(ctx, err, "[Email Consumer] Failed to unmarshal message")
		_ = msg.Nack(false, false)
		return
	}

	if payload.Recipient == "" {
		c.infra.Logger.WarningWithContextf(ctx, "[Email Consumer] Dropping message with empty recipient")
		_ = msg.Nack(false, false)
		return
	}

	htmlBody := fmt.Sprintf("<p>%s</p>", payload.Content)
	if payload.ActionUrl != "" {
		htmlBody += fmt.Sprintf(`<p><a href="%s">Watch now</a></p>`, payload.ActionUrl)
	}

	bgCtx := context.Background()
	if err := c.infra.Mailer.Send(bgCtx, payload.Recipient, payload.RecipientName, payload.Subject, htmlBody); err != nil {
		c.infra.Logger.ErrorWithContextf(ctx, err, "[Email Consumer] Failed to send %s mail to %s", payload.Type, payload.Recipient)
		_ = msg.Nack(false, true) // Requeue
		return
	}

	c.infra.Logger.InfoWithContextf(ctx, "[Email Consumer] Sent %s mail to %s", payload.Type, payload.Recipient)
	_ = msg.Ack(false)
}
