package produce

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	EmailExchange            = "email.exchange"
	EmailNotificationQueue   = "email.notification"
	EmailNotificationRoutKey = "email.notification"
)

type EmailMessage struct {
	Type          string `json:"type"`
	Recipient     string `json:"recipient"`
	RecipientName string `json:"recipientName,omitempty"`
	Subject       string `json:"subject"`
	Content       string `json:"content"`
	ActionUrl     string `json:"actionUrl,omitempty"`
}

type EmailService struct {
	channel *amqp.Channel
}

func InitEmailService(channel *amqp.Channel) *EmailService {
	service := &EmailService{
		channel: channel,
	}

	err := channel.ExchangeDeclare(
		EmailExchange,
		"topic",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		panic("Failed to declare Email exchange: " + err.Error())
	}

	_, err = channel.QueueDeclare(
		EmailNotificationQueue,
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		panic("Failed to declare Email notification queue: " + err.Error())
	}

	err = channel.QueueBind(
		EmailNotificationQueue,
		EmailNotificationRoutKey,
		EmailExchange,
		false,
		nil,
	)
	if err != nil {
		panic("Failed to bind Email notification queue: " + err.Error())
	}

	return service
}

// SendVideoPublishedNotification notifies the author that their video went live.
func (s *EmailService) SendVideoPublishedNotification(ctx context.Context, email, recipientName, videoTitle, watchUrl string) error {
	message := EmailMessage{
		Type:          "notification",
		Recipient:     email,
		RecipientName: recipientName,
		Subject:       "Your video is live",
		Content:       fmt.Sprintf("Your video %q has finished processing and is now available.", videoTitle),
		ActionUrl:     watchUrl,
	}

	return s.publishEmail(ctx, EmailNotificationRoutKey, message)
}

func (s *EmailService) publishEmail(ctx context.Context, routingKey string, message EmailMessage) error {
	body, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal email message: %w", err)
	}

	err = s.channel.PublishWithContext(
		ctx,
		EmailExchange, // exchange
		routingKey,    // routing key
		false,         // mandatory
		false,         // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)

	if err != nil {
		return fmt.Errorf("failed to publish email message: %w", err)
	}

	return nil
}
