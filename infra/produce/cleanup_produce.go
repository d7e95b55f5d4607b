package produce

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	CleanupExchange        = "video.exchange"
	VideoCleanupQueue      = "video.cleanup"
	VideoCleanupRoutingKey = "video.cleanup"
)

// VideoCleanupMessage is sent to the consumer to remove remote resources
// belonging to a deleted video.
type VideoCleanupMessage struct {
	VideoID    string `json:"video_id"`
	MuxAssetID string `json:"mux_asset_id"`
	CoverURL   string `json:"cover_url,omitempty"`
	UserID     string `json:"user_id"`
	Timestamp  int64  `json:"timestamp"`
}

// CleanupService handles publishing messages for video resource cleanup
type CleanupService struct {
	channel *amqp.Channel
}

// InitCleanupService initializes the cleanup produce service
func InitCleanupService(channel *amqp.Channel) *CleanupService {
	service := &CleanupService{
		channel: channel,
	}

	err := channel.ExchangeDeclare(
		CleanupExchange,
		"topic",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		panic("Failed to declare Video exchange: " + err.Error())
	}

	_, err = channel.QueueDeclare(
		VideoCleanupQueue,
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		panic("Failed to declare Video cleanup queue: " + err.Error())
	}

	err = channel.QueueBind(
		VideoCleanupQueue,
		VideoCleanupRoutingKey,
		CleanupExchange,
		false,
		nil,
	)
	if err != nil {
		panic("Failed to bind Video cleanup queue: " + err.Error())
	}

	return service
}

// PublishVideoCleanup publishes a message to delete the remote asset and cover of a video
func (s *CleanupService) PublishVideoCleanup(ctx context.Context, msg VideoCleanupMessage) error {
	msg.Timestamp = time.Now().Unix()

	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	return s.channel.PublishWithContext(
		ctx,
		CleanupExchange,
		VideoCleanupRoutingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
}
