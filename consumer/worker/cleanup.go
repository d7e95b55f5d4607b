package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/tnqbao/gau-video-service/infra"
	"github.com/tnqbao/gau-video-service/infra/produce"
	"github.com/tnqbao/gau-video-service/repository"
)

type CleanupConsumer struct {
	channel    *amqp.Channel
	infra      *infra.Infra
	repository *repository.Repository
}

func NewCleanupConsumer(channel *amqp.Channel, infra *infra.Infra, repo *repository.Repository) *CleanupConsumer {
	return &CleanupConsumer{
		channel:    channel,
		infra:      infra,
		repository: repo,
	}
}

func (c *CleanupConsumer) Start(ctx context.Context) error {
	msgs, err := c.channel.Consume(
		produce.VideoCleanupQueue,
		"",
		false, // manual ack
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to register cleanup consumer: %w", err)
	}

	c.infra.Logger.InfoWithContextf(ctx, "[Cleanup Consumer] Started listening on queue: %s", produce.VideoCleanupQueue)

	go func() {
		for {
			select {
			case <-ctx.Done():
				c.infra.Logger.InfoWithContextf(ctx, "[Cleanup Consumer] Shutting down...")
				return
			case msg, ok := <-msgs:
				if !ok {
					c.infra.Logger.WarningWithContextf(ctx, "[Cleanup Consumer] Channel closed")
					return
				}
				c.handleCleanup(ctx, msg)
			}
		}
	}()

	return nil
}

func (c *CleanupConsumer) handleCleanup(ctx context.Context, msg amqp.Delivery) {
	var payload produce.VideoCleanupMessage
	if err := json.Unmarshal(msg.Body, &payload); err != nil {
		c.infra.Logger.ErrorWithContextf(ctx, err, "[Cleanup Consumer] Failed to unmarshal message")
		_ = msg.Nack(false, false)
		return
	}

	c.infra.Logger.InfoWithContextf(ctx, "[Cleanup Consumer] Cleaning up video %s (asset %s)", payload.VideoID, payload.MuxAssetID)

	// The queueing request context is long gone by now.
	bgCtx := context.Background()

	if payload.MuxAssetID != "" {
		if err := c.infra.Mux.DeleteAsset(bgCtx, payload.MuxAssetID); err != nil {
			// A 404 means a previous attempt already deleted it.
			if !strings.Contains(err.Error(), "404") {
				c.infra.Logger.ErrorWithContextf(ctx, err, "[Cleanup Consumer] Failed to delete asset %s", payload.MuxAssetID)
				_ = msg.Nack(false, true) // Requeue
				return
			}
		}
	}

	if payload.CoverURL != "" {
		key := c.infra.Storage.KeyFromURL(payload.CoverURL)
		if key != "" {
			if err := c.infra.Storage.RemoveObject(bgCtx, key); err != nil {
				c.infra.Logger.WarningWithContextf(ctx, "[Cleanup Consumer] Failed to remove cover %s: %v", key, err)
			}
		}
	}

	c.infra.Logger.InfoWithContextf(ctx, "[Cleanup Consumer] Finished cleanup for video %s", payload.VideoID)
	_ = msg.Ack(false)
}
