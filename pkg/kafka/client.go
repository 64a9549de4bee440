// Package kafka is a thin publish/subscribe layer over segmentio/kafka-go.
package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"time"

	kafkago "github.com/segmentio/kafka-go"
)

const TopicListingAccepted = "listing.accepted"

const (
	dialAttempts    = 20
	dialBackoff     = 3 * time.Second
	topicPartitions = 3
	readBackoff     = time.Second
)

// Handler processes one message value. A nil return commits the offset.
type Handler func(value []byte) error

// Client publishes JSON messages and runs consumer-group readers. One writer
// serves every topic; the topic travels on each message.
type Client struct {
	brokers []string
	writer  *kafkago.Writer
	logger  *slog.Logger
}

func NewClient(brokers []string, logger *slog.Logger) *Client {
	return &Client{
		brokers: brokers,
		writer: &kafkago.Writer{
			Addr:                   kafkago.TCP(brokers...),
			Balancer:               &kafkago.Hash{},
			RequiredAcks:           kafkago.RequireOne,
			AllowAutoTopicCreation: true,
			BatchTimeout:           10 * time.Millisecond,
		},
		logger: logger,
	}
}

// EnsureTopics creates any missing topics through the cluster controller.
// It retries until a broker answers, ctx ends, or dialAttempts run out.
func (c *Client) EnsureTopics(ctx context.Context, topics ...string) error {
	var lastErr error
	for attempt := 1; attempt <= dialAttempts; attempt++ {
		if lastErr = c.createTopics(ctx, topics); lastErr == nil {
			c.logger.Info("kafka topics ready", "topics", topics)
			return nil
		}
		c.logger.Warn("kafka not ready", "attempt", attempt, "error", lastErr)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(dialBackoff):
		}
	}
	return fmt.Errorf("kafka: no broker after %d attempts: %w", dialAttempts, lastErr)
}

func (c *Client) createTopics(ctx context.Context, topics []string) error {
	conn, err := kafkago.DialContext(ctx, "tcp", c.brokers[0])
	if err != nil {
		return err
	}
	defer conn.Close()

	controller, err := conn.Controller()
	if err != nil {
		return err
	}
	ctrl, err := kafkago.DialContext(ctx, "tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	if err != nil {
		return err
	}
	defer ctrl.Close()

	configs := make([]kafkago.TopicConfig, 0, len(topics))
	for _, t := range topics {
		configs = append(configs, kafkago.TopicConfig{Topic: t, NumPartitions: topicPartitions, ReplicationFactor: 1})
	}
	err = ctrl.CreateTopics(configs...)
	if errors.Is(err, kafkago.TopicAlreadyExists) {
		return nil
	}
	return err
}

// Publish JSON-encodes value and writes it to topic under key.
func (c *Client) Publish(ctx context.Context, topic, key string, value any) error {
	body, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("kafka: encode %s: %w", topic, err)
	}
	msg := kafkago.Message{
		Topic:   topic,
		Key:     []byte(key),
		Value:   body,
		Headers: []kafkago.Header{{Key: "content-type", Value: []byte("application/json")}},
	}
	if err := c.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("kafka: publish %s: %w", topic, err)
	}
	return nil
}

// Subscribe reads topic as member of groupID in a background goroutine until
// ctx ends. Offsets are committed after the handler returns, whatever its
// result; a failing message is logged and skipped.
func (c *Client) Subscribe(ctx context.Context, topic, groupID string, handle Handler) {
	r := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     c.brokers,
		Topic:       topic,
		GroupID:     groupID,
		MinBytes:    1,
		MaxBytes:    10e6,
		StartOffset: kafkago.LastOffset,
	})

	go func() {
		defer r.Close()
		for {
			msg, err := r.FetchMessage(ctx)
			if ctx.Err() != nil {
				return
			}
			if err != nil {
				c.logger.Error("kafka fetch failed", "topic", topic, "error", err)
				time.Sleep(readBackoff)
				continue
			}
			if err := handle(msg.Value); err != nil {
				c.logger.Error("kafka handler failed", "topic", topic, "offset", msg.Offset, "error", err)
			}
			if err := r.CommitMessages(ctx, msg); err != nil && ctx.Err() == nil {
				c.logger.Warn("kafka commit failed", "topic", topic, "offset", msg.Offset, "error", err)
			}
		}
	}()
}

// Close flushes pending writes.
func (c *Client) Close() error { return c.writer.Close() }
