package events

import (
	"context"

	"carga-platform/pkg/kafka"
	"carga-platform/pkg/metrics"
)

// KafkaPublisher sends events to their Kafka topics, keyed by listing id.
type KafkaPublisher struct {
	client  *kafka.Client
	metrics *metrics.Metrics
}

// NewKafkaPublisher wraps a connected client. m may be nil.
func NewKafkaPublisher(c *kafka.Client, m *metrics.Metrics) *KafkaPublisher {
	return &KafkaPublisher{client: c, metrics: m}
}

func (p *KafkaPublisher) PublishListingAccepted(ctx context.Context, ev ListingAcceptedEvent) error {
	err := p.client.Publish(ctx, kafka.TopicListingAccepted, ev.ListingID, ev)
	p.metrics.RecordEventPublished(kafka.TopicListingAccepted, err)
	return err
}
