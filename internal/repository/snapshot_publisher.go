package repository

import (
	"context"

	"ShowPulse/internal/domain/models"
	"ShowPulse/internal/domain/repository"
	pkgkafka "ShowPulse/pkg/kafka"
)

// KafkaSnapshotPublisher announces completed snapshots on a Kafka topic.
// Messages are keyed by rebuild ID so one snapshot's rows hash together.
type KafkaSnapshotPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

func NewKafkaSnapshotPublisher(producer *pkgkafka.Producer, topic string) repository.SnapshotPublisher {
	return &KafkaSnapshotPublisher{producer: producer, topic: topic}
}

func (p *KafkaSnapshotPublisher) Publish(ctx context.Context, snap *models.Snapshot) error {
	return p.producer.Publish(ctx, p.topic, []byte(snap.RebuildID), snap)
}

func (p *KafkaSnapshotPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}
