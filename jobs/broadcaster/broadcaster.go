// Package broadcaster drains the trade outbox into Kafka. It is the
// guaranteed-delivery path behind the best-effort live feed: records
// move NEW -> SENT -> ACKED, and anything unacked is retried on the
// next tick, giving at-least-once delivery.
package broadcaster

import (
	"context"
	"log"
	"strconv"
	"time"

	"github.com/IBM/sarama"

	"matchbook/infra/outbox"
)

type Broadcaster struct {
	store    *outbox.Store
	producer sarama.SyncProducer
	topic    string
	interval time.Duration
}

func New(store *outbox.Store, brokers []string, topic string, interval time.Duration) (*Broadcaster, error) {
	cfg := sarama.NewConfig()
	cfg.Producer.Return.Successes = true
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Retry.Max = 5

	producer, err := sarama.NewSyncProducer(brokers, cfg)
	if err != nil {
		return nil, err
	}

	return &Broadcaster{
		store:    store,
		producer: producer,
		topic:    topic,
		interval: interval,
	}, nil
}

// Start runs the publish loop until ctx is cancelled.
func (b *Broadcaster) Start(ctx context.Context) {
	log.Println("[broadcaster] started")

	go func() {
		ticker := time.NewTicker(b.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				b.drainOnce()
			}
		}
	}()
}

// drainOnce walks pending outbox records in sequence order. SENT is
// written before the publish so a crash between publish and ack leads
// to a retry (duplicate), never a loss.
func (b *Broadcaster) drainOnce() {
	err := b.store.ScanPending(func(rec *outbox.TradeRecord) error {
		if err := b.store.MarkSent(rec.Seq); err != nil {
			return err
		}

		msg := &sarama.ProducerMessage{
			Topic: b.topic,
			Key:   sarama.StringEncoder(strconv.FormatUint(rec.Seq, 10)),
			Value: sarama.ByteEncoder(rec.Payload),
		}
		if _, _, err := b.producer.SendMessage(msg); err != nil {
			_ = b.store.MarkFailed(rec.Seq)
			return nil // retry on a later tick
		}

		return b.store.MarkAcked(rec.Seq)
	})
	if err != nil {
		log.Printf("[broadcaster] drain failed: %v", err)
	}
}

func (b *Broadcaster) Close() error {
	return b.producer.Close()
}
