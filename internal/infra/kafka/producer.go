package kafka

import (
	"context"
	"net"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	kafkago "github.com/segmentio/kafka-go"
)

//go:generate mockgen -source=producer.go -destination=mock/producer_mock.go -package=mock_kafka

// Producer 同步寫入 kafka
type Producer interface {
	Produce(ctx context.Context, msgs ...Message) error
	Close() error
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

type kafkaProducer struct {
	writer messageWriter
	cfg    *Config
	closed atomic.Bool
}

// NewProducer 建立 producer，writer 的錯誤日誌寫到 logger
// logger 不可以是會寫回 kafka 的 logger
func NewProducer(cfg *Config, logger zerolog.Logger) (Producer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	writer := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafkago.Hash{},
		BatchSize:    cfg.BatchSize,
		BatchTimeout: cfg.BatchTimeout,
		RequiredAcks: kafkago.RequiredAcks(cfg.RequiredAcks),
		Async:        false,
		// 重試由 Produce 控制
		MaxAttempts: 1,
		Transport: &kafkago.Transport{
			Dial: func(ctx context.Context, network string, address string) (net.Conn, error) {
				dialer := &kafkago.Dialer{
					Timeout:   10 * time.Second,
					DualStack: true,
					KeepAlive: 30 * time.Second,
				}
				return dialer.DialContext(ctx, network, address)
			},
		},
		ErrorLogger: kafkago.LoggerFunc(func(msg string, args ...interface{}) {
			logger.Error().Str("topic", cfg.Topic).Msgf("kafka producer error: "+msg, args...)
		}),
		Compression: kafkago.Snappy,
	}

	return newProducer(writer, cfg), nil
}

func newProducer(writer messageWriter, cfg *Config) *kafkaProducer {
	return &kafkaProducer{
		writer: writer,
		cfg:    cfg,
	}
}

// Produce 同步發送，會block到所有消息都寫入
// 暫時性錯誤依 RetryAttempts 重試
func (p *kafkaProducer) Produce(ctx context.Context, msgs ...Message) error {
	if p.closed.Load() {
		return NewKafkaError("Produce", p.cfg.Topic, ErrProducerClosed)
	}
	if len(msgs) == 0 {
		return nil
	}

	kafkaMsgs := make([]kafkago.Message, len(msgs))
	for i, msg := range msgs {
		kafkaMsgs[i] = msg.ToKafkaMessage()
	}

	var err error
	for attempt := 0; attempt <= p.cfg.RetryAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return NewKafkaError("Produce", p.cfg.Topic, ctx.Err())
			case <-time.After(p.cfg.RetryDelay * time.Duration(attempt)):
			}
		}
		if ctx.Err() != nil {
			return NewKafkaError("Produce", p.cfg.Topic, ctx.Err())
		}

		err = p.writer.WriteMessages(ctx, kafkaMsgs...)
		if err == nil {
			return nil
		}
		if !IsTemporary(err) {
			break
		}
	}

	return NewKafkaError("Produce", p.cfg.Topic, err)
}

func (p *kafkaProducer) Close() error {
	if !p.closed.CompareAndSwap(false, true) {
		return nil
	}
	return p.writer.Close()
}
