// Package kafka 把 outbox 中的领域事件投递到 Kafka
// 每个聚合一个 topic，消息 key 为聚合 ID，同一聚合的事件落在同一分区内保持顺序
package kafka

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"ecommerce/pkg/logger"
)

const (
	defaultBatchTimeout = 10 * time.Millisecond
	defaultWriteTimeout = 10 * time.Second
	defaultMaxAttempts  = 3
)

// Config Kafka 生产者配置
type Config struct {
	Brokers      []string
	TopicPrefix  string
	BatchTimeout time.Duration
	WriteTimeout time.Duration
}

// messageWriter 便于测试替换 kafka.Writer
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher 实现 outbox worker 的投递接口
type Publisher struct {
	writer      messageWriter
	topicPrefix string
}

func NewPublisher(cfg Config) (*Publisher, error) {
	if len(cfg.Brokers) == 0 {
		return nil, errors.New("kafka brokers are required")
	}
	if cfg.BatchTimeout <= 0 {
		cfg.BatchTimeout = defaultBatchTimeout
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = defaultWriteTimeout
	}

	// topic 由每条消息自己指定，Writer 上不设置 Topic
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Balancer:               &kafka.Hash{},
		BatchTimeout:           cfg.BatchTimeout,
		WriteTimeout:           cfg.WriteTimeout,
		MaxAttempts:            defaultMaxAttempts,
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
	}
	return newPublisher(writer, cfg.TopicPrefix), nil
}

func newPublisher(writer messageWriter, topicPrefix string) *Publisher {
	return &Publisher{writer: writer, topicPrefix: topicPrefix}
}

// TopicFor 事件类型 "order.paid" 投递到 "<prefix>.order"
func (p *Publisher) TopicFor(eventType string) string {
	aggregate := eventType
	if i := strings.Index(eventType, "."); i > 0 {
		aggregate = eventType[:i]
	}
	if p.topicPrefix == "" {
		return aggregate
	}
	return p.topicPrefix + "." + aggregate
}

func (p *Publisher) Publish(ctx context.Context, eventType, aggregateID, payload string) error {
	topic := p.TopicFor(eventType)
	msg := kafka.Message{
		Topic: topic,
		Key:   []byte(aggregateID),
		Value: []byte(payload),
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(eventType)},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to write %s to topic %s: %w", eventType, topic, err)
	}

	logger.Ctx(ctx).Debug("Event delivered to kafka",
		zap.String("topic", topic),
		zap.String("event_type", eventType),
		zap.String("aggregate_id", aggregateID),
	)
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}
