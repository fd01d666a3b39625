package audit

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const Topic = "hr.console.audit.v1"

// MessageWriter is the subset of *kafkago.Writer the audit sink needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
}

type KafkaLogger struct {
	writer  MessageWriter
	topic   string
	timeout time.Duration
	logger  *zap.Logger
}

func NewKafkaWriter(brokers []string) *kafkago.Writer {
	return &kafkago.Writer{
		Addr:                   kafkago.TCP(brokers...),
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireOne,
		AllowAutoTopicCreation: true,
		Async:                  false,
	}
}

// ParseBrokers splits a comma-separated broker list, dropping blanks.
func ParseBrokers(s string) []string {
	var out []string
	for _, b := range strings.Split(s, ",") {
		if b = strings.TrimSpace(b); b != "" {
			out = append(out, b)
		}
	}
	return out
}

func NewKafkaLogger(writer MessageWriter, topic string, logger ...*zap.Logger) *KafkaLogger {
	l := zap.L()
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0]
	}
	if topic == "" {
		topic = Topic
	}
	return &KafkaLogger{
		writer:  writer,
		topic:   topic,
		timeout: 5 * time.Second,
		logger:  l.Named("audit.kafka"),
	}
}

func (k *KafkaLogger) Log(ctx context.Context, entry Entry) {
	entry = fill(ctx, entry)
	payload, err := json.Marshal(entry)
	if err != nil {
		k.logger.Error("marshal audit entry failed", zap.String("action", entry.Action), zap.Error(err))
		return
	}

	key := entry.EntityID
	if key == "" {
		key = entry.Action
	}
	msg := kafkago.Message{
		Topic: k.topic,
		Key:   []byte(key),
		Value: payload,
		Headers: []kafkago.Header{
			{Key: "action", Value: []byte(entry.Action)},
			{Key: "entity_type", Value: []byte(entry.EntityType)},
			{Key: "request_id", Value: []byte(entry.RequestID)},
		},
	}

	// Publish independently of the request lifetime.
	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), k.timeout)
	defer cancel()

	if err := k.writer.WriteMessages(writeCtx, msg); err != nil {
		k.logger.Error("publish audit entry failed",
			zap.String("topic", k.topic),
			zap.String("action", entry.Action),
			zap.Error(err),
		)
	}
}
