// Package events publishes session lifecycle events to Kafka. Publishing
// is best effort and fully optional: with no brokers configured the
// publisher is nil and transitions proceed without it.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/fenixcs/fieldtracker/internal/models"
	"github.com/fenixcs/fieldtracker/internal/workerpool"
)

type Log interface {
	Info(string, ...zapcore.Field)
}

type Pool interface {
	AddTask(task *workerpool.Task)
}

type Publisher struct {
	writer *kafkago.Writer
	pool   Pool
	log    Log
}

// NewPublisher builds a publisher for the given broker list. Returns nil
// when brokers is empty, which disables event publishing entirely.
func NewPublisher(brokers func() string, topic func() string, pool Pool, log Log) *Publisher {
	addr := brokers()
	if addr == "" {
		log.Info("kafka brokers not configured, event publishing disabled")
		return nil
	}

	writer := &kafkago.Writer{
		Addr:         kafkago.TCP(strings.Split(addr, ",")...),
		Topic:        topic(),
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireOne,
	}

	return &Publisher{
		writer: writer,
		pool:   pool,
		log:    log,
	}
}

// Publish hands the event to the worker pool; the pool worker performs
// the actual broker write so transitions never block on Kafka. Safe on a
// nil publisher.
func (p *Publisher) Publish(event models.SessionEvent) {
	if p == nil {
		return
	}

	task := workerpool.NewTask(func(data interface{}) error {
		ev, ok := data.(models.SessionEvent)
		if !ok {
			return fmt.Errorf("unexpected task payload %T", data)
		}

		return p.write(ev)
	}, event)

	p.pool.AddTask(task)
}

func (p *Publisher) write(event models.SessionEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal session event: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	msg := kafkago.Message{
		Key:   []byte(event.SessionID),
		Value: payload,
		Headers: []kafkago.Header{
			{Key: "event_type", Value: []byte(event.Type)},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish session event: %w", err)
	}

	p.log.Info("session event published",
		zap.String("type", event.Type), zap.String("session", event.SessionID))

	return nil
}

// Close flushes and closes the underlying writer.
func (p *Publisher) Close() error {
	if p == nil {
		return nil
	}

	return p.writer.Close()
}
