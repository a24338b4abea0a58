package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/streadway/amqp"
	"go.uber.org/zap"

	"alfredoptarigan/resume-screener/internal/logger"
)

var _ ProgressReporter = (*AMQPReporter)(nil)

// AMQPReporter publishes progress events to a topic exchange with routing
// key "screening.<id>", so listeners can follow a single run.
type AMQPReporter struct {
	conn     *amqp.Connection
	exchange string
	logger   *zap.Logger
}

func NewAMQPReporter(url, exchange string, log *zap.Logger) (*AMQPReporter, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}
	defer ch.Close()

	if err := ch.ExchangeDeclare(exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange %s: %w", exchange, err)
	}

	return &AMQPReporter{
		conn:     conn,
		exchange: exchange,
		logger:   logger.OrNop(log),
	}, nil
}

// Report implements ProgressReporter.
func (r *AMQPReporter) Report(_ context.Context, event ProgressEvent) {
	if err := r.publish(event); err != nil {
		r.logger.Warn("failed to publish progress event",
			logger.ScreeningID(event.ScreeningID),
			zap.Error(err),
		)
	}
}

func (r *AMQPReporter) publish(event ProgressEvent) error {
	body, err := encodeProgressEvent(event)
	if err != nil {
		return err
	}

	ch, err := r.conn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()

	return ch.Publish(
		r.exchange,
		progressRoutingKey(event.ScreeningID),
		false,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
}

func (r *AMQPReporter) Close() error {
	return r.conn.Close()
}

func progressRoutingKey(screeningID string) string {
	return "screening." + screeningID
}

func encodeProgressEvent(event ProgressEvent) ([]byte, error) {
	body, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("marshal progress event: %w", err)
	}
	return body, nil
}
