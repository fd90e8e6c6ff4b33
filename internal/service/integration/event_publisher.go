package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/khushhal7/EduSync-Backend/internal/apperror"
	"github.com/khushhal7/EduSync-Backend/internal/models"
	"github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

type EventPublisher interface {
	PublishResultRecorded(ctx context.Context, event *models.ResultRecordedEvent) error
	Close() error
}

type rabbitMQPublisher struct {
	conn           *amqp091.Connection
	channel        *amqp091.Channel
	exchange       string
	routingKey     string
	queueName      string
	publishTimeout time.Duration
	maxPayloadSize int
	logger         zerolog.Logger
}

func NewRabbitMQPublisher(url, exchange, routingKey, queueName string, publishTimeout time.Duration, maxPayloadSize int, logger zerolog.Logger) (EventPublisher, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	err = channel.ExchangeDeclare(
		exchange, // name
		"direct", // type
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	queue, err := channel.QueueDeclare(
		queueName, // name
		true,      // durable
		false,     // delete when unused
		false,     // exclusive
		false,     // no-wait
		nil,       // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}

	err = channel.QueueBind(
		queue.Name, // queue name
		routingKey, // routing key
		exchange,   // exchange
		false,      // no-wait
		nil,        // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to bind queue: %w", err)
	}

	if publishTimeout <= 0 {
		publishTimeout = 5 * time.Second
	}

	logger.Info().
		Str("exchange", exchange).
		Str("queue", queue.Name).
		Str("routing_key", routingKey).
		Msg("Connected to RabbitMQ")

	return &rabbitMQPublisher{
		conn:           conn,
		channel:        channel,
		exchange:       exchange,
		routingKey:     routingKey,
		queueName:      queue.Name,
		publishTimeout: publishTimeout,
		maxPayloadSize: maxPayloadSize,
		logger:         logger,
	}, nil
}

// PublishResultRecorded отправляет ровно один конверт за вызов, без ретраев.
func (p *rabbitMQPublisher) PublishResultRecorded(ctx context.Context, event *models.ResultRecordedEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if p.maxPayloadSize > 0 && len(body) > p.maxPayloadSize {
		return apperror.PayloadTooLarge(fmt.Sprintf(
			"event payload of %d bytes exceeds the %d byte limit", len(body), p.maxPayloadSize,
		))
	}

	publishCtx, cancel := context.WithTimeout(ctx, p.publishTimeout)
	defer cancel()

	err = p.channel.PublishWithContext(
		publishCtx,
		p.exchange,   // exchange
		p.routingKey, // routing key
		false,        // mandatory
		false,        // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp091.Persistent,
			Timestamp:    time.Now(),
		},
	)

	if err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}

	p.logger.Info().
		Str("result_id", event.ResultID).
		Str("assessment_id", event.AssessmentID).
		Msg("Result recorded event published")

	return nil
}

func (p *rabbitMQPublisher) Close() error {
	if p.channel != nil {
		if err := p.channel.Close(); err != nil {
			p.logger.Error().Err(err).Msg("Failed to close RabbitMQ channel")
		}
	}

	if p.conn != nil {
		if err := p.conn.Close(); err != nil {
			p.logger.Error().Err(err).Msg("Failed to close RabbitMQ connection")
		}
	}

	return nil
}
