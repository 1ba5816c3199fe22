package trigger

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"

	"github.com/atelierhub/workshop-hub-api/internal/config"
)

// Publisher emits change events for the trigger worker to react to. Writes
// that a serverless platform would answer with a database trigger publish an
// event here instead.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// consumerTag identifies the trigger worker's consumer on the channel so it
// can be canceled independently of the connection.
const consumerTag = "trigger-worker"

// RabbitClient is an AMQP connection publishing to and consuming from the
// application's single trigger queue.
type RabbitClient struct {
	conn         *amqp.Connection
	channel      *amqp.Channel
	exchange     string
	queue        string
	logger       *zerolog.Logger
	consumerDone chan struct{}
}

// NewRabbitClient connects to the broker and declares the trigger exchange
// and queue.
func NewRabbitClient(cfg config.RabbitConfig, logger *zerolog.Logger) (*RabbitClient, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, err
	}

	channel, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	if err := channel.ExchangeDeclare(cfg.Exchange, "direct", true, false, false, false, nil); err != nil {
		_ = conn.Close()
		return nil, err
	}

	if _, err := channel.QueueDeclare(cfg.Queue, true, false, false, false, nil); err != nil {
		_ = conn.Close()
		return nil, err
	}

	if err := channel.QueueBind(cfg.Queue, "", cfg.Exchange, false, nil); err != nil {
		_ = conn.Close()
		return nil, err
	}

	logger.Info().
		Str("exchange", cfg.Exchange).
		Str("queue", cfg.Queue).
		Msg("trigger broker initialized")

	return &RabbitClient{
		conn:     conn,
		channel:  channel,
		exchange: cfg.Exchange,
		queue:    cfg.Queue,
		logger:   logger,
	}, nil
}

// Close shuts down the channel and connection.
func (c *RabbitClient) Close() {
	if c.channel != nil {
		_ = c.channel.Close()
	}
	if c.conn != nil {
		_ = c.conn.Close()
	}
}

// Publish marshals the event and publishes it to the trigger exchange.
func (c *RabbitClient) Publish(ctx context.Context, event Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return err
	}

	err = c.channel.PublishWithContext(ctx, c.exchange, "", false, false, amqp.Publishing{
		ContentType: "application/json",
		Body:        body,
		Timestamp:   time.Now(),
	})
	if err != nil {
		c.logger.Error().Err(err).Str("event", string(event.Type)).Msg("failed to publish trigger event")
		return err
	}

	return nil
}

// Consume delivers queued events to the handler. A handler error nacks the
// delivery back onto the queue, which is the retry policy for all triggers.
func (c *RabbitClient) Consume(handler func([]byte) error) error {
	deliveries, err := c.channel.Consume(c.queue, consumerTag, false, false, false, false, nil)
	if err != nil {
		return err
	}

	c.consumerDone = make(chan struct{})
	go func() {
		defer close(c.consumerDone)
		for delivery := range deliveries {
			if err := handler(delivery.Body); err != nil {
				c.logger.Warn().Err(err).Msg("failed to process trigger event, requeueing")
				_ = delivery.Nack(false, true)
				continue
			}
			_ = delivery.Ack(false)
		}
	}()

	return nil
}

// StopConsuming cancels the consumer and waits for the delivery loop to
// finish any in-flight handler before returning.
func (c *RabbitClient) StopConsuming() error {
	if c.consumerDone == nil {
		return nil
	}

	if err := c.channel.Cancel(consumerTag, false); err != nil {
		return err
	}

	<-c.consumerDone
	return nil
}
