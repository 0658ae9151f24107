package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/streadway/amqp"
)

// amqpChannel is the subset of *amqp.Channel used for publishing
type amqpChannel interface {
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// AMQPPublisher publishes envelopes as JSON to a topic exchange, one channel per message.
type AMQPPublisher struct {
	conn     *amqp.Connection
	exchange string
	open     func() (amqpChannel, error)
}

// NewAMQPPublisher publishes through an existing connection
func NewAMQPPublisher(conn *amqp.Connection, exchange string) *AMQPPublisher {
	return &AMQPPublisher{
		conn:     conn,
		exchange: exchange,
		open: func() (amqpChannel, error) {
			ch, err := conn.Channel()
			if err != nil {
				return nil, err
			}
			return ch, nil
		},
	}
}

// DialAMQP connects to RabbitMQ and declares the durable topic exchange.
func DialAMQP(url, exchange string) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("error connecting to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("error opening RabbitMQ channel: %w", err)
	}
	defer ch.Close()

	err = ch.ExchangeDeclare(
		exchange, // name
		"topic",  // kind
		true,     // durable
		false,    // auto-delete
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange %s: %w", exchange, err)
	}

	return NewAMQPPublisher(conn, exchange), nil
}

// Publish sends the envelope with routing key match.<type>
func (p *AMQPPublisher) Publish(ctx context.Context, env Envelope) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	ch, err := p.open()
	if err != nil {
		return fmt.Errorf("error opening RabbitMQ channel: %w", err)
	}
	defer ch.Close()

	body, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	return ch.Publish(
		p.exchange,
		env.RoutingKey(),
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    env.ID.String(),
			Timestamp:    env.OccurredAt,
			Type:         env.Type,
			Body:         body,
		},
	)
}

// Close closes the underlying connection
func (p *AMQPPublisher) Close() error {
	if p.conn == nil {
		return nil
	}
	return p.conn.Close()
}
