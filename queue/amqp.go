package queue

import (
	"context"

	"github.com/pkg/errors"
	amqp "github.com/rabbitmq/amqp091-go"
)

// AMQPTransport publishes events to a durable AMQP queue, one persistent
// message per event. The underlying channel serializes concurrent publish
// calls itself.
type AMQPTransport struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   string
}

func DialAMQP(address, queueName string) (*AMQPTransport, error) {
	conn, err := amqp.Dial(address)
	if err != nil {
		return nil, errors.Wrap(err, "unable to connect to broker")
	}
	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, errors.Wrap(err, "unable to open channel")
	}
	if _, err := channel.QueueDeclare(queueName, true, false, false, false, nil); err != nil {
		channel.Close()
		conn.Close()
		return nil, errors.Wrap(err, "unable to declare queue")
	}
	return &AMQPTransport{
		conn:    conn,
		channel: channel,
		queue:   queueName,
	}, nil
}

func (t *AMQPTransport) Publish(ctx context.Context, body []byte) error {
	return t.channel.PublishWithContext(ctx, "", t.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         body,
	})
}

func (t *AMQPTransport) Close() error {
	t.channel.Close()
	return t.conn.Close()
}
