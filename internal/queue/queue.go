package queue

import (
	"context"
	"errors"
	"time"

	"github.com/OFFIS-RIT/docvis/internal/util"
	"github.com/OFFIS-RIT/docvis/pkg/logger"

	"github.com/rabbitmq/amqp091-go"
)

const (
	VisualizationQueue = "visualization_queue"

	// Exchange carries topic events such as TopicVisualizationCreated.
	Exchange                  = "pubsub_exchange"
	TopicVisualizationCreated = "visualization.created"

	// retryTTL is how long a failed message waits in the retry queue.
	retryTTL = 10 * time.Second
	// MaxRetries is the number of retries before a message goes to the DLQ.
	MaxRetries = 10
)

// Dial connects to RabbitMQ, retrying while the broker comes up. Rejected
// credentials fail immediately.
func Dial(ctx context.Context, url string) (*amqp091.Connection, error) {
	return util.RetryWithContext(ctx, 5, time.Second, func(context.Context) (*amqp091.Connection, error) {
		conn, err := amqp091.Dial(url)
		if errors.Is(err, amqp091.ErrCredentials) {
			return nil, util.Permanent(err)
		}
		if err != nil {
			logger.Warn("Failed to connect to RabbitMQ", "err", err)
		}
		return conn, err
	})
}

// Declarer is the part of *amqp091.Channel used to declare topology.
type Declarer interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp091.Table) error
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp091.Table) (amqp091.Queue, error)
}

// SetupQueues declares the event exchange and, for every name, the work
// queue with its "_dlq" and "_retry" companions. The retry queue dead
// letters back into the work queue after retryTTL.
func SetupQueues(ch Declarer, queueNames []string) error {
	if err := ch.ExchangeDeclare(Exchange, "topic", true, false, false, false, nil); err != nil {
		return err
	}

	for _, name := range queueNames {
		if _, err := ch.QueueDeclare(name, true, false, false, false, nil); err != nil {
			return err
		}

		if _, err := ch.QueueDeclare(name+"_dlq", true, false, false, false, nil); err != nil {
			return err
		}

		_, err := ch.QueueDeclare(
			name+"_retry",
			true,
			false,
			false,
			false,
			amqp091.Table{
				"x-message-ttl":             int32(retryTTL / time.Millisecond),
				"x-dead-letter-exchange":    "",
				"x-dead-letter-routing-key": name,
			},
		)
		if err != nil {
			return err
		}
	}

	return nil
}

// Publisher is the part of *amqp091.Channel used to publish.
type Publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error
}

func PublishFIFO(ctx context.Context, ch Publisher, queueName string, data []byte) error {
	return ch.PublishWithContext(ctx, "", queueName, false, false, amqp091.Publishing{
		ContentType:  "application/json",
		Body:         data,
		DeliveryMode: amqp091.Persistent,
		Timestamp:    time.Now(),
	})
}

func PublishTopic(ctx context.Context, ch Publisher, topic string, data []byte) error {
	return ch.PublishWithContext(ctx, Exchange, topic, false, false, amqp091.Publishing{
		ContentType:  "application/json",
		Body:         data,
		DeliveryMode: amqp091.Persistent,
		Timestamp:    time.Now(),
	})
}
