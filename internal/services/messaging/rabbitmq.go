// Package messaging carries public booking forms over RabbitMQ: the API
// publishes them to the intake queue and a worker pool admits them.
package messaging

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/galihcitta/chalet-reservation-system/internal/metrics"
)

const (
	connectAttempts    = 5
	publisherChannelID = "publisher"
	managementChannel  = "queue_management"
)

type RabbitMQManager struct {
	url        string
	connection *amqp.Connection
	logger     *zap.Logger
	mutex      sync.RWMutex
	channels   map[string]*amqp.Channel
	done       chan struct{}
	closeOnce  sync.Once
}

func NewRabbitMQManager(url string, logger *zap.Logger) *RabbitMQManager {
	return &RabbitMQManager{
		url:      url,
		logger:   logger,
		channels: make(map[string]*amqp.Channel),
		done:     make(chan struct{}),
	}
}

// DeadLetterQueueName is where forms that could not be admitted end up.
func DeadLetterQueueName(queueName string) string {
	return queueName + ".dlq"
}

func (r *RabbitMQManager) Connect() error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if r.connection != nil && !r.connection.IsClosed() {
		return nil
	}

	var conn *amqp.Connection
	var err error

	// Linear backoff between attempts.
	for attempt := 1; attempt <= connectAttempts; attempt++ {
		conn, err = amqp.Dial(r.url)
		if err == nil {
			break
		}

		r.logger.Warn("Failed to connect to RabbitMQ, retrying...",
			zap.Int("attempt", attempt),
			zap.Error(err))

		if attempt < connectAttempts {
			time.Sleep(time.Duration(attempt) * time.Second)
		}
	}

	if err != nil {
		metrics.UpdateRabbitMQConnections("connected", 0)
		return fmt.Errorf("failed to connect to RabbitMQ after %d attempts: %w", connectAttempts, err)
	}

	r.connection = conn
	metrics.UpdateRabbitMQConnections("connected", 1)
	r.logger.Info("Successfully connected to RabbitMQ")

	go r.monitorConnection(conn)

	return nil
}

func (r *RabbitMQManager) Close() error {
	r.closeOnce.Do(func() { close(r.done) })

	r.mutex.Lock()
	defer r.mutex.Unlock()

	for _, ch := range r.channels {
		if ch != nil && !ch.IsClosed() {
			ch.Close()
		}
	}
	r.channels = make(map[string]*amqp.Channel)
	metrics.UpdateRabbitMQConnections("connected", 0)

	if r.connection != nil && !r.connection.IsClosed() {
		if err := r.connection.Close(); err != nil {
			r.logger.Error("Error closing RabbitMQ connection", zap.Error(err))
			return err
		}
	}

	r.logger.Info("RabbitMQ connection closed")
	return nil
}

// GetChannel returns the open channel registered under channelID, opening a
// new one if needed.
func (r *RabbitMQManager) GetChannel(channelID string) (*amqp.Channel, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if r.connection == nil || r.connection.IsClosed() {
		return nil, fmt.Errorf("RabbitMQ connection is not available")
	}

	if ch, exists := r.channels[channelID]; exists {
		if ch != nil && !ch.IsClosed() {
			return ch, nil
		}
		delete(r.channels, channelID)
	}

	ch, err := r.connection.Channel()
	if err != nil {
		return nil, fmt.Errorf("failed to create channel: %w", err)
	}

	r.channels[channelID] = ch
	return ch, nil
}

func (r *RabbitMQManager) CloseChannel(channelID string) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if ch, exists := r.channels[channelID]; exists {
		delete(r.channels, channelID)
		if ch != nil && !ch.IsClosed() {
			return ch.Close()
		}
	}
	return nil
}

// CreateQueue declares a durable queue whose rejected messages are routed to
// its dead letter queue.
func (r *RabbitMQManager) CreateQueue(queueName string) error {
	ch, err := r.GetChannel(managementChannel)
	if err != nil {
		return fmt.Errorf("failed to get channel for queue creation: %w", err)
	}

	dlqName := DeadLetterQueueName(queueName)
	if _, err := ch.QueueDeclare(dlqName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare dead letter queue %s: %w", dlqName, err)
	}

	args := amqp.Table{
		"x-dead-letter-exchange":    "",
		"x-dead-letter-routing-key": dlqName,
	}
	if _, err := ch.QueueDeclare(queueName, true, false, false, false, args); err != nil {
		return fmt.Errorf("failed to declare queue %s: %w", queueName, err)
	}

	r.logger.Info("Queue and DLQ declared",
		zap.String("queue", queueName),
		zap.String("dlq", dlqName))
	return nil
}

// Consume starts a manual-ack consumer on queueName with at most prefetch
// unacknowledged deliveries. The channel is registered under consumerTag.
func (r *RabbitMQManager) Consume(queueName, consumerTag string, prefetch int) (<-chan amqp.Delivery, error) {
	ch, err := r.GetChannel(consumerTag)
	if err != nil {
		return nil, fmt.Errorf("failed to get channel for consumer: %w", err)
	}

	if err := ch.Qos(prefetch, 0, false); err != nil {
		return nil, fmt.Errorf("failed to set QoS: %w", err)
	}

	msgs, err := ch.Consume(queueName, consumerTag, false, false, false, false, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to start consuming %s: %w", queueName, err)
	}
	return msgs, nil
}

// PublishMessage publishes a persistent JSON message and returns its id.
func (r *RabbitMQManager) PublishMessage(ctx context.Context, queueName string, body []byte) (string, error) {
	ch, err := r.GetChannel(publisherChannelID)
	if err != nil {
		return "", fmt.Errorf("failed to get channel for publishing: %w", err)
	}

	messageID := uuid.NewString()
	err = ch.PublishWithContext(
		ctx,
		"",        // exchange
		queueName, // routing key
		false,     // mandatory
		false,     // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			MessageId:    messageID,
			Timestamp:    time.Now(),
		})
	if err != nil {
		return "", fmt.Errorf("failed to publish message to queue %s: %w", queueName, err)
	}

	r.logger.Debug("Message published", zap.String("queue", queueName), zap.String("message_id", messageID))
	return messageID, nil
}

func (r *RabbitMQManager) monitorConnection(conn *amqp.Connection) {
	closeChan := conn.NotifyClose(make(chan *amqp.Error, 1))

	select {
	case <-r.done:
		return
	case err := <-closeChan:
		if err != nil {
			metrics.UpdateRabbitMQConnections("connected", 0)
			r.logger.Error("RabbitMQ connection lost", zap.Error(err))
			r.attemptReconnect()
		}
	}
}

func (r *RabbitMQManager) attemptReconnect() {
	r.logger.Info("Attempting to reconnect to RabbitMQ...")

	r.mutex.Lock()
	r.connection = nil
	for id := range r.channels {
		delete(r.channels, id)
	}
	r.mutex.Unlock()

	for {
		select {
		case <-r.done:
			return
		default:
			if err := r.Connect(); err != nil {
				r.logger.Error("Failed to reconnect to RabbitMQ", zap.Error(err))
				time.Sleep(5 * time.Second)
				continue
			}
			r.logger.Info("Successfully reconnected to RabbitMQ")
			return
		}
	}
}

func (r *RabbitMQManager) IsConnected() bool {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	return r.connection != nil && !r.connection.IsClosed()
}
