package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/galihcitta/chalet-reservation-system/internal/metrics"
	"github.com/galihcitta/chalet-reservation-system/internal/models"
	"github.com/galihcitta/chalet-reservation-system/internal/services/intake"
)

const resubscribeDelay = 2 * time.Second

// IntakeHandler admits one booking form.
type IntakeHandler interface {
	Submit(ctx context.Context, channel string, req models.PublicReservationRequest) (*models.PublicReservationResult, error)
}

// Broker is the subset of RabbitMQManager the worker pool consumes through.
type Broker interface {
	CreateQueue(queueName string) error
	Consume(queueName, consumerTag string, prefetch int) (<-chan amqp.Delivery, error)
	CloseChannel(channelID string) error
}

// WorkerPool drains the intake queue. A delivery is acknowledged only after
// its form was admitted; forms that fail admission are rejected without
// requeue so the broker moves them to the dead letter queue.
type WorkerPool struct {
	queueName   string
	consumerTag string
	workerCount int
	handler     IntakeHandler
	broker      Broker
	logger      *zap.Logger
	ctx         context.Context
	cancel      context.CancelFunc
	wg          sync.WaitGroup
	jobs        chan amqp.Delivery
	stopOnce    sync.Once
}

func NewWorkerPool(queueName string, workerCount int, handler IntakeHandler, broker Broker, logger *zap.Logger) *WorkerPool {
	if workerCount <= 0 {
		workerCount = 1
	}
	ctx, cancel := context.WithCancel(context.Background())

	return &WorkerPool{
		queueName:   queueName,
		consumerTag: "intake_consumer_" + queueName,
		workerCount: workerCount,
		handler:     handler,
		broker:      broker,
		logger:      logger,
		ctx:         ctx,
		cancel:      cancel,
		jobs:        make(chan amqp.Delivery, workerCount),
	}
}

func (wp *WorkerPool) Start() error {
	if err := wp.broker.CreateQueue(wp.queueName); err != nil {
		return fmt.Errorf("failed to create queue: %w", err)
	}

	msgs, err := wp.broker.Consume(wp.queueName, wp.consumerTag, wp.workerCount)
	if err != nil {
		return err
	}

	wp.wg.Add(1)
	go wp.consumer(msgs)

	for i := 0; i < wp.workerCount; i++ {
		wp.wg.Add(1)
		go wp.worker(i)
	}

	wp.logger.Info("Intake worker pool started",
		zap.String("queue", wp.queueName),
		zap.Int("workers", wp.workerCount))

	return nil
}

// Stop waits for in-flight forms to finish. Deliveries still buffered are
// requeued for the next consumer.
func (wp *WorkerPool) Stop() error {
	wp.stopOnce.Do(func() {
		wp.logger.Info("Stopping intake worker pool", zap.String("queue", wp.queueName))
		wp.cancel()
		wp.wg.Wait()

	drain:
		for {
			select {
			case msg := <-wp.jobs:
				_ = msg.Nack(false, true)
			default:
				break drain
			}
		}
		metrics.UpdateIntakeQueueDepth(0)

		if err := wp.broker.CloseChannel(wp.consumerTag); err != nil {
			wp.logger.Warn("Failed to close consumer channel", zap.Error(err))
		}
		wp.logger.Info("Intake worker pool stopped", zap.String("queue", wp.queueName))
	})
	return nil
}

func (wp *WorkerPool) consumer(msgs <-chan amqp.Delivery) {
	defer wp.wg.Done()

	for {
		select {
		case <-wp.ctx.Done():
			return
		case msg, ok := <-msgs:
			if !ok {
				msgs = wp.resubscribe()
				if msgs == nil {
					return
				}
				continue
			}

			select {
			case wp.jobs <- msg:
				metrics.UpdateIntakeQueueDepth(float64(len(wp.jobs)))
			case <-wp.ctx.Done():
				_ = msg.Nack(false, true)
				return
			}
		}
	}
}

// resubscribe re-opens the consumer after the broker closed the delivery
// channel, for example on reconnect. It returns nil once the pool is stopping.
func (wp *WorkerPool) resubscribe() <-chan amqp.Delivery {
	wp.logger.Warn("Intake delivery channel closed, resubscribing", zap.String("queue", wp.queueName))
	for {
		select {
		case <-wp.ctx.Done():
			return nil
		case <-time.After(resubscribeDelay):
		}

		msgs, err := wp.broker.Consume(wp.queueName, wp.consumerTag, wp.workerCount)
		if err == nil {
			return msgs
		}
		wp.logger.Error("Failed to resubscribe to intake queue", zap.Error(err))
	}
}

func (wp *WorkerPool) worker(workerID int) {
	defer wp.wg.Done()

	wp.logger.Debug("Intake worker started", zap.Int("worker_id", workerID))

	for {
		select {
		case <-wp.ctx.Done():
			wp.logger.Debug("Intake worker stopping", zap.Int("worker_id", workerID))
			return
		case msg := <-wp.jobs:
			metrics.UpdateIntakeQueueDepth(float64(len(wp.jobs)))
			wp.handleDelivery(workerID, msg)
		}
	}
}

func (wp *WorkerPool) handleDelivery(workerID int, msg amqp.Delivery) {
	if err := wp.processMessage(msg.Body); err != nil {
		if wp.ctx.Err() != nil {
			// Interrupted by shutdown, not rejected: let another consumer retry it.
			_ = msg.Nack(false, true)
			return
		}
		wp.logger.Error("Failed to process intake message, dead-lettering",
			zap.Error(err),
			zap.Int("worker_id", workerID),
			zap.String("message_id", msg.MessageId))
		if nackErr := msg.Nack(false, false); nackErr != nil {
			wp.logger.Error("Failed to reject intake message", zap.Error(nackErr))
		}
		return
	}

	if err := msg.Ack(false); err != nil {
		wp.logger.Error("Failed to acknowledge intake message",
			zap.Error(err),
			zap.String("message_id", msg.MessageId))
	}
}

func (wp *WorkerPool) processMessage(body []byte) error {
	var req models.PublicReservationRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return fmt.Errorf("failed to unmarshal intake message: %w", err)
	}

	_, err := wp.handler.Submit(wp.ctx, intake.ChannelQueue, req)
	return err
}

func (wp *WorkerPool) GetWorkerCount() int {
	return wp.workerCount
}

func (wp *WorkerPool) GetQueueName() string {
	return wp.queueName
}
