package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/streadway/amqp"
	"go.uber.org/zap"

	"github.com/jonathan/profile-optimizer/internal/logger"
)

// Options configures the RabbitMQ consumer.
type Options struct {
	URL         string
	Queue       string
	Exchange    string
	Concurrency int
}

// Consumer consumes analysis requests from a durable queue with a fixed pool of workers.
type Consumer struct {
	opts   Options
	conn   *amqp.Connection
	logger *zap.Logger
}

// Dial connects to RabbitMQ and declares the request queue and the status exchange.
func Dial(opts Options, log *zap.Logger) (*Consumer, error) {
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	conn, err := amqp.Dial(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("error dialling rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("error opening rabbitmq channel: %w", err)
	}
	defer ch.Close()

	if _, err := ch.QueueDeclare(
		opts.Queue,
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false, // no-wait
		nil,
	); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to declare queue %s: %w", opts.Queue, err)
	}
	if err := ch.ExchangeDeclare(
		opts.Exchange,
		"topic",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to declare exchange %s: %w", opts.Exchange, err)
	}

	return &Consumer{opts: opts, conn: conn, logger: logger.OrNop(log)}, nil
}

// Close closes the connection.
func (c *Consumer) Close() error {
	return c.conn.Close()
}

// Publisher returns a publisher that sends status updates on the consumer's connection.
func (c *Consumer) Publisher() (*AMQPPublisher, error) {
	ch, err := c.conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("error opening rabbitmq channel: %w", err)
	}
	return &AMQPPublisher{ch: ch, exchange: c.opts.Exchange}, nil
}

// Run starts the worker pool and blocks until ctx is cancelled or the broker closes the deliveries.
func (c *Consumer) Run(ctx context.Context, handler *Handler) error {
	var wg sync.WaitGroup
	errs := make(chan error, c.opts.Concurrency)

	for i := 0; i < c.opts.Concurrency; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			if err := c.work(ctx, id, handler); err != nil {
				errs <- err
			}
		}(i + 1)
	}

	wg.Wait()
	close(errs)
	return errors.Join(drain(errs)...)
}

func drain(errs <-chan error) []error {
	var out []error
	for err := range errs {
		out = append(out, err)
	}
	return out
}

// work runs one worker on its own channel with prefetch 1 and manual acknowledgement.
func (c *Consumer) work(ctx context.Context, id int, handler *Handler) error {
	ch, err := c.conn.Channel()
	if err != nil {
		return fmt.Errorf("worker %d: error opening channel: %w", id, err)
	}
	defer ch.Close()

	if err := ch.Qos(1, 0, false); err != nil {
		return fmt.Errorf("worker %d: failed to set qos: %w", id, err)
	}
	msgs, err := ch.Consume(
		c.opts.Queue,
		"",    // consumer tag
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("worker %d: error consuming queue: %w", id, err)
	}

	log := c.logger.With(zap.Int("worker", id))
	log.Info("worker started")
	for {
		select {
		case <-ctx.Done():
			log.Info("worker stopped")
			return nil
		case msg, ok := <-msgs:
			if !ok {
				return fmt.Errorf("worker %d: delivery channel closed", id)
			}
			c.deliver(ctx, log, handler, msg)
		}
	}
}

func (c *Consumer) deliver(ctx context.Context, log *zap.Logger, handler *Handler, msg amqp.Delivery) {
	err := handler.Handle(ctx, msg.Body)
	switch {
	case err == nil:
		if ackErr := msg.Ack(false); ackErr != nil {
			log.Warn("failed to ack delivery", zap.Error(ackErr))
		}
	case errors.Is(err, ErrMalformedMessage):
		log.Warn("rejecting malformed delivery", zap.Error(err))
		if rejErr := msg.Reject(false); rejErr != nil {
			log.Warn("failed to reject delivery", zap.Error(rejErr))
		}
	default:
		// The failure has been reported on the status exchange.
		if nackErr := msg.Nack(false, false); nackErr != nil {
			log.Warn("failed to nack delivery", zap.Error(nackErr))
		}
	}
}

// AMQPPublisher publishes status updates to a topic exchange.
type AMQPPublisher struct {
	mu       sync.Mutex
	ch       *amqp.Channel
	exchange string
}

// Publish sends the update with routing key analysis.<request_id>.
func (p *AMQPPublisher) Publish(_ context.Context, update StatusUpdate) error {
	msg, err := newPublishing(update)
	if err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ch.Publish(p.exchange, update.RoutingKey(), false, false, msg)
}

// Close closes the publisher channel.
func (p *AMQPPublisher) Close() error {
	return p.ch.Close()
}

func newPublishing(update StatusUpdate) (amqp.Publishing, error) {
	body, err := json.Marshal(update)
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("failed to marshal status update: %w", err)
	}
	return amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    update.Timestamp,
		MessageId:    update.RequestID.String(),
		Body:         body,
	}, nil
}

// Producer enqueues analysis requests.
type Producer struct {
	mu    sync.Mutex
	conn  *amqp.Connection
	ch    *amqp.Channel
	queue string
}

// NewProducer connects to RabbitMQ and declares the durable request queue.
func NewProducer(url, queue string) (*Producer, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("error dialling rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("error opening rabbitmq channel: %w", err)
	}
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to declare queue %s: %w", queue, err)
	}
	return &Producer{conn: conn, ch: ch, queue: queue}, nil
}

// Enqueue publishes a persistent analysis request through the default exchange.
func (p *Producer) Enqueue(_ context.Context, req AnalysisRequest) error {
	msg, err := newRequestPublishing(req)
	if err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.ch.Publish("", p.queue, false, false, msg); err != nil {
		return fmt.Errorf("failed to enqueue analysis request: %w", err)
	}
	return nil
}

// Close closes the channel and the connection.
func (p *Producer) Close() error {
	_ = p.ch.Close()
	return p.conn.Close()
}

func newRequestPublishing(req AnalysisRequest) (amqp.Publishing, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("failed to marshal analysis request: %w", err)
	}
	return amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    req.RequestID.String(),
		Body:         body,
	}, nil
}
