package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

func declareQueue(ch *amqp.Channel, name string) (amqp.Queue, error) {
	return ch.QueueDeclare(
		name,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,
	)
}

// RabbitPublisher publishes JSON events to a durable queue on the default
// exchange. amqp channels are not safe for concurrent publishing, so
// publishes are serialized.
type RabbitPublisher struct {
	mu    sync.Mutex
	ch    *amqp.Channel
	queue string
}

func NewRabbitPublisher(conn *amqp.Connection, queue string) (*RabbitPublisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open channel: %w", err)
	}
	q, err := declareQueue(ch, queue)
	if err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("declare queue %s: %w", queue, err)
	}
	return &RabbitPublisher{ch: ch, queue: q.Name}, nil
}

func (p *RabbitPublisher) PublishOrderPlaced(ctx context.Context, evt OrderPlaced) error {
	body, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal order event: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	err = p.ch.PublishWithContext(ctx,
		"",
		p.queue,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    evt.OrderID,
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish order %s: %w", evt.OrderID, err)
	}
	return nil
}

func (p *RabbitPublisher) Close() error {
	return p.ch.Close()
}

// OrderHandler processes one event. A returned error nacks the delivery
// without requeueing it.
type OrderHandler func(ctx context.Context, evt OrderPlaced) error

type Consumer struct {
	conn     *amqp.Connection
	queue    string
	workers  int
	prefetch int
	log      *zap.Logger
}

func NewConsumer(conn *amqp.Connection, queue string, workers int, log *zap.Logger) *Consumer {
	if workers <= 0 {
		workers = 1
	}
	return &Consumer{conn: conn, queue: queue, workers: workers, prefetch: 10, log: log}
}

// Run starts the workers and blocks until ctx is cancelled or every
// worker's delivery channel closes.
func (c *Consumer) Run(ctx context.Context, handle OrderHandler) error {
	var wg sync.WaitGroup
	errs := make(chan error, c.workers)

	for i := 0; i < c.workers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			if err := c.work(ctx, id, handle); err != nil {
				errs <- err
			}
		}(i)
	}

	wg.Wait()
	close(errs)
	return <-errs
}

func (c *Consumer) work(ctx context.Context, id int, handle OrderHandler) error {
	log := c.log.With(zap.Int("worker", id))

	ch, err := c.conn.Channel()
	if err != nil {
		return fmt.Errorf("worker %d channel: %w", id, err)
	}
	defer ch.Close()

	if _, err := declareQueue(ch, c.queue); err != nil {
		return fmt.Errorf("worker %d declare: %w", id, err)
	}
	if err := ch.Qos(c.prefetch, 0, false); err != nil {
		return fmt.Errorf("worker %d qos: %w", id, err)
	}

	msgs, err := ch.ConsumeWithContext(ctx, c.queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("worker %d consume: %w", id, err)
	}

	log.Info("start consuming", zap.String("queue", c.queue))
	for d := range msgs {
		process(ctx, log, d.Body, d, handle)
	}
	log.Info("stop consuming")
	return nil
}

type acker interface {
	Ack(multiple bool) error
	Nack(multiple, requeue bool) error
}

// process decodes and handles one message body. Undecodable messages are
// acked and dropped; handler failures are nacked without requeue.
func process(ctx context.Context, log *zap.Logger, body []byte, ack acker, handle OrderHandler) {
	var evt OrderPlaced
	if err := json.Unmarshal(body, &evt); err != nil {
		log.Warn("dropping malformed order event", zap.Error(err))
		_ = ack.Ack(false)
		return
	}
	if err := handle(ctx, evt); err != nil {
		log.Error("order event failed", zap.String("order_id", evt.OrderID), zap.Error(err))
		_ = ack.Nack(false, false)
		return
	}
	_ = ack.Ack(false)
}
