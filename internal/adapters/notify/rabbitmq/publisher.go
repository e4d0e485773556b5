package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"temperature-history/internal/adapters/notify"
	"temperature-history/internal/platform/logger"

	amqp "github.com/rabbitmq/amqp091-go"
)

var errNotConnected = errors.New("not connected to a server")

// Publisher publica eventos JSON en una cola durable (exchange default).
type Publisher struct {
	queue string
	log   logger.Logger

	mu      sync.Mutex
	conn    *amqp.Connection
	channel *amqp.Channel
}

// Dial conecta y declara la cola.
func Dial(addr, queue string, log logger.Logger) (*Publisher, error) {
	if strings.TrimSpace(addr) == "" {
		return nil, errors.New("amqp url required")
	}
	if log == nil {
		log = logger.Nop()
	}

	conn, err := amqp.Dial(addr)
	if err != nil {
		return nil, fmt.Errorf("amqp dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("amqp channel: %w", err)
	}

	if _, err := ch.QueueDeclare(
		queue,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("amqp queue declare: %w", err)
	}

	return &Publisher{
		queue:   queue,
		log:     log.With(map[string]any{"component": "rabbitmq", "queue": queue}),
		conn:    conn,
		channel: ch,
	}, nil
}

// Publish no reintenta; el caller decide.
func (p *Publisher) Publish(ctx context.Context, e notify.Event) error {
	body, err := json.Marshal(e)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.channel == nil || p.channel.IsClosed() {
		return errNotConnected
	}

	if err := p.channel.PublishWithContext(
		ctx,
		"",      // exchange
		p.queue, // routing key
		false,   // mandatory
		false,   // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
			Type:         e.Type,
			MessageId:    e.RecordID,
			Body:         body,
		},
	); err != nil {
		return err
	}

	p.log.Debug("event published", map[string]any{"record_id": e.RecordID})
	return nil
}

func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var errs []error
	if p.channel != nil {
		errs = append(errs, p.channel.Close())
		p.channel = nil
	}
	if p.conn != nil {
		errs = append(errs, p.conn.Close())
		p.conn = nil
	}
	return errors.Join(errs...)
}
