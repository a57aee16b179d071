// Package service publishes domain events to RabbitMQ.  Events go through
// a buffered queue drained by a single worker, so they reach the broker in
// the order they were accepted.  Delivery failures are logged and the
// event is dropped; callers never wait on the broker.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	q "github.com/iliyamo/client-reservations/internal/queue"
)

var (
	ErrQueueFull       = errors.New("event queue is full")
	ErrPublisherClosed = errors.New("event publisher is closed")
)

const (
	queueSize   = 256
	sendTimeout = 5 * time.Second
)

// Publisher sends reservation events to the reservation.events queue over
// one long-lived connection, reopened lazily after a failure.
type Publisher struct {
	url  string
	send func(ctx context.Context, ev q.ReservationEvent) error

	mu     sync.RWMutex
	closed bool
	events chan q.ReservationEvent
	done   chan struct{}

	// owned by the worker
	conn *amqp.Connection
	ch   *amqp.Channel
}

// NewPublisher starts the delivery worker.  Call Close to flush and stop it.
func NewPublisher(url string) *Publisher {
	p := &Publisher{url: url}
	p.send = p.deliver
	p.start(queueSize)
	return p
}

func (p *Publisher) start(size int) {
	p.events = make(chan q.ReservationEvent, size)
	p.done = make(chan struct{})
	go p.run()
}

// Publish queues ev without blocking.  It fails when the queue is full or
// the publisher has been closed.
func (p *Publisher) Publish(_ context.Context, ev q.ReservationEvent) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrPublisherClosed
	}
	select {
	case p.events <- ev:
		return nil
	default:
		return ErrQueueFull
	}
}

// Close stops accepting events and waits until the queued ones have been
// handed to the broker or ctx expires.
func (p *Publisher) Close(ctx context.Context) error {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.events)
	}
	p.mu.Unlock()

	select {
	case <-p.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *Publisher) run() {
	defer close(p.done)
	defer p.disconnect()
	for ev := range p.events {
		ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		if err := p.send(ctx, ev); err != nil {
			log.Printf("rabbitmq: dropped %s for session %s: %v", ev.Type, ev.SessionID, err)
		}
		cancel()
	}
}

// deliver publishes ev as a persistent JSON message.
func (p *Publisher) deliver(ctx context.Context, ev q.ReservationEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	if err := p.connect(); err != nil {
		return err
	}
	err = p.ch.PublishWithContext(ctx, "", q.QueueName, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Type:         ev.Type,
		Body:         body,
	})
	if err != nil {
		p.disconnect()
		return err
	}
	return nil
}

func (p *Publisher) connect() error {
	if p.conn != nil && !p.conn.IsClosed() {
		return nil
	}
	p.disconnect()

	conn, err := amqp.Dial(p.url)
	if err != nil {
		return err
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return err
	}
	// durable so events survive a broker restart
	if _, err := ch.QueueDeclare(q.QueueName, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return err
	}
	p.conn, p.ch = conn, ch
	return nil
}

func (p *Publisher) disconnect() {
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
	p.conn, p.ch = nil, nil
}
