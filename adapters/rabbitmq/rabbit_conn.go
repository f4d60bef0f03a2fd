package rabbitmq

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	amqp "github.com/rabbitmq/amqp091-go"

	berr "github.com/next-trace/scg-event-hub/contract/errors"
)

// Concrete AMQP connection-backed constructor and publisher wrapper with auto-reconnect.

const (
	// DefaultExchange is declared by NewWithAMQPConn when Config.Exchange is empty.
	DefaultExchange = "events"
	exchangeType    = "topic"
)

type Config struct {
	URL         string
	Exchange    string
	ConnTimeout time.Duration
	MaxBackoff  time.Duration
}

type reconnectingPublisher struct {
	cfg    Config
	mu     sync.RWMutex
	conn   *amqp.Connection
	ch     *amqp.Channel
	closed chan struct{}
	ready  chan struct{} // closed when a channel is ready
}

func newReconnectingPublisher(cfg Config) (*reconnectingPublisher, func()) {
	rp := &reconnectingPublisher{
		cfg:    cfg,
		closed: make(chan struct{}),
		ready:  make(chan struct{}),
	}
	go rp.run()

	return rp, rp.close
}

func (rp *reconnectingPublisher) Publish(ctx context.Context, m PubMsg) error {
	rp.mu.RLock()
	ch, ready := rp.ch, rp.ready
	rp.mu.RUnlock()

	if ch == nil {
		select {
		case <-ready:
		case <-rp.closed:
			return fmt.Errorf("%w: rabbitmq publisher closed", berr.ErrForwardFailed)
		case <-ctx.Done():
			return ctx.Err()
		}

		rp.mu.RLock()
		ch = rp.ch
		rp.mu.RUnlock()

		if ch == nil {
			return fmt.Errorf("%w: rabbitmq not connected", berr.ErrForwardFailed)
		}
	}

	return ch.PublishWithContext(
		ctx,
		m.Exchange,
		m.RoutingKey,
		false,
		false,
		amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			Headers:      toTable(m.Headers),
			ContentType:  "application/json",
			Body:         m.Body,
		},
	)
}

func (rp *reconnectingPublisher) dial() (*amqp.Connection, *amqp.Channel, error) {
	conn, err := amqp.DialConfig(rp.cfg.URL, amqp.Config{
		Locale:     "en_US",
		Properties: amqp.Table{"product": "scg-event-hub"},
		Dial:       amqp.DefaultDial(rp.cfg.ConnTimeout),
	})
	if err != nil {
		return nil, nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, err
	}

	if err := ch.ExchangeDeclare(rp.cfg.Exchange, exchangeType, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()

		return nil, nil, err
	}

	return conn, ch, nil
}

func (rp *reconnectingPublisher) run() {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = time.Second
	bo.MaxInterval = rp.cfg.MaxBackoff
	bo.MaxElapsedTime = 0 // retry until closed

	for {
		select {
		case <-rp.closed:
			return
		default:
		}

		conn, ch, err := rp.dial()
		if err != nil {
			t := time.NewTimer(bo.NextBackOff())
			select {
			case <-rp.closed:
				t.Stop()
				return
			case <-t.C:
			}

			continue
		}

		bo.Reset()

		rp.mu.Lock()
		rp.conn = conn
		rp.ch = ch
		close(rp.ready)
		rp.mu.Unlock()

		// Block on connection close notifications to trigger reconnect
		notify := conn.NotifyClose(make(chan *amqp.Error, 1))
		select {
		case <-rp.closed:
			_ = ch.Close()
			_ = conn.Close()

			return
		case <-notify:
			rp.mu.Lock()
			rp.conn = nil
			rp.ch = nil
			rp.ready = make(chan struct{})
			rp.mu.Unlock()

			_ = ch.Close()
			_ = conn.Close()
		}
	}
}

func (rp *reconnectingPublisher) close() {
	rp.mu.Lock()
	defer rp.mu.Unlock()

	select {
	case <-rp.closed:
		return
	default:
		close(rp.closed)
	}

	if rp.ch != nil {
		_ = rp.ch.Close()
		rp.ch = nil
	}

	if rp.conn != nil {
		_ = rp.conn.Close()
		rp.conn = nil
	}
}

// NewWithAMQPConn dials RabbitMQ with auto-reconnect, ensures the exchange, and returns Adapter and cleanup.
func NewWithAMQPConn(cfg Config) (*Adapter, func(), error) {
	if cfg.URL == "" {
		return nil, nil, fmt.Errorf("%w: rabbitmq url required", berr.ErrForwardNotConfigured)
	}

	if cfg.Exchange == "" {
		cfg.Exchange = DefaultExchange
	}

	if cfg.MaxBackoff <= 0 {
		cfg.MaxBackoff = 30 * time.Second
	}

	pub, cleanup := newReconnectingPublisher(cfg)
	ad := New(pub)
	ad.Exchange = cfg.Exchange

	return ad, cleanup, nil
}
