package mq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"inventory-auth-api/config"
	"inventory-auth-api/internal/infrastructure/mailer"
)

var ErrNotConfirmed = errors.New("broker did not confirm the message")

const confirmTimeout = 10 * time.Second

// RabbitMQ queues mail for the relay consumer. Send returns once the broker
// has confirmed the message.
type RabbitMQ struct {
	cfg   config.MQ
	log   *zap.Logger
	conn  *amqp091.Connection
	pubCh *amqp091.Channel
	mu    sync.Mutex
}

func New(cfg config.MQ, logger *zap.Logger) *RabbitMQ {
	return &RabbitMQ{
		cfg: cfg,
		log: logger,
	}
}

func (r *RabbitMQ) Connect(ctx context.Context, dsn string) error {
	dialer := &net.Dialer{Timeout: 10 * time.Second}

	amqpCfg := amqp091.Config{
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
		Properties: amqp091.Table{
			"connection_name": "inventoryauth",
		},
		Dial: func(network, addr string) (net.Conn, error) {
			return dialer.DialContext(ctx, network, addr)
		},
	}

	var err error
	r.conn, err = amqp091.DialConfig(dsn, amqpCfg)
	if err != nil {
		return fmt.Errorf("amqp dial: %w", err)
	}
	r.pubCh, err = r.conn.Channel()
	if err != nil {
		_ = r.conn.Close()
		return fmt.Errorf("amqp channel: %w", err)
	}

	r.log.Info("rabbitmq connected successfully")

	return nil
}

func (r *RabbitMQ) Init() error {
	if err := r.pubCh.ExchangeDeclare(
		r.cfg.Exchange,
		r.cfg.ExchangeType,
		true,
		false,
		false,
		false,
		nil,
	); err != nil {
		_ = r.pubCh.Close()
		return fmt.Errorf("exchange declare: %w", err)
	}
	q, err := r.pubCh.QueueDeclare(
		r.cfg.QueueName,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	if err = r.pubCh.QueueBind(q.Name, mailer.RoutingKey, r.cfg.Exchange, false, nil); err != nil {
		return fmt.Errorf("queue bind: %w", err)
	}
	if err = r.pubCh.Confirm(false); err != nil {
		return fmt.Errorf("confirm mode: %w", err)
	}

	return nil
}

// Send publishes msg and waits for the publisher confirm.
func (r *RabbitMQ) Send(ctx context.Context, msg mailer.Message) error {
	pub, err := publishing(msg, time.Now())
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, confirmTimeout)
	defer cancel()

	// confirms are matched by delivery tag, so publishes on the channel are serialized
	r.mu.Lock()
	dc, err := r.pubCh.PublishWithDeferredConfirmWithContext(
		ctx,
		r.cfg.Exchange,
		mailer.RoutingKey,
		false,
		false,
		pub,
	)
	r.mu.Unlock()
	if err != nil {
		return fmt.Errorf("mq publish: %w", err)
	}

	acked, err := dc.WaitContext(ctx)
	if err != nil {
		return fmt.Errorf("mq confirm: %w", err)
	}
	if !acked {
		return ErrNotConfirmed
	}

	r.log.Info("mail queued", zap.String("message_id", msg.ID), zap.String("to", msg.To))

	return nil
}

func publishing(msg mailer.Message, ts time.Time) (amqp091.Publishing, error) {
	if err := msg.Validate(); err != nil {
		return amqp091.Publishing{}, err
	}
	b, err := json.Marshal(msg)
	if err != nil {
		return amqp091.Publishing{}, fmt.Errorf("marshal mail: %w", err)
	}

	return amqp091.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp091.Persistent,
		MessageId:    msg.ID,
		Timestamp:    ts,
		Type:         mailer.RoutingKey,
		Body:         b,
	}, nil
}

func (r *RabbitMQ) Close() {
	if r.pubCh != nil {
		_ = r.pubCh.Close()
	}
	if r.conn != nil {
		_ = r.conn.Close()
	}
}
