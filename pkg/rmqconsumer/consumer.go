package rmqconsumer

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"inventory-auth-api/config"
	"inventory-auth-api/internal/infrastructure/mailer"
)

// can scale depends on a parallel worker count
const preFetchCount = 1

// Sender delivers a relayed message.
type Sender interface {
	Send(ctx context.Context, msg mailer.Message) error
}

// Consumer relays queued mail to a Sender. Messages are acked after
// delivery, requeued once on a send failure and dropped when malformed.
type Consumer struct {
	cfg        config.MQ
	log        *zap.Logger
	sender     Sender
	conn       *amqp091.Connection
	chConsume  *amqp091.Channel
	chDelivery <-chan amqp091.Delivery
}

func New(cfg config.MQ, logger *zap.Logger, sender Sender) *Consumer {
	return &Consumer{
		cfg:    cfg,
		log:    logger,
		sender: sender,
	}
}

func (c *Consumer) Connect(dsn string) error {
	var err error
	c.conn, err = amqp091.Dial(dsn)
	if err != nil {
		return fmt.Errorf("amqp dial: %w", err)
	}
	c.chConsume, err = c.conn.Channel()
	if err != nil {
		_ = c.conn.Close()
		c.conn = nil
		return fmt.Errorf("amqp channel: %w", err)
	}

	c.log.Info("rabbitmq consumer connected successfully")

	return nil
}

func (c *Consumer) Init() error {
	if err := c.chConsume.ExchangeDeclare(
		c.cfg.Exchange,
		c.cfg.ExchangeType,
		true,
		false,
		false,
		false,
		nil,
	); err != nil {
		return fmt.Errorf("exchange declare: %w", err)
	}
	if _, err := c.chConsume.QueueDeclare(
		c.cfg.QueueName,
		true,
		false,
		false,
		false,
		nil,
	); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	if err := c.chConsume.QueueBind(
		c.cfg.QueueName,
		mailer.RoutingKey,
		c.cfg.Exchange,
		false,
		nil,
	); err != nil {
		return fmt.Errorf("queue bind %s: %w", mailer.RoutingKey, err)
	}

	if err := c.chConsume.Qos(preFetchCount, 0, false); err != nil {
		return fmt.Errorf("qos: %w", err)
	}

	var err error
	c.chDelivery, err = c.chConsume.Consume(
		c.cfg.QueueName,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("consume: %w", err)
	}

	return nil
}

func (c *Consumer) DeliveryWorker(ctx context.Context) {
	c.log.Info("starting mail relay worker")

	defer func() {
		c.log.Info("mail relay worker gracefully stopped")
	}()

	for {
		select {
		case msg, ok := <-c.chDelivery:
			if !ok {
				c.log.Warn("delivery channel closed")
				return
			}
			if err := c.delivery(ctx, msg); err != nil {
				c.log.Error("mail relay error", zap.String("message_id", msg.MessageId), zap.Error(err))
			}
		case <-ctx.Done():
			c.Close()
			return
		}
	}
}

func (c *Consumer) delivery(ctx context.Context, d amqp091.Delivery) error {
	var msg mailer.Message
	if err := json.Unmarshal(d.Body, &msg); err != nil {
		_ = d.Nack(false, false)
		return fmt.Errorf("decode mail: %w", err)
	}
	if err := msg.Validate(); err != nil {
		_ = d.Nack(false, false)
		return err
	}

	if err := c.sender.Send(ctx, msg); err != nil {
		// one redelivery, then the message is dropped
		_ = d.Nack(false, !d.Redelivered)
		return err
	}

	if err := d.Ack(false); err != nil {
		return fmt.Errorf("ack: %w", err)
	}

	return nil
}

func (c *Consumer) Close() {
	if c.chConsume != nil {
		_ = c.chConsume.Close()
	}
	if c.conn != nil {
		_ = c.conn.Close()
	}
}
