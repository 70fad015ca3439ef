package rabbitmq

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	// KitchenExchange carries dispatched tickets to printers and boards.
	KitchenExchange = "kitchen.tickets"
	// DisplayExchange mirrors cart projections to customer displays.
	DisplayExchange = "pos.display"
	// TablesExchange carries advisory requests to the table service.
	TablesExchange = "pos.tables"
)

type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	VHost    string // default "/"
	UseTLS   bool
}

// URL renders the AMQP connection string.
func (c Config) URL() string {
	vhost := c.VHost
	if vhost == "" {
		vhost = "/"
	}
	scheme := "amqp"
	if c.UseTLS {
		scheme = "amqps"
	}
	return fmt.Sprintf("%s://%s:%s@%s:%d/%s", scheme, c.User, c.Password, c.Host, c.Port, vhost)
}

// Client is one connection with a confirming channel.
type Client struct {
	conn *amqp.Connection
	ch   *amqp.Channel
	pub  publishChannel
}

type confirmation interface {
	WaitContext(ctx context.Context) (bool, error)
}

// publishChannel is the publishing side of a channel in confirm mode.
type publishChannel interface {
	publish(ctx context.Context, exchange, key string, msg amqp.Publishing) error
	publishConfirmed(ctx context.Context, exchange, key string, msg amqp.Publishing) (confirmation, error)
}

type amqpChannel struct {
	ch *amqp.Channel
}

func (a amqpChannel) publish(ctx context.Context, exchange, key string, msg amqp.Publishing) error {
	return a.ch.PublishWithContext(ctx, exchange, key, false, false, msg)
}

func (a amqpChannel) publishConfirmed(
	ctx context.Context,
	exchange, key string,
	msg amqp.Publishing,
) (confirmation, error) {
	dc, err := a.ch.PublishWithDeferredConfirmWithContext(ctx, exchange, key, false, false, msg)
	if err != nil {
		return nil, err
	}
	if dc == nil {
		return nil, errors.New("rabbitmq channel is not in confirm mode")
	}
	return dc, nil
}

func Dial(cfg Config) (*Client, error) {
	var (
		conn *amqp.Connection
		err  error
	)
	if cfg.UseTLS {
		conn, err = amqp.DialTLS(cfg.URL(), &tls.Config{MinVersion: tls.VersionTLS12})
	} else {
		conn, err = amqp.Dial(cfg.URL())
	}
	if err != nil {
		return nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	if err := ch.Confirm(false); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}
	return &Client{conn: conn, ch: ch, pub: amqpChannel{ch: ch}}, nil
}

type exchange struct {
	name       string
	kind       string
	durable    bool
	autoDelete bool
}

// topology lists the exchanges the POS publishes to. Display frames are
// throwaway; tickets and table requests survive a broker restart.
var topology = []exchange{
	{name: KitchenExchange, kind: amqp.ExchangeTopic, durable: true},
	{name: DisplayExchange, kind: amqp.ExchangeFanout, autoDelete: true},
	{name: TablesExchange, kind: amqp.ExchangeFanout, durable: true},
}

// DeclareTopology declares the exchanges the POS publishes to.
func (c *Client) DeclareTopology() error {
	for _, e := range topology {
		if err := c.ch.ExchangeDeclare(e.name, e.kind, e.durable, e.autoDelete, false, false, nil); err != nil {
			return fmt.Errorf("failed to declare %s: %w", e.name, err)
		}
	}
	return nil
}

func (c *Client) Ping() error {
	if c.conn == nil || c.conn.IsClosed() {
		return errors.New("rabbitmq connection is closed")
	}
	return nil
}

func (c *Client) Close() {
	if c.ch != nil {
		_ = c.ch.Close()
	}
	if c.conn != nil {
		_ = c.conn.Close()
	}
}

// ErrPublishNacked is returned when the broker refused a persistent message.
var ErrPublishNacked = errors.New("publish NACK from broker")

// Publish sends one message. Persistent messages wait for the broker's
// confirm of that very message; transient ones are sent without waiting.
func (c *Client) Publish(ctx context.Context, exchange, key string, body []byte, persistent bool) error {
	msg := amqp.Publishing{
		DeliveryMode: amqp.Transient,
		ContentType:  "application/json",
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if !persistent {
		return c.pub.publish(ctx, exchange, key, msg)
	}

	msg.DeliveryMode = amqp.Persistent
	conf, err := c.pub.publishConfirmed(ctx, exchange, key, msg)
	if err != nil {
		return err
	}
	acked, err := conf.WaitContext(ctx)
	if err != nil {
		return err
	}
	if !acked {
		return ErrPublishNacked
	}
	return nil
}
