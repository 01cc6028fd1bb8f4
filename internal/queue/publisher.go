package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"

	"github.com/iliyamo/ecommerce-backend/internal/mailer"
)

// Publisher sends JSON messages to durable queues on the default exchange.
// Each publish dials its own connection, so a broker outage only affects
// the publish that hit it. Errors are logged and returned so callers can
// choose to ignore them.
type Publisher struct {
	url string
	log zerolog.Logger
}

func NewPublisher(url string, log zerolog.Logger) *Publisher {
	return &Publisher{url: url, log: log}
}

func (p *Publisher) PublishSaleCreated(ctx context.Context, ev SaleCreatedEvent) error {
	return p.publish(ctx, SaleCreatedQueue, ev)
}

func (p *Publisher) PublishMail(ctx context.Context, m MailMessage) error {
	return p.publish(ctx, MailQueue, m)
}

func (p *Publisher) publish(ctx context.Context, queueName string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s message: %w", queueName, err)
	}

	conn, err := amqp.DialConfig(p.url, amqp.Config{
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
		Dial:      dialContext(ctx),
	})
	if err != nil {
		p.log.Warn().Err(err).Str("queue", queueName).Msg("rabbitmq: dial failed")
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		p.log.Warn().Err(err).Str("queue", queueName).Msg("rabbitmq: channel open failed")
		return err
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(queueName, true, false, false, false, nil); err != nil {
		p.log.Warn().Err(err).Str("queue", queueName).Msg("rabbitmq: queue declare failed")
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", queueName, false, false, pub); err != nil {
		p.log.Warn().Err(err).Str("queue", queueName).Msg("rabbitmq: publish failed")
		return err
	}
	return nil
}

// dialTimeout bounds the TCP connect and AMQP handshake when ctx carries
// no earlier deadline.
const dialTimeout = 5 * time.Second

// dialContext makes the broker dial follow ctx: a cancelled request stops
// the connect, and the handshake deadline is the sooner of ctx's deadline
// and dialTimeout.
func dialContext(ctx context.Context) func(network, addr string) (net.Conn, error) {
	return func(network, addr string) (net.Conn, error) {
		deadline := time.Now().Add(dialTimeout)
		if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
			deadline = d
		}
		d := net.Dialer{Deadline: deadline}
		conn, err := d.DialContext(ctx, network, addr)
		if err != nil {
			return nil, err
		}
		// amqp clears this once the connection is open
		if err := conn.SetDeadline(deadline); err != nil {
			_ = conn.Close()
			return nil, err
		}
		return conn, nil
	}
}

// MailPublisher is the part of Publisher QueueSender needs.
type MailPublisher interface {
	PublishMail(ctx context.Context, m MailMessage) error
}

// QueueSender is a mailer.Sender that hands mail to the mail consumer
// instead of talking to SMTP inside the request.
type QueueSender struct {
	Publisher MailPublisher
}

var _ mailer.Sender = QueueSender{}

func (s QueueSender) Send(ctx context.Context, m mailer.Message) error {
	if err := s.Publisher.PublishMail(ctx, m); err != nil {
		return fmt.Errorf("queue mail: %w", err)
	}
	return nil
}
