package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"

	"github.com/iliyamo/ecommerce-backend/internal/mailer"
)

const maxBackoff = 30 * time.Second

// HandlerFunc processes one delivery body. A returned error rejects the
// message without requeue.
type HandlerFunc func(ctx context.Context, body []byte) error

// Consume connects to the broker, declares queueName and feeds every
// delivery to handle. It reconnects with exponential backoff and only
// returns once ctx is cancelled.
func Consume(ctx context.Context, url, queueName string, log zerolog.Logger, handle HandlerFunc) error {
	log = log.With().Str("queue", queueName).Logger()
	backoff := time.Second
	for {
		conn, err := amqp.Dial(url)
		if err != nil {
			log.Warn().Err(err).Dur("retry_in", backoff).Msg("consumer: failed to dial broker")
			if !sleep(ctx, backoff) {
				return ctx.Err()
			}
			if backoff < maxBackoff {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		err = consumeLoop(ctx, conn, queueName, log, handle)
		_ = conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		log.Warn().Err(err).Msg("consumer: consume loop ended, reconnecting")
		if !sleep(ctx, 2*time.Second) {
			return ctx.Err()
		}
	}
}

func consumeLoop(ctx context.Context, conn *amqp.Connection, queueName string, log zerolog.Logger, handle HandlerFunc) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		log.Warn().Err(err).Msg("consumer: set QoS failed")
	}
	if _, err := ch.QueueDeclare(queueName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	msgs, err := ch.Consume(queueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return errors.New("deliveries channel closed")
			}
			if err := handle(ctx, d.Body); err != nil {
				log.Error().Err(err).Msg("consumer: handle message failed")
				_ = d.Nack(false, false)
				continue
			}
			_ = d.Ack(false)
		}
	}
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// SaleLogHandler appends every sale.created event as one line to
// <dir>/sales.log.
func SaleLogHandler(dir string) HandlerFunc {
	return func(_ context.Context, body []byte) error {
		var ev SaleCreatedEvent
		if err := json.Unmarshal(body, &ev); err != nil {
			return fmt.Errorf("unmarshal: %w", err)
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir %s: %w", dir, err)
		}
		f, err := os.OpenFile(filepath.Join(dir, "sales.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()

		line := fmt.Sprintf("[%s] Sale created | sale_id=%s | pub_id=%s | title=%q | user_id=%s | amount=%.2f | delivery=%s\n",
			ev.PurchasedAt, ev.SaleID, ev.PublicationID, ev.PublicationTitle, ev.UserID, ev.InvoiceAmount, ev.DeliveryDate)
		if _, err := f.WriteString(line); err != nil {
			return fmt.Errorf("write log: %w", err)
		}
		return nil
	}
}

// MailHandler delivers queued mail through sender.
func MailHandler(sender mailer.Sender) HandlerFunc {
	return func(ctx context.Context, body []byte) error {
		var m MailMessage
		if err := json.Unmarshal(body, &m); err != nil {
			return fmt.Errorf("unmarshal: %w", err)
		}
		sendCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
		return sender.Send(sendCtx, m)
	}
}
