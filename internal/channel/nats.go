package channel

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	cerrors "github.com/tessro/convoy/internal/errors"
	"github.com/tessro/convoy/internal/notify"
)

// NATS is a channel backed by a NATS subject.
type NATS struct {
	conn    *nats.Conn
	sub     *nats.Subscription
	subject string
	fan     *notify.Hub[Envelope]
	logger  zerolog.Logger

	closeOnce sync.Once
}

// DialNATS connects to the NATS server at url and subscribes to subject.
func DialNATS(ctx context.Context, url, subject string, logger zerolog.Logger) (*NATS, error) {
	log := logger.With().Str("transport", "nats").Str("subject", subject).Logger()

	opts := []nats.Option{
		nats.Name("convoy"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2 * time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				log.Warn().Err(err).Msg("nats disconnected")
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info().Str("url", nc.ConnectedUrl()).Msg("nats reconnected")
		}),
	}
	if d, ok := ctx.Deadline(); ok {
		opts = append(opts, nats.Timeout(time.Until(d)))
	}

	conn, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: connect nats %s: %v", cerrors.ErrChannelClosed, url, err)
	}

	n := &NATS{
		conn:    conn,
		subject: subject,
		fan:     notify.New[Envelope](subscriberBuffer),
		logger:  log,
	}

	sub, err := conn.Subscribe(subject, func(m *nats.Msg) {
		env, err := Decode(m.Data)
		if err != nil {
			n.logger.Warn().Err(err).Msg("dropping malformed message")
			return
		}
		n.fan.Publish(env)
	})
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("subscribe %s: %w", subject, err)
	}
	// The subscription is live on the server once the flush returns.
	if err := conn.Flush(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("subscribe %s: %w", subject, err)
	}
	n.sub = sub
	return n, nil
}

// Publish sends env to the subject.
func (n *NATS) Publish(_ context.Context, env Envelope) error {
	if n.conn.IsClosed() {
		return cerrors.ErrChannelClosed
	}
	data, err := Encode(env)
	if err != nil {
		return err
	}
	if err := n.conn.Publish(n.subject, data); err != nil {
		return fmt.Errorf("nats publish: %w", err)
	}
	return nil
}

// Subscribe registers a new subscriber.
func (n *NATS) Subscribe() (<-chan Envelope, func()) {
	return n.fan.Subscribe()
}

// Close unsubscribes and closes the connection.
func (n *NATS) Close() error {
	var err error
	n.closeOnce.Do(func() {
		err = n.sub.Unsubscribe()
		n.conn.Close()
		n.fan.Close()
	})
	return err
}

var _ Channel = (*NATS)(nil)
