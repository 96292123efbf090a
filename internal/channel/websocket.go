package channel

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	cerrors "github.com/tessro/convoy/internal/errors"
	"github.com/tessro/convoy/internal/notify"
)

const (
	writeWait       = 5 * time.Second
	handshakeWait   = 10 * time.Second
	maxMessageBytes = 64 << 10
)

// WebSocket is a channel client connected to a convoy relay.
type WebSocket struct {
	conn   *websocket.Conn
	fan    *notify.Hub[Envelope]
	logger zerolog.Logger

	writeMu sync.Mutex

	done      chan struct{}
	closeOnce sync.Once
}

// DialWebSocket connects to the relay at url.
func DialWebSocket(ctx context.Context, url string, logger zerolog.Logger) (*WebSocket, error) {
	dialer := websocket.Dialer{HandshakeTimeout: handshakeWait}
	conn, _, err := dialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: dial websocket %s: %v", cerrors.ErrChannelClosed, url, err)
	}
	conn.SetReadLimit(maxMessageBytes)

	w := &WebSocket{
		conn:   conn,
		fan:    notify.New[Envelope](subscriberBuffer),
		logger: logger.With().Str("transport", "websocket").Logger(),
		done:   make(chan struct{}),
	}
	go w.readLoop()
	return w, nil
}

func (w *WebSocket) readLoop() {
	defer close(w.done)
	defer w.fan.Close()

	for {
		_, data, err := w.conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				w.logger.Debug().Err(err).Msg("websocket read ended")
			}
			return
		}
		env, err := Decode(data)
		if err != nil {
			w.logger.Warn().Err(err).Msg("dropping malformed frame")
			continue
		}
		if dropped := w.fan.Publish(env); dropped > 0 {
			w.logger.Warn().Int("dropped", dropped).Msg("slow subscriber")
		}
	}
}

// Publish writes env as a single text frame.
func (w *WebSocket) Publish(ctx context.Context, env Envelope) error {
	select {
	case <-w.done:
		return cerrors.ErrChannelClosed
	default:
	}

	data, err := Encode(env)
	if err != nil {
		return err
	}

	deadline := time.Now().Add(writeWait)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	w.writeMu.Lock()
	defer w.writeMu.Unlock()
	if err := w.conn.SetWriteDeadline(deadline); err != nil {
		return fmt.Errorf("set write deadline: %w", err)
	}
	if err := w.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		return fmt.Errorf("write frame: %w", err)
	}
	return nil
}

// Subscribe registers a new subscriber for inbound frames.
func (w *WebSocket) Subscribe() (<-chan Envelope, func()) {
	return w.fan.Subscribe()
}

// Close sends a close frame and waits for the reader to stop.
func (w *WebSocket) Close() error {
	var err error
	w.closeOnce.Do(func() {
		w.writeMu.Lock()
		msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
		_ = w.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
		w.writeMu.Unlock()

		err = w.conn.Close()
		<-w.done
	})
	return err
}

var _ Channel = (*WebSocket)(nil)
