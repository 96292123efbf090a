package channel

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/tessro/convoy/internal/config"
	cerrors "github.com/tessro/convoy/internal/errors"
)

// Open connects the transport selected by cfg.
func Open(ctx context.Context, cfg config.ChannelConfig, logger zerolog.Logger) (Channel, error) {
	logger.Debug().Str("transport", cfg.Transport).Str("url", cfg.URL).Msg("opening channel")

	switch strings.ToLower(cfg.Transport) {
	case "memory":
		return NewMemory(), nil
	case "", "websocket", "ws":
		return DialWebSocket(ctx, cfg.URL, logger)
	case "redis":
		return DialRedis(ctx, cfg.URL, cfg.Password, cfg.Topic, logger)
	case "nats":
		return DialNATS(ctx, cfg.URL, cfg.Topic, logger)
	default:
		return nil, fmt.Errorf("%w: %q", cerrors.ErrUnknownTransport, cfg.Transport)
	}
}
