package relay

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/tessro/convoy/internal/metrics"
)

const peerSendBuffer = 64

// peer is one connected websocket client.
type peer struct {
	id   string
	send chan []byte
}

// hub forwards frames between peers. A frame is never returned to its sender.
type hub struct {
	mu     sync.RWMutex
	peers  map[*peer]struct{}
	logger zerolog.Logger
}

func newHub(logger zerolog.Logger) *hub {
	return &hub{
		peers:  make(map[*peer]struct{}),
		logger: logger,
	}
}

func (h *hub) join(p *peer) {
	h.mu.Lock()
	h.peers[p] = struct{}{}
	n := len(h.peers)
	h.mu.Unlock()

	metrics.RelayPeers.Set(float64(n))
	h.logger.Info().Str("peer", p.id).Int("peers", n).Msg("peer joined")
}

func (h *hub) leave(p *peer) {
	h.mu.Lock()
	if _, ok := h.peers[p]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.peers, p)
	close(p.send)
	n := len(h.peers)
	h.mu.Unlock()

	metrics.RelayPeers.Set(float64(n))
	h.logger.Info().Str("peer", p.id).Int("peers", n).Msg("peer left")
}

// broadcast queues data for every peer except from. Slow peers drop frames.
func (h *hub) broadcast(from *peer, data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	metrics.RelayMessages.Inc()
	for p := range h.peers {
		if p == from {
			continue
		}
		select {
		case p.send <- data:
		default:
			h.logger.Warn().Str("peer", p.id).Msg("peer send buffer full, dropping frame")
		}
	}
}

func (h *hub) count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.peers)
}

func (h *hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for p := range h.peers {
		delete(h.peers, p)
		close(p.send)
	}
	metrics.RelayPeers.Set(0)
}
