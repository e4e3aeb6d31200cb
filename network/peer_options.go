package network

import (
	"log/slog"
	"time"
)

type peerOption func(*Peer)

// WithHandshakeTimeout bounds the time a new connection has to complete the
// hello exchange.
func WithHandshakeTimeout(timeout time.Duration) peerOption {
	return func(p *Peer) {
		p.timeout = timeout
	}
}

// WithSendQueue sets the number of payloads buffered per connection.
func WithSendQueue(size int) peerOption {
	return func(p *Peer) {
		if size > 0 {
			p.sendQueue = size
		}
	}
}

func WithLogger(logger *slog.Logger) peerOption {
	return func(p *Peer) {
		if logger != nil {
			p.logger = logger
		}
	}
}
