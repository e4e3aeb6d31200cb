package network

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/luca-patrignani/mental-bet/identity"
)

var (
	ErrUnknownPeer   = errors.New("peer not connected")
	ErrQueueFull     = errors.New("send queue full")
	ErrDuplicatePeer = errors.New("peer already connected")
	ErrPeerClosed    = errors.New("peer closed")
)

const maxMessageSize = 1 << 20

// Handler receives the transport events of a Peer.
type Handler interface {
	OnPeerConnected(peerID string)
	OnPeerDisconnected(peerID string)
	OnBytesReceived(peerID string, data []byte)
}

// Peer is a node of the mesh. ID identifies it to the other peers and Topic
// is the room it belongs to.
type Peer struct {
	ID        string
	Topic     string
	keys      *identity.KeyPair
	handler   Handler
	server    *http.Server
	upgrader  websocket.Upgrader
	dialer    *websocket.Dialer
	timeout   time.Duration
	sendQueue int
	logger    *slog.Logger

	mu     sync.RWMutex
	conns  map[string]*conn
	closed bool
}

type conn struct {
	ws   *websocket.Conn
	send chan []byte
	done chan struct{}
	once sync.Once
}

func (c *conn) close() {
	c.once.Do(func() {
		close(c.done)
		_ = c.ws.Close()
	})
}

// NewPeer creates a peer for the given room. Events of every connection are
// delivered to handler.
func NewPeer(keys *identity.KeyPair, topic string, handler Handler, opts ...peerOption) *Peer {
	p := &Peer{
		ID:        keys.ID(),
		Topic:     topic,
		keys:      keys,
		handler:   handler,
		timeout:   10 * time.Second,
		sendQueue: 64,
		logger:    slog.Default(),
		conns:     make(map[string]*conn),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.upgrader = websocket.Upgrader{
		HandshakeTimeout: p.timeout,
		CheckOrigin:      func(r *http.Request) bool { return true },
	}
	p.dialer = &websocket.Dialer{HandshakeTimeout: p.timeout}
	p.server = &http.Server{Handler: http.HandlerFunc(p.serveWS)}
	p.logger = p.logger.With("self", identity.ShortID(p.ID))
	return p
}

// Serve accepts connections on l until Close is called.
func (p *Peer) Serve(l net.Listener) error {
	err := p.server.Serve(l)
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Dial connects to the peer listening on address (host:port).
func (p *Peer) Dial(ctx context.Context, address string) error {
	ws, _, err := p.dialer.DialContext(ctx, "ws://"+address+"/", nil)
	if err != nil {
		return fmt.Errorf("failed to dial %s: %w", address, err)
	}
	if err := p.accept(ws); err != nil {
		return fmt.Errorf("failed to connect to %s: %w", address, err)
	}
	return nil
}

func (p *Peer) serveWS(w http.ResponseWriter, r *http.Request) {
	ws, err := p.upgrader.Upgrade(w, r, nil)
	if err != nil {
		p.logger.Debug("websocket upgrade failed", "remote", r.RemoteAddr, "err", err)
		return
	}
	if err := p.accept(ws); err != nil {
		p.logger.Debug("incoming connection refused", "remote", r.RemoteAddr, "err", err)
	}
}

// accept completes the handshake on ws and starts its reader and writer.
func (p *Peer) accept(ws *websocket.Conn) error {
	ws.SetReadLimit(maxMessageSize)
	id, err := p.handshake(ws)
	if err != nil {
		_ = ws.Close()
		return err
	}
	c := &conn{
		ws:   ws,
		send: make(chan []byte, p.sendQueue),
		done: make(chan struct{}),
	}
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		_ = ws.Close()
		return ErrPeerClosed
	}
	if _, ok := p.conns[id]; ok {
		p.mu.Unlock()
		_ = ws.Close()
		return fmt.Errorf("%w: %s", ErrDuplicatePeer, identity.ShortID(id))
	}
	p.conns[id] = c
	p.mu.Unlock()

	p.logger.Debug("peer connected", "peer", identity.ShortID(id), "remote", ws.RemoteAddr().String())
	p.handler.OnPeerConnected(id)
	go p.writeLoop(id, c)
	go p.readLoop(id, c)
	return nil
}

func (p *Peer) readLoop(id string, c *conn) {
	defer func() {
		c.close()
		p.mu.Lock()
		current := p.conns[id] == c
		if current {
			delete(p.conns, id)
		}
		p.mu.Unlock()
		if current {
			p.logger.Debug("peer disconnected", "peer", identity.ShortID(id))
			p.handler.OnPeerDisconnected(id)
		}
	}()
	for {
		kind, data, err := c.ws.ReadMessage()
		if err != nil {
			return
		}
		if kind != websocket.BinaryMessage {
			p.logger.Debug("ignoring non binary frame", "peer", identity.ShortID(id), "type", kind)
			continue
		}
		p.handler.OnBytesReceived(id, data)
	}
}

func (p *Peer) writeLoop(id string, c *conn) {
	for {
		select {
		case <-c.done:
			return
		case data := <-c.send:
			if err := c.ws.SetWriteDeadline(time.Now().Add(p.timeout)); err != nil {
				c.close()
				return
			}
			if err := c.ws.WriteMessage(websocket.BinaryMessage, data); err != nil {
				p.logger.Debug("write failed", "peer", identity.ShortID(id), "err", err)
				c.close()
				return
			}
		}
	}
}

// Send queues data for peerID. It never waits for the remote peer.
func (p *Peer) Send(peerID string, data []byte) error {
	p.mu.RLock()
	c, ok := p.conns[peerID]
	p.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownPeer, identity.ShortID(peerID))
	}
	select {
	case <-c.done:
		return fmt.Errorf("%w: %s", ErrUnknownPeer, identity.ShortID(peerID))
	case c.send <- data:
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrQueueFull, identity.ShortID(peerID))
	}
}

// Connected reports whether a connection with peerID is open.
func (p *Peer) Connected(peerID string) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	_, ok := p.conns[peerID]
	return ok
}

// Peers returns the ids of the open connections in ascending order.
func (p *Peer) Peers() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	ids := make([]string, 0, len(p.conns))
	for id := range p.conns {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Close stops accepting connections and closes the open ones.
func (p *Peer) Close() error {
	p.mu.Lock()
	p.closed = true
	conns := make([]*conn, 0, len(p.conns))
	for _, c := range p.conns {
		conns = append(conns, c)
	}
	p.mu.Unlock()
	err := p.server.Shutdown(context.Background())
	for _, c := range conns {
		c.close()
	}
	return err
}
