package node

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/luca-patrignani/mental-bet/communication"
	"github.com/luca-patrignani/mental-bet/domain/bet"
	"github.com/luca-patrignani/mental-bet/domain/wallet"
	"github.com/luca-patrignani/mental-bet/ledger"
	"github.com/luca-patrignani/mental-bet/metrics"
	"github.com/luca-patrignani/mental-bet/network"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	ErrStopped      = errors.New("node is not running")
	ErrInvalidName  = errors.New("invalid name")
	ErrEmptyMessage = errors.New("empty message")
)

// Transport delivers an encoded message to a connected peer. Send must not
// block on the remote side.
type Transport interface {
	Send(peerID string, data []byte) error
}

// Node is the state of one peer of the mesh.
type Node struct {
	mu        sync.RWMutex
	name      string
	transport Transport

	ledger   *ledger.Ledger
	wallet   *wallet.Wallet
	registry *network.Registry

	seed      int64
	metrics   *metrics.Metrics
	logger    *slog.Logger
	observer  Observer
	newID     func() string
	queueSize int

	events   chan func()
	stopOnce sync.Once
	stopped  chan struct{}
}

// New creates a node for the local participant name. The node does nothing
// until Run is called and a transport is attached with SetTransport.
func New(name string, opts ...nodeOption) *Node {
	n := &Node{
		name:      name,
		ledger:    ledger.NewLedger(),
		registry:  network.NewRegistry(),
		seed:      wallet.DefaultSeed,
		logger:    slog.Default(),
		newID:     uuid.NewString,
		queueSize: 256,
		stopped:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(n)
	}
	if n.metrics == nil {
		n.metrics = metrics.New(prometheus.NewRegistry())
	}
	n.wallet = wallet.New(n.seed)
	n.events = make(chan func(), n.queueSize)
	n.metrics.Balance.Set(float64(n.wallet.Balance()))
	return n
}

// SetTransport attaches the transport used for outgoing messages.
func (n *Node) SetTransport(t Transport) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.transport = t
}

// Run executes queued events one at a time until ctx is done.
func (n *Node) Run(ctx context.Context) error {
	defer n.stopOnce.Do(func() { close(n.stopped) })
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-n.stopped:
			return ErrStopped
		case f := <-n.events:
			f()
		}
	}
}

func (n *Node) enqueue(f func()) bool {
	select {
	case n.events <- f:
		return true
	case <-n.stopped:
		return false
	}
}

// do runs f on the dispatch loop and waits for its result.
func (n *Node) do(ctx context.Context, f func() error) error {
	result := make(chan error, 1)
	select {
	case n.events <- func() { result <- f() }:
	case <-ctx.Done():
		return ctx.Err()
	case <-n.stopped:
		return ErrStopped
	}
	select {
	case err := <-result:
		return err
	case <-ctx.Done():
		return ctx.Err()
	case <-n.stopped:
		return ErrStopped
	}
}

// Sync returns once every event queued before the call has been processed.
func (n *Node) Sync(ctx context.Context) error {
	return n.do(ctx, func() error { return nil })
}

func (n *Node) Name() string {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.name
}

func (n *Node) Balance() int64 {
	return n.wallet.Balance()
}

// Bets returns a copy of every known bet in creation order.
func (n *Node) Bets() []bet.Bet {
	return n.ledger.Bets()
}

func (n *Node) Bet(id string) (bet.Bet, bool) {
	return n.ledger.Bet(id)
}

// Peers returns the display name of every connected peer by id.
func (n *Node) Peers() map[string]string {
	return n.registry.Snapshot()
}

func (n *Node) notify(e Event) {
	if n.observer != nil {
		n.observer(e)
	}
}

// broadcast encodes m once and queues it to every connected peer.
func (n *Node) broadcast(m communication.Message) {
	data, err := communication.Encode(m)
	if err != nil {
		n.logger.Error("cannot encode message", "kind", m.Kind(), "err", err)
		return
	}
	for _, id := range n.registry.IDs() {
		n.send(id, m.Kind(), data)
	}
}

func (n *Node) send(peerID string, kind communication.Kind, data []byte) {
	n.mu.RLock()
	t := n.transport
	n.mu.RUnlock()
	if t == nil {
		n.metrics.SendFailures.Inc()
		n.logger.Warn("no transport attached", "peer", peerID, "kind", kind)
		return
	}
	if err := t.Send(peerID, data); err != nil {
		n.metrics.SendFailures.Inc()
		n.logger.Warn("cannot send message", "peer", peerID, "kind", kind, "err", err)
		return
	}
	n.metrics.MessagesSent.WithLabelValues(string(kind)).Inc()
}

func (n *Node) updateGauges() {
	total, open := n.ledger.Len()
	n.metrics.Bets.WithLabelValues(string(bet.Open)).Set(float64(open))
	n.metrics.Bets.WithLabelValues(string(bet.Resolved)).Set(float64(total - open))
	n.metrics.Balance.Set(float64(n.wallet.Balance()))
	n.metrics.ConnectedPeers.Set(float64(n.registry.Len()))
}
