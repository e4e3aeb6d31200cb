package network

import (
	"sort"
	"sync"

	"github.com/luca-patrignani/mental-bet/identity"
)

// Registry tracks the peers currently connected and the display name they
// claim. Names are used for presentation only and never as merge keys.
//
// A peer may briefly hold more than one connection, when it reconnects before
// the old connection is reported closed. The registry counts connections per
// peer and forgets the peer only when the last one is gone.
type Registry struct {
	mu    sync.RWMutex
	peers map[string]*registered
}

type registered struct {
	name  string
	conns int
}

func NewRegistry() *Registry {
	return &Registry{peers: make(map[string]*registered)}
}

// OnConnect registers a connection of peerID and reports whether it is the
// first one. A new peer gets a default name derived from its id; a peer that
// is already registered keeps its name.
func (r *Registry) OnConnect(peerID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.peers[peerID]; ok {
		p.conns++
		return false
	}
	r.peers[peerID] = &registered{name: identity.ShortID(peerID), conns: 1}
	return true
}

// OnDisconnect releases a connection of peerID and reports whether the peer
// was forgotten because it was the last one.
func (r *Registry) OnDisconnect(peerID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.peers[peerID]
	if !ok {
		return false
	}
	p.conns--
	if p.conns > 0 {
		return false
	}
	delete(r.peers, peerID)
	return true
}

// OnIdentify updates the name of a connected peer. It returns the previous
// name, and false when the peer is not registered.
func (r *Registry) OnIdentify(peerID, name string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.peers[peerID]
	if !ok {
		return "", false
	}
	old := p.name
	p.name = name
	return old, true
}

// Name returns the display name of peerID, or its short id when unknown.
func (r *Registry) Name(peerID string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if p, ok := r.peers[peerID]; ok {
		return p.name
	}
	return identity.ShortID(peerID)
}

// IDs returns the connected peer ids in ascending order.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.peers))
	for id := range r.peers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Snapshot returns a copy of the id to name mapping.
func (r *Registry) Snapshot() map[string]string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c := make(map[string]string, len(r.peers))
	for id, p := range r.peers {
		c[id] = p.name
	}
	return c
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.peers)
}
