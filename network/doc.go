// Package network provides the peer-to-peer transport of a betting room and
// the registry of the peers currently connected.
//
// # Core Components
//
// Peer: a node of the full mesh. It accepts websocket connections on an HTTP
// server and dials the addresses it is given. Each open connection carries
// binary messages in order; there is no ordering across connections and no
// delivery guarantee once a connection is gone.
//
// Registry: the ids of the connected peers and the display name they claim.
//
// # Handshake
//
// The first message on a new connection, in both directions, is a hello
// carrying the sender public key, the room topic and a Schnorr signature of
// the two. A connection with a foreign topic, a bad signature, our own key or
// a peer that is already connected is closed before it is reported.
//
// # Events
//
// A Handler receives OnPeerConnected once per connection, then the payloads
// read from it with OnBytesReceived, then OnPeerDisconnected. Each connection
// has its own reader goroutine, so the handler must serialize the events it
// cares about. A peer that reconnects quickly may be reported connected again
// before the close of its old connection is reported; Registry counts
// connections per peer for this reason.
//
// # Sending
//
// Send never blocks on the remote peer: payloads are queued on a bounded
// per-connection queue drained by a writer goroutine. A full queue drops the
// payload and returns ErrQueueFull.
package network
