// Package node ties the bet ledger, the local wallet and the peer registry
// of one peer to the transport of the mesh.
//
// # Dispatch
//
// A Node has a single dispatch loop (Run). Transport events, decoded inbound
// messages and local requests all become closures executed one at a time on
// that loop, so every ledger mutation completes before the next one starts.
// Local requests wait for their own closure to run; nothing ever waits for a
// remote peer.
//
// # Broadcast
//
// A local mutation is applied to the local ledger first, then encoded once
// and queued to every connected peer. Failures to reach a peer are logged and
// counted, never retried: peers that miss a creation ignore every later
// message about that bet.
//
// # Inbound Messages
//
// Inbound messages go through the same ledger operations as local mutations.
// Malformed or semantically invalid messages are dropped; the sender is never
// told.
package node
