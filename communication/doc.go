// Package communication defines the messages exchanged by the peers of a
// betting room and their wire encoding.
//
// Every message is one of five kinds: Identify, BetCreated, StakePlaced,
// BetResolved and Chat. On the wire a message is a CBOR envelope carrying a
// kind discriminator and the CBOR encoding of the kind's fields. Canonical
// encoding options are used so that equal messages produce equal bytes.
//
// Decode never panics on peer input: anything that is not a well formed
// envelope of a known kind with its required fields fails with an error
// wrapping ErrMalformedMessage.
package communication
