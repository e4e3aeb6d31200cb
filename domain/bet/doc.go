// Package bet implements the domain logic of a peer-to-peer betting room:
// bets, stakes, the rules a mutation must satisfy and the pari-mutuel payout.
//
// # Core Types
//
// Bet: a proposal with a fixed, ordered set of outcome options, created by one
// peer and replicated by value to every other peer.
//
// Stake: one participant's chosen option and cumulative amount on a bet.
//
// # Lifecycle
//
// A bet starts Open and becomes Resolved when a winning option is declared.
// Resolved is terminal: the winner and the participants never change again.
//
// # Payout
//
// When a bet is resolved the whole pool is split among the participants that
// chose the winning option, proportionally to their stake. The computation uses
// integer arithmetic only, so every peer derives the same amounts.
package bet
