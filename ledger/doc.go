// Package ledger implements the replicated store of bets shared by the peers
// of a betting room.
//
// The same three operations are used for mutations initiated locally and for
// messages received from other peers, so that applying a mutation gives the
// same resulting state whichever path it came from.
//
// # Merge Semantics
//
// CreateBet: first writer wins. A bet id that already exists is left untouched
// and the duplicate creation is ignored without error.
//
// PlaceStake: stakes accumulate per participant name. The option recorded for
// a participant is the one of its first placement; later placements only add
// to the amount, whatever option they carry.
//
// ResolveBet: Open to Resolved, once. A second resolution fails with
// bet.ErrAlreadyResolved and leaves winner and participants unchanged.
//
// # Concurrency
//
// Every method is guarded by a read/write mutex, so snapshot readers never
// observe a bet in the middle of a transition.
package ledger
