package bet

import "errors"

var (
	ErrInvalidBet      = errors.New("invalid bet")
	ErrUnknownBet      = errors.New("unknown bet")
	ErrBetClosed       = errors.New("bet is closed")
	ErrInvalidOption   = errors.New("invalid option")
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrAlreadyResolved = errors.New("bet already resolved")
	// ErrNotCreator is returned only for locally initiated resolutions.
	ErrNotCreator = errors.New("only the creator can resolve the bet")
)
