package bet

import (
	"fmt"
	"strings"
)

// CheckCreate validates the fields of a new bet.
func CheckCreate(id, description string, options []string) error {
	if id == "" {
		return fmt.Errorf("%w: empty id", ErrInvalidBet)
	}
	if strings.TrimSpace(description) == "" {
		return fmt.Errorf("%w: empty description", ErrInvalidBet)
	}
	if len(options) < 2 {
		return fmt.Errorf("%w: at least 2 options are required, got %d", ErrInvalidBet, len(options))
	}
	seen := make(map[string]struct{}, len(options))
	for _, o := range options {
		if o == "" {
			return fmt.Errorf("%w: empty option", ErrInvalidBet)
		}
		if _, ok := seen[o]; ok {
			return fmt.Errorf("%w: duplicate option %q", ErrInvalidBet, o)
		}
		seen[o] = struct{}{}
	}
	return nil
}

// CheckStake validates a stake against the current state of b.
func CheckStake(b Bet, option string, amount int64) error {
	if !b.IsOpen() {
		return fmt.Errorf("%w: %s", ErrBetClosed, b.ID)
	}
	if !b.HasOption(option) {
		return fmt.Errorf("%w: %q is not an option of bet %s", ErrInvalidOption, option, b.ID)
	}
	if amount <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidAmount, amount)
	}
	return nil
}

// CheckResolve validates a resolution against the current state of b.
func CheckResolve(b Bet, winningOption string) error {
	if !b.IsOpen() {
		return fmt.Errorf("%w: %s", ErrAlreadyResolved, b.ID)
	}
	if !b.HasOption(winningOption) {
		return fmt.Errorf("%w: %q is not an option of bet %s", ErrInvalidOption, winningOption, b.ID)
	}
	return nil
}

// ParseOptions splits a comma separated list of options and trims every entry,
// the way options are typed in the client.
func ParseOptions(s string) []string {
	parts := strings.Split(s, ",")
	options := make([]string, 0, len(parts))
	for _, p := range parts {
		options = append(options, strings.TrimSpace(p))
	}
	return options
}
