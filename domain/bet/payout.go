package bet

import (
	"math"
	"math/big"
)

// ComputePayout returns the amount self receives when the bet with the given
// participants is resolved with winningOption.
//
// The whole pool is split among the winners proportionally to their stake:
// floor(total * stake / winningTotal), computed exactly whatever the size of
// the stakes. Losers, non participants and bets without any winning stake pay
// 0. A payout that does not fit in an int64 is capped at math.MaxInt64.
func ComputePayout(participants map[string]Stake, winningOption, self string) int64 {
	mine, ok := participants[self]
	if !ok || mine.Option != winningOption || mine.Amount <= 0 {
		return 0
	}
	total, winningTotal := new(big.Int), new(big.Int)
	for _, s := range participants {
		amount := big.NewInt(s.Amount)
		total.Add(total, amount)
		if s.Option == winningOption {
			winningTotal.Add(winningTotal, amount)
		}
	}
	if winningTotal.Sign() <= 0 {
		return 0
	}
	payout := total.Mul(total, big.NewInt(mine.Amount))
	payout.Quo(payout, winningTotal)
	if !payout.IsInt64() {
		return math.MaxInt64
	}
	return payout.Int64()
}

// Settle returns the payout of every participant with a non zero payout.
func Settle(participants map[string]Stake, winningOption string) map[string]int64 {
	payouts := make(map[string]int64)
	for name := range participants {
		if p := ComputePayout(participants, winningOption, name); p > 0 {
			payouts[name] = p
		}
	}
	return payouts
}
