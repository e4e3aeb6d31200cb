package node

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/luca-patrignani/mental-bet/communication"
	"github.com/luca-patrignani/mental-bet/domain/bet"
)

// PublishCreate creates a bet owned by the local participant and announces
// it to every connected peer. It returns the id of the new bet.
func (n *Node) PublishCreate(ctx context.Context, description string, options []string) (string, error) {
	id := n.newID()
	err := n.do(ctx, func() error {
		name := n.Name()
		created, err := n.ledger.CreateBet(id, name, description, options)
		if err != nil {
			return err
		}
		if !created {
			return fmt.Errorf("%w: id %s already in use", bet.ErrInvalidBet, id)
		}
		b, _ := n.ledger.Bet(id)
		n.updateGauges()
		n.broadcast(communication.BetCreated{Bet: b})
		n.notify(Event{Type: EventBetCreated, From: name, Local: true, BetID: id, Text: b.Description})
		return nil
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

// PublishStake withdraws amount from the local wallet and stakes it on option.
// Nothing is withdrawn or sent when the stake is rejected.
func (n *Node) PublishStake(ctx context.Context, betID, option string, amount int64) error {
	return n.do(ctx, func() error {
		if err := n.ledger.CheckStake(betID, option, amount); err != nil {
			return err
		}
		if err := n.wallet.Reserve(amount); err != nil {
			return err
		}
		name := n.Name()
		if err := n.ledger.PlaceStake(betID, name, option, amount); err != nil {
			n.wallet.Credit(amount)
			return err
		}
		n.updateGauges()
		n.broadcast(communication.StakePlaced{BetID: betID, Participant: name, Option: option, Amount: amount})
		n.notify(Event{Type: EventStakePlaced, From: name, Local: true, BetID: betID, Option: option, Amount: amount})
		return nil
	})
}

// PublishResolve closes a bet created by the local participant. Resolving a
// bet that is already resolved is a no-op.
func (n *Node) PublishResolve(ctx context.Context, betID, winningOption string) error {
	return n.do(ctx, func() error {
		name := n.Name()
		b, ok := n.ledger.Bet(betID)
		if !ok {
			return fmt.Errorf("%w: %s", bet.ErrUnknownBet, betID)
		}
		if b.Creator != name {
			return fmt.Errorf("%w: bet %s was created by %s", bet.ErrNotCreator, betID, b.Creator)
		}
		participants, err := n.ledger.ResolveBet(betID, winningOption, name)
		if errors.Is(err, bet.ErrAlreadyResolved) {
			n.logger.Debug("bet already resolved", "bet", betID)
			return nil
		}
		if err != nil {
			return err
		}
		n.broadcast(communication.BetResolved{BetID: betID, WinningOption: winningOption})
		n.notify(Event{Type: EventBetResolved, From: name, Local: true, BetID: betID, Option: winningOption})
		n.settle(betID, winningOption, participants)
		return nil
	})
}

// PublishChat sends a chat line to every connected peer.
func (n *Node) PublishChat(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrEmptyMessage
	}
	return n.do(ctx, func() error {
		name := n.Name()
		n.broadcast(communication.Chat{Name: name, Text: text})
		n.notify(Event{Type: EventChat, From: name, Local: true, Text: text})
		return nil
	})
}

// Rename changes the local display name and announces it. Stakes already
// placed stay recorded under the previous name.
func (n *Node) Rename(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrInvalidName
	}
	return n.do(ctx, func() error {
		n.mu.Lock()
		old := n.name
		n.name = name
		n.mu.Unlock()
		if old == name {
			return nil
		}
		n.broadcast(communication.Identify{Name: name})
		n.notify(Event{Type: EventRenamed, From: old, Local: true, Text: name})
		return nil
	})
}
