package node

import (
	"errors"

	"github.com/luca-patrignani/mental-bet/communication"
	"github.com/luca-patrignani/mental-bet/domain/bet"
	"github.com/luca-patrignani/mental-bet/identity"
)

// OnPeerConnected registers the peer and introduces the local name to it.
func (n *Node) OnPeerConnected(peerID string) {
	n.enqueue(func() {
		first := n.registry.OnConnect(peerID)
		n.updateGauges()
		n.logger.Info("peer connected", "peer", peerID)
		data, err := communication.Encode(communication.Identify{Name: n.Name()})
		if err != nil {
			n.logger.Error("cannot encode identify", "err", err)
		} else {
			n.send(peerID, communication.KindIdentify, data)
		}
		if first {
			n.notify(Event{Type: EventPeerJoined, From: n.registry.Name(peerID)})
		}
	})
}

func (n *Node) OnPeerDisconnected(peerID string) {
	n.enqueue(func() {
		name := n.registry.Name(peerID)
		if !n.registry.OnDisconnect(peerID) {
			n.logger.Debug("stale connection closed", "peer", peerID, "name", name)
			return
		}
		n.updateGauges()
		n.logger.Info("peer disconnected", "peer", peerID, "name", name)
		n.notify(Event{Type: EventPeerLeft, From: name})
	})
}

// OnBytesReceived queues data for decoding and merging. The slice must not be
// modified by the caller afterwards.
func (n *Node) OnBytesReceived(peerID string, data []byte) {
	n.enqueue(func() {
		n.receive(peerID, data)
	})
}

func (n *Node) receive(peerID string, data []byte) {
	msg, err := communication.Decode(data)
	if err != nil {
		n.drop(peerID, "", err)
		return
	}
	n.metrics.MessagesReceived.WithLabelValues(string(msg.Kind())).Inc()
	from := n.registry.Name(peerID)

	switch m := msg.(type) {
	case communication.Identify:
		old, ok := n.registry.OnIdentify(peerID, m.Name)
		if !ok {
			n.drop(peerID, m.Kind(), errUnknownPeer)
			return
		}
		// The first identify replaces the placeholder name given on connect.
		if old != m.Name && old != identity.ShortID(peerID) {
			n.notify(Event{Type: EventRenamed, From: old, Text: m.Name})
		}
	case communication.BetCreated:
		created, err := n.ledger.CreateBet(m.Bet.ID, m.Bet.Creator, m.Bet.Description, m.Bet.Options)
		if err != nil {
			n.drop(peerID, m.Kind(), err)
			return
		}
		if !created {
			n.logger.Debug("duplicate bet ignored", "peer", peerID, "bet", m.Bet.ID)
			return
		}
		n.updateGauges()
		n.notify(Event{Type: EventBetCreated, From: m.Bet.Creator, BetID: m.Bet.ID, Text: m.Bet.Description})
	case communication.StakePlaced:
		if err := n.ledger.PlaceStake(m.BetID, m.Participant, m.Option, m.Amount); err != nil {
			n.drop(peerID, m.Kind(), err)
			return
		}
		n.notify(Event{Type: EventStakePlaced, From: m.Participant, BetID: m.BetID, Option: m.Option, Amount: m.Amount})
	case communication.BetResolved:
		participants, err := n.ledger.ResolveBet(m.BetID, m.WinningOption, from)
		if err != nil {
			n.drop(peerID, m.Kind(), err)
			return
		}
		n.notify(Event{Type: EventBetResolved, From: from, BetID: m.BetID, Option: m.WinningOption})
		n.settle(m.BetID, m.WinningOption, participants)
	case communication.Chat:
		n.notify(Event{Type: EventChat, From: m.Name, Text: m.Text})
	default:
		n.drop(peerID, msg.Kind(), errUnhandled)
	}
}

// settle credits the local payout of a resolved bet.
func (n *Node) settle(betID, winningOption string, participants map[string]bet.Stake) {
	payout := bet.ComputePayout(participants, winningOption, n.Name())
	if payout > 0 {
		n.wallet.Credit(payout)
		n.notify(Event{Type: EventPayout, Local: true, BetID: betID, Option: winningOption, Amount: payout})
	}
	n.updateGauges()
}

var (
	errUnknownPeer = errors.New("identify from unknown peer")
	errUnhandled   = errors.New("unhandled message kind")
)

func (n *Node) drop(peerID string, kind communication.Kind, err error) {
	reason := dropReason(err)
	n.metrics.MessagesDropped.WithLabelValues(reason).Inc()
	if reason == "already_resolved" {
		n.logger.Debug("message dropped", "peer", peerID, "kind", kind, "err", err)
		return
	}
	n.logger.Warn("message dropped", "peer", peerID, "kind", kind, "err", err)
}

func dropReason(err error) string {
	switch {
	case errors.Is(err, communication.ErrMalformedMessage):
		return "malformed"
	case errors.Is(err, bet.ErrUnknownBet):
		return "unknown_bet"
	case errors.Is(err, bet.ErrBetClosed):
		return "bet_closed"
	case errors.Is(err, bet.ErrAlreadyResolved):
		return "already_resolved"
	case errors.Is(err, bet.ErrInvalidOption):
		return "invalid_option"
	case errors.Is(err, bet.ErrInvalidAmount):
		return "invalid_amount"
	case errors.Is(err, bet.ErrInvalidBet):
		return "invalid_bet"
	case errors.Is(err, errUnknownPeer):
		return "unknown_peer"
	default:
		return "other"
	}
}
