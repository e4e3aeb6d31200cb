package node

type EventType string

const (
	EventPeerJoined  EventType = "peer_joined"
	EventPeerLeft    EventType = "peer_left"
	EventRenamed     EventType = "renamed"
	EventChat        EventType = "chat"
	EventBetCreated  EventType = "bet_created"
	EventStakePlaced EventType = "stake_placed"
	EventBetResolved EventType = "bet_resolved"
	EventPayout      EventType = "payout"
)

// Event is a notification for the presentation layer. From is the display
// name of the peer the event originates from; Local is set for events caused
// by this peer.
type Event struct {
	Type   EventType
	From   string
	Local  bool
	BetID  string
	Text   string
	Option string
	Amount int64
}

// Observer receives events on the dispatch loop. It must not block.
type Observer func(Event)
