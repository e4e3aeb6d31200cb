package main

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/pterm/pterm"

	"github.com/luca-patrignani/mental-bet/domain/bet"
	"github.com/luca-patrignani/mental-bet/identity"
	"github.com/luca-patrignani/mental-bet/node"
)

func betLabel(b bet.Bet) string {
	return fmt.Sprintf("%s [%s]", b.Description, identity.ShortID(b.ID))
}

// betsTable renders the bets with the stake of self in the last column.
func betsTable(bets []bet.Bet, self string) pterm.TableData {
	data := pterm.TableData{{"ID", "Description", "Creator", "Options", "Pool", "Status", "Your stake"}}
	for _, b := range bets {
		status := pterm.LightGreen("open")
		if !b.IsOpen() {
			status = pterm.LightRed("won by " + b.Winner)
		}
		stake := "-"
		if s, ok := b.Participants[self]; ok {
			stake = fmt.Sprintf("%d on %s", s.Amount, s.Option)
		}
		data = append(data, []string{
			identity.ShortID(b.ID),
			b.Description,
			b.Creator,
			strings.Join(b.Options, ", "),
			strconv.FormatInt(b.Pool(), 10),
			status,
			stake,
		})
	}
	return data
}

func printBets(bets []bet.Bet, self string) {
	if len(bets) == 0 {
		pterm.Info.Println("No bets yet")
		return
	}
	_ = pterm.DefaultTable.WithHasHeader().WithData(betsTable(bets, self)).Render()
}

func printBetDetails(b bet.Bet) {
	names := make([]string, 0, len(b.Participants))
	for name := range b.Participants {
		names = append(names, name)
	}
	sort.Strings(names)
	info := pterm.Sprintfln("Created by %s\nPool: %d", pterm.LightCyan(b.Creator), b.Pool())
	for _, name := range names {
		s := b.Participants[name]
		info += pterm.Sprintfln("%s: %d on %s", name, s.Amount, s.Option)
	}
	if !b.IsOpen() {
		for name, amount := range bet.Settle(b.Participants, b.Winner) {
			info += pterm.Sprintfln("%s won %d", pterm.LightCyan(name), amount)
		}
	}
	pterm.DefaultBox.WithTitle(b.Description).WithTitleTopCenter().WithHorizontalPadding(4).Println(info)
}

func printPeers(peers map[string]string) {
	if len(peers) == 0 {
		pterm.Info.Println("No peers connected")
		return
	}
	ids := make([]string, 0, len(peers))
	for id := range peers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	data := pterm.TableData{{"Peer", "Name"}}
	for _, id := range ids {
		data = append(data, []string{identity.ShortID(id), peers[id]})
	}
	_ = pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

// formatEvent returns the event log line of e.
func formatEvent(e node.Event) string {
	switch e.Type {
	case node.EventPeerJoined:
		return fmt.Sprintf("%s joined the room", e.From)
	case node.EventPeerLeft:
		return fmt.Sprintf("%s left the room", e.From)
	case node.EventRenamed:
		return fmt.Sprintf("%s is now known as %s", e.From, e.Text)
	case node.EventChat:
		return fmt.Sprintf("%s: %s", e.From, e.Text)
	case node.EventBetCreated:
		return fmt.Sprintf("%s created the bet %q", e.From, e.Text)
	case node.EventStakePlaced:
		return fmt.Sprintf("%s staked %d on %s", e.From, e.Amount, e.Option)
	case node.EventBetResolved:
		return fmt.Sprintf("%s resolved a bet, %s wins", e.From, e.Option)
	case node.EventPayout:
		return fmt.Sprintf("You won %d", e.Amount)
	default:
		return string(e.Type)
	}
}

func printEvent(e node.Event) {
	line := formatEvent(e)
	switch e.Type {
	case node.EventChat:
		pterm.Println(pterm.LightCyan(line))
	case node.EventPayout:
		pterm.Success.Println(line)
	case node.EventPeerLeft:
		pterm.Warning.Println(line)
	default:
		if !e.Local {
			pterm.Info.Println(line)
		}
	}
}
