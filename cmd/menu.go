package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/pterm/pterm"

	"github.com/luca-patrignani/mental-bet/domain/bet"
	"github.com/luca-patrignani/mental-bet/network"
	"github.com/luca-patrignani/mental-bet/node"
)

const (
	actionCreate  = "Create a bet"
	actionStake   = "Place a stake"
	actionResolve = "Resolve a bet"
	actionList    = "List bets"
	actionShow    = "Show a bet"
	actionChat    = "Chat"
	actionRename  = "Change username"
	actionBalance = "Balance"
	actionPeers   = "Peers"
	actionConnect = "Connect to a peer"
	actionQuit    = "Quit"
)

var actions = []string{
	actionCreate, actionStake, actionResolve, actionList, actionShow,
	actionChat, actionRename, actionBalance, actionPeers, actionConnect, actionQuit,
}

var errNoBets = errors.New("no bets available")

func runMenu(ctx context.Context, n *node.Node, peer *network.Peer, local *net.TCPAddr) error {
	for {
		if ctx.Err() != nil {
			return nil
		}
		selected, err := pterm.DefaultInteractiveSelect.WithDefaultText("Select your next action").WithOptions(actions).WithMaxHeight(len(actions)).Show()
		if err != nil {
			return err
		}
		switch selected {
		case actionCreate:
			err = createBet(ctx, n)
		case actionStake:
			err = placeStake(ctx, n)
		case actionResolve:
			err = resolveBet(ctx, n)
		case actionList:
			printBets(n.Bets(), n.Name())
		case actionShow:
			var b bet.Bet
			if b, err = selectBet(n.Bets(), "Select the bet"); err == nil {
				printBetDetails(b)
			}
		case actionChat:
			text, _ := pterm.DefaultInteractiveTextInput.WithDefaultText("Message").Show()
			err = n.PublishChat(ctx, text)
		case actionRename:
			name, _ := pterm.DefaultInteractiveTextInput.WithDefaultText("Enter your new username").Show()
			err = n.Rename(ctx, name)
		case actionBalance:
			pterm.Info.Printfln("Your balance: %d", n.Balance())
		case actionPeers:
			printPeers(n.Peers())
		case actionConnect:
			err = connectManually(ctx, peer, local)
		case actionQuit:
			return nil
		}
		if err != nil {
			pterm.Error.Println(err.Error())
		}
	}
}

func createBet(ctx context.Context, n *node.Node) error {
	description, _ := pterm.DefaultInteractiveTextInput.WithDefaultText("Describe the bet").Show()
	options, _ := pterm.DefaultInteractiveTextInput.WithDefaultText("Enter the options, separated by commas").Show()
	id, err := n.PublishCreate(ctx, description, bet.ParseOptions(options))
	if err != nil {
		return err
	}
	pterm.Success.Printfln("Bet created with id %s", id)
	return nil
}

func placeStake(ctx context.Context, n *node.Node) error {
	b, err := selectBet(openBets(n.Bets(), ""), "Select the bet")
	if err != nil {
		return err
	}
	var option string
	if s, ok := b.Participants[n.Name()]; ok {
		pterm.Info.Printfln("You already staked on %s, the stake will be added to it", s.Option)
		option = s.Option
	} else {
		option, _ = pterm.DefaultInteractiveSelect.WithDefaultText("Select your option").WithOptions(b.Options).Show()
	}
	typed, _ := pterm.DefaultInteractiveTextInput.WithDefaultText(fmt.Sprintf("Enter the amount (balance %d)", n.Balance())).Show()
	amount, err := strconv.ParseInt(strings.TrimSpace(typed), 10, 64)
	if err != nil {
		return fmt.Errorf("invalid amount %q", typed)
	}
	if err := n.PublishStake(ctx, b.ID, option, amount); err != nil {
		return err
	}
	pterm.Success.Printfln("Staked %d on %s, balance %d", amount, option, n.Balance())
	return nil
}

func resolveBet(ctx context.Context, n *node.Node) error {
	b, err := selectBet(openBets(n.Bets(), n.Name()), "Select the bet to resolve")
	if err != nil {
		return err
	}
	winner, _ := pterm.DefaultInteractiveSelect.WithDefaultText("Select the winning option").WithOptions(b.Options).Show()
	if err := n.PublishResolve(ctx, b.ID, winner); err != nil {
		return err
	}
	pterm.Success.Printfln("Bet %q resolved, %s wins", b.Description, winner)
	return nil
}

// openBets returns the open bets, restricted to the ones created by creator
// when it is not empty.
func openBets(bets []bet.Bet, creator string) []bet.Bet {
	var open []bet.Bet
	for _, b := range bets {
		if b.IsOpen() && (creator == "" || b.Creator == creator) {
			open = append(open, b)
		}
	}
	return open
}

func selectBet(bets []bet.Bet, prompt string) (bet.Bet, error) {
	if len(bets) == 0 {
		return bet.Bet{}, errNoBets
	}
	labels := make([]string, len(bets))
	byLabel := make(map[string]bet.Bet, len(bets))
	for i, b := range bets {
		labels[i] = betLabel(b)
		byLabel[labels[i]] = b
	}
	selected, err := pterm.DefaultInteractiveSelect.WithDefaultText(prompt).WithOptions(labels).Show()
	if err != nil {
		return bet.Bet{}, err
	}
	return byLabel[selected], nil
}

func connectManually(ctx context.Context, peer *network.Peer, local *net.TCPAddr) error {
	typed, _ := pterm.DefaultInteractiveTextInput.WithDefaultText("Enter the address in ipaddr:port format").Show()
	address, err := resolvePeerAddress(local, strings.TrimSpace(typed))
	if err != nil {
		return fmt.Errorf("invalid address %q: %w", typed, err)
	}
	spinner, _ := pterm.DefaultSpinner.Start("Connecting to " + address + " ...")
	dialCtx, cancel := context.WithTimeout(ctx, dialTimeout)
	defer cancel()
	if err := peer.Dial(dialCtx, address); err != nil {
		spinner.Fail()
		return err
	}
	spinner.Success()
	return nil
}
