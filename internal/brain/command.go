// Package brain routes operator and pipeline commands to their handlers. It
// is the single sink for every command source: the alpha drain loop, the
// command file watcher, and the Telegram front end.
package brain

import (
	"strconv"
	"strings"
)

// Action is the routed command kind.
type Action string

const (
	Buy       Action = "BUY"
	Sell      Action = "SELL"
	Status    Action = "STATUS"
	Rebalance Action = "REBALANCE"
	Unknown   Action = "UNKNOWN"
)

// Command is the one shape every input is parsed into before dispatch.
// Token and Amount are optional depending on the action.
type Command struct {
	Action Action
	Token  string
	Amount *float64
}

// Parse turns free operator text into a Command. Grammar, case-insensitive,
// whitespace-delimited:
//
//	buy <TOKEN> [<AMOUNT>]
//	sell <TOKEN> [<AMOUNT>]
//	status
//	rebalance
//
// The first word selects the action; anything unrecognized is UNKNOWN.
func Parse(text string) Command {
	fields := strings.Fields(strings.TrimSpace(text))
	if len(fields) == 0 {
		return Command{Action: Unknown}
	}

	var cmd Command
	switch strings.ToLower(fields[0]) {
	case "buy":
		cmd.Action = Buy
	case "sell":
		cmd.Action = Sell
	case "status":
		return Command{Action: Status}
	case "rebalance":
		return Command{Action: Rebalance}
	default:
		return Command{Action: Unknown}
	}

	if len(fields) > 1 {
		cmd.Token = strings.ToUpper(fields[1])
	}
	if len(fields) > 2 {
		if amt, err := strconv.ParseFloat(fields[2], 64); err == nil {
			cmd.Amount = &amt
		}
	}
	return cmd
}
