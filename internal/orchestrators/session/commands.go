// Package session holds the input parsing and response building shared by
// the solo traversal engine and the party coordinator.
package session

import (
	"strconv"
	"strings"

	"github.com/KirkDiggler/rpg-narrative/internal/entities"
)

// Command is a reserved word a player may type instead of a choice number
type Command string

// Reserved commands
const (
	CommandHelp      Command = "help"
	CommandStatus    Command = "status"
	CommandInventory Command = "inventory"
	CommandExit      Command = "exit"
)

// ParseCommand matches input against the reserved commands, ignoring case
// and surrounding whitespace.
func ParseCommand(input string) (Command, bool) {
	switch cmd := Command(strings.ToLower(strings.TrimSpace(input))); cmd {
	case CommandHelp, CommandStatus, CommandInventory, CommandExit:
		return cmd, true
	default:
		return "", false
	}
}

// ParseChoice turns a 1-based choice number into an index into a list of
// count choices. Non-numeric input yields ErrorKeyInvalidInput; numbers out
// of range yield ErrorKeyInvalidChoice.
func ParseChoice(input string, count int) (int, entities.ErrorKey) {
	n, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil {
		return 0, entities.ErrorKeyInvalidInput
	}
	if n < 1 || n > count {
		return 0, entities.ErrorKeyInvalidChoice
	}
	return n - 1, entities.ErrorKeyNone
}
