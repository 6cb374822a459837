package command

import (
	"strconv"

	. "cotree/internal/utils"
)

// Command is one discrete input event, already decoded from the keyboard.
type Command string

const (
	NavigateLeft        Command = "left"
	NavigateRight       Command = "right"
	NavigateUp          Command = "up"
	NavigateDown        Command = "down"
	InsertSiblingBefore Command = "insertbefore"
	InsertSiblingAfter  Command = "insertafter"
	Wrap                Command = "wrap"
	DeleteBackward      Command = "deletebackward"
	DeleteForward       Command = "deleteforward"
	CopyExpression      Command = "copy"
	Quit                Command = "quit"
)

const digitPrefix = "digit"

// Digit is the command for typing n, 0 <= n <= 9.
func Digit(n int) Command { return Command(digitPrefix + strconv.Itoa(n)) }

// AsDigit reports the digit carried by a Digit command.
func (c Command) AsDigit() (int, bool) {
	s := string(c)
	if len(s) != len(digitPrefix)+1 || s[:len(digitPrefix)] != digitPrefix { return 0, false }
	d := s[len(digitPrefix)]
	if d < '0' || d > '9' { return 0, false }
	return int(d - '0'), true
}

var navigation = []Command{NavigateLeft, NavigateRight, NavigateUp, NavigateDown}

// IsNavigation reports commands that only move the selection.
func (c Command) IsNavigation() bool { return Contains(navigation, c) }
