package ui

import (
	. "cotree/internal/command"

	"github.com/gdamore/tcell"
)

// KeyToCommand decodes one key press. Keys without a meaning report false.
func KeyToCommand(ev *tcell.EventKey) (Command, bool) {
	switch ev.Key() {
	case tcell.KeyLeft:
		return NavigateLeft, true
	case tcell.KeyRight:
		return NavigateRight, true
	case tcell.KeyUp:
		return NavigateUp, true
	case tcell.KeyDown:
		return NavigateDown, true
	case tcell.KeyInsert:
		return InsertSiblingAfter, true
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return DeleteBackward, true
	case tcell.KeyDelete:
		return DeleteForward, true
	case tcell.KeyCtrlY:
		return CopyExpression, true
	case tcell.KeyCtrlC, tcell.KeyCtrlQ:
		return Quit, true
	case tcell.KeyRune:
		r := ev.Rune()
		if r >= '0' && r <= '9' { return Digit(int(r - '0')), true }
		if r == ' ' { return InsertSiblingBefore, true }
		if r == '+' { return Wrap, true }
	}
	return "", false
}
