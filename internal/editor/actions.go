package editor

import (
	"github.com/atotto/clipboard"

	. "cotree/internal/selection"
)

func writeClipboard(text string) error { return clipboard.WriteAll(text) }

func (e *Editor) OnLeft()  { e.Selection = Left(e.Tree(), e.Selection) }
func (e *Editor) OnRight() { e.Selection = Right(e.Tree(), e.Selection) }
func (e *Editor) OnUp()    { e.Selection = Up(e.Tree(), e.Selection) }
func (e *Editor) OnDown()  { e.Selection = Down(e.Tree(), e.Selection) }

func (e *Editor) OnDigit(d int) { e.commit(InsertDigit(e.Tree(), e.Selection, d)) }
func (e *Editor) OnBackspace()  { e.commit(DeleteBackward(e.Tree(), e.Selection)) }
func (e *Editor) OnDelete()     { e.commit(DeleteForward(e.Tree(), e.Selection)) }
func (e *Editor) OnWrap()       { e.commit(Wrap(e.Tree(), e.Selection)) }

func (e *Editor) OnInsertSibling(after bool) {
	e.commit(InsertSibling(e.Tree(), e.Selection, after, e.Replica.Peer()))
}

// OnCopy puts the whole expression on the clipboard.
func (e *Editor) OnCopy() {
	expression := e.Tree().String()
	if err := e.Clipboard(expression); err != nil {
		e.Status = "copy failed: " + err.Error()
		return
	}
	e.Status = "copied " + expression
}
