package editor

import (
	"context"
	"errors"

	"cotree/internal/client"
	. "cotree/internal/command"
	"cotree/internal/document"
	"cotree/internal/history"
	. "cotree/internal/logger"
	"cotree/internal/selection"
)

var ErrAlreadyInitialized = errors.New("document already initialized")

// Link is the editor's view of the relay connection.
type Link interface {
	Send(entries ...history.Entry) error
	Incoming() <-chan history.Entry
	Errors() <-chan error
}

type Editor struct {
	Replica   *client.Replica     // local document and history
	Selection selection.Selection // cursors
	Status    string              // one line message for the user, cleared by the next command
	Link      Link                // relay connection

	Clipboard func(text string) error // defaults to the system clipboard
}

func NewEditor(replica *client.Replica, link Link) *Editor {
	return &Editor{Replica: replica, Selection: selection.Selection{}, Link: link, Clipboard: writeClipboard}
}

func (e *Editor) Tree() *document.Tree { return e.Replica.Tree() }

// Fragments is what the screen draws for the current state.
func (e *Editor) Fragments() []selection.Fragment { return selection.Render(e.Tree(), e.Selection) }

// Handle services one command and reports whether the user asked to quit.
func (e *Editor) Handle(cmd Command) bool {
	e.Status = ""
	if cmd == Quit { return true }

	if !e.Replica.Initialized() {
		e.Status = "waiting for the document"
		return false
	}

	if cmd.IsNavigation() { e.navigate(cmd); return false }
	if d, ok := cmd.AsDigit(); ok { e.OnDigit(d); return false }

	switch cmd {
	case InsertSiblingBefore:
		e.OnInsertSibling(false)
	case InsertSiblingAfter:
		e.OnInsertSibling(true)
	case Wrap:
		e.OnWrap()
	case DeleteBackward:
		e.OnBackspace()
	case DeleteForward:
		e.OnDelete()
	case CopyExpression:
		e.OnCopy()
	default:
		Log.Errorf("unknown command %q", cmd)
	}
	return false
}

// navigate moves the selection without touching the document.
func (e *Editor) navigate(cmd Command) {
	switch cmd {
	case NavigateLeft:
		e.OnLeft()
	case NavigateRight:
		e.OnRight()
	case NavigateUp:
		e.OnUp()
	case NavigateDown:
		e.OnDown()
	}
}

// Receive applies one entry from the relay.
func (e *Editor) Receive(entry history.Entry) {
	applied, err := e.Replica.Remote(entry)
	for _, a := range applied {
		Log.Infof("applied %s from %s", a.Operation, a.Author)
	}
	if err != nil {
		Log.Error(err.Error())
		e.Status = err.Error()
	}
	if len(applied) == 0 && e.Replica.Pending() > 0 {
		Log.Infof("holding %s, %d waiting for predecessors", history.Short(entry.Hash()), e.Replica.Pending())
	}
	e.Selection = selection.Prune(e.Tree(), e.Selection)
}

// Initialize creates the document with a single number.
func (e *Editor) Initialize(value int64) error {
	if e.Replica.Initialized() { return ErrAlreadyInitialized }
	root := document.NewInteger(document.NewID(), e.Replica.Peer(), value)
	if err := e.commit(selection.Edit{Ops: []history.Operation{history.NewInitialize(root)}}); err != nil { return err }
	e.Selection = selection.New(root.ID)
	return nil
}

// commit applies every operation of the edit locally before sending any of them.
func (e *Editor) commit(edit selection.Edit) error {
	entries, err := e.Replica.Local(edit.Ops)
	if len(entries) > 0 {
		if sendErr := e.Link.Send(entries...); sendErr != nil {
			Log.Error(sendErr.Error())
			e.Status = sendErr.Error()
		}
	}
	if err != nil {
		Log.Error(err.Error())
		e.Status = err.Error()
		e.Selection = selection.Prune(e.Tree(), e.Selection)
		return err
	}

	if edit.Status != "" { e.Status = edit.Status }
	e.Selection = selection.Prune(e.Tree(), edit.Selection)
	return nil
}

// Run is the client loop. It waits for a command or a remote entry, services
// exactly one, redraws and repeats until the user quits or ctx ends.
func (e *Editor) Run(ctx context.Context, events <-chan Command, draw func()) error {
	incoming := e.Link.Incoming()
	failures := e.Link.Errors()

	e.Selection = selection.Prune(e.Tree(), e.Selection)
	draw()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case cmd, ok := <-events:
			if !ok { return nil }
			if e.Handle(cmd) { return nil }

		case entry, ok := <-incoming:
			if !ok {
				incoming = nil
				e.Status = "disconnected from the relay"
				break
			}
			e.Receive(entry)

		case err := <-failures:
			failures = nil
			e.Status = "relay: " + err.Error()
		}
		draw()
	}
}
