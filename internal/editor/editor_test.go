package editor

import (
	"context"
	"errors"
	"testing"
	"time"

	"cotree/internal/client"
	"cotree/internal/command"
	"cotree/internal/document"
	"cotree/internal/history"
	"cotree/internal/selection"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLink struct {
	sent     []history.Entry
	incoming chan history.Entry
	errs     chan error
}

func newFakeLink() *fakeLink {
	return &fakeLink{incoming: make(chan history.Entry, 16), errs: make(chan error, 1)}
}

func (f *fakeLink) Send(entries ...history.Entry) error {
	f.sent = append(f.sent, entries...)
	return nil
}
func (f *fakeLink) Incoming() <-chan history.Entry { return f.incoming }
func (f *fakeLink) Errors() <-chan error           { return f.errs }

func newTestEditor(t *testing.T) (*Editor, *fakeLink) {
	link := newFakeLink()
	e := NewEditor(client.NewReplica("alice"), link)
	e.Clipboard = func(string) error { return nil }
	require.NoError(t, e.Initialize(42))
	return e, link
}

func TestInitialize(t *testing.T) {
	e, link := newTestEditor(t)
	require.Len(t, link.sent, 1)
	assert.Equal(t, history.Initialize, link.sent[0].Operation.Kind)
	assert.Equal(t, "42", e.Tree().String())
	assert.True(t, e.Selection.IsSelected(e.Tree().Root().ID))
	assert.ErrorIs(t, e.Initialize(1), ErrAlreadyInitialized)
}

func TestTypingDigitsSendsEntries(t *testing.T) {
	e, link := newTestEditor(t)

	e.Handle(command.NavigateDown)
	e.Handle(command.NavigateRight)
	e.Handle(command.NavigateRight)
	assert.False(t, e.Handle(command.Digit(7)))

	assert.Equal(t, "427", e.Tree().String())
	require.Len(t, link.sent, 2)
	assert.Equal(t, []string{link.sent[0].Hash()}, link.sent[1].Predecessors)
	assert.Equal(t, "alice", link.sent[1].Author)
}

func TestWrapAndInsert(t *testing.T) {
	e, link := newTestEditor(t)

	e.Handle(command.Wrap)
	e.Handle(command.InsertSiblingAfter)
	e.Handle(command.Digit(3))
	assert.Equal(t, "press down to edit the number", e.Status)
	e.Handle(command.NavigateDown)
	e.Handle(command.NavigateRight)
	e.Handle(command.Digit(3))

	assert.Equal(t, "(+ 42 13)", e.Tree().String())
	assert.Len(t, link.sent, 4)

	e.Handle(command.NavigateUp)
	e.Handle(command.NavigateUp)
	e.Handle(command.Wrap)
	assert.Equal(t, "can't wrap + into +", e.Status)
	assert.Len(t, link.sent, 4, "no-ops send nothing")
}

func TestBackspaceDeletesAndSelectsParent(t *testing.T) {
	e, _ := newTestEditor(t)
	e.Handle(command.Wrap)
	e.Handle(command.InsertSiblingBefore)
	e.Handle(command.DeleteBackward)

	root := e.Tree().Root()
	assert.Equal(t, "(+ 42)", e.Tree().String())
	assert.Equal(t, selection.New(root.ID), e.Selection)
}

func TestCommandsBeforeInitialize(t *testing.T) {
	link := newFakeLink()
	e := NewEditor(client.NewReplica("bob"), link)
	assert.False(t, e.Handle(command.Wrap))
	assert.Equal(t, "waiting for the document", e.Status)
	assert.True(t, e.Handle(command.Quit))
	assert.Empty(t, link.sent)
}

func TestCopyExpression(t *testing.T) {
	e, _ := newTestEditor(t)
	var copied string
	e.Clipboard = func(text string) error { copied = text; return nil }

	e.Handle(command.CopyExpression)
	assert.Equal(t, "42", copied)
	assert.Equal(t, "copied 42", e.Status)

	e.Clipboard = func(string) error { return errors.New("no clipboard") }
	e.Handle(command.CopyExpression)
	assert.Equal(t, "copy failed: no clipboard", e.Status)
}

func TestReceiveSurfacesReplayErrors(t *testing.T) {
	e, _ := newTestEditor(t)
	root := e.Tree().Root().ID
	bad := history.Entry{Predecessors: e.Replica.History().Heads(), Author: "bob", Operation: history.NewDelete(root)}

	e.Receive(bad)
	assert.Contains(t, e.Status, "delete of the root")
	assert.Equal(t, "42", e.Tree().String())
}

func TestRunServicesCommandsAndRemoteEntries(t *testing.T) {
	link := newFakeLink()
	e := NewEditor(client.NewReplica("bob"), link)
	e.Clipboard = func(string) error { return nil }

	author := client.NewReplica("alice")
	entries, err := author.Local([]history.Operation{
		history.NewInitialize(document.NewInteger("A", "alice", 42)),
		history.NewSetInteger("A", 43),
	})
	require.NoError(t, err)
	link.incoming <- entries[1]
	link.incoming <- entries[0]

	events := make(chan command.Command)
	draws := make(chan string, 64)
	done := make(chan error, 1)
	go func() {
		done <- e.Run(context.Background(), events, func() { draws <- selection.Plain(e.Fragments()) })
	}()

	require.Eventually(t, func() bool {
		for {
			select {
			case frame := <-draws:
				if frame == "43" { return true }
			default:
				return false
			}
		}
	}, 2*time.Second, 10*time.Millisecond)

	events <- command.Quit
	require.NoError(t, <-done)
	assert.Equal(t, "43", author.Tree().String())
	assert.True(t, e.Tree().Equal(author.Tree()))
}

func TestRunStopsWithContext(t *testing.T) {
	e, _ := newTestEditor(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, e.Run(ctx, make(chan command.Command), func() {}), context.Canceled)
}
