package replay

import (
	"errors"
	"fmt"

	"cotree/internal/document"
	"cotree/internal/history"
)

type ErrorKind int

const (
	DoubleInitialize ErrorKind = iota
	NotInitialized
	TargetMissing
	WrongKind
	IndexOutOfRange
	DeleteRoot
	DuplicateID
	Malformed
)

func (k ErrorKind) String() string {
	switch k {
	case DoubleInitialize:
		return "double initialization"
	case NotInitialized:
		return "not initialized"
	case TargetMissing:
		return "target missing"
	case WrongKind:
		return "wrong node kind"
	case IndexOutOfRange:
		return "index out of range"
	case DeleteRoot:
		return "delete of the root"
	case DuplicateID:
		return "duplicate id"
	case Malformed:
		return "malformed operation"
	}
	return fmt.Sprintf("replay error %d", int(k))
}

// ReplayError is an entry whose preconditions do not hold on the tree.
// The tree is left as it was before the entry.
type ReplayError struct {
	Kind  ErrorKind
	Entry history.Entry
	Err   error
}

func (e *ReplayError) Error() string {
	return fmt.Sprintf("cannot apply %s (%s): %s: %v", e.Entry.Operation, history.Short(e.Entry.Hash()), e.Kind, e.Err)
}

func (e *ReplayError) Unwrap() error { return e.Err }

func classify(err error) ErrorKind {
	switch {
	case errors.Is(err, document.ErrAlreadyInitialized):
		return DoubleInitialize
	case errors.Is(err, document.ErrNotFound):
		return TargetMissing
	case errors.Is(err, document.ErrNotList), errors.Is(err, document.ErrNotInteger):
		return WrongKind
	case errors.Is(err, document.ErrIndexOutOfRange):
		return IndexOutOfRange
	case errors.Is(err, document.ErrRoot):
		return DeleteRoot
	case errors.Is(err, document.ErrDuplicateID):
		return DuplicateID
	}
	return Malformed
}

// Apply mutates tree by one entry. Nodes it touches record entry.Author as their last editor.
func Apply(tree *document.Tree, entry history.Entry) error {
	op := entry.Operation
	if err := entry.Check(); err != nil { return &ReplayError{Kind: Malformed, Entry: entry, Err: err} }
	if op.Kind != history.Initialize && tree.IsEmpty() {
		return &ReplayError{Kind: NotInitialized, Entry: entry, Err: document.ErrNotFound}
	}

	var err error
	switch op.Kind {
	case history.Initialize:
		err = tree.SetRoot(*op.Node)
	case history.SetInteger:
		err = tree.SetInteger(op.Target, op.Value, entry.Author)
	case history.InsertAtIndex:
		err = tree.Insert(op.Parent, op.Index, *op.Node, entry.Author)
	case history.Delete:
		err = tree.Remove(op.Target, entry.Author)
	case history.WrapInAdd:
		err = tree.Wrap(op.Target, op.Wrapper, entry.Author)
	}
	if err != nil { return &ReplayError{Kind: classify(err), Entry: entry, Err: err} }
	return nil
}

// ApplyAll applies entries in order and stops at the first failure.
func ApplyAll(tree *document.Tree, entries []history.Entry) (int, error) {
	for i, entry := range entries {
		if err := Apply(tree, entry); err != nil { return i, err }
	}
	return len(entries), nil
}

// Replay folds entries onto a fresh tree.
func Replay(entries []history.Entry) (*document.Tree, error) {
	tree := document.NewTree()
	_, err := ApplyAll(tree, entries)
	return tree, err
}

// KindOf extracts the replay error kind, ok is false for other errors.
func KindOf(err error) (kind ErrorKind, ok bool) {
	var replayErr *ReplayError
	if !errors.As(err, &replayErr) { return 0, false }
	return replayErr.Kind, true
}
