package client

import (
	"errors"

	"cotree/internal/document"
	"cotree/internal/history"
	"cotree/internal/replay"
)

// Replica is one peer's copy of the document and of the history that built it.
// It belongs to a single goroutine.
type Replica struct {
	peer string
	tree *document.Tree
	log  *history.Causal
}

func NewReplica(peer string) *Replica {
	if peer == "" { peer = document.NewID() }
	return &Replica{peer: peer, tree: document.NewTree(), log: history.NewCausal()}
}

func (r *Replica) Peer() string             { return r.peer }
func (r *Replica) Tree() *document.Tree     { return r.tree }
func (r *Replica) Initialized() bool        { return !r.tree.IsEmpty() }
func (r *Replica) History() *history.Causal { return r.log }

// Local turns a batch of operations into entries, each one following the
// previous, and applies them. On failure it returns the entries applied so far.
func (r *Replica) Local(ops []history.Operation) ([]history.Entry, error) {
	var entries []history.Entry
	heads := r.log.Heads()
	for _, op := range ops {
		entry := history.Entry{Predecessors: heads, Author: r.peer, Operation: op}
		hash := entry.Hash()

		_, err := r.log.AdmitWith(entry, r.apply)
		if r.log.Contains(hash) { entries = append(entries, entry) }
		if err != nil { return entries, err }

		heads = []string{hash}
	}
	return entries, nil
}

// Remote takes an entry from the relay. It is applied once its predecessors
// are, together with any buffered entries it unblocks. Known entries are ignored.
// An entry that fails to apply is reported and never becomes part of the history.
func (r *Replica) Remote(entry history.Entry) ([]history.Entry, error) {
	applied, err := r.log.AdmitWith(entry, r.apply)
	if errors.Is(err, history.ErrDuplicate) { return nil, nil }
	return applied, err
}

func (r *Replica) apply(entry history.Entry) error { return replay.Apply(r.tree, entry) }

// Pending counts remote entries still waiting for predecessors.
func (r *Replica) Pending() int { return r.log.Pending() }
