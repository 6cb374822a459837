package history

import (
	"errors"
	"fmt"

	. "cotree/internal/utils"
)

var (
	ErrDuplicate = errors.New("entry already known")
	ErrRejected  = errors.New("entry rejected")
)

// Log is an append-only, content addressed sequence of entries.
// It is not safe for concurrent use.
type Log struct {
	entries    []Entry
	hashes     []string
	index      map[string]int // hash -> position
	referenced Set            // hashes named as a predecessor by some entry
}

func NewLog() *Log {
	return &Log{index: make(map[string]int), referenced: make(Set)}
}

// Append adds e unless an entry with the same hash is present.
func (l *Log) Append(e Entry) (hash string, added bool) {
	hash = e.Hash()
	if _, found := l.index[hash]; found { return hash, false }

	l.index[hash] = len(l.entries)
	l.entries = append(l.entries, e)
	l.hashes = append(l.hashes, hash)
	for _, predecessor := range e.Predecessors {
		l.referenced.Add(predecessor)
	}
	return hash, true
}

func (l *Log) Contains(hash string) bool {
	_, found := l.index[hash]
	return found
}

func (l *Log) Len() int { return len(l.entries) }

func (l *Log) Get(hash string) (Entry, bool) {
	i, found := l.index[hash]
	if !found { return Entry{}, false }
	return l.entries[i], true
}

func (l *Log) Hashes() []string {
	return append([]string(nil), l.hashes...)
}

// Heads are the entries no other entry depends on yet, in log order.
// A new local entry names them as its predecessors.
func (l *Log) Heads() []string {
	heads := []string{}
	for _, hash := range l.hashes {
		if !l.referenced.Contains(hash) { heads = append(heads, hash) }
	}
	return heads
}

// Missing lists the predecessors of e that are not in the log.
func (l *Log) Missing(e Entry) []string {
	var missing []string
	for _, predecessor := range e.Predecessors {
		if !l.Contains(predecessor) { missing = append(missing, predecessor) }
	}
	return missing
}

// Causal is a log that only accepts an entry after all of its predecessors.
// Early entries wait in a pending set and are released in dependency order.
// An entry that fails to apply is rejected together with everything waiting on it.
type Causal struct {
	*Log
	pending  map[string]Entry    // hash -> entry waiting for predecessors
	waiting  map[string][]string // missing predecessor -> hashes of pending entries
	rejected Set
}

func NewCausal() *Causal {
	return &Causal{
		Log:      NewLog(),
		pending:  make(map[string]Entry),
		waiting:  make(map[string][]string),
		rejected: make(Set),
	}
}

func (c *Causal) Pending() int { return len(c.pending) }

func (c *Causal) IsPending(hash string) bool {
	_, found := c.pending[hash]
	return found
}

// Admit offers e to the log. It returns every entry that became part of the
// log as a result, in an order consistent with the causal order.
func (c *Causal) Admit(e Entry) ([]Entry, error) { return c.AdmitWith(e, nil) }

// AdmitWith is Admit with apply run on each entry as it becomes ready. Only
// entries that apply join the log, a failing one is rejected and the first
// failure is returned next to the entries that did apply.
func (c *Causal) AdmitWith(e Entry, apply func(Entry) error) ([]Entry, error) {
	hash := e.Hash()
	if c.Contains(hash) || c.IsPending(hash) {
		return nil, fmt.Errorf("%w: %s", ErrDuplicate, Short(hash))
	}
	if c.rejected.Contains(hash) { return nil, fmt.Errorf("%w: %s", ErrRejected, Short(hash)) }
	for _, predecessor := range e.Predecessors {
		if c.rejected.Contains(predecessor) {
			c.Reject(hash)
			return nil, fmt.Errorf("%w: %s after %s", ErrRejected, Short(hash), Short(predecessor))
		}
	}

	missing := c.Missing(e)
	if len(missing) > 0 {
		c.pending[hash] = e
		for _, predecessor := range missing {
			c.waiting[predecessor] = append(c.waiting[predecessor], hash)
		}
		return nil, nil
	}

	var failure error
	accept := func(hash string, entry Entry) bool {
		if apply != nil {
			if err := apply(entry); err != nil {
				if failure == nil { failure = err }
				c.Reject(hash)
				return false
			}
		}
		c.Append(entry)
		return true
	}

	if !accept(hash, e) { return nil, failure }
	ready := []Entry{e}
	queue := []string{hash}
	for len(queue) > 0 {
		arrived := queue[0]
		queue = queue[1:]
		candidates := c.waiting[arrived]
		delete(c.waiting, arrived)
		for _, candidate := range candidates {
			entry, found := c.pending[candidate]
			if !found || len(c.Missing(entry)) > 0 { continue }
			delete(c.pending, candidate)
			if !accept(candidate, entry) { continue }
			ready = append(ready, entry)
			queue = append(queue, candidate)
		}
	}
	return ready, failure
}

// Reject refuses hash for good. Pending entries that depend on it are dropped
// and returned, and Admit refuses any later entry naming one of them.
func (c *Causal) Reject(hash string) []Entry {
	c.rejected.Add(hash)
	var dropped []Entry
	queue := []string{hash}
	for len(queue) > 0 {
		gone := queue[0]
		queue = queue[1:]
		candidates := c.waiting[gone]
		delete(c.waiting, gone)
		for _, candidate := range candidates {
			entry, found := c.pending[candidate]
			if !found { continue }
			c.forget(candidate, entry)
			c.rejected.Add(candidate)
			dropped = append(dropped, entry)
			queue = append(queue, candidate)
		}
	}
	return dropped
}

// forget removes a pending entry and its place in the waiting lists.
func (c *Causal) forget(hash string, e Entry) {
	delete(c.pending, hash)
	for _, predecessor := range c.Missing(e) {
		waiters, found := c.waiting[predecessor]
		if !found { continue }
		if waiters = FindAndRemove(waiters, hash); len(waiters) == 0 {
			delete(c.waiting, predecessor)
		} else {
			c.waiting[predecessor] = waiters
		}
	}
}
