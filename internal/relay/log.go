package relay

import "sync"

// Record is one committed entry. Frame is the encoded entry exactly as it is forwarded.
type Record struct {
	Hash   string
	Frame  []byte
	Origin uint64 // connection that submitted the entry
}

// Log is the global total order. Appends take the writer lock and then poke
// every reader; a reader that sees a notification can always read the new records.
type Log struct {
	mu      sync.RWMutex
	records []Record
	readers map[uint64]chan struct{}
}

func NewLog() *Log {
	return &Log{readers: make(map[uint64]chan struct{})}
}

func (l *Log) Append(r Record) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.records = append(l.records, r)
	for _, notify := range l.readers {
		select {
		case notify <- struct{}{}:
		default: // a wake-up is already queued
		}
	}
	return len(l.records)
}

// Subscribe registers a reader. The channel is signalled after each append.
func (l *Log) Subscribe(reader uint64) <-chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()
	notify := make(chan struct{}, 1)
	l.readers[reader] = notify
	return notify
}

func (l *Log) Unsubscribe(reader uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.readers, reader)
}

func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.records)
}

// Since returns the committed records from position from onwards.
func (l *Log) Since(from int) []Record {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if from >= len(l.records) { return nil }
	return append([]Record(nil), l.records[from:]...)
}

func (l *Log) Hashes() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	hashes := make([]string, len(l.records))
	for i, r := range l.records { hashes[i] = r.Hash }
	return hashes
}
