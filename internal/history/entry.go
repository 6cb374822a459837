package history

import (
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/sha3"
)

// Entry is one immutable, causally linked mutation of the document.
type Entry struct {
	Predecessors []string  `json:"predecessors"` // hashes this entry depends on
	Author       string    `json:"author"`       // peer that created it
	Operation    Operation `json:"operation"`
}

// Hash is the permanent identifier of the entry: SHA3-512 over the predecessors,
// then the author, then the encoded operation, as lowercase hex.
func (e Entry) Hash() string {
	h := sha3.New512()
	for _, predecessor := range e.Predecessors {
		h.Write([]byte(predecessor))
	}
	h.Write([]byte(e.Author))

	op, err := e.Operation.Encode()
	if err != nil {
		// unencodable operations still get a stable identity
		op = []byte(e.Operation.String())
	}
	h.Write(op)
	return hex.EncodeToString(h.Sum(nil))
}

// Check rejects an entry that cannot cross the wire with its hash intact.
func (e Entry) Check() error {
	if err := validText(e.Author); err != nil { return err }
	if err := validText(e.Predecessors...); err != nil { return err }
	return e.Operation.Check()
}

// Short is a log friendly prefix of the hash.
func Short(hash string) string {
	if len(hash) > 12 { return hash[:12] }
	return hash
}

func (e Entry) String() string {
	return fmt.Sprintf("%s by %s after %d", e.Operation, e.Author, len(e.Predecessors))
}
