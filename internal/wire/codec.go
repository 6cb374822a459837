package wire

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"cotree/internal/history"

	"github.com/goccy/go-json"
)

var ErrMalformed = errors.New("malformed entry")

func Encode(entry history.Entry) ([]byte, error) {
	if err := entry.Check(); err != nil { return nil, err }
	return json.Marshal(entry)
}

// Decode rejects payloads that are not valid UTF-8 or not an entry with a well
// formed operation.
func Decode(payload []byte) (history.Entry, error) {
	if !utf8.Valid(payload) { return history.Entry{}, fmt.Errorf("%w: invalid UTF-8", ErrMalformed) }
	var entry history.Entry
	if err := json.Unmarshal(payload, &entry); err != nil {
		return history.Entry{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if err := entry.Check(); err != nil {
		return history.Entry{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return entry, nil
}
