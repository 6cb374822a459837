package wire

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// HeaderSize is the length prefix, an unsigned big-endian 64 bit integer.
const HeaderSize = 8

var (
	ErrFrameTooSmall = errors.New("frame too small")
	ErrFrameTooLarge = errors.New("frame too large")
)

func WriteFrame(w io.Writer, payload []byte) error {
	if len(payload) == 0 { return ErrFrameTooSmall }
	buf := make([]byte, HeaderSize+len(payload))
	binary.BigEndian.PutUint64(buf, uint64(len(payload)))
	copy(buf[HeaderSize:], payload)
	_, err := w.Write(buf)
	return err
}

// ReadFrame reads one length prefixed payload. A clean close before the header
// is io.EOF, a close anywhere later is io.ErrUnexpectedEOF.
func ReadFrame(r io.Reader, max int) ([]byte, error) {
	var header [HeaderSize]byte
	if _, err := io.ReadFull(r, header[:]); err != nil { return nil, err }

	length := binary.BigEndian.Uint64(header[:])
	if length == 0 { return nil, ErrFrameTooSmall }
	if max > 0 && length > uint64(max) {
		return nil, fmt.Errorf("%w: %d bytes, limit %d", ErrFrameTooLarge, length, max)
	}

	payload := make([]byte, length)
	_, err := io.ReadFull(r, payload)
	if err == io.EOF { err = io.ErrUnexpectedEOF }
	if err != nil { return nil, err }
	return payload, nil
}
