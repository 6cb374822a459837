package wire

import (
	"bufio"
	"net"
	"sync"

	"cotree/internal/history"
)

const DefaultMaxFrame = 16 << 20

// Conn exchanges framed entries over a stream connection.
// Send may be called concurrently with Receive, but not with itself.
type Conn struct {
	conn      net.Conn
	reader    *bufio.Reader
	maxFrame  int
	closeOnce sync.Once
}

func NewConn(conn net.Conn, maxFrame int) *Conn {
	if maxFrame <= 0 { maxFrame = DefaultMaxFrame }
	return &Conn{conn: conn, reader: bufio.NewReader(conn), maxFrame: maxFrame}
}

func (this *Conn) Send(entry history.Entry) error {
	payload, err := Encode(entry)
	if err != nil { return err }
	return WriteFrame(this.conn, payload)
}

// SendRaw forwards an already encoded entry.
func (this *Conn) SendRaw(payload []byte) error {
	return WriteFrame(this.conn, payload)
}

// Receive returns the next entry along with its encoded form.
func (this *Conn) Receive() (history.Entry, []byte, error) {
	payload, err := ReadFrame(this.reader, this.maxFrame)
	if err != nil { return history.Entry{}, nil, err }
	entry, err := Decode(payload)
	if err != nil { return history.Entry{}, nil, err }
	return entry, payload, nil
}

func (this *Conn) RemoteAddr() string { return this.conn.RemoteAddr().String() }

func (this *Conn) Close() error {
	var err error
	this.closeOnce.Do(func() { err = this.conn.Close() })
	return err
}
