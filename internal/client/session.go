package client

import (
	"context"
	"fmt"
	"io"
	"net"

	"cotree/internal/history"
	. "cotree/internal/logger"
	"cotree/internal/wire"

	"golang.org/x/sync/errgroup"
)

// Session is the connection to the relay. A writer drains the outgoing queue
// and a reader feeds Incoming; both stop when the session is closed or fails.
type Session struct {
	conn     *wire.Conn
	outgoing chan history.Entry
	incoming chan history.Entry
	errs     chan error
	cancel   context.CancelFunc
	group    *errgroup.Group
	ctx      context.Context
}

func Dial(ctx context.Context, addr string, maxFrame int) (*Session, error) {
	var dialer net.Dialer
	netConn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil { return nil, fmt.Errorf("dial relay %s: %w", addr, err) }
	return NewSession(ctx, netConn, maxFrame), nil
}

func NewSession(ctx context.Context, netConn net.Conn, maxFrame int) *Session {
	ctx, cancel := context.WithCancel(ctx)
	group, ctx := errgroup.WithContext(ctx)
	s := &Session{
		conn:     wire.NewConn(netConn, maxFrame),
		outgoing: make(chan history.Entry, 256),
		incoming: make(chan history.Entry, 256),
		errs:     make(chan error, 1),
		cancel:   cancel,
		group:    group,
		ctx:      ctx,
	}

	group.Go(s.write)
	group.Go(s.read)
	group.Go(func() error {
		<-ctx.Done()
		return s.conn.Close()
	})
	return s
}

func (s *Session) write() error {
	for {
		select {
		case entry := <-s.outgoing:
			if err := s.conn.Send(entry); err != nil { return s.fail(fmt.Errorf("send: %w", err)) }
			Log.Infof("sent %s", entry)
		case <-s.ctx.Done():
			return nil
		}
	}
}

func (s *Session) read() error {
	defer close(s.incoming)
	for {
		entry, _, err := s.conn.Receive()
		if err != nil {
			if s.ctx.Err() != nil { return nil }
			if err == io.EOF { err = io.ErrUnexpectedEOF }
			return s.fail(fmt.Errorf("receive: %w", err))
		}
		Log.Infof("received %s", entry)

		select {
		case s.incoming <- entry:
		case <-s.ctx.Done():
			return nil
		}
	}
}

func (s *Session) fail(err error) error {
	select {
	case s.errs <- err:
	default:
	}
	Log.Error(err.Error())
	return err
}

// Send queues entries for the relay in order.
func (s *Session) Send(entries ...history.Entry) error {
	for _, entry := range entries {
		if s.ctx.Err() != nil { return fmt.Errorf("session closed: %w", s.ctx.Err()) }
		select {
		case s.outgoing <- entry:
		case <-s.ctx.Done():
			return fmt.Errorf("session closed: %w", s.ctx.Err())
		}
	}
	return nil
}

// Incoming is closed once the session stops reading.
func (s *Session) Incoming() <-chan history.Entry { return s.incoming }

// Errors yields the first failure of the connection.
func (s *Session) Errors() <-chan error { return s.errs }

func (s *Session) Close() error {
	s.cancel()
	err := s.group.Wait()
	if err == context.Canceled { return nil }
	return err
}
