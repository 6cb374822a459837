package relay

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"sync/atomic"

	"cotree/internal/config"
	"cotree/internal/history"
	"cotree/internal/logger"
	"cotree/internal/wire"

	"golang.org/x/sync/errgroup"
)

var (
	ErrSecondInitialize = errors.New("document already initialized")
	ErrNoPredecessors   = errors.New("entry has no predecessors")
	ErrPeerClosed       = errors.New("peer closed the connection")
)

type Server struct {
	config config.Relay
	log    *Log

	mu      sync.Mutex // guards admission
	causal  *history.Causal
	waiting map[string]Record // pending entries by hash, with their frame and origin

	nextConn atomic.Uint64
	conns    sync.WaitGroup
}

func NewServer(conf config.Relay) *Server {
	return &Server{
		config:  conf,
		log:     NewLog(),
		causal:  history.NewCausal(),
		waiting: make(map[string]Record),
	}
}

func (s *Server) Log() *Log { return s.log }

// Pending is the number of entries held back until their predecessors arrive.
func (s *Server) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.causal.Pending()
}

func (s *Server) ListenAndServe(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.config.Addr)
	if err != nil { return fmt.Errorf("relay listen %s: %w", s.config.Addr, err) }
	return s.Serve(ctx, listener)
}

// Serve accepts connections until ctx is done, then waits for their tasks to stop.
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	logger.Log.Infof("relay listening on %s", listener.Addr())
	go func() {
		<-ctx.Done()
		listener.Close()
	}()
	defer s.conns.Wait()

	for {
		conn, err := listener.Accept()
		if err != nil {
			if ctx.Err() != nil { return nil }
			return fmt.Errorf("relay accept: %w", err)
		}
		s.conns.Add(1)
		go func() {
			defer s.conns.Done()
			s.handle(ctx, conn)
		}()
	}
}

func (s *Server) handle(ctx context.Context, netConn net.Conn) {
	id := s.nextConn.Add(1)
	conn := wire.NewConn(netConn, s.config.MaxFrame)
	logger.Log.Infof("conn %d: connected from %s", id, conn.RemoteAddr())

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error { return s.receive(id, conn) })
	group.Go(func() error { return s.send(groupCtx, id, conn) })
	group.Go(func() error {
		<-groupCtx.Done()
		return conn.Close()
	})

	err := group.Wait()
	logger.Log.Infof("conn %d: closed: %v", id, err)
}

// send streams the backlog and then every new record, skipping the connection's own.
func (s *Server) send(ctx context.Context, id uint64, conn *wire.Conn) error {
	notify := s.log.Subscribe(id)
	defer s.log.Unsubscribe(id)

	next := 0
	for {
		records := s.log.Since(next)
		for _, record := range records {
			if record.Origin == id { continue }
			if err := conn.SendRaw(record.Frame); err != nil { return fmt.Errorf("send: %w", err) }
		}
		next += len(records)

		select {
		case <-notify:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (s *Server) receive(id uint64, conn *wire.Conn) error {
	for {
		entry, frame, err := conn.Receive()
		if err == io.EOF || errors.Is(err, net.ErrClosed) { return ErrPeerClosed }
		if err != nil {
			logger.Log.Errorf("conn %d: %v", id, err)
			return fmt.Errorf("receive: %w", err)
		}

		err = s.Submit(entry, frame, id)
		if err != nil { logger.Log.Errorf("conn %d: rejected %s: %v", id, entry, err) }
	}
}

// reject refuses hash for good and drops the held entries that depend on it.
func (s *Server) reject(hash string, err error) error {
	for _, dropped := range s.causal.Reject(hash) {
		droppedHash := dropped.Hash()
		delete(s.waiting, droppedHash)
		logger.Log.Infof("dropped %s after rejected %s", history.Short(droppedHash), history.Short(hash))
	}
	return err
}

// Submit admits an entry from origin. Entries wait until every predecessor is
// in the log, duplicates are dropped. Entries depending on a rejected entry
// are rejected too.
func (s *Server) Submit(entry history.Entry, frame []byte, origin uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	hash := entry.Hash()
	if entry.Operation.Kind == history.Initialize {
		if s.causal.Contains(hash) { return nil }
		if s.causal.Len() > 0 { return s.reject(hash, ErrSecondInitialize) }
	} else if len(entry.Predecessors) == 0 {
		return s.reject(hash, ErrNoPredecessors)
	}

	ready, err := s.causal.Admit(entry)
	if errors.Is(err, history.ErrDuplicate) {
		logger.Log.Infof("conn %d: duplicate %s", origin, history.Short(hash))
		return nil
	}
	if err != nil { return err }

	s.waiting[hash] = Record{Hash: hash, Frame: frame, Origin: origin}
	if len(ready) == 0 { logger.Log.Infof("conn %d: holding %s", origin, history.Short(hash)) }

	for _, e := range ready {
		readyHash := e.Hash()
		record := s.waiting[readyHash]
		delete(s.waiting, readyHash)
		length := s.log.Append(record)
		logger.Log.Infof("conn %d: appended %s as #%d", record.Origin, history.Short(readyHash), length)
	}
	return nil
}
