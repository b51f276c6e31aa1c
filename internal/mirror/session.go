package mirror

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/wsmirror/wsmirror/internal/komorebi"
	"github.com/wsmirror/wsmirror/internal/logger"
)

// SessionState is the connection state of the subscription session.
type SessionState int32

const (
	StateConnecting SessionState = iota
	StateListening
	StateDisconnected
)

// String implements fmt.Stringer.
func (s SessionState) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateListening:
		return "listening"
	case StateDisconnected:
		return "disconnected"
	default:
		return "unknown"
	}
}

// Interval between listener deadline checks, which is how often a blocked
// Accept notices cancellation.
const acceptPoll = 250 * time.Millisecond

// SessionConfig carries the injectable knobs of a session. Zero values
// fall back to production defaults.
type SessionConfig struct {
	// SocketDir is the directory the subscriber socket is created in.
	SocketDir string
	// SocketName is the well-known subscriber socket name registered
	// with the daemon.
	SocketName string
	// ConnectRetry is the delay between initial registration attempts.
	ConnectRetry time.Duration
	// Resubscribe is the delay between re-registration attempts after a
	// detected disconnect.
	Resubscribe time.Duration
	// ReadTimeout bounds each read on an accepted connection so a dead
	// peer cannot block the loop forever.
	ReadTimeout time.Duration
	// Buffer is the handoff channel capacity.
	Buffer int
	// Options are forwarded to the daemon on registration.
	Options komorebi.SubscribeOptions
}

func (c SessionConfig) withDefaults() SessionConfig {
	if c.SocketName == "" {
		c.SocketName = komorebi.DefaultSubscriberSocket
	}
	if c.ConnectRetry <= 0 {
		c.ConnectRetry = time.Second
	}
	if c.Resubscribe <= 0 {
		c.Resubscribe = 3 * time.Second
	}
	if c.ReadTimeout <= 0 {
		c.ReadTimeout = time.Second
	}
	if c.Buffer <= 0 {
		c.Buffer = 32
	}
	return c
}

// Session owns the persistent subscription to the daemon's notification
// stream. It registers a subscriber socket, reads notifications off every
// accepted connection, and hands projected snapshots to the consumer.
// All connection-level failures are retried or logged; Run only returns
// when the context is cancelled or the subscriber socket cannot be
// created at all.
type Session struct {
	client  *komorebi.Client
	filter  *Filter
	cfg     SessionConfig
	updates chan Snapshot
	state   atomic.Int32
	log     zerolog.Logger
}

// NewSession creates a session. The caller runs it with Run on a
// dedicated goroutine and drains Updates from the consumer loop.
func NewSession(client *komorebi.Client, filter *Filter, cfg SessionConfig) *Session {
	cfg = cfg.withDefaults()
	return &Session{
		client:  client,
		filter:  filter,
		cfg:     cfg,
		updates: make(chan Snapshot, cfg.Buffer),
		log:     logger.WithComponent("session"),
	}
}

// Updates is the handoff channel. Each delivered snapshot is owned by the
// receiver; the session keeps no reference. The channel is closed when
// Run returns.
func (s *Session) Updates() <-chan Snapshot {
	return s.updates
}

// State returns the current connection state.
func (s *Session) State() SessionState {
	return SessionState(s.state.Load())
}

func (s *Session) setState(state SessionState) {
	s.state.Store(int32(state))
	s.log.Debug().Stringer("state", state).Msg("session state changed")
}

// Run creates the subscriber socket, registers it with the daemon and
// loops reading notifications until ctx is cancelled. Detected daemon
// disconnects re-register indefinitely at the configured interval.
func (s *Session) Run(ctx context.Context) error {
	defer close(s.updates)

	path := filepath.Join(s.cfg.SocketDir, s.cfg.SocketName)
	if _, err := os.Stat(path); err == nil {
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("remove stale subscriber socket: %w", err)
		}
	}

	listener, err := net.Listen("unix", path)
	if err != nil {
		return fmt.Errorf("listen on subscriber socket: %w", err)
	}
	defer listener.Close()
	defer os.Remove(path)
	unixListener := listener.(*net.UnixListener)

	s.setState(StateConnecting)
	if err := s.register(ctx, s.cfg.ConnectRetry); err != nil {
		return err
	}
	s.setState(StateListening)
	s.log.Info().Str("socket", path).Msg("subscribed to daemon notifications")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		_ = unixListener.SetDeadline(time.Now().Add(acceptPoll))
		conn, err := listener.Accept()
		if err != nil {
			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Timeout() {
				continue
			}
			s.log.Error().Err(err).Msg("accept failed")
			continue
		}

		if daemonGone := s.handleConn(ctx, conn); daemonGone {
			s.setState(StateDisconnected)
			s.log.Warn().Msg("daemon is no longer running, re-registering")
			if err := s.register(ctx, s.cfg.Resubscribe); err != nil {
				return err
			}
			s.setState(StateListening)
			s.log.Info().Msg("re-subscribed to daemon notifications")
		}
	}
}

// register keeps sending the subscriber registration until it succeeds or
// ctx is cancelled. Retries are unbounded: the daemon may simply not be
// running yet.
func (s *Session) register(ctx context.Context, interval time.Duration) error {
	for {
		err := s.client.Subscribe(ctx, s.cfg.SocketName, s.cfg.Options)
		if err == nil {
			return nil
		}
		s.log.Debug().Err(err).Dur("retry_in", interval).Msg("subscriber registration failed")

		timer := time.NewTimer(interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// handleConn drains one accepted connection. It reports true when the
// connection closed without delivering any data, the daemon's way of
// signalling that it is going away.
func (s *Session) handleConn(ctx context.Context, conn net.Conn) bool {
	defer conn.Close()

	reader := bufio.NewReader(conn)
	sawData := false
	for {
		_ = conn.SetReadDeadline(time.Now().Add(s.cfg.ReadTimeout))
		line, err := reader.ReadBytes('\n')
		if trimmed := bytes.TrimSpace(line); len(trimmed) > 0 {
			sawData = true
			s.process(trimmed)
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return !sawData
			}
			s.log.Debug().Err(err).Msg("dropping notification connection")
			return false
		}

		select {
		case <-ctx.Done():
			return false
		default:
		}
	}
}

// process decodes, filters and projects a single notification line, then
// hands the snapshot off to the consumer.
func (s *Session) process(line []byte) {
	notification, err := komorebi.DecodeNotification(line)
	if err != nil {
		s.log.Error().Err(err).Msg("discarding malformed notification")
		return
	}

	if !s.filter.Relevant(notification.Event) {
		s.log.Debug().
			Str("source", string(notification.Event.Source)).
			Str("kind", notification.Event.Kind).
			Msg("ignoring irrelevant notification")
		return
	}

	snapshot, err := Project(notification.State)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to project workspaces from notification state")
		return
	}

	s.deliver(snapshot)
}

// deliver hands the snapshot to the consumer without blocking. A full
// buffer means the consumer stopped draining; the snapshot is stale by
// the time it could be read, so it is dropped.
func (s *Session) deliver(snapshot Snapshot) {
	select {
	case s.updates <- snapshot:
	default:
		s.log.Warn().Msg("snapshot discarded, consumer is not draining updates")
	}
}
