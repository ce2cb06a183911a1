package realtime

import (
	"context"
	"sync"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Session wraps one live WebSocket connection. Outbound messages go through
// a buffered send channel drained by the write pump; the read pump keeps
// control frames flowing and discards anything the client sends. All
// termination paths, clean or not, funnel through Close exactly once.
type Session struct {
	id   string
	conn *websocket.Conn
	send chan []byte

	ctx    context.Context
	cancel context.CancelFunc

	done      chan struct{}
	closeOnce sync.Once

	log zerolog.Logger
}

var _ Conn = (*Session)(nil)

func NewSession(parentCtx context.Context, conn *websocket.Conn, sendBuffer int, log zerolog.Logger) *Session {
	id := uuid.New().String()
	ctx, cancel := context.WithCancel(parentCtx)

	return &Session{
		id:     id,
		conn:   conn,
		send:   make(chan []byte, sendBuffer),
		ctx:    ctx,
		cancel: cancel,
		done:   make(chan struct{}),
		log:    log.With().Str("conn_id", id).Logger(),
	}
}

func (s *Session) ID() string {
	return s.id
}

// Run starts the read and write pumps.
func (s *Session) Run() {
	go s.readPump()
	go s.writePump()
	s.log.Debug().Msg("Session started")
}

func (s *Session) readPump() {
	for {
		// Inbound payloads are ignored; reading still services pings and
		// surfaces the peer closing.
		_, _, err := s.conn.Read(s.ctx)
		if err != nil {
			s.Close(err)
			return
		}
	}
}

func (s *Session) writePump() {
	for {
		select {
		case msg := <-s.send:
			if err := s.conn.Write(s.ctx, websocket.MessageText, msg); err != nil {
				s.Close(err)
				return
			}
		case <-s.ctx.Done():
			return
		}
	}
}

// Send enqueues a message without blocking. It reports false when the buffer
// is full or the session is closing; delivery is best-effort either way.
func (s *Session) Send(msg []byte) bool {
	select {
	case <-s.ctx.Done():
		return false
	default:
	}

	select {
	case s.send <- msg:
		return true
	default:
		return false
	}
}

// Close tears the session down. Safe to call from any goroutine and from
// multiple termination paths; only the first call acts.
func (s *Session) Close(err error) {
	s.closeOnce.Do(func() {
		if err != nil && websocket.CloseStatus(err) == -1 {
			s.log.Debug().Err(err).Msg("Session closing")
		}
		s.cancel()
		_ = s.conn.Close(websocket.StatusNormalClosure, "")
		close(s.done)
	})
}

// Done is closed once the session has fully terminated.
func (s *Session) Done() <-chan struct{} {
	return s.done
}
