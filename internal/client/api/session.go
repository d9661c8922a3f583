package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/iudanet/todoist/pkg/api"
)

const (
	// sessionBufferSize bounds instructions read from the socket but not yet received
	sessionBufferSize = 64
	// writeTimeout applies when the caller's context has no deadline
	writeTimeout = 10 * time.Second
)

// Session is an open instruction stream to the rendering server.
// Send and Receive may be called from different goroutines.
type Session struct {
	conn      *websocket.Conn
	logger    *slog.Logger
	incoming  chan api.Instruction
	done      chan struct{}
	err       error
	writeMu   sync.Mutex
	closeOnce sync.Once
}

func newSession(conn *websocket.Conn, logger *slog.Logger) *Session {
	s := &Session{
		conn:     conn,
		logger:   logger,
		incoming: make(chan api.Instruction, sessionBufferSize),
		done:     make(chan struct{}),
	}
	go s.readPump()
	return s
}

// readPump декодирует входящие сообщения до ошибки чтения или закрытия сессии
func (s *Session) readPump() {
	defer close(s.incoming)

	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.err = ErrClosed
			} else {
				s.err = fmt.Errorf("%w: %v", ErrClosed, err)
			}
			return
		}

		var ins api.Instruction
		if err := json.Unmarshal(data, &ins); err != nil {
			s.logger.Warn("Skipping malformed instruction", "error", err)
			continue
		}

		select {
		case s.incoming <- ins:
		case <-s.done:
			s.err = ErrClosed
			return
		}
	}
}

// Send writes one instruction to the socket
func (s *Session) Send(ctx context.Context, ins api.Instruction) error {
	data, err := json.Marshal(ins)
	if err != nil {
		return fmt.Errorf("failed to marshal instruction: %w", err)
	}

	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(writeTimeout)
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	select {
	case <-s.done:
		return ErrClosed
	default:
	}

	if err := s.conn.SetWriteDeadline(deadline); err != nil {
		return fmt.Errorf("failed to set write deadline: %w", err)
	}
	if err := s.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		return fmt.Errorf("failed to write instruction: %w", err)
	}
	return nil
}

// Receive blocks until an instruction arrives, the session ends or ctx is done
func (s *Session) Receive(ctx context.Context) (api.Instruction, error) {
	select {
	case ins, ok := <-s.incoming:
		if !ok {
			if s.err != nil {
				return api.Instruction{}, s.err
			}
			return api.Instruction{}, ErrClosed
		}
		return ins, nil
	case <-ctx.Done():
		return api.Instruction{}, ctx.Err()
	}
}

// Close sends a close frame and releases the connection
func (s *Session) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.done)

		s.writeMu.Lock()
		msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
		writeErr := s.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
		s.writeMu.Unlock()

		closeErr := s.conn.Close()
		if writeErr != nil && !errors.Is(writeErr, websocket.ErrCloseSent) {
			s.logger.Debug("Failed to send close frame", "error", writeErr)
		}
		err = closeErr
	})
	return err
}
