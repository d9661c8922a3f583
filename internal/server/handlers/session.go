package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/iudanet/todoist/internal/models"
	"github.com/iudanet/todoist/internal/server/render"
	"github.com/iudanet/todoist/internal/validation"
	"github.com/iudanet/todoist/pkg/api"
)

const peerWriteTimeout = 10 * time.Second

// Engine is the part of the render engine the session endpoint drives
type Engine interface {
	Open(ctx context.Context, frame *models.Frame, peer render.Peer) error
	Handle(ctx context.Context, sessionID string, ins api.Instruction) error
	Detach(ctx context.Context, sessionID string) error
}

// SessionHandler upgrades authenticated requests to instruction streams
type SessionHandler struct {
	logger   *slog.Logger
	engine   Engine
	upgrader websocket.Upgrader
}

// NewSessionHandler создает handler сессий
func NewSessionHandler(logger *slog.Logger, engine Engine) *SessionHandler {
	return &SessionHandler{
		logger: logger,
		engine: engine,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
		},
	}
}

// Open обрабатывает GET /api/v1/session?target=&title=
// Требует claims в контексте (AuthMiddleware)
func (h *SessionHandler) Open(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	claims, ok := GetClaims(ctx)
	if !ok {
		SendError(w, h.logger, "missing session claims", http.StatusUnauthorized)
		return
	}

	target := r.URL.Query().Get(api.QueryTarget)
	title := r.URL.Query().Get(api.QueryTitle)

	if err := validation.ValidateTarget(target); err != nil {
		h.logger.WarnContext(ctx, "invalid target", slog.Any("error", err))
		SendError(w, h.logger, err.Error(), http.StatusBadRequest)
		return
	}
	if err := validation.ValidateTitle(title); err != nil {
		SendError(w, h.logger, err.Error(), http.StatusBadRequest)
		return
	}
	if claims.Target != target {
		h.logger.WarnContext(ctx, "token issued for another target",
			slog.String("client", claims.Client), slog.String("target", target))
		SendError(w, h.logger, "token is not valid for this target", http.StatusForbidden)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade уже отправил ответ клиенту
		h.logger.WarnContext(ctx, "websocket upgrade failed", slog.Any("error", err))
		return
	}
	defer func() {
		_ = conn.Close()
	}()

	frame := &models.Frame{
		ID:        uuid.New().String(),
		Target:    target,
		Title:     title,
		Client:    claims.Client,
		CreatedAt: time.Now(),
	}
	peer := &wsPeer{conn: conn}

	if err := h.engine.Open(ctx, frame, peer); err != nil {
		h.logger.ErrorContext(ctx, "failed to open frame", slog.Any("error", err))
		_ = peer.closeWith(websocket.CloseInternalServerErr, "failed to open frame")
		return
	}

	h.serve(ctx, frame.ID, conn)

	// Клиент ушел: кадр больше никому не нужен
	if err := h.engine.Detach(context.WithoutCancel(ctx), frame.ID); err != nil && !errors.Is(err, render.ErrSessionNotFound) {
		h.logger.Error("failed to detach session", slog.String("session", frame.ID), slog.Any("error", err))
	}
}

// serve читает инструкции клиента до закрытия соединения
func (h *SessionHandler) serve(ctx context.Context, sessionID string, conn *websocket.Conn) {
	for {
		var ins api.Instruction
		if err := conn.ReadJSON(&ins); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.logger.Warn("session read failed", slog.String("session", sessionID), slog.Any("error", err))
			}
			return
		}

		if err := h.engine.Handle(ctx, sessionID, ins); err != nil {
			if errors.Is(err, render.ErrSessionNotFound) {
				return
			}
			// Ошибочная инструкция не рвет сессию
			h.logger.Warn("instruction rejected",
				slog.String("session", sessionID),
				slog.String("instruction", ins.String()),
				slog.Any("error", err),
			)
		}
	}
}

// wsPeer доставляет инструкции движка в websocket
type wsPeer struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (p *wsPeer) Deliver(ctx context.Context, ins api.Instruction) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(peerWriteTimeout)
	}
	if err := p.conn.SetWriteDeadline(deadline); err != nil {
		return fmt.Errorf("failed to set write deadline: %w", err)
	}
	if err := p.conn.WriteJSON(ins); err != nil {
		return fmt.Errorf("failed to write instruction: %w", err)
	}
	return nil
}

func (p *wsPeer) closeWith(code int, text string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	msg := websocket.FormatCloseMessage(code, text)
	return p.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
}
