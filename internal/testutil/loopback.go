// Package testutil binds the client instruction channel to an in-process
// render engine so client behaviour can be tested against a real peer.
package testutil

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/todoist/internal/models"
	"github.com/iudanet/todoist/internal/server/render"
	"github.com/iudanet/todoist/internal/server/storage/sqlite"
	"github.com/iudanet/todoist/pkg/api"
)

// ErrDrained is returned by Receive when no instruction is waiting.
// A real transport would block; tests fail fast instead.
var ErrDrained = errors.New("loopback: no instruction waiting")

// Loopback is a client transport and a render peer at the same time
type Loopback struct {
	Engine    *render.Engine
	SessionID string

	inbox   []api.Instruction
	sent    []api.Instruction
	answers []*string
	mu      sync.Mutex
}

// DiscardLogger returns a logger that drops everything
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// New opens a fresh frame on a new in-memory render server
func New(t testing.TB) *Loopback {
	t.Helper()

	store, err := sqlite.New(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	return Attach(t, render.NewEngine(store, DiscardLogger()))
}

// Attach opens a fresh frame on an existing engine
func Attach(t testing.TB, engine *render.Engine) *Loopback {
	t.Helper()

	l := &Loopback{
		Engine:    engine,
		SessionID: uuid.New().String(),
	}
	frame := &models.Frame{ID: l.SessionID, Title: "To-do list", Client: "test"}
	require.NoError(t, engine.Open(context.Background(), frame, l))
	return l
}

// Send hands the instruction to the engine. An input dialog is answered
// right away from the queued answers, if any.
func (l *Loopback) Send(ctx context.Context, ins api.Instruction) error {
	l.mu.Lock()
	l.sent = append(l.sent, ins)
	l.mu.Unlock()

	if err := l.Engine.Handle(ctx, l.SessionID, ins); err != nil {
		return err
	}
	if ins.Opcode != api.OpDialogInput {
		return nil
	}

	l.mu.Lock()
	if len(l.answers) == 0 {
		l.mu.Unlock()
		return nil
	}
	answer := l.answers[0]
	l.answers = l.answers[1:]
	l.mu.Unlock()

	if answer == nil {
		return l.Engine.Dismiss(ctx, l.SessionID)
	}
	return l.Engine.Answer(ctx, l.SessionID, *answer)
}

// Receive pops the oldest instruction delivered by the engine
func (l *Loopback) Receive(ctx context.Context) (api.Instruction, error) {
	if err := ctx.Err(); err != nil {
		return api.Instruction{}, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.inbox) == 0 {
		return api.Instruction{}, ErrDrained
	}
	ins := l.inbox[0]
	l.inbox = l.inbox[1:]
	return ins, nil
}

// Deliver implements render.Peer
func (l *Loopback) Deliver(_ context.Context, ins api.Instruction) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.inbox = append(l.inbox, ins)
	return nil
}

// QueueAnswers schedules replies for upcoming input dialogs, in order
func (l *Loopback) QueueAnswers(answers ...string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, a := range answers {
		l.answers = append(l.answers, &a)
	}
}

// QueueDismiss schedules a cancelled reply with no text
func (l *Loopback) QueueDismiss() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.answers = append(l.answers, nil)
}

// Click clicks the element with the given id attribute
func (l *Loopback) Click(t testing.TB, htmlID string) {
	t.Helper()
	n, err := l.Engine.ClickByID(context.Background(), l.SessionID, htmlID)
	require.NoError(t, err)
	require.NotZero(t, n, "no click listener on %s", htmlID)
}

// CloseFrame closes the frame from the server side
func (l *Loopback) CloseFrame(t testing.TB) {
	t.Helper()
	require.NoError(t, l.Engine.Close(context.Background(), l.SessionID))
}

// Sent returns every instruction sent by the client
func (l *Loopback) Sent() []api.Instruction {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]api.Instruction(nil), l.sent...)
}

// SentWith returns the sent instructions with the given opcode
func (l *Loopback) SentWith(op api.Opcode) []api.Instruction {
	var out []api.Instruction
	for _, ins := range l.Sent() {
		if ins.Opcode == op {
			out = append(out, ins)
		}
	}
	return out
}

// ResetSent forgets the recorded instructions
func (l *Loopback) ResetSent() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.sent = nil
}

// Lookup returns the element with the given id attribute
func (l *Loopback) Lookup(t testing.TB, htmlID string) *models.Element {
	t.Helper()
	el, err := l.Engine.Lookup(context.Background(), l.SessionID, htmlID)
	require.NoError(t, err)
	return el
}

// Content returns the rendered text under location
func (l *Loopback) Content(t testing.TB, location api.Location) string {
	t.Helper()
	text, err := l.Engine.Content(context.Background(), l.SessionID, location)
	require.NoError(t, err)
	return text
}

// Dialogs returns all dialogs opened by the client
func (l *Loopback) Dialogs(t testing.TB) []*models.Dialog {
	t.Helper()
	dialogs, err := l.Engine.Dialogs(context.Background(), l.SessionID)
	require.NoError(t, err)
	return dialogs
}

// MessageDialogs returns the texts of informational dialogs in order
func (l *Loopback) MessageDialogs(t testing.TB) []string {
	t.Helper()
	var out []string
	for _, d := range l.Dialogs(t) {
		if d.Kind == models.DialogKindMessage {
			out = append(out, d.Text)
		}
	}
	return out
}
