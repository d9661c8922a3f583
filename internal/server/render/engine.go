package render

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/iudanet/todoist/internal/models"
	"github.com/iudanet/todoist/internal/server/storage"
	"github.com/iudanet/todoist/pkg/api"
)

// EventClick is the only event the engine raises
const EventClick = "click"

// Peer receives instructions pushed by the engine to a client
type Peer interface {
	Deliver(ctx context.Context, ins api.Instruction) error
}

// DialogHook is called for every dialog a client opens
type DialogHook func(sessionID string, dialog *models.Dialog)

type session struct {
	peer Peer
	mu   sync.Mutex
}

// Engine interprets client instructions against the document tree of each
// session's frame and pushes replies, events and dialog answers back to the
// session peer.
type Engine struct {
	store    storage.DocumentStorage
	logger   *slog.Logger
	sessions map[string]*session
	onDialog DialogHook
	mu       sync.RWMutex
}

// NewEngine creates a render engine over the given storage
func NewEngine(store storage.DocumentStorage, logger *slog.Logger) *Engine {
	return &Engine{
		store:    store,
		logger:   logger,
		sessions: make(map[string]*session),
	}
}

// SetDialogHook installs a callback observing dialogs
func (e *Engine) SetDialogHook(hook DialogHook) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onDialog = hook
}

// Open creates the frame for a new session
func (e *Engine) Open(ctx context.Context, frame *models.Frame, peer Peer) error {
	if frame.CreatedAt.IsZero() {
		frame.CreatedAt = time.Now()
	}
	if err := e.store.CreateFrame(ctx, frame); err != nil {
		return fmt.Errorf("failed to create frame: %w", err)
	}

	e.mu.Lock()
	e.sessions[frame.ID] = &session{peer: peer}
	e.mu.Unlock()

	e.logger.Info("Frame opened", "session", frame.ID, "target", frame.Target, "client", frame.Client)
	return nil
}

// Close notifies the client with FRAME_CLOSE and discards the frame
func (e *Engine) Close(ctx context.Context, sessionID string) error {
	s, err := e.session(sessionID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	deliverErr := s.peer.Deliver(ctx, api.NewInstruction(api.OpFrameClose, 0, api.Body))
	s.mu.Unlock()

	if err := e.Detach(ctx, sessionID); err != nil {
		return err
	}
	if deliverErr != nil {
		return fmt.Errorf("failed to deliver %s: %w", api.OpFrameClose, deliverErr)
	}
	return nil
}

// CloseAll closes every attached session, returning the first delivery error
func (e *Engine) CloseAll(ctx context.Context) error {
	e.mu.RLock()
	ids := make([]string, 0, len(e.sessions))
	for id := range e.sessions {
		ids = append(ids, id)
	}
	e.mu.RUnlock()

	var firstErr error
	for _, id := range ids {
		if err := e.Close(ctx, id); err != nil && !errors.Is(err, ErrSessionNotFound) && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Detach discards the frame of a session whose client went away
func (e *Engine) Detach(ctx context.Context, sessionID string) error {
	e.mu.Lock()
	_, ok := e.sessions[sessionID]
	delete(e.sessions, sessionID)
	e.mu.Unlock()
	if !ok {
		return ErrSessionNotFound
	}

	if err := e.store.DeleteFrame(ctx, sessionID); err != nil && !errors.Is(err, storage.ErrFrameNotFound) {
		return fmt.Errorf("failed to delete frame: %w", err)
	}

	e.logger.Info("Frame closed", "session", sessionID)
	return nil
}

// Sessions returns the open frames ordered by creation time
func (e *Engine) Sessions(ctx context.Context) ([]*models.Frame, error) {
	frames, err := e.store.ListFrames(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list frames: %w", err)
	}
	return frames, nil
}

// Count returns the number of attached sessions
func (e *Engine) Count() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.sessions)
}

// Handle applies one instruction received from the session's client
func (e *Engine) Handle(ctx context.Context, sessionID string, ins api.Instruction) error {
	s, err := e.session(sessionID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	e.logger.Debug("Handling instruction", "session", sessionID, "instruction", ins.String())

	switch ins.Opcode {
	case api.OpAppendTag:
		_, err = e.store.AppendElement(ctx, sessionID, ins.Location, ins.Arg(0), ins.Arg(1))
	case api.OpAppendText:
		err = e.store.AppendText(ctx, sessionID, ins.Location, ins.Arg(0))
	case api.OpSetText:
		err = e.store.SetText(ctx, sessionID, ins.Location, ins.Arg(0))
	case api.OpSetStyle:
		err = e.store.SetStyle(ctx, sessionID, ins.Location, ins.Arg(0), ins.Arg(1))
	case api.OpAddStyleRule:
		err = e.store.AddStyleRule(ctx, sessionID, ins.Arg(0), ins.Arg(1))
	case api.OpDelete:
		err = e.store.DeleteElement(ctx, sessionID, ins.Location)
	case api.OpGetContent:
		err = e.replyContent(ctx, s, sessionID, ins)
	case api.OpGetByID:
		err = e.replyLocation(ctx, s, sessionID, ins)
	case api.OpDialog:
		err = e.openDialog(ctx, sessionID, models.DialogKindMessage, ins)
	case api.OpDialogInput:
		err = e.openDialog(ctx, sessionID, models.DialogKindInput, ins)
	case api.OpEventRequest:
		err = e.store.AddEventInterest(ctx, &models.EventInterest{
			FrameID:     sessionID,
			Location:    ins.Location,
			Event:       ins.Arg(0),
			Correlation: ins.Arg(1),
			Requestor:   ins.Requestor,
		})
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedOpcode, ins.Opcode)
	}

	if err != nil {
		return fmt.Errorf("failed to handle %s: %w", ins.Opcode, err)
	}
	return nil
}

// Click raises a click on location and returns how many listeners were notified
func (e *Engine) Click(ctx context.Context, sessionID string, location api.Location) (int, error) {
	s, err := e.session(sessionID)
	if err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	interests, err := e.store.EventInterests(ctx, sessionID, location, EventClick)
	if err != nil {
		return 0, fmt.Errorf("failed to get event interests: %w", err)
	}

	for _, in := range interests {
		ev := api.NewInstruction(api.OpEvent, in.Requestor, location, EventClick, in.Correlation)
		if err := s.peer.Deliver(ctx, ev); err != nil {
			return 0, fmt.Errorf("failed to deliver event: %w", err)
		}
	}
	return len(interests), nil
}

// ClickByID raises a click on the element with the given id attribute
func (e *Engine) ClickByID(ctx context.Context, sessionID, htmlID string) (int, error) {
	el, err := e.Lookup(ctx, sessionID, htmlID)
	if err != nil {
		return 0, err
	}
	return e.Click(ctx, sessionID, el.Location)
}

// Answer replies to the oldest pending input dialog with text
func (e *Engine) Answer(ctx context.Context, sessionID, text string) error {
	return e.answer(ctx, sessionID, text)
}

// Dismiss cancels the oldest pending input dialog; the reply carries no text
func (e *Engine) Dismiss(ctx context.Context, sessionID string) error {
	return e.answer(ctx, sessionID)
}

func (e *Engine) answer(ctx context.Context, sessionID string, args ...string) error {
	s, err := e.session(sessionID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	pending, err := e.store.PendingDialogs(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("failed to get pending dialogs: %w", err)
	}
	if len(pending) == 0 {
		return ErrNoPendingDialog
	}

	dialog := pending[0]
	if err := e.store.AnswerDialog(ctx, dialog.ID); err != nil {
		return fmt.Errorf("failed to answer dialog: %w", err)
	}

	reply := api.NewInstruction(api.OpDialogReturn, dialog.Requestor, api.Body, args...)
	if err := s.peer.Deliver(ctx, reply); err != nil {
		return fmt.Errorf("failed to deliver dialog reply: %w", err)
	}
	return nil
}

// PendingDialogs returns unanswered input dialogs, oldest first
func (e *Engine) PendingDialogs(ctx context.Context, sessionID string) ([]*models.Dialog, error) {
	if _, err := e.session(sessionID); err != nil {
		return nil, err
	}
	return e.store.PendingDialogs(ctx, sessionID)
}

// Dialogs returns every dialog the client opened, oldest first
func (e *Engine) Dialogs(ctx context.Context, sessionID string) ([]*models.Dialog, error) {
	if _, err := e.session(sessionID); err != nil {
		return nil, err
	}
	return e.store.ListDialogs(ctx, sessionID)
}

// Lookup finds an element by its id attribute
func (e *Engine) Lookup(ctx context.Context, sessionID, htmlID string) (*models.Element, error) {
	if _, err := e.session(sessionID); err != nil {
		return nil, err
	}
	return e.store.FindByHTMLID(ctx, sessionID, htmlID)
}

// Content returns the text of location and all its descendants in document order
func (e *Engine) Content(ctx context.Context, sessionID string, location api.Location) (string, error) {
	if _, err := e.session(sessionID); err != nil {
		return "", err
	}
	return e.content(ctx, sessionID, location)
}

// Dump writes the frame's document tree, one element per line
func (e *Engine) Dump(ctx context.Context, sessionID string, w io.Writer) error {
	if _, err := e.session(sessionID); err != nil {
		return err
	}
	return e.dump(ctx, w, sessionID, api.Body, 0)
}

func (e *Engine) session(sessionID string) (*session, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	s, ok := e.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

func (e *Engine) replyContent(ctx context.Context, s *session, sessionID string, ins api.Instruction) error {
	text, err := e.content(ctx, sessionID, ins.Location)
	if err != nil && !errors.Is(err, storage.ErrElementNotFound) {
		return err
	}
	return s.peer.Deliver(ctx, api.NewInstruction(api.OpContentReturn, ins.Requestor, ins.Location, text))
}

// replyLocation отвечает location 0, если элемент не найден
func (e *Engine) replyLocation(ctx context.Context, s *session, sessionID string, ins api.Instruction) error {
	var location api.Location
	el, err := e.store.FindByHTMLID(ctx, sessionID, ins.Arg(0))
	switch {
	case err == nil:
		location = el.Location
	case !errors.Is(err, storage.ErrElementNotFound):
		return err
	}
	return s.peer.Deliver(ctx, api.NewInstruction(api.OpLocationReturn, ins.Requestor, location, ins.Arg(0)))
}

func (e *Engine) openDialog(ctx context.Context, sessionID string, kind models.DialogKind, ins api.Instruction) error {
	dialog := &models.Dialog{
		FrameID:   sessionID,
		Kind:      kind,
		Title:     ins.Arg(0),
		Text:      ins.Arg(1),
		Value:     ins.Arg(2),
		Requestor: ins.Requestor,
		CreatedAt: time.Now(),
	}
	if _, err := e.store.SaveDialog(ctx, dialog); err != nil {
		return err
	}

	e.mu.RLock()
	hook := e.onDialog
	e.mu.RUnlock()
	if hook != nil {
		hook(sessionID, dialog)
	}
	return nil
}

func (e *Engine) content(ctx context.Context, sessionID string, location api.Location) (string, error) {
	var b strings.Builder
	if location != api.Body {
		el, err := e.store.GetElement(ctx, sessionID, location)
		if err != nil {
			return "", err
		}
		b.WriteString(el.Text)
	}

	children, err := e.store.Children(ctx, sessionID, location)
	if err != nil {
		return "", err
	}
	for _, child := range children {
		text, err := e.content(ctx, sessionID, child.Location)
		if err != nil {
			return "", err
		}
		b.WriteString(text)
	}
	return b.String(), nil
}

func (e *Engine) dump(ctx context.Context, w io.Writer, sessionID string, location api.Location, depth int) error {
	children, err := e.store.Children(ctx, sessionID, location)
	if err != nil {
		return err
	}
	for _, el := range children {
		line := strings.Repeat("  ", depth) + el.Tag
		if el.HTMLID != "" {
			line += "#" + el.HTMLID
		}
		line += fmt.Sprintf(" [%d]", el.Location)
		if len(el.Styles) > 0 {
			props := make([]string, 0, len(el.Styles))
			for k, v := range el.Styles {
				props = append(props, k+": "+v)
			}
			sort.Strings(props)
			line += " {" + strings.Join(props, "; ") + "}"
		}
		if el.Text != "" {
			line += fmt.Sprintf(" %q", el.Text)
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
		if err := e.dump(ctx, w, sessionID, el.Location, depth+1); err != nil {
			return err
		}
	}
	return nil
}
