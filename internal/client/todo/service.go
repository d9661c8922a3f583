package todo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/iudanet/todoist/internal/client/entry"
	"github.com/iudanet/todoist/pkg/api"
)

//go:generate moq -out messenger_mock.go . Messenger

// Messenger is the part of the instruction channel the service needs
type Messenger interface {
	// Send enqueues an instruction without waiting for a reply
	Send(ctx context.Context, op api.Opcode, requestor api.Requestor, location api.Location, args ...string) error

	// Request sends a query and waits for the correlated reply
	Request(ctx context.Context, ins api.Instruction, reply api.Opcode) (api.Instruction, error)
}

// Page holds the locations of the static page controls
type Page struct {
	NewEntry api.Location
	Export   api.Location
	Load     api.Location
}

type style struct {
	property string
	value    string
}

// Стили контейнера записи и ее кнопок
var (
	entryMargins = []style{
		{"margin-top", "1em"},
		{"margin-left", "0.5em"},
		{"margin-right", "0.5em"},
		{"margin-bottom", "1em"},
	}
	controlStyle = []style{
		{"font-family", "impact"},
		{"float", "right"},
	}
)

// EntryMarker prefixes every entry container
const EntryMarker = "➼ "

// Service builds and mutates the to-do page on the rendering server
type Service struct {
	msg    Messenger
	store  *entry.Store
	logger *slog.Logger
}

// NewService creates a new to-do service
func NewService(msg Messenger, store *entry.Store, logger *slog.Logger) *Service {
	return &Service{
		msg:    msg,
		store:  store,
		logger: logger,
	}
}

// Store returns the entry store the service mutates
func (s *Service) Store() *entry.Store {
	return s.store
}

// Setup builds the static page: styles, title, export/load bar and the add button
func (s *Service) Setup(ctx context.Context) (Page, error) {
	var page Page

	if err := s.msg.Send(ctx, api.OpAddStyleRule, 0, api.Body, "body", "background-color: #32a885;"); err != nil {
		return page, err
	}

	title, err := s.appendLocated(ctx, api.Body, "h1", IDTitle)
	if err != nil {
		return page, err
	}
	if err := s.msg.Send(ctx, api.OpSetText, 0, title, "TO-DOIST"); err != nil {
		return page, err
	}
	if err := s.setStyles(ctx, title, []style{
		{"text-align", "center"},
		{"font-family", "impact, sans-serif"},
		{"margin-top", "0.5em"},
		{"margin-bottom", "0em"},
	}); err != nil {
		return page, err
	}

	subtitle, err := s.appendLocated(ctx, api.Body, "h4", IDSubtitle)
	if err != nil {
		return page, err
	}
	if err := s.msg.Send(ctx, api.OpSetText, 0, subtitle, "Organise your life!"); err != nil {
		return page, err
	}
	if err := s.setStyles(ctx, subtitle, []style{
		{"text-align", "center"},
		{"font-style", "italic"},
	}); err != nil {
		return page, err
	}

	if err := s.msg.Send(ctx, api.OpAddStyleRule, 0, api.Body, "button", "background-color: #e7e7e7; border-radius: 8px;"); err != nil {
		return page, err
	}

	bar, err := s.appendLocated(ctx, api.Body, "div", IDButtonBar)
	if err != nil {
		return page, err
	}
	if page.Export, err = s.appendButton(ctx, bar, IDExportButton, "Export to file"); err != nil {
		return page, err
	}
	if page.Load, err = s.appendButton(ctx, bar, IDLoadButton, "Load from file"); err != nil {
		return page, err
	}
	if err := s.setStyles(ctx, bar, []style{
		{"position", "absolute"},
		{"right", "0"},
		{"margin-left", "1em"},
		{"margin-right", "1em"},
		{"margin-top", "0.5em"},
	}); err != nil {
		return page, err
	}

	if err := s.msg.Send(ctx, api.OpAppendTag, 0, api.Body, "hr"); err != nil {
		return page, err
	}

	newEntryDiv, err := s.appendLocated(ctx, api.Body, "div", IDNewEntryDiv)
	if err != nil {
		return page, err
	}
	if err := s.msg.Send(ctx, api.OpAddStyleRule, 0, api.Body, "#"+IDNewEntryDiv, "text-align:center"); err != nil {
		return page, err
	}
	if page.NewEntry, err = s.appendButton(ctx, newEntryDiv, IDNewEntryButton, "Add new entry"); err != nil {
		return page, err
	}

	for _, reg := range []struct {
		location  api.Location
		requestor api.Requestor
	}{
		{page.NewEntry, RequestorNewEntry},
		{page.Export, RequestorExport},
		{page.Load, RequestorLoad},
	} {
		if err := s.msg.Send(ctx, api.OpEventRequest, reg.requestor, reg.location, "click"); err != nil {
			return page, err
		}
	}

	s.logger.Debug("Page ready", "new_entry", page.NewEntry, "export", page.Export, "load", page.Load)
	return page, nil
}

// Locate resolves an element id to its location
func (s *Service) Locate(ctx context.Context, htmlID string) (api.Location, error) {
	reply, err := s.msg.Request(ctx, api.NewInstruction(api.OpGetByID, 0, api.Body, htmlID), api.OpLocationReturn)
	if err != nil {
		return 0, fmt.Errorf("failed to locate %s: %w", htmlID, err)
	}
	if reply.Location == api.Body {
		return 0, fmt.Errorf("%w: %s", ErrElementMissing, htmlID)
	}
	return reply.Location, nil
}

// Notify shows an informational dialog
func (s *Service) Notify(ctx context.Context, title, text string) error {
	return s.msg.Send(ctx, api.OpDialog, 0, api.Body, title, text)
}

// Prompt shows an input dialog and returns the reply.
// ok is false when the dialog was cancelled or the reply is blank.
func (s *Service) Prompt(ctx context.Context, title, prompt, value string) (text string, ok bool, err error) {
	reply, err := s.msg.Request(ctx, api.NewInstruction(api.OpDialogInput, 0, api.Body, title, prompt, value), api.OpDialogReturn)
	if err != nil {
		return "", false, fmt.Errorf("failed to prompt %q: %w", title, err)
	}
	if len(reply.Args) == 0 || strings.TrimSpace(reply.Arg(0)) == "" {
		return "", false, nil
	}
	return reply.Arg(0), true, nil
}

// CreateEntry asks the user for a note and adds it to the page.
// A cancelled or blank reply is not an error; the result is nil then.
func (s *Service) CreateEntry(ctx context.Context) (*entry.Entry, error) {
	text, ok, err := s.Prompt(ctx, TitleNewNote, PromptWrite, PlaceholderWrite)
	if err != nil {
		return nil, err
	}
	if !ok {
		s.logger.Debug("New note cancelled")
		return nil, nil
	}

	if s.store.Full() {
		s.logger.Warn("Entry store is full", "capacity", s.store.Capacity())
		if err := s.Notify(ctx, TitleFailure, MsgTooMany); err != nil {
			return nil, err
		}
		return nil, nil
	}

	e, err := s.Materialize(ctx, text)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// Materialize renders an entry with text and records it in the store
func (s *Service) Materialize(ctx context.Context, text string) (entry.Entry, error) {
	if strings.TrimSpace(text) == "" {
		return entry.Entry{}, entry.ErrEmptyText
	}
	if s.store.Full() {
		return entry.Entry{}, fmt.Errorf("%w: capacity %d", entry.ErrCapacityExceeded, s.store.Capacity())
	}

	e := entry.Entry{
		Identity: s.store.AllocateIdentity(),
		Text:     text,
	}
	names := entry.NamesFor(e.Identity)
	loc := &e.Locations

	var err error
	if loc.Container, err = s.appendLocated(ctx, api.Body, "div", names.Container); err != nil {
		return entry.Entry{}, err
	}
	if err := s.msg.Send(ctx, api.OpAppendText, 0, loc.Container, EntryMarker); err != nil {
		return entry.Entry{}, err
	}

	if loc.Text, err = s.appendLocated(ctx, loc.Container, "p", names.Text); err != nil {
		return entry.Entry{}, err
	}
	if err := s.msg.Send(ctx, api.OpSetStyle, 0, loc.Text, "display", "inline"); err != nil {
		return entry.Entry{}, err
	}
	if err := s.msg.Send(ctx, api.OpAppendText, 0, loc.Text, text); err != nil {
		return entry.Entry{}, err
	}
	if err := s.setStyles(ctx, loc.Container, entryMargins); err != nil {
		return entry.Entry{}, err
	}

	if loc.Delete, err = s.appendControl(ctx, loc.Container, names.Delete, names.Container, "Delete entry"); err != nil {
		return entry.Entry{}, err
	}
	if loc.Edit, err = s.appendControl(ctx, loc.Container, names.Edit, names.Container, "Edit entry"); err != nil {
		return entry.Entry{}, err
	}

	if err := s.msg.Send(ctx, api.OpAppendTag, 0, loc.Container, "hr"); err != nil {
		return entry.Entry{}, err
	}

	if err := s.msg.Send(ctx, api.OpEventRequest, RequestorDelete, loc.Delete, "click", names.Container); err != nil {
		return entry.Entry{}, err
	}
	if err := s.msg.Send(ctx, api.OpEventRequest, RequestorEdit, loc.Edit, "click", names.Container); err != nil {
		return entry.Entry{}, err
	}

	if err := s.store.Insert(e); err != nil {
		return entry.Entry{}, fmt.Errorf("failed to store entry: %w", err)
	}

	s.logger.Debug("Entry created", "identity", e.Identity, "container", loc.Container)
	return e, nil
}

// DeleteEntry removes the entry whose delete control raised ev.
// A control that no longer belongs to a live entry is ignored.
func (s *Service) DeleteEntry(ctx context.Context, ev api.Instruction) error {
	e, err := s.store.ByControl(ev.Location)
	if err != nil {
		if errors.Is(err, entry.ErrEntryNotFound) {
			s.logger.Debug("Delete on stale control ignored", "location", ev.Location)
			return nil
		}
		return err
	}

	if err := s.msg.Send(ctx, api.OpDelete, 0, e.Locations.Container); err != nil {
		return err
	}
	if _, err := s.store.Delete(e.Locations.Container); err != nil {
		return fmt.Errorf("failed to delete entry: %w", err)
	}

	s.logger.Debug("Entry deleted", "identity", e.Identity)
	return nil
}

// EditEntry lets the user rewrite the entry whose edit control raised ev.
// A blank or cancelled reply leaves the entry unchanged.
func (s *Service) EditEntry(ctx context.Context, ev api.Instruction) error {
	e, err := s.store.ByControl(ev.Location)
	if err != nil {
		if errors.Is(err, entry.ErrEntryNotFound) {
			s.logger.Debug("Edit on stale control ignored", "location", ev.Location)
			return nil
		}
		return err
	}

	reply, err := s.msg.Request(ctx, api.NewInstruction(api.OpGetContent, 0, e.Locations.Text), api.OpContentReturn)
	if err != nil {
		return fmt.Errorf("failed to get entry content: %w", err)
	}

	text, ok, err := s.Prompt(ctx, TitleEditNote, PromptWrite, reply.Arg(0))
	if err != nil {
		return err
	}
	if !ok {
		s.logger.Debug("Edit cancelled", "identity", e.Identity)
		return nil
	}

	if err := s.msg.Send(ctx, api.OpSetText, 0, e.Locations.Text, text); err != nil {
		return err
	}
	if err := s.store.UpdateText(e.Locations.Container, text); err != nil {
		return fmt.Errorf("failed to update entry: %w", err)
	}
	return nil
}

// appendLocated appends an element with an id and resolves its location
func (s *Service) appendLocated(ctx context.Context, parent api.Location, tag, htmlID string) (api.Location, error) {
	if err := s.msg.Send(ctx, api.OpAppendTag, 0, parent, tag, htmlID); err != nil {
		return 0, err
	}
	return s.Locate(ctx, htmlID)
}

func (s *Service) appendButton(ctx context.Context, parent api.Location, htmlID, label string) (api.Location, error) {
	loc, err := s.appendLocated(ctx, parent, "button", htmlID)
	if err != nil {
		return 0, err
	}
	if err := s.msg.Send(ctx, api.OpAppendText, 0, loc, label); err != nil {
		return 0, err
	}
	return loc, nil
}

// appendControl добавляет кнопку записи; третий аргумент APPEND_TAG несет id контейнера
func (s *Service) appendControl(ctx context.Context, container api.Location, htmlID, containerID, label string) (api.Location, error) {
	if err := s.msg.Send(ctx, api.OpAppendTag, 0, container, "button", htmlID, containerID); err != nil {
		return 0, err
	}
	loc, err := s.Locate(ctx, htmlID)
	if err != nil {
		return 0, err
	}
	if err := s.msg.Send(ctx, api.OpAppendText, 0, loc, label); err != nil {
		return 0, err
	}
	if err := s.setStyles(ctx, loc, controlStyle); err != nil {
		return 0, err
	}
	return loc, nil
}

func (s *Service) setStyles(ctx context.Context, loc api.Location, styles []style) error {
	for _, st := range styles {
		if err := s.msg.Send(ctx, api.OpSetStyle, 0, loc, st.property, st.value); err != nil {
			return err
		}
	}
	return nil
}
