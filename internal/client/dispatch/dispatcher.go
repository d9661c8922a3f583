// Package dispatch routes server-pushed instructions to handlers by requestor tag.
package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/iudanet/todoist/pkg/api"
)

// State is the dispatcher lifecycle state
type State int

const (
	StateIdle State = iota
	StateDispatching
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateDispatching:
		return "dispatching"
	case StateClosed:
		return "closed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Source yields instructions one at a time
type Source interface {
	Next(ctx context.Context) (api.Instruction, error)
}

// HandlerFunc reacts to one instruction
type HandlerFunc func(ctx context.Context, ins api.Instruction) error

// Dispatcher reads instructions until the frame closes and runs the handler
// registered for each requestor tag. Handlers run to completion one at a time.
type Dispatcher struct {
	source   Source
	logger   *slog.Logger
	handlers map[api.Requestor]HandlerFunc
	state    State
	mu       sync.RWMutex
}

// New creates a dispatcher reading from source
func New(source Source, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		source:   source,
		logger:   logger,
		handlers: make(map[api.Requestor]HandlerFunc),
	}
}

// Handle registers fn for instructions carrying tag
func (d *Dispatcher) Handle(tag api.Requestor, fn HandlerFunc) {
	d.handlers[tag] = fn
}

// State returns the current state
func (d *Dispatcher) State() State {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.state
}

func (d *Dispatcher) setState(s State) {
	d.mu.Lock()
	d.state = s
	d.mu.Unlock()
}

// Run dispatches until FRAME_CLOSE arrives, a handler fails or reading fails.
// FRAME_CLOSE ends the loop with a nil error whatever its requestor.
func (d *Dispatcher) Run(ctx context.Context) error {
	if d.State() == StateClosed {
		return nil
	}
	defer d.setState(StateClosed)

	for {
		ins, err := d.source.Next(ctx)
		if err != nil {
			return fmt.Errorf("failed to read instruction: %w", err)
		}

		if ins.Opcode == api.OpFrameClose {
			d.logger.Info("Frame closed by server")
			return nil
		}

		fn, ok := d.handlers[ins.Requestor]
		if !ok {
			d.logger.Debug("Ignoring instruction", "instruction", ins.String())
			continue
		}

		d.setState(StateDispatching)
		err = fn(ctx, ins)
		d.setState(StateIdle)
		if err != nil {
			return fmt.Errorf("handler for requestor %d failed: %w", ins.Requestor, err)
		}
	}
}
