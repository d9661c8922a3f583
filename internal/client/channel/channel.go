package channel

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/iudanet/todoist/pkg/api"
)

// ErrQueueFull indicates that too many unrelated instructions arrived while waiting for a reply
var ErrQueueFull = errors.New("pending instruction queue is full")

// CorrelationBase is the first requestor tag used for query correlation.
// Application event tags must stay below it.
const CorrelationBase api.Requestor = 1 << 16

//go:generate moq -out transport_mock.go . Transport

// Transport moves instructions to and from the rendering server
type Transport interface {
	// Send enqueues an instruction and returns without waiting for any reply
	Send(ctx context.Context, ins api.Instruction) error

	// Receive blocks until the next instruction arrives
	Receive(ctx context.Context) (api.Instruction, error)
}

// Settings configures a Channel
type Settings struct {
	// MaxPending bounds the number of instructions buffered while awaiting a reply
	MaxPending int
}

// DefaultSettings returns settings suitable for an interactive session
func DefaultSettings() *Settings {
	return &Settings{
		MaxPending: 1024,
	}
}

// Channel layers request/reply correlation over a Transport.
//
// Instructions that arrive while a caller waits for a different one are kept
// in a FIFO queue and redelivered to later Await and Next calls, so a click
// that races a dialog reply is never lost. Channel has a single consumer and
// is not safe for concurrent use.
type Channel struct {
	transport Transport
	logger    *slog.Logger
	settings  *Settings
	pending   []api.Instruction
	nextTag   api.Requestor
}

// New creates a Channel. A nil settings value selects DefaultSettings.
func New(transport Transport, logger *slog.Logger, settings *Settings) *Channel {
	if settings == nil {
		settings = DefaultSettings()
	}
	return &Channel{
		transport: transport,
		logger:    logger,
		settings:  settings,
		nextTag:   CorrelationBase,
	}
}

// Send enqueues an instruction without waiting for a reply
func (c *Channel) Send(ctx context.Context, op api.Opcode, requestor api.Requestor, location api.Location, args ...string) error {
	ins := api.NewInstruction(op, requestor, location, args...)
	if err := c.transport.Send(ctx, ins); err != nil {
		return fmt.Errorf("failed to send %s: %w", op, err)
	}
	return nil
}

// Await blocks until an instruction with the given opcode arrives
func (c *Channel) Await(ctx context.Context, op api.Opcode) (api.Instruction, error) {
	return c.AwaitMatch(ctx, func(ins api.Instruction) bool {
		return ins.Opcode == op
	})
}

// AwaitMatch blocks until an instruction satisfying match arrives.
// Queued instructions are checked first, oldest first.
func (c *Channel) AwaitMatch(ctx context.Context, match func(api.Instruction) bool) (api.Instruction, error) {
	for i, ins := range c.pending {
		if match(ins) {
			// slices.Delete обнуляет освободившийся хвост
			c.pending = slices.Delete(c.pending, i, i+1)
			return ins, nil
		}
	}

	for {
		ins, err := c.transport.Receive(ctx)
		if err != nil {
			return api.Instruction{}, fmt.Errorf("failed to receive instruction: %w", err)
		}
		if match(ins) {
			return ins, nil
		}
		if len(c.pending) >= c.settings.MaxPending {
			return api.Instruction{}, fmt.Errorf("%w: dropping %s", ErrQueueFull, ins)
		}
		c.logger.Debug("Deferring instruction while awaiting reply", "instruction", ins.String())
		c.pending = append(c.pending, ins)
	}
}

// Request sends a query under a fresh correlation tag and waits for the reply
// carrying the expected opcode and the same tag.
func (c *Channel) Request(ctx context.Context, ins api.Instruction, reply api.Opcode) (api.Instruction, error) {
	tag := c.nextTag
	c.nextTag++
	ins.Requestor = tag

	if err := c.transport.Send(ctx, ins); err != nil {
		return api.Instruction{}, fmt.Errorf("failed to send %s: %w", ins.Opcode, err)
	}

	resp, err := c.AwaitMatch(ctx, func(in api.Instruction) bool {
		return in.Opcode == reply && in.Requestor == tag
	})
	if err != nil {
		return api.Instruction{}, fmt.Errorf("failed to await %s: %w", reply, err)
	}
	return resp, nil
}

// Next returns the oldest queued instruction, or the next one from the transport
func (c *Channel) Next(ctx context.Context) (api.Instruction, error) {
	if len(c.pending) > 0 {
		ins := c.pending[0]
		c.pending[0] = api.Instruction{}
		c.pending = c.pending[1:]
		if len(c.pending) == 0 {
			c.pending = nil
		}
		return ins, nil
	}

	ins, err := c.transport.Receive(ctx)
	if err != nil {
		return api.Instruction{}, fmt.Errorf("failed to receive instruction: %w", err)
	}
	return ins, nil
}

// Pending returns the number of queued instructions
func (c *Channel) Pending() int {
	return len(c.pending)
}
