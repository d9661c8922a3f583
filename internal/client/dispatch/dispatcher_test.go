package dispatch

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/todoist/pkg/api"
)

var errDrained = errors.New("drained")

type sliceSource struct {
	items []api.Instruction
}

func (s *sliceSource) Next(context.Context) (api.Instruction, error) {
	if len(s.items) == 0 {
		return api.Instruction{}, errDrained
	}
	ins := s.items[0]
	s.items = s.items[1:]
	return ins, nil
}

func newTestDispatcher(items ...api.Instruction) *Dispatcher {
	return New(&sliceSource{items: items}, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func event(requestor api.Requestor) api.Instruction {
	return api.NewInstruction(api.OpEvent, requestor, 10, "click")
}

func TestDispatcher_RoutesByRequestor(t *testing.T) {
	d := newTestDispatcher(
		event(1), event(2), event(99), event(1),
		api.NewInstruction(api.OpFrameClose, 0, api.Body),
		event(1),
	)

	var got []api.Requestor
	for _, tag := range []api.Requestor{1, 2} {
		d.Handle(tag, func(_ context.Context, ins api.Instruction) error {
			assert.Equal(t, StateDispatching, d.State())
			got = append(got, ins.Requestor)
			return nil
		})
	}

	require.NoError(t, d.Run(context.Background()))
	assert.Equal(t, []api.Requestor{1, 2, 1}, got)
	assert.Equal(t, StateClosed, d.State())
}

func TestDispatcher_FrameCloseBeforeRouting(t *testing.T) {
	// FRAME_CLOSE с тегом зарегистрированного обработчика все равно завершает цикл
	d := newTestDispatcher(api.NewInstruction(api.OpFrameClose, 1, api.Body))

	called := false
	d.Handle(1, func(context.Context, api.Instruction) error {
		called = true
		return nil
	})

	require.NoError(t, d.Run(context.Background()))
	assert.False(t, called)
}

func TestDispatcher_HandlerErrorIsFatal(t *testing.T) {
	boom := errors.New("boom")
	d := newTestDispatcher(event(1), event(1))

	calls := 0
	d.Handle(1, func(context.Context, api.Instruction) error {
		calls++
		return boom
	})

	err := d.Run(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls)
	assert.Equal(t, StateClosed, d.State())

	// Закрытый диспетчер больше ничего не читает
	require.NoError(t, d.Run(context.Background()))
	assert.Equal(t, 1, calls)
}

func TestDispatcher_SourceError(t *testing.T) {
	d := newTestDispatcher()

	err := d.Run(context.Background())
	assert.ErrorIs(t, err, errDrained)
	assert.Equal(t, StateClosed, d.State())
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "idle", StateIdle.String())
	assert.Equal(t, "dispatching", StateDispatching.String())
	assert.Equal(t, "closed", StateClosed.String())
	assert.Equal(t, "state(7)", State(7).String())
}
