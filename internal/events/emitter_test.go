package events

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingHandler struct {
	events []*ProgressionEvent
	err    error
}

func (h *recordingHandler) HandleEvent(_ context.Context, event *ProgressionEvent) error {
	h.events = append(h.events, event)
	return h.err
}

func TestNewProgressionEvent(t *testing.T) {
	t.Parallel()

	payload := DayUnlockedPayload{
		UserID:     uuid.New(),
		PlanID:     uuid.New(),
		DayID:      uuid.New(),
		DayNumber:  2,
		Difficulty: 3,
	}

	event, err := NewProgressionEvent(TypeDayUnlocked, payload)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, event.ID)
	assert.Equal(t, TypeDayUnlocked, event.Type)
	assert.False(t, event.CreatedAt.IsZero())

	var decoded DayUnlockedPayload
	require.NoError(t, event.UnmarshalPayload(&decoded))
	assert.Equal(t, payload, decoded)
}

func TestInMemoryEventEmitter(t *testing.T) {
	t.Parallel()

	t.Run("delivers to all handlers", func(t *testing.T) {
		t.Parallel()
		emitter := NewInMemoryEventEmitter(slog.Default())
		first := &recordingHandler{}
		second := &recordingHandler{}
		emitter.RegisterHandler(first)
		emitter.RegisterHandler(second)

		event, err := NewProgressionEvent(TypeDayCompleted, DayCompletedPayload{DayNumber: 1})
		require.NoError(t, err)

		require.NoError(t, emitter.EmitEvent(context.Background(), event))
		assert.Len(t, first.events, 1)
		assert.Len(t, second.events, 1)
	})

	t.Run("no handlers is not an error", func(t *testing.T) {
		t.Parallel()
		emitter := NewInMemoryEventEmitter(slog.Default())

		event, err := NewProgressionEvent(TypePlanCompleted, PlanCompletedPayload{})
		require.NoError(t, err)

		assert.NoError(t, emitter.EmitEvent(context.Background(), event))
	})

	t.Run("handler failure does not stop delivery", func(t *testing.T) {
		t.Parallel()
		emitter := NewInMemoryEventEmitter(slog.Default())
		failing := &recordingHandler{err: errors.New("handler down")}
		healthy := &recordingHandler{}
		emitter.RegisterHandler(failing)
		emitter.RegisterHandler(healthy)

		event, err := NewProgressionEvent(TypeDayUnlocked, DayUnlockedPayload{DayNumber: 3})
		require.NoError(t, err)

		err = emitter.EmitEvent(context.Background(), event)
		require.Error(t, err)
		assert.Len(t, healthy.events, 1)
	})
}
