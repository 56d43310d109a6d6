package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishInvokesSubscribers(t *testing.T) {
	d := NewInMemoryDispatcher()

	var seen []string
	d.Subscribe(EventTicketCreated, func(ctx context.Context, e Event) error {
		seen = append(seen, e.TicketID)
		return nil
	})
	d.Subscribe(EventTicketCreated, func(ctx context.Context, e Event) error {
		seen = append(seen, e.TicketID+"-again")
		return nil
	})

	require.NoError(t, d.Publish(context.Background(), Event{Type: EventTicketCreated, TicketID: "t-1"}))
	assert.Equal(t, []string{"t-1", "t-1-again"}, seen)
}

func TestPublishIgnoresUnsubscribedTypes(t *testing.T) {
	d := NewInMemoryDispatcher()
	require.NoError(t, d.Publish(context.Background(), Event{Type: EventTicketDeleted, TicketID: "t-1"}))
}

func TestHandlerErrorDoesNotStopOthers(t *testing.T) {
	d := NewInMemoryDispatcher()

	called := false
	d.Subscribe(EventTicketClaimed, func(ctx context.Context, e Event) error {
		return errors.New("smtp down")
	})
	d.Subscribe(EventTicketClaimed, func(ctx context.Context, e Event) error {
		called = true
		return nil
	})

	err := d.Publish(context.Background(), Event{Type: EventTicketClaimed, TicketID: "t-1"})
	require.NoError(t, err)
	assert.True(t, called)
}
