package outbox_test

import (
	"encoding/json"
	"testing"
	"time"

	"crmsync/internal/core/domain/model/kernel"
	"crmsync/internal/core/domain/model/outbox"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEvent struct {
	id kernel.UUID
	at time.Time
}

func (e fakeEvent) EventID() kernel.UUID   { return e.id }
func (e fakeEvent) EventName() string      { return "fake.happened" }
func (e fakeEvent) AggregateID() kernel.ID { return 7 }
func (e fakeEvent) OccurredAt() time.Time  { return e.at }

func TestNewMessage(t *testing.T) {
	event := fakeEvent{id: kernel.NewUUID(), at: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)}

	msg, err := outbox.NewMessage(event)

	require.NoError(t, err)
	assert.True(t, msg.ID.IsEqual(event.id))
	assert.Equal(t, "fake.happened", msg.Name)
	assert.Equal(t, kernel.ID(7), msg.AggregateID)
	assert.Equal(t, event.at, msg.OccurredAt)
	assert.False(t, msg.IsPublished())
	assert.True(t, json.Valid(msg.Payload))
}

func TestNewMessage_NilEvent(t *testing.T) {
	_, err := outbox.NewMessage(nil)
	require.Error(t, err)
}
