package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingProcessor struct {
	got []Event
	err error
}

func (p *recordingProcessor) Process(_ context.Context, evt Event) error {
	p.got = append(p.got, evt)
	return p.err
}

func TestConstructors(t *testing.T) {
	at := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	created := MessageCreated("m1", "hello", true, "Math", at)
	assert.Equal(t, TypeMessageCreated, created.Type)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "m1", created.MessageID)
	assert.Equal(t, at, created.CreatedAt)

	deleted := MessagesDeleted("History", 4)
	assert.Equal(t, TypeMessagesDeleted, deleted.Type)
	assert.EqualValues(t, 4, deleted.Deleted)
	assert.NotEqual(t, created.ID, deleted.ID)
}

func TestInlinePublisher(t *testing.T) {
	p := &recordingProcessor{}
	pub := NewInlinePublisher(p)
	require.NoError(t, pub.Publish(context.Background(), MessagesDeleted("Math", 1)))
	require.Len(t, p.got, 1)

	p.err = errors.New("index down")
	assert.ErrorContains(t, pub.Publish(context.Background(), MessagesDeleted("Math", 1)), "index down")
}

func TestNoopPublisher(t *testing.T) {
	assert.NoError(t, NewNoopPublisher().Publish(context.Background(), Event{}))
}
