package messaging_test

import (
	"errors"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/dvsilva/shortr/internal/analytics"
	"github.com/dvsilva/shortr/internal/messaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockPublisher struct {
	messages   []*message.Message
	topic      string
	publishErr error
	closeErr   error
}

func (m *mockPublisher) Publish(topic string, msgs ...*message.Message) error {
	if m.publishErr != nil {
		return m.publishErr
	}

	m.topic = topic
	m.messages = append(m.messages, msgs...)

	return nil
}

func (m *mockPublisher) Close() error {
	return m.closeErr
}

func TestNewPublishFunc(t *testing.T) {
	t.Run("publishes a visit event as json", func(t *testing.T) {
		mock := &mockPublisher{}
		publish := messaging.NewPublishFunc[analytics.URLVisitedEvent](mock, analytics.TopicURLVisited)

		event := &analytics.URLVisitedEvent{
			Code:      "abc123",
			VisitedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
			Browser:   "Chrome",
		}

		err := publish(event)

		require.NoError(t, err)
		assert.Equal(t, analytics.TopicURLVisited, mock.topic)
		assert.Len(t, mock.messages, 1)
		assert.Contains(t, string(mock.messages[0].Payload), `"code":"abc123"`)
	})

	t.Run("returns error when publish fails", func(t *testing.T) {
		mock := &mockPublisher{publishErr: errors.New("publish error")}
		publish := messaging.NewPublishFunc[analytics.URLVisitedEvent](mock, analytics.TopicURLVisited)

		err := publish(&analytics.URLVisitedEvent{Code: "abc123"})

		assert.Error(t, err)
	})
}

func TestPublisherGroup(t *testing.T) {
	t.Run("returns underlying publisher", func(t *testing.T) {
		mock := &mockPublisher{}
		group := messaging.NewPublisherGroup(mock)

		assert.Equal(t, mock, group.Publisher())
	})

	t.Run("shutdown closes the publisher", func(t *testing.T) {
		mock := &mockPublisher{}
		group := messaging.NewPublisherGroup(mock)

		require.NoError(t, group.Shutdown())
	})

	t.Run("returns error when close fails", func(t *testing.T) {
		mock := &mockPublisher{closeErr: errors.New("close error")}
		group := messaging.NewPublisherGroup(mock)

		assert.Error(t, group.Shutdown())
	})
}
