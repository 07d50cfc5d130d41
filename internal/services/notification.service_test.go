package services

import (
	"testing"
	"time"

	"github.com/AbbasAlizada1380/mellat/config"
	"github.com/AbbasAlizada1380/mellat/internal/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationService_PublishesChanges(t *testing.T) {
	bus := events.New(nil, config.Config{})
	defer bus.Close()

	ch, unsubscribe := bus.Subscribe()
	defer unsubscribe()

	service := NewNotificationService(bus)
	service.AthleteChanged(ActionCreated, 4, 1)
	service.FeeChanged(ActionDeleted, 9, 4, 1)

	tests := []struct {
		channel   string
		eventType string
		action    string
		data      map[string]any
	}{
		{CHANNEL_ATHLETES, "athlete.created", ActionCreated, map[string]any{"athleteId": uint(4)}},
		{CHANNEL_FEES, "fee.deleted", ActionDeleted, map[string]any{"feeId": uint(9), "athleteId": uint(4)}},
	}

	for _, tt := range tests {
		select {
		case event := <-ch:
			assert.Equal(t, tt.channel, event.Channel)
			assert.Equal(t, tt.eventType, event.Type)
			assert.Equal(t, tt.action, event.Action)
			assert.Equal(t, uint(1), event.UserID)
			assert.Equal(t, tt.data, event.Data)
			assert.NotEmpty(t, event.ID)
		case <-time.After(time.Second):
			require.Fail(t, "timed out waiting for event", tt.eventType)
		}
	}
}

func TestNotificationService_NilBus(t *testing.T) {
	var service *NotificationService
	assert.NotPanics(t, func() { service.AthleteChanged(ActionUpdated, 1, 0) })
	assert.NotPanics(t, func() { NewNotificationService(nil).FeeChanged(ActionCreated, 1, 1, 0) })
}
