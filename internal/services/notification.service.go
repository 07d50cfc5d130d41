package services

import (
	"github.com/AbbasAlizada1380/mellat/internal/events"
	"github.com/AbbasAlizada1380/mellat/internal/logger"

	"github.com/google/uuid"
)

const (
	CHANNEL_ATHLETES = "athletes"
	CHANNEL_FEES     = "fees"

	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// NotificationService tells connected dashboards that a row changed so
// they can refetch. Failures are logged and never fail the write.
type NotificationService struct {
	eventBus *events.EventBus
	log      logger.Logger
}

func NewNotificationService(eventBus *events.EventBus) *NotificationService {
	return &NotificationService{
		eventBus: eventBus,
		log:      logger.New("NotificationService"),
	}
}

func (s *NotificationService) AthleteChanged(action string, athleteID uint, userID uint) {
	s.publish(CHANNEL_ATHLETES, "athlete."+action, action, userID, map[string]any{
		"athleteId": athleteID,
	})
}

func (s *NotificationService) FeeChanged(action string, feeID uint, athleteID uint, userID uint) {
	s.publish(CHANNEL_FEES, "fee."+action, action, userID, map[string]any{
		"feeId":     feeID,
		"athleteId": athleteID,
	})
}

func (s *NotificationService) publish(
	channel, eventType, action string,
	userID uint,
	data map[string]any,
) {
	if s == nil || s.eventBus == nil {
		return
	}

	event := events.Event{
		ID:     uuid.NewString(),
		Type:   eventType,
		Action: action,
		UserID: userID,
		Data:   data,
	}

	if err := s.eventBus.Publish(channel, event); err != nil {
		s.log.Function("publish").Warn("failed to publish change event", "type", eventType, "error", err)
	}
}
