package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"household-help-server/models"
)

// EventSender pushes a live event to a connected user
type EventSender interface {
	SendEvent(userID uint, eventType string, data interface{}) bool
}

// NotificationService persists notifications and delivers them over the socket and push channels.
// It implements Notifier; every failure is logged and swallowed.
type NotificationService struct {
	db     *gorm.DB
	events EventSender
	push   PushSender
}

// NewNotificationService creates a new notification service. events and push may be nil.
func NewNotificationService(db *gorm.DB, events EventSender, push PushSender) *NotificationService {
	return &NotificationService{db: db, events: events, push: push}
}

func (s *NotificationService) Notify(ctx context.Context, userID uint, kind, title, body string, data map[string]interface{}) {
	dataJSON, err := json.Marshal(data)
	if err != nil {
		log.Printf("❌ Error encoding notification data for user %d: %v", userID, err)
		dataJSON = []byte("{}")
	}

	notification := models.Notification{
		UserID: userID,
		Title:  title,
		Body:   body,
		Type:   kind,
		Data:   string(dataJSON),
	}
	if err := s.db.WithContext(ctx).Create(&notification).Error; err != nil {
		log.Printf("❌ Error creating notification record for user %d: %v", userID, err)
		return
	}

	if s.events != nil {
		s.events.SendEvent(userID, kind, notification)
	}

	if s.push == nil {
		return
	}
	var tokens []models.PushToken
	if err := s.db.WithContext(ctx).Where("user_id = ? AND active = ?", userID, true).Find(&tokens).Error; err != nil {
		log.Printf("❌ Error loading push tokens for user %d: %v", userID, err)
		return
	}
	for _, token := range tokens {
		if err := s.push.Send(ctx, token.Token, title, body, data); err != nil {
			log.Printf("❌ Error sending push notification to user %d: %v", userID, err)
		}
	}
}

// ListForUser returns the user's notifications, newest first
func (s *NotificationService) ListForUser(ctx context.Context, userID uint, limit int) ([]models.Notification, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	var notifications []models.Notification
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&notifications).Error; err != nil {
		return nil, err
	}
	return notifications, nil
}

// MarkRead marks one of the user's notifications as read
func (s *NotificationService) MarkRead(ctx context.Context, userID, notificationID uint) error {
	var notification models.Notification
	if err := s.db.WithContext(ctx).First(&notification, notificationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: notification %d", ErrNotFound, notificationID)
		}
		return err
	}
	if notification.UserID != userID {
		return fmt.Errorf("%w: notification belongs to another user", ErrUnauthorized)
	}
	return s.db.WithContext(ctx).Model(&notification).Update("read", true).Error
}

// RegisterPushToken stores a device token for the user, moving it over if another account held it
func (s *NotificationService) RegisterPushToken(ctx context.Context, userID uint, req models.PushTokenRequest) (*models.PushToken, error) {
	token := models.PushToken{
		UserID:   userID,
		Token:    req.Token,
		Platform: req.Platform,
		DeviceID: req.DeviceID,
		Active:   true,
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "token"}},
		DoUpdates: clause.AssignmentColumns([]string{"user_id", "platform", "device_id", "active", "updated_at"}),
	}).Create(&token).Error
	if err != nil {
		return nil, err
	}
	log.Printf("📱 Push token registered for user %d (%s)", userID, req.Platform)
	return &token, nil
}
