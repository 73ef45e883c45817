package services

import (
	"context"
	"fmt"
	"log"

	"firebase.google.com/go/messaging"

	"vzaimoBack/internal/models"
	"vzaimoBack/internal/repositories"
)

// WSPusher delivers an in-app event to a connected user. Implemented by the
// websocket hub in cmd.
type WSPusher interface {
	PushToUser(userID int, event string, payload interface{}) error
}

// NotificationService fans one event out over push and websocket. Both
// channels are best effort.
type NotificationService struct {
	FCM       *messaging.Client
	TokenRepo *repositories.DeviceTokenRepository
	Pusher    WSPusher
	ErrorLog  *log.Logger
}

func (s *NotificationService) NotifyNewApplication(ctx context.Context, listing models.Listing, app models.Application) error {
	title := "Новый отклик"
	body := fmt.Sprintf("На «%s» пришёл новый отклик", listing.Title)

	payload := map[string]interface{}{
		"listing_id":     listing.ID,
		"application_id": app.ID,
		"applicant_id":   app.UserID,
	}
	if s.Pusher != nil {
		if err := s.Pusher.PushToUser(listing.UserID, "new_application", payload); err != nil && s.ErrorLog != nil {
			s.ErrorLog.Printf("ws push to user %d failed: %v", listing.UserID, err)
		}
	}
	return s.sendPush(ctx, listing.UserID, title, body, map[string]string{
		"listing_id":     fmt.Sprint(listing.ID),
		"application_id": fmt.Sprint(app.ID),
	})
}

func (s *NotificationService) NotifyStatusChange(ctx context.Context, userID int, listing models.Listing, newStatus string) error {
	title := "Статус обновлён"
	body := fmt.Sprintf("«%s» теперь в статусе %s", listing.Title, newStatus)

	if s.Pusher != nil {
		if err := s.Pusher.PushToUser(userID, "status_change", map[string]interface{}{
			"listing_id": listing.ID,
			"status":     newStatus,
		}); err != nil && s.ErrorLog != nil {
			s.ErrorLog.Printf("ws push to user %d failed: %v", userID, err)
		}
	}
	return s.sendPush(ctx, userID, title, body, map[string]string{
		"listing_id": fmt.Sprint(listing.ID),
		"status":     newStatus,
	})
}

func (s *NotificationService) sendPush(ctx context.Context, userID int, title, body string, data map[string]string) error {
	if s.FCM == nil || s.TokenRepo == nil {
		return nil
	}
	tokens, err := s.TokenRepo.GetTokensByUser(ctx, userID)
	if err != nil {
		return err
	}

	for _, token := range tokens {
		message := &messaging.Message{
			Token: token,
			Notification: &messaging.Notification{
				Title: title,
				Body:  body,
			},
			Data: data,
			Android: &messaging.AndroidConfig{
				Priority: "high",
				Notification: &messaging.AndroidNotification{
					ChannelID: "high_priority_channel",
				},
			},
			APNS: &messaging.APNSConfig{
				Headers: map[string]string{
					"apns-priority": "10",
				},
				Payload: &messaging.APNSPayload{
					Aps: &messaging.Aps{
						Alert: &messaging.ApsAlert{
							Title: title,
							Body:  body,
						},
						Sound: "default",
					},
				},
			},
		}
		if _, err := s.FCM.Send(ctx, message); err != nil && s.ErrorLog != nil {
			s.ErrorLog.Printf("fcm push to token %s failed: %v", token, err)
		}
	}
	return nil
}
