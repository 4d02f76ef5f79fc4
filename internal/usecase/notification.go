package usecase

import (
	"context"
	"errors"
	"strconv"

	"social_auth/internal/repository"
)

var ErrNotificationNotFound = errors.New("notification not found")

type NotificationUsecase interface {
	Delete(ctx context.Context, userID, notificationID string) error
}

type notificationUsecase struct {
	notificationRepo repository.NotificationRepository
}

func NewNotificationUsecase(notificationRepo repository.NotificationRepository) NotificationUsecase {
	return &notificationUsecase{notificationRepo}
}

// Delete removes a notification owned by the user. Ids that are not
// positive integers cannot match a row and report ErrNotificationNotFound.
func (u *notificationUsecase) Delete(ctx context.Context, userID, notificationID string) error {
	uid, err := strconv.ParseUint(userID, 10, 64)
	if err != nil || uid == 0 {
		return ErrNotificationNotFound
	}
	nid, err := strconv.ParseUint(notificationID, 10, 64)
	if err != nil || nid == 0 {
		return ErrNotificationNotFound
	}

	deleted, err := u.notificationRepo.DeleteNotification(ctx, uint(uid), uint(nid))
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotificationNotFound
	}
	return nil
}
