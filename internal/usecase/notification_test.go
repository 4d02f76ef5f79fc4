package usecase

import (
	"context"
	"strconv"
	"testing"

	"social_auth/internal/repository"
	"social_auth/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationDelete(t *testing.T) {
	db := setupUsecaseTest(t)
	ctx := context.Background()
	repo := repository.NewNotificationRepository(db)
	uc := NewNotificationUsecase(repo)

	owner := &model.User{Name: "Ada", Email: "ada@example.com"}
	require.NoError(t, db.Create(owner).Error)
	n := &model.Notification{UserID: owner.ID, Title: "hello"}
	require.NoError(t, repo.CreateNotification(ctx, n))

	assert.ErrorIs(t, uc.Delete(ctx, "abc", "1"), ErrNotificationNotFound)
	assert.ErrorIs(t, uc.Delete(ctx, "999", itoa(n.ID)), ErrNotificationNotFound)
	assert.ErrorIs(t, uc.Delete(ctx, itoa(owner.ID), itoa(n.ID)+".5"), ErrNotificationNotFound)
	assert.ErrorIs(t, uc.Delete(ctx, itoa(owner.ID), "9007199254740993"), ErrNotificationNotFound)
	require.NoError(t, uc.Delete(ctx, itoa(owner.ID), itoa(n.ID)))
	assert.ErrorIs(t, uc.Delete(ctx, itoa(owner.ID), itoa(n.ID)), ErrNotificationNotFound)
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
