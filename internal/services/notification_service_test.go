package services_test

import (
	"testing"

	"proshop/internal/apperrors"
	"proshop/internal/models"
	"proshop/internal/repositories"
	"proshop/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedNotifications(t *testing.T) (*services.NotificationService, *repositories.MockNotificationRepository) {
	t.Helper()
	repo := repositories.NewMockNotificationRepository()
	service := services.NewNotificationService(repo)

	notifications := []models.Notification{
		{ID: "n1", UserID: owner.UserID, Type: models.NotificationOrder, Title: "Order placed"},
		{ID: "n2", UserID: owner.UserID, Type: models.NotificationAlert, Title: "Low stock", Read: true},
		{ID: "n3", UserID: stranger.UserID, Type: models.NotificationGeneric, Title: "Welcome"},
	}
	for i := range notifications {
		require.NoError(t, repo.Create(&notifications[i]))
	}
	return service, repo
}

func TestNotificationService_Listing(t *testing.T) {
	service, _ := seedNotifications(t)

	mine, err := service.ListMine(owner)
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	// ListAll is admin-only
	_, err = service.ListAll(owner)
	var forbidden *apperrors.ForbiddenError
	assert.ErrorAs(t, err, &forbidden)

	all, err := service.ListAll(admin)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestNotificationService_MarkRead(t *testing.T) {
	service, repo := seedNotifications(t)

	// Owner may mark their own; a stranger may not
	require.NoError(t, service.MarkRead("n1", owner))
	n, err := repo.GetByID("n1")
	require.NoError(t, err)
	assert.True(t, n.Read)

	err = service.MarkRead("n3", owner)
	var forbidden *apperrors.ForbiddenError
	assert.ErrorAs(t, err, &forbidden)

	// Marking an already-read notification is a no-op
	assert.NoError(t, service.MarkRead("n1", owner))

	err = service.MarkRead("missing", owner)
	var notFound *apperrors.NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestNotificationService_DeleteScoping(t *testing.T) {
	service, repo := seedNotifications(t)

	// DeleteMany only touches the requester's own records
	require.NoError(t, service.DeleteMany([]string{"n1", "n3"}, owner))
	_, err := repo.GetByID("n1")
	var notFound *apperrors.NotFoundError
	assert.ErrorAs(t, err, &notFound)
	_, err = repo.GetByID("n3")
	assert.NoError(t, err, "another user's notification must survive a scoped bulk delete")

	// Empty id list is a validation failure
	err = service.DeleteMany(nil, owner)
	var validation *apperrors.ValidationError
	assert.ErrorAs(t, err, &validation)

	// ClearAll is scoped to the requester
	require.NoError(t, service.ClearAll(owner))
	remaining, err := repo.GetAll()
	require.NoError(t, err)
	assert.Len(t, remaining, 1)
	assert.Equal(t, "n3", remaining[0].ID)
}

func TestNotificationService_AdminVariants(t *testing.T) {
	service, repo := seedNotifications(t)

	// Admin variants are role-gated
	err := service.DeleteManyAdmin([]string{"n1"}, owner)
	var forbidden *apperrors.ForbiddenError
	assert.ErrorAs(t, err, &forbidden)
	err = service.ClearAllAdmin(owner)
	assert.ErrorAs(t, err, &forbidden)

	// System-wide bulk delete crosses user boundaries
	require.NoError(t, service.DeleteManyAdmin([]string{"n1", "n3"}, admin))
	remaining, err := repo.GetAll()
	require.NoError(t, err)
	assert.Len(t, remaining, 1)

	require.NoError(t, service.ClearAllAdmin(admin))
	remaining, err = repo.GetAll()
	require.NoError(t, err)
	assert.Empty(t, remaining)
}
