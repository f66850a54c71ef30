package notifysync

import (
	"proshop/internal/models"
	"proshop/internal/services"
)

// ServiceRemote adapts the server-side NotificationService to the Remote
// interface for in-process clients, scoped to one requester.
type ServiceRemote struct {
	service   *services.NotificationService
	requester models.Requester
}

// NewServiceRemote creates a Remote backed by the given service, acting as
// requester.
func NewServiceRemote(service *services.NotificationService, requester models.Requester) *ServiceRemote {
	return &ServiceRemote{
		service:   service,
		requester: requester,
	}
}

// Fetch returns the requester's notifications, newest first.
func (r *ServiceRemote) Fetch() ([]models.Notification, error) {
	return r.service.ListMine(r.requester)
}

// MarkRead flips one notification to read on the server.
func (r *ServiceRemote) MarkRead(id string) error {
	return r.service.MarkRead(id, r.requester)
}

// MarkAllRead flips all of the requester's notifications to read.
func (r *ServiceRemote) MarkAllRead() error {
	return r.service.MarkAllRead(r.requester)
}

// Delete removes one notification on the server.
func (r *ServiceRemote) Delete(id string) error {
	return r.service.DeleteOne(id, r.requester)
}

// DeleteMany removes the given notifications on the server.
func (r *ServiceRemote) DeleteMany(ids []string) error {
	return r.service.DeleteMany(ids, r.requester)
}

// ClearAll removes every one of the requester's notifications on the server.
func (r *ServiceRemote) ClearAll() error {
	return r.service.ClearAll(r.requester)
}
