// Package storage defines the persistence interface and its implementations.
package storage

import (
	"context"

	"pgbuddy/internal/model"
)

// Storage is the interface for all persistence operations.
type Storage interface {
	// Saved set, keyed per device.
	ToggleSaved(ctx context.Context, deviceID, roomID string) (bool, error)
	IsSaved(ctx context.Context, deviceID, roomID string) (bool, error)
	ListSavedIDs(ctx context.Context, deviceID string) ([]string, error)

	// Room alerts.
	CreateAlert(ctx context.Context, a *model.Alert) error
	GetAlert(ctx context.Context, id int64) (*model.Alert, error)
	ListAlerts(ctx context.Context, chatID int64) ([]model.Alert, error)
	ListActiveAlerts(ctx context.Context) ([]model.Alert, error)
	SetAlertActive(ctx context.Context, id int64, active bool) error
	DeleteAlert(ctx context.Context, id int64) error

	// Notification dedupe per alert.
	MarkNotified(ctx context.Context, alertID int64, roomID string) error
	WasNotified(ctx context.Context, alertID int64, roomID string) (bool, error)

	Close() error
}
