package storage

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"pgbuddy/internal/model"
)

var ignoreTimestamps = cmpopts.IgnoreFields(model.Alert{}, "CreatedAt")

func newTestDB(t *testing.T) *SQLite {
	t.Helper()
	s, err := NewSQLite(":memory:")
	if err != nil {
		t.Fatalf("new sqlite: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestToggleSaved(t *testing.T) {
	ctx := context.Background()
	s := newTestDB(t)

	saved, err := s.ToggleSaved(ctx, "device-1", "room-a")
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if !saved {
		t.Error("first toggle should save")
	}

	ok, err := s.IsSaved(ctx, "device-1", "room-a")
	if err != nil {
		t.Fatalf("is saved: %v", err)
	}
	if !ok {
		t.Error("room should be saved")
	}

	// Toggling again removes it: toggle twice is a no-op overall.
	saved, err = s.ToggleSaved(ctx, "device-1", "room-a")
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if saved {
		t.Error("second toggle should unsave")
	}

	ok, err = s.IsSaved(ctx, "device-1", "room-a")
	if err != nil {
		t.Fatalf("is saved: %v", err)
	}
	if ok {
		t.Error("room should no longer be saved")
	}
}

func TestListSavedIDsOrderAndIsolation(t *testing.T) {
	ctx := context.Background()
	s := newTestDB(t)

	for _, id := range []string{"room-c", "room-a", "room-b"} {
		if _, err := s.ToggleSaved(ctx, "device-1", id); err != nil {
			t.Fatalf("toggle %s: %v", id, err)
		}
	}
	if _, err := s.ToggleSaved(ctx, "device-2", "room-z"); err != nil {
		t.Fatalf("toggle other device: %v", err)
	}

	got, err := s.ListSavedIDs(ctx, "device-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	want := []string{"room-c", "room-a", "room-b"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ListSavedIDs mismatch (-want +got):\n%s", diff)
	}
}

func TestAlertCRUD(t *testing.T) {
	ctx := context.Background()
	s := newTestDB(t)

	tests := []struct {
		name  string
		alert model.Alert
	}{
		{
			name: "full alert",
			alert: model.Alert{
				ChatID:        12345,
				MaxPrice:      12000,
				OccupancyType: model.OccupancySingle,
				Gender:        model.GenderFemale,
				Query:         "koramangala",
				IsActive:      true,
			},
		},
		{
			name: "paused alert without restrictions",
			alert: model.Alert{
				ChatID:   67890,
				IsActive: false,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			alert := tt.alert
			if err := s.CreateAlert(ctx, &alert); err != nil {
				t.Fatalf("create: %v", err)
			}
			if alert.ID == 0 {
				t.Fatal("expected non-zero ID")
			}

			got, err := s.GetAlert(ctx, alert.ID)
			if err != nil {
				t.Fatalf("get: %v", err)
			}

			want := tt.alert
			want.ID = alert.ID
			if diff := cmp.Diff(want, *got, ignoreTimestamps); diff != "" {
				t.Errorf("GetAlert mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestListActiveAlerts(t *testing.T) {
	ctx := context.Background()
	s := newTestDB(t)

	alerts := []model.Alert{
		{ChatID: 1, MaxPrice: 10000, IsActive: true},
		{ChatID: 2, MaxPrice: 8000, IsActive: false},
		{ChatID: 3, Query: "hsr", IsActive: true},
	}
	for i := range alerts {
		if err := s.CreateAlert(ctx, &alerts[i]); err != nil {
			t.Fatalf("create alert %d: %v", i, err)
		}
	}

	got, err := s.ListActiveAlerts(ctx)
	if err != nil {
		t.Fatalf("list active: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 active alerts, got %d", len(got))
	}
	if got[0].ChatID != 1 || got[1].ChatID != 3 {
		t.Errorf("unexpected chats: %d, %d", got[0].ChatID, got[1].ChatID)
	}
}

func TestSetAlertActive(t *testing.T) {
	ctx := context.Background()
	s := newTestDB(t)

	alert := model.Alert{ChatID: 1, IsActive: true}
	if err := s.CreateAlert(ctx, &alert); err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := s.SetAlertActive(ctx, alert.ID, false); err != nil {
		t.Fatalf("pause: %v", err)
	}

	got, err := s.GetAlert(ctx, alert.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.IsActive {
		t.Error("alert should be paused")
	}
}

func TestDeleteAlertRemovesHistory(t *testing.T) {
	ctx := context.Background()
	s := newTestDB(t)

	alert := model.Alert{ChatID: 1, IsActive: true}
	if err := s.CreateAlert(ctx, &alert); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := s.MarkNotified(ctx, alert.ID, "room-a"); err != nil {
		t.Fatalf("mark notified: %v", err)
	}

	if err := s.DeleteAlert(ctx, alert.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if _, err := s.GetAlert(ctx, alert.ID); err == nil {
		t.Error("expected error getting deleted alert")
	}

	notified, err := s.WasNotified(ctx, alert.ID, "room-a")
	if err != nil {
		t.Fatalf("was notified: %v", err)
	}
	if notified {
		t.Error("notification history should be gone")
	}
}

func TestMarkNotifiedIdempotent(t *testing.T) {
	ctx := context.Background()
	s := newTestDB(t)

	if err := s.MarkNotified(ctx, 7, "room-a"); err != nil {
		t.Fatalf("mark: %v", err)
	}
	if err := s.MarkNotified(ctx, 7, "room-a"); err != nil {
		t.Fatalf("mark again: %v", err)
	}

	notified, err := s.WasNotified(ctx, 7, "room-a")
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if !notified {
		t.Error("room should be marked notified")
	}

	notified, err = s.WasNotified(ctx, 7, "room-b")
	if err != nil {
		t.Fatalf("check other: %v", err)
	}
	if notified {
		t.Error("unrelated room reported as notified")
	}
}
