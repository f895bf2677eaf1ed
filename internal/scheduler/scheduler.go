// Package scheduler periodically refreshes the catalog and fires room alerts.
package scheduler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"pgbuddy/internal/bot"
	"pgbuddy/internal/catalog"
	"pgbuddy/internal/engine"
	"pgbuddy/internal/fetcher"
	"pgbuddy/internal/model"
	"pgbuddy/internal/storage"
)

// Sender is the interface for sending Telegram messages.
type Sender interface {
	SendMessage(chatID int64, text string)
}

// Scheduler refreshes the catalog from the sheet feed on a fixed interval
// and notifies chats whose alerts match newly ingested rooms.
type Scheduler struct {
	store    storage.Storage
	catalog  *catalog.Catalog
	fetcher  *fetcher.Fetcher
	sender   Sender // nil disables alert notifications
	sheetURL string
	log      *slog.Logger
	tick     time.Duration
}

// New creates a Scheduler with the default HTTP client.
func New(store storage.Storage, cat *catalog.Catalog, sender Sender, sheetURL string, log *slog.Logger) *Scheduler {
	return NewWithFetcher(store, cat, fetcher.New(http.DefaultClient), sender, sheetURL, log)
}

// NewWithFetcher creates a Scheduler with a custom fetcher (useful for testing).
func NewWithFetcher(store storage.Storage, cat *catalog.Catalog, f *fetcher.Fetcher, sender Sender, sheetURL string, log *slog.Logger) *Scheduler {
	return &Scheduler{
		store:    store,
		catalog:  cat,
		fetcher:  f,
		sender:   sender,
		sheetURL: sheetURL,
		log:      log,
		tick:     15 * time.Minute,
	}
}

// SetTickInterval overrides the default refresh interval.
func (s *Scheduler) SetTickInterval(d time.Duration) {
	s.tick = d
}

// Run starts the refresh loop, blocking until ctx is cancelled. The first
// refresh happens immediately so the catalog is populated on startup.
func (s *Scheduler) Run(ctx context.Context) {
	s.refresh(ctx)

	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.refresh(ctx)
		}
	}
}

func (s *Scheduler) refresh(ctx context.Context) {
	rooms, err := s.fetcher.Fetch(ctx, s.sheetURL)
	if err != nil {
		// Keep serving the previous snapshot.
		s.log.Error("fetch catalog", "url", s.sheetURL, "error", err)
		return
	}

	s.catalog.Replace(rooms)
	s.log.Info("catalog refreshed", "rooms", len(rooms))

	if s.sender != nil {
		s.processAlerts(ctx, rooms)
	}
}

func (s *Scheduler) processAlerts(ctx context.Context, rooms []model.Room) {
	alerts, err := s.store.ListActiveAlerts(ctx)
	if err != nil {
		s.log.Error("list active alerts", "error", err)
		return
	}

	for _, alert := range alerts {
		if ctx.Err() != nil {
			return
		}
		s.processAlert(ctx, alert, rooms)
	}
}

func (s *Scheduler) processAlert(ctx context.Context, alert model.Alert, rooms []model.Room) {
	matched := engine.Evaluate(rooms, alert.Criteria(), nil)

	sent := 0
	for _, room := range matched {
		if !room.IsAvailable {
			continue
		}

		notified, err := s.store.WasNotified(ctx, alert.ID, room.ID)
		if err != nil {
			s.log.Error("check notified", "alert_id", alert.ID, "room_id", room.ID, "error", err)
			continue
		}
		if notified {
			continue
		}

		s.sender.SendMessage(alert.ChatID, bot.FormatRoomNotification(alert, room.Room))
		sent++

		if err := s.store.MarkNotified(ctx, alert.ID, room.ID); err != nil {
			s.log.Error("mark notified", "alert_id", alert.ID, "room_id", room.ID, "error", err)
		}

		// Rate limit: ~20 messages/sec max for Telegram
		time.Sleep(50 * time.Millisecond)
	}

	if sent > 0 {
		s.log.Info("sent alert notifications", "alert_id", alert.ID, "chat_id", alert.ChatID, "count", sent)
	}
}
