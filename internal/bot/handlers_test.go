package bot

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"pgbuddy/internal/catalog"
	"pgbuddy/internal/model"
	"pgbuddy/internal/storage"
)

type mockAPI struct {
	sent []string
}

func (m *mockAPI) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if msg, ok := c.(tgbotapi.MessageConfig); ok {
		m.sent = append(m.sent, msg.Text)
	}
	return tgbotapi.Message{}, nil
}

func (m *mockAPI) GetUpdatesChan(_ tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	return make(chan tgbotapi.Update)
}

func (m *mockAPI) StopReceivingUpdates() {}

func (m *mockAPI) last(t *testing.T) string {
	t.Helper()
	if len(m.sent) == 0 {
		t.Fatal("no message sent")
	}
	return m.sent[len(m.sent)-1]
}

func newTestBot(t *testing.T) (*Bot, *mockAPI, storage.Storage) {
	t.Helper()
	store, err := storage.NewSQLite(":memory:")
	if err != nil {
		t.Fatalf("new sqlite: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	api := &mockAPI{}
	b := &Bot{
		api:     api,
		store:   store,
		catalog: catalog.New(),
		log:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	return b, api, store
}

func command(text string) *tgbotapi.Message {
	return &tgbotapi.Message{
		Text:     text,
		Chat:     &tgbotapi.Chat{ID: 100},
		Entities: []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(strings.Fields(text)[0])}},
	}
}

func TestParseWatchArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    string
		want    WatchArgs
		wantErr bool
	}{
		{
			name: "price only",
			args: "12000",
			want: WatchArgs{MaxPrice: 12000},
		},
		{
			name: "any price",
			args: "any",
			want: WatchArgs{},
		},
		{
			name: "all flags",
			args: "10000 -g female -o double -q koramangala 5th block",
			want: WatchArgs{
				MaxPrice:  10000,
				Gender:    model.GenderFemale,
				Occupancy: model.OccupancyDouble,
				Query:     "koramangala 5th block",
			},
		},
		{
			name:    "empty",
			args:    "",
			wantErr: true,
		},
		{
			name:    "negative price",
			args:    "-500",
			wantErr: true,
		},
		{
			name:    "invalid gender",
			args:    "5000 -g aliens",
			wantErr: true,
		},
		{
			name:    "invalid occupancy",
			args:    "5000 -o quadruple",
			wantErr: true,
		},
		{
			name:    "missing flag value",
			args:    "5000 -g",
			wantErr: true,
		},
		{
			name:    "stray argument",
			args:    "5000 female",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseWatchArgs(tt.args)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ParseWatchArgs mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestHandleWatchCreatesAlert(t *testing.T) {
	ctx := context.Background()
	b, api, store := newTestBot(t)

	b.handleCommand(ctx, command("/watch 12000 -g female -q hsr"))

	if !strings.Contains(api.last(t), "Alert created") {
		t.Errorf("unexpected reply: %q", api.last(t))
	}

	alerts, err := store.ListAlerts(ctx, 100)
	if err != nil {
		t.Fatalf("list alerts: %v", err)
	}
	want := []model.Alert{{
		ChatID:   100,
		MaxPrice: 12000,
		Gender:   model.GenderFemale,
		Query:    "hsr",
		IsActive: true,
	}}
	ignore := cmpopts.IgnoreFields(model.Alert{}, "ID", "CreatedAt")
	if diff := cmp.Diff(want, alerts, ignore); diff != "" {
		t.Errorf("stored alert mismatch (-want +got):\n%s", diff)
	}
}

func TestHandleWatchInvalidArgs(t *testing.T) {
	ctx := context.Background()
	b, api, store := newTestBot(t)

	b.handleCommand(ctx, command("/watch lots"))

	if !strings.Contains(api.last(t), "Usage: /watch") {
		t.Errorf("unexpected reply: %q", api.last(t))
	}
	alerts, _ := store.ListAlerts(ctx, 100)
	if len(alerts) != 0 {
		t.Errorf("alert created from invalid args: %+v", alerts)
	}
}

func TestHandleListEmpty(t *testing.T) {
	b, api, _ := newTestBot(t)

	b.handleCommand(context.Background(), command("/list"))

	if !strings.Contains(api.last(t), "no alerts yet") {
		t.Errorf("unexpected reply: %q", api.last(t))
	}
}

func TestHandleRemoveChecksOwnership(t *testing.T) {
	ctx := context.Background()
	b, api, store := newTestBot(t)

	other := model.Alert{ChatID: 999, MaxPrice: 5000, IsActive: true}
	if err := store.CreateAlert(ctx, &other); err != nil {
		t.Fatalf("create alert: %v", err)
	}

	b.handleCommand(ctx, command("/remove 1"))

	if !strings.Contains(api.last(t), "not found") {
		t.Errorf("unexpected reply: %q", api.last(t))
	}
	if _, err := store.GetAlert(ctx, other.ID); err != nil {
		t.Error("foreign alert was deleted")
	}
}

func TestHandlePauseAndResume(t *testing.T) {
	ctx := context.Background()
	b, api, store := newTestBot(t)

	alert := model.Alert{ChatID: 100, MaxPrice: 5000, IsActive: true}
	if err := store.CreateAlert(ctx, &alert); err != nil {
		t.Fatalf("create alert: %v", err)
	}

	b.handleCommand(ctx, command("/pause 1"))
	if !strings.Contains(api.last(t), "paused") {
		t.Errorf("unexpected reply: %q", api.last(t))
	}
	got, _ := store.GetAlert(ctx, alert.ID)
	if got.IsActive {
		t.Error("alert still active after /pause")
	}

	b.handleCommand(ctx, command("/resume 1"))
	got, _ = store.GetAlert(ctx, alert.ID)
	if !got.IsActive {
		t.Error("alert still paused after /resume")
	}
}

func TestHandleSearch(t *testing.T) {
	b, api, _ := newTestBot(t)
	b.catalog.Replace([]model.Room{
		{ID: "1", Name: "Cheap Single", Price: 6000, IsAvailable: true, GenderPreference: model.GenderUnisex},
		{ID: "2", Name: "Pricey Single", Price: 20000, IsAvailable: true, GenderPreference: model.GenderUnisex},
	})

	b.handleCommand(context.Background(), command("/search 10000"))

	reply := api.last(t)
	if !strings.Contains(reply, "Found 1 rooms") {
		t.Errorf("unexpected reply: %q", reply)
	}
	if !strings.Contains(reply, "Cheap Single") {
		t.Errorf("result missing room name: %q", reply)
	}
	if strings.Contains(reply, "Pricey Single") {
		t.Errorf("filtered room leaked into results: %q", reply)
	}
}

func TestHandleSearchEmptyCatalog(t *testing.T) {
	b, api, _ := newTestBot(t)

	b.handleCommand(context.Background(), command("/search any"))

	if !strings.Contains(api.last(t), "No rooms match") {
		t.Errorf("unexpected reply: %q", api.last(t))
	}
}

func TestFormatRoomNotification(t *testing.T) {
	alert := model.Alert{ID: 3}
	room := model.Room{
		Name:             "Premium Single",
		Price:            15000,
		OccupancyType:    model.OccupancySingle,
		GenderPreference: model.GenderMale,
		Location:         "HSR Layout, Bangalore",
		OwnerName:        "Rahul Sharma",
		PhoneNumber:      "+91 9876543210",
		LocationLink:     "https://maps.google.com/?q=HSR",
		IsAvailable:      true,
	}

	got := FormatRoomNotification(alert, room)

	for _, part := range []string{"alert #3", "Premium Single", "15000/month", "HSR Layout", "Rahul Sharma", "+91 9876543210", "https://maps.google.com/?q=HSR"} {
		if !strings.Contains(got, part) {
			t.Errorf("notification missing %q:\n%s", part, got)
		}
	}
}
