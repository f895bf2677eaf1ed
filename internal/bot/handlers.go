package bot

import (
	"context"
	"fmt"

	"pgbuddy/internal/engine"
	"pgbuddy/internal/model"
)

const searchResultLimit = 5

func (b *Bot) handleStart(chatID int64) {
	b.reply(chatID, `Welcome to PG Buddy!

Get notified when rooms matching your budget appear in the catalog.

Quick start:
1. /watch 12000 — alert for rooms up to 12000/month
2. /search 10000 -g female — search the catalog right now
3. /list — show your alerts

Use /help for the full command reference.`)
}

func (b *Bot) handleHelp(chatID int64) {
	b.reply(chatID, `Alerts:
/watch <max_price|any> [-g gender] [-o occupancy] [-q text] — create an alert
/list — show all your alerts
/remove <id> — delete an alert
/pause <id> — pause notifications
/resume <id> — resume notifications

Search:
/search <max_price|any> [-g gender] [-o occupancy] [-q text] — query the catalog

Flags:
-g male | female | unisex
-o single | double | triple
-q free text (matched against name, location, flat type)`)
}

func (b *Bot) handleWatch(ctx context.Context, chatID int64, args string) {
	w, err := ParseWatchArgs(args)
	if err != nil {
		b.reply(chatID, fmt.Sprintf("Usage: /watch <max_price|any> [-g gender] [-o occupancy] [-q text]\n%v", err))
		return
	}

	alert := &model.Alert{
		ChatID:        chatID,
		MaxPrice:      w.MaxPrice,
		OccupancyType: w.Occupancy,
		Gender:        w.Gender,
		Query:         w.Query,
		IsActive:      true,
	}
	if err := b.store.CreateAlert(ctx, alert); err != nil {
		b.reply(chatID, fmt.Sprintf("Failed to save alert: %v", err))
		return
	}

	b.reply(chatID, fmt.Sprintf("Alert created!\n#%d %s\nYou will be notified when matching rooms appear.",
		alert.ID, FormatAlertSummary(*alert)))
}

func (b *Bot) handleList(ctx context.Context, chatID int64) {
	alerts, err := b.store.ListAlerts(ctx, chatID)
	if err != nil {
		b.reply(chatID, fmt.Sprintf("Error: %v", err))
		return
	}
	b.reply(chatID, FormatAlertList(alerts))
}

func (b *Bot) handleRemove(ctx context.Context, chatID int64, args string) {
	alert, ok := b.ownedAlert(ctx, chatID, args)
	if !ok {
		return
	}

	if err := b.store.DeleteAlert(ctx, alert.ID); err != nil {
		b.reply(chatID, fmt.Sprintf("Failed to delete alert: %v", err))
		return
	}
	b.reply(chatID, fmt.Sprintf("Alert #%d removed.", alert.ID))
}

func (b *Bot) handleSetActive(ctx context.Context, chatID int64, args string, active bool) {
	alert, ok := b.ownedAlert(ctx, chatID, args)
	if !ok {
		return
	}

	if err := b.store.SetAlertActive(ctx, alert.ID, active); err != nil {
		b.reply(chatID, fmt.Sprintf("Failed to update alert: %v", err))
		return
	}
	if active {
		b.reply(chatID, fmt.Sprintf("Alert #%d resumed.", alert.ID))
	} else {
		b.reply(chatID, fmt.Sprintf("Alert #%d paused.", alert.ID))
	}
}

func (b *Bot) handleSearch(chatID int64, args string) {
	w, err := ParseWatchArgs(args)
	if err != nil {
		b.reply(chatID, fmt.Sprintf("Usage: /search <max_price|any> [-g gender] [-o occupancy] [-q text]\n%v", err))
		return
	}

	c := model.Criteria{MaxPrice: w.MaxPrice, Query: w.Query}
	if w.Occupancy != "" {
		c.OccupancyTypes = []model.OccupancyType{w.Occupancy}
	}
	if w.Gender != "" {
		c.Genders = []model.GenderPreference{w.Gender}
	}

	result := engine.Evaluate(b.catalog.Snapshot(), c, nil)
	b.reply(chatID, FormatSearchResults(result, searchResultLimit))
}

// ownedAlert resolves an alert ID argument and checks it belongs to the chat.
func (b *Bot) ownedAlert(ctx context.Context, chatID int64, args string) (*model.Alert, bool) {
	id, err := ParseIDArg(args)
	if err != nil {
		b.reply(chatID, fmt.Sprintf("Usage: /remove|/pause|/resume <id>\n%v", err))
		return nil, false
	}

	alert, err := b.store.GetAlert(ctx, id)
	if err != nil || alert.ChatID != chatID {
		b.reply(chatID, fmt.Sprintf("Alert #%d not found.", id))
		return nil, false
	}
	return alert, true
}
