package bot

import (
	"fmt"
	"strings"

	"pgbuddy/internal/model"
)

const (
	statusActive = "active"
	statusPaused = "paused"
)

// FormatRoomNotification formats a newly matched room as an alert message.
func FormatRoomNotification(alert model.Alert, room model.Room) string {
	var b strings.Builder
	fmt.Fprintf(&b, "New room for alert #%d\n\n", alert.ID)
	b.WriteString(formatRoomLine(room))
	if room.OwnerName != "" {
		fmt.Fprintf(&b, "\nOwner: %s", room.OwnerName)
	}
	if room.PhoneNumber != "" {
		fmt.Fprintf(&b, " (%s)", room.PhoneNumber)
	}
	if room.LocationLink != "" {
		b.WriteString("\n")
		b.WriteString(room.LocationLink)
	}
	return b.String()
}

// FormatAlertList formats a chat's alerts for display.
func FormatAlertList(alerts []model.Alert) string {
	if len(alerts) == 0 {
		return "You have no alerts yet. Use /watch <max_price> to create one."
	}
	var b strings.Builder
	b.WriteString("Your alerts:\n")
	for _, a := range alerts {
		status := statusActive
		if !a.IsActive {
			status = statusPaused
		}
		fmt.Fprintf(&b, "\n#%d %s [%s]\n", a.ID, FormatAlertSummary(a), status)
	}
	return b.String()
}

// FormatAlertSummary renders the criteria of an alert in one line.
func FormatAlertSummary(a model.Alert) string {
	var parts []string
	if a.MaxPrice > 0 {
		parts = append(parts, fmt.Sprintf("up to %d/month", a.MaxPrice))
	} else {
		parts = append(parts, "any price")
	}
	if a.OccupancyType != "" {
		parts = append(parts, strings.ToLower(string(a.OccupancyType)))
	}
	if a.Gender != "" {
		parts = append(parts, strings.ToLower(string(a.Gender)))
	}
	if a.Query != "" {
		parts = append(parts, fmt.Sprintf("%q", a.Query))
	}
	return strings.Join(parts, ", ")
}

// FormatSearchResults formats the top results of an interactive search.
func FormatSearchResults(result []model.RankedRoom, limit int) string {
	if len(result) == 0 {
		return "No rooms match your search."
	}

	shown := result
	if len(shown) > limit {
		shown = shown[:limit]
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d rooms", len(result))
	if len(shown) < len(result) {
		fmt.Fprintf(&b, " (showing %d)", len(shown))
	}
	b.WriteString(":\n")
	for _, r := range shown {
		b.WriteString("\n")
		b.WriteString(formatRoomLine(r.Room))
		b.WriteString("\n")
	}
	return b.String()
}

func formatRoomLine(room model.Room) string {
	var b strings.Builder
	b.WriteString(room.Name)
	if !room.IsAvailable {
		b.WriteString(" [occupied]")
	}
	fmt.Fprintf(&b, "\n%d/month, %s, %s", room.Price, room.OccupancyType, room.GenderPreference)
	if room.Location != "" {
		fmt.Fprintf(&b, "\n%s", room.Location)
	}
	return b.String()
}
