package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // SQLite driver registration.

	"pgbuddy/internal/model"
	"pgbuddy/migrations"
)

const timeLayout = "2006-01-02T15:04:05Z"

// SQLite implements Storage backed by a SQLite database.
type SQLite struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at dsn and runs pending migrations.
func NewSQLite(dsn string) (*SQLite, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=OFF"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("disable foreign keys: %w", err)
	}

	if err := migrations.Run(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLite{db: db}, nil
}

// Close closes the underlying database connection.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// ToggleSaved flips the saved-set membership of a room for a device and
// reports whether the room is saved afterwards. Toggling twice is a no-op.
func (s *SQLite) ToggleSaved(ctx context.Context, deviceID, roomID string) (bool, error) {
	saved, err := s.IsSaved(ctx, deviceID, roomID)
	if err != nil {
		return false, err
	}

	if saved {
		_, err = s.db.ExecContext(ctx,
			`DELETE FROM saved_rooms WHERE device_id = ? AND room_id = ?`,
			deviceID, roomID,
		)
		if err != nil {
			return true, fmt.Errorf("delete saved room: %w", err)
		}
		return false, nil
	}

	now := time.Now().UTC().Format(timeLayout)
	_, err = s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO saved_rooms (device_id, room_id, created_at) VALUES (?, ?, ?)`,
		deviceID, roomID, now,
	)
	if err != nil {
		return false, fmt.Errorf("insert saved room: %w", err)
	}
	return true, nil
}

// IsSaved checks whether a room is in the device's saved set.
func (s *SQLite) IsSaved(ctx context.Context, deviceID, roomID string) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM saved_rooms WHERE device_id = ? AND room_id = ?`,
		deviceID, roomID,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("check saved: %w", err)
	}
	return count > 0, nil
}

// ListSavedIDs returns the device's saved room ids in insertion order.
func (s *SQLite) ListSavedIDs(ctx context.Context, deviceID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT room_id FROM saved_rooms WHERE device_id = ? ORDER BY rowid`, deviceID,
	)
	if err != nil {
		return nil, fmt.Errorf("query saved rooms: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan saved room: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// CreateAlert inserts a new alert and populates its ID and CreatedAt.
func (s *SQLite) CreateAlert(ctx context.Context, a *model.Alert) error {
	now := time.Now().UTC().Format(timeLayout)
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO alerts (chat_id, max_price, occupancy_type, gender, query, is_active, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		a.ChatID, a.MaxPrice, string(a.OccupancyType), string(a.Gender), a.Query, boolToInt(a.IsActive), now,
	)
	if err != nil {
		return fmt.Errorf("insert alert: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("last insert id: %w", err)
	}
	a.ID = id
	a.CreatedAt, _ = time.Parse(timeLayout, now)
	return nil
}

// GetAlert returns a single alert by its ID.
func (s *SQLite) GetAlert(ctx context.Context, id int64) (*model.Alert, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, chat_id, max_price, occupancy_type, gender, query, is_active, created_at
		 FROM alerts WHERE id = ?`, id,
	)
	return scanAlert(row)
}

// ListAlerts returns all alerts belonging to the given chat.
func (s *SQLite) ListAlerts(ctx context.Context, chatID int64) ([]model.Alert, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, chat_id, max_price, occupancy_type, gender, query, is_active, created_at
		 FROM alerts WHERE chat_id = ? ORDER BY id`, chatID,
	)
	if err != nil {
		return nil, fmt.Errorf("query alerts: %w", err)
	}
	defer func() { _ = rows.Close() }()
	return scanAlerts(rows)
}

// ListActiveAlerts returns all active alerts across every chat.
func (s *SQLite) ListActiveAlerts(ctx context.Context) ([]model.Alert, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, chat_id, max_price, occupancy_type, gender, query, is_active, created_at
		 FROM alerts WHERE is_active = 1 ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("query active alerts: %w", err)
	}
	defer func() { _ = rows.Close() }()
	return scanAlerts(rows)
}

// SetAlertActive pauses or resumes an alert.
func (s *SQLite) SetAlertActive(ctx context.Context, id int64, active bool) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE alerts SET is_active = ? WHERE id = ?`, boolToInt(active), id,
	)
	if err != nil {
		return fmt.Errorf("update alert: %w", err)
	}
	return nil
}

// DeleteAlert removes an alert and its notification history.
func (s *SQLite) DeleteAlert(ctx context.Context, id int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM notified_rooms WHERE alert_id = ?`, id); err != nil {
		return fmt.Errorf("delete notified_rooms: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM alerts WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete alert: %w", err)
	}
	return tx.Commit()
}

// MarkNotified records that a room was already announced for an alert.
func (s *SQLite) MarkNotified(ctx context.Context, alertID int64, roomID string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO notified_rooms (alert_id, room_id) VALUES (?, ?)`,
		alertID, roomID,
	)
	if err != nil {
		return fmt.Errorf("mark notified: %w", err)
	}
	return nil
}

// WasNotified checks whether a room was already announced for an alert.
func (s *SQLite) WasNotified(ctx context.Context, alertID int64, roomID string) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM notified_rooms WHERE alert_id = ? AND room_id = ?`,
		alertID, roomID,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("check notified: %w", err)
	}
	return count > 0, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

type scannable interface {
	Scan(dest ...any) error
}

func scanAlert(row scannable) (*model.Alert, error) {
	var a model.Alert
	var occStr, genderStr, createdStr string
	var isActive int
	err := row.Scan(&a.ID, &a.ChatID, &a.MaxPrice, &occStr, &genderStr, &a.Query, &isActive, &createdStr)
	if err != nil {
		return nil, fmt.Errorf("scan alert: %w", err)
	}
	a.OccupancyType = model.OccupancyType(occStr)
	a.Gender = model.GenderPreference(genderStr)
	a.IsActive = isActive == 1
	a.CreatedAt, _ = time.Parse(timeLayout, createdStr)
	return &a, nil
}

func scanAlerts(rows *sql.Rows) ([]model.Alert, error) {
	var alerts []model.Alert
	for rows.Next() {
		a, err := scanAlert(rows)
		if err != nil {
			return nil, err
		}
		alerts = append(alerts, *a)
	}
	return alerts, rows.Err()
}
