// Package alerthistory persists alert resolutions in SQLite so that a
// resolved alert stays resolved across runs.
package alerthistory

import (
	"database/sql"
	"fmt"
	"time"

	"nathanbeddoewebdev/skyglass/internal/database"
	"nathanbeddoewebdev/skyglass/internal/domain"
)

// timeLayout is fixed width so stored timestamps sort as strings.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Repository defines the persistence interface for alert resolutions.
type Repository interface {
	Save(res *Resolution) error
	Record(subscriptionID string, alert domain.Alert) error
	ResolvedIDs(subscriptionID string) ([]string, error)
	List(limit int) ([]Resolution, error)
	ListBySubscription(subscriptionID string, limit int) ([]Resolution, error)
	Prune(olderThan time.Duration) (int64, error)
	Close() error
}

// SQLiteRepository implements Repository backed by a local SQLite database.
type SQLiteRepository struct {
	db *sql.DB
}

// Open creates or opens the history repository at the default path.
func Open() (*SQLiteRepository, error) {
	path, err := database.DefaultPath()
	if err != nil {
		return nil, fmt.Errorf("alerthistory: %w", err)
	}
	return OpenAt(path)
}

// OpenAt creates or opens a SQLite database at the given path.
func OpenAt(path string) (*SQLiteRepository, error) {
	db, err := database.Open(path)
	if err != nil {
		return nil, fmt.Errorf("alerthistory: %w", err)
	}

	if err := database.Migrate(db, "alert_resolutions", schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("alerthistory: %w", err)
	}
	return &SQLiteRepository{db: db}, nil
}

// schema is append-only; see database.Migrate.
var schema = []string{
	`CREATE TABLE alert_resolutions (
        id           INTEGER PRIMARY KEY AUTOINCREMENT,
        subscription TEXT    NOT NULL,
        alert_id     TEXT    NOT NULL,
        title        TEXT    NOT NULL DEFAULT '',
        severity     TEXT    NOT NULL DEFAULT '',
        resource     TEXT    NOT NULL DEFAULT '',
        resolved_at  TEXT    NOT NULL,
        UNIQUE (subscription, alert_id)
    )`,
	`CREATE INDEX idx_alert_resolutions_resolved_at ON alert_resolutions(resolved_at)`,
}

// Save inserts a resolution. Resolving the same alert again is a no-op
// and leaves res.ID at zero.
func (r *SQLiteRepository) Save(res *Resolution) error {
	if res.Subscription == "" || res.AlertID == "" {
		return fmt.Errorf("alerthistory: subscription and alert ID are required")
	}
	if res.ResolvedAt.IsZero() {
		res.ResolvedAt = time.Now().UTC()
	}

	result, err := r.db.Exec(`
        INSERT OR IGNORE INTO alert_resolutions (subscription, alert_id, title, severity, resource, resolved_at)
        VALUES (?, ?, ?, ?, ?, ?)`,
		res.Subscription, res.AlertID, res.Title, res.Severity, res.Resource,
		res.ResolvedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("alerthistory: insert failed: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("alerthistory: failed to read affected rows: %w", err)
	}
	if n == 0 {
		return nil
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("alerthistory: failed to get last insert ID: %w", err)
	}
	res.ID = id
	return nil
}

// Record saves the resolution of alert in a subscription.
func (r *SQLiteRepository) Record(subscriptionID string, alert domain.Alert) error {
	return r.Save(&Resolution{
		Subscription: subscriptionID,
		AlertID:      alert.ID,
		Title:        alert.Title,
		Severity:     string(alert.Severity),
		Resource:     alert.Resource,
	})
}

// ResolvedIDs returns the IDs of every alert resolved in a subscription.
func (r *SQLiteRepository) ResolvedIDs(subscriptionID string) ([]string, error) {
	rows, err := r.db.Query(`SELECT alert_id FROM alert_resolutions WHERE subscription = ? ORDER BY id`, subscriptionID)
	if err != nil {
		return nil, fmt.Errorf("alerthistory: query failed: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("alerthistory: scan failed: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// List returns the most recent n resolutions.
func (r *SQLiteRepository) List(limit int) ([]Resolution, error) {
	rows, err := r.db.Query(`
        SELECT id, subscription, alert_id, title, severity, resource, resolved_at
        FROM alert_resolutions ORDER BY resolved_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("alerthistory: query failed: %w", err)
	}
	defer rows.Close()
	return scanRows(rows)
}

// ListBySubscription returns the most recent n resolutions in a
// subscription.
func (r *SQLiteRepository) ListBySubscription(subscriptionID string, limit int) ([]Resolution, error) {
	rows, err := r.db.Query(`
        SELECT id, subscription, alert_id, title, severity, resource, resolved_at
        FROM alert_resolutions WHERE subscription = ? ORDER BY resolved_at DESC LIMIT ?`, subscriptionID, limit)
	if err != nil {
		return nil, fmt.Errorf("alerthistory: query failed: %w", err)
	}
	defer rows.Close()
	return scanRows(rows)
}

// Prune deletes resolutions older than the given duration. A pruned alert
// will show as unresolved again if its source still reports it.
func (r *SQLiteRepository) Prune(olderThan time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-olderThan).Format(timeLayout)
	result, err := r.db.Exec(`DELETE FROM alert_resolutions WHERE resolved_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("alerthistory: delete failed: %w", err)
	}
	return result.RowsAffected()
}

// Close releases database resources.
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

func scanRows(rows *sql.Rows) ([]Resolution, error) {
	var out []Resolution
	for rows.Next() {
		var res Resolution
		var resolvedAt string
		err := rows.Scan(&res.ID, &res.Subscription, &res.AlertID, &res.Title, &res.Severity, &res.Resource, &resolvedAt)
		if err != nil {
			return nil, fmt.Errorf("alerthistory: scan failed: %w", err)
		}
		res.ResolvedAt, _ = time.Parse(time.RFC3339Nano, resolvedAt)
		out = append(out, res)
	}
	return out, rows.Err()
}
