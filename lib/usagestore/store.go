package usagestore

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"starboard-backend/lib/timezone"

	_ "embed"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var Schema string

// Counter kinds recorded by the dashboard surfaces.
const (
	KindPageView  = "page_view"
	KindChartView = "chart_view"
	KindApiError  = "api_error"
)

// Store counts how often each dashboard surface gets hit. The zero
// Store is a no-op sink for callers running without a usage database.
type Store struct {
	db *sql.DB
}

func NewStore(database *sql.DB) (Store, error) {
	_, err := database.Exec(Schema)
	if err != nil {
		return Store{}, err
	}
	return Store{db: database}, nil
}

// Record bumps one counter. Usage tracking must never break a request,
// so failures are logged and swallowed.
func (s Store) Record(ctx context.Context, kind, name string) {
	if s.db == nil {
		return
	}
	_, err := s.db.ExecContext(ctx, `
INSERT INTO usage_counters (kind, name, count, last_seen)
VALUES (?, ?, 1, ?)
ON CONFLICT (kind, name) DO UPDATE SET
    count = count + 1,
    last_seen = excluded.last_seen
`, kind, name, timezone.Now().Unix())
	if err != nil {
		slog.WarnContext(ctx, "failed to record usage", "kind", kind, "name", name, "err", err)
	}
}

type UsageCount struct {
	Kind     string    `json:"kind"`
	Name     string    `json:"name"`
	Count    int64     `json:"count"`
	LastSeen time.Time `json:"last_seen"`
}

// Totals returns every counter, ordered by kind then count descending.
func (s Store) Totals(ctx context.Context) ([]UsageCount, error) {
	if s.db == nil {
		return nil, nil
	}
	rows, err := s.db.QueryContext(ctx, `
SELECT kind, name, count, last_seen
FROM usage_counters
ORDER BY kind ASC, count DESC, name ASC
`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var totals []UsageCount
	for rows.Next() {
		var row UsageCount
		var lastSeen int64
		err := rows.Scan(&row.Kind, &row.Name, &row.Count, &lastSeen)
		if err != nil {
			return nil, err
		}
		row.LastSeen = time.Unix(lastSeen, 0).In(timezone.Location)
		totals = append(totals, row)
	}
	return totals, rows.Err()
}
