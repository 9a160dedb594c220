package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/cue-cli/cue/key"
	"github.com/cue-cli/cue/log"
	"github.com/google/uuid"
	"github.com/spf13/viper"
)

// TitleTime pairs a display title with an accumulated wall-clock watch time in seconds.
type TitleTime struct {
	Title   string  `json:"title"`
	Seconds float64 `json:"seconds"`
}

// RecordWatchEvent persists a viewing session for statistics tracking.
// A session for the same item that starts within the configured merge window
// of the previous one extends that event instead of creating a new row.
func (r *Repository) RecordWatchEvent(event *WatchEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	window := time.Duration(viper.GetInt(key.HistoryMergeWindow)) * time.Minute
	cutoff := event.StartedAt.Add(-window).Format(timeLayout)

	var lastID int64
	err := r.db.QueryRow(`SELECT id FROM watch_events
		WHERE item_id = ? AND ended_at >= ?
		ORDER BY ended_at DESC LIMIT 1`,
		event.ItemID.String(), cutoff,
	).Scan(&lastID)

	if err == nil {
		_, err = r.db.Exec(`UPDATE watch_events
			SET ended_at = ?, position_end = ?, episode_index = ?
			WHERE id = ?`,
			event.EndedAt.Format(timeLayout), event.PositionEnd, event.EpisodeIndex, lastID,
		)
		if err != nil {
			return fmt.Errorf("merge watch event: %w", err)
		}
		log.Debugf("merged watch event into #%d", lastID)
		return nil
	}

	_, err = r.db.Exec(`INSERT INTO watch_events
		(item_id, started_at, ended_at, position_start, position_end, episode_index)
		VALUES (?, ?, ?, ?, ?, ?)`,
		event.ItemID.String(),
		event.StartedAt.Format(timeLayout),
		event.EndedAt.Format(timeLayout),
		event.PositionStart, event.PositionEnd, event.EpisodeIndex,
	)
	if err != nil {
		return fmt.Errorf("record watch event: %w", err)
	}
	return nil
}

// TotalWatchTime returns the accumulated wall-clock watch time in seconds.
func (r *Repository) TotalWatchTime() (float64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var total float64
	err := r.db.QueryRow(`SELECT COALESCE(SUM(
			(julianday(ended_at) - julianday(started_at)) * 86400
		), 0) FROM watch_events`).Scan(&total)
	return total, err
}

// MostWatched returns the top items by accumulated wall-clock watch time.
func (r *Repository) MostWatched(limit int) ([]TitleTime, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rows, err := r.db.Query(`SELECT i.title,
			COALESCE(SUM((julianday(w.ended_at) - julianday(w.started_at)) * 86400), 0) AS watch_time
		FROM items i
		LEFT JOIN watch_events w ON w.item_id = i.id
		GROUP BY i.id
		ORDER BY watch_time DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []TitleTime
	for rows.Next() {
		var tt TitleTime
		if err := rows.Scan(&tt.Title, &tt.Seconds); err != nil {
			return nil, err
		}
		result = append(result, tt)
	}
	return result, rows.Err()
}

// StreakCalendar returns per-day watched minutes for the trailing window,
// keyed by ISO date string.
func (r *Repository) StreakCalendar(days int) (map[string]int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rows, err := r.db.Query(`SELECT DATE(started_at),
			CAST(SUM((julianday(ended_at) - julianday(started_at)) * 1440) AS INTEGER)
		FROM watch_events
		WHERE DATE(started_at) >= DATE('now', 'localtime', ?)
		GROUP BY DATE(started_at)`,
		fmt.Sprintf("-%d days", days))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	calendar := make(map[string]int)
	for rows.Next() {
		var (
			date    string
			minutes int
		)
		if err := rows.Scan(&date, &minutes); err != nil {
			return nil, err
		}
		calendar[date] = minutes
	}
	return calendar, rows.Err()
}

// ViewingPatterns returns watched minutes grouped by hour of day (0-23).
func (r *Repository) ViewingPatterns() (map[int]float64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rows, err := r.db.Query(`SELECT CAST(strftime('%H', started_at) AS INTEGER),
			COALESCE(SUM((julianday(ended_at) - julianday(started_at)) * 1440), 0)
		FROM watch_events
		GROUP BY 1 ORDER BY 1`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	patterns := make(map[int]float64)
	for rows.Next() {
		var (
			hour    int
			minutes float64
		)
		if err := rows.Scan(&hour, &minutes); err != nil {
			return nil, err
		}
		patterns[hour] = minutes
	}
	return patterns, rows.Err()
}

// RecentEvents returns the most recent watch events, newest first.
func (r *Repository) RecentEvents(limit int) ([]*WatchEvent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rows, err := r.db.Query(`SELECT id, item_id, started_at, ended_at,
			position_start, position_end, episode_index
		FROM watch_events
		ORDER BY started_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEvents(rows)
}

func scanEvents(rows *sql.Rows) ([]*WatchEvent, error) {
	var events []*WatchEvent
	for rows.Next() {
		var (
			ev      WatchEvent
			itemID  string
			started string
			ended   string
			err     error
		)
		if err := rows.Scan(&ev.ID, &itemID, &started, &ended,
			&ev.PositionStart, &ev.PositionEnd, &ev.EpisodeIndex); err != nil {
			return nil, err
		}

		ev.ItemID, err = uuid.Parse(itemID)
		if err != nil {
			return nil, fmt.Errorf("parse event item id: %w", err)
		}
		if ev.StartedAt, err = time.ParseInLocation(timeLayout, started, time.Local); err != nil {
			return nil, fmt.Errorf("parse event start: %w", err)
		}
		if ev.EndedAt, err = time.ParseInLocation(timeLayout, ended, time.Local); err != nil {
			return nil, fmt.Errorf("parse event end: %w", err)
		}

		events = append(events, &ev)
	}
	return events, rows.Err()
}

// EventsForItem returns the most recent watch events of one item, newest first.
func (r *Repository) EventsForItem(itemID uuid.UUID, limit int) ([]*WatchEvent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rows, err := r.db.Query(`SELECT id, item_id, started_at, ended_at,
			position_start, position_end, episode_index
		FROM watch_events
		WHERE item_id = ?
		ORDER BY started_at DESC
		LIMIT ?`, itemID.String(), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEvents(rows)
}

// CountItems returns the library size.
func (r *Repository) CountItems() (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var n int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM items`).Scan(&n)
	return n, err
}
