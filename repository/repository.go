package repository

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// ErrItemNotFound is returned when a lookup does not match any stored item.
var ErrItemNotFound = errors.New("item not found")

// timeLayout is the SQLite-friendly timestamp format used across all tables.
// Local time is stored deliberately so that DATE() groups sessions by the
// user's calendar day, not UTC's.
const timeLayout = "2006-01-02 15:04:05"

// Repository is the single-process, single-user store backing the library.
// No locking protocol beyond the internal mutex is needed: the active session
// is the only writer and the UI reads after the fact.
type Repository struct {
	db *sql.DB
	mu sync.RWMutex
}

// Open initializes the SQLite database at the given path and migrates the schema.
func Open(path string) (*Repository, error) {
	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	r := &Repository{db: db}
	if err := r.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate schema: %w", err)
	}

	return r, nil
}

// Close releases the underlying database handle.
func (r *Repository) Close() error {
	return r.db.Close()
}

func (r *Repository) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS items (
			id TEXT PRIMARY KEY,
			path TEXT NOT NULL UNIQUE,
			folder INTEGER NOT NULL DEFAULT 0,
			title TEXT NOT NULL,
			season INTEGER NOT NULL DEFAULT 0,
			title_locked INTEGER NOT NULL DEFAULT 0,
			genres TEXT NOT NULL DEFAULT '[]',
			description TEXT NOT NULL DEFAULT '',
			poster_url TEXT NOT NULL DEFAULT '',
			backdrop_url TEXT NOT NULL DEFAULT '',
			year INTEGER NOT NULL DEFAULT 0,
			tmdb_id INTEGER NOT NULL DEFAULT 0,
			vote_average REAL NOT NULL DEFAULT 0,
			vote_count INTEGER NOT NULL DEFAULT 0,
			runtime_minutes INTEGER NOT NULL DEFAULT 0,
			fetched INTEGER NOT NULL DEFAULT 0,
			archived INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS playback (
			item_id TEXT PRIMARY KEY REFERENCES items(id) ON DELETE CASCADE,
			last_file TEXT NOT NULL DEFAULT '',
			last_index INTEGER NOT NULL DEFAULT 0,
			position REAL NOT NULL DEFAULT 0,
			duration REAL NOT NULL DEFAULT 0,
			finished INTEGER NOT NULL DEFAULT 0,
			timestamp TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS watch_events (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			item_id TEXT NOT NULL REFERENCES items(id) ON DELETE CASCADE,
			started_at TEXT NOT NULL,
			ended_at TEXT NOT NULL,
			position_start REAL NOT NULL DEFAULT 0,
			position_end REAL NOT NULL DEFAULT 0,
			episode_index INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE INDEX IF NOT EXISTS idx_watch_events_item ON watch_events(item_id, ended_at)`,
		`CREATE INDEX IF NOT EXISTS idx_watch_events_started ON watch_events(started_at)`,
	}

	for _, stmt := range stmts {
		if _, err := r.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

const itemColumns = `i.id, i.path, i.folder, i.title, i.season, i.title_locked,
	i.genres, i.description, i.poster_url, i.backdrop_url,
	i.year, i.tmdb_id, i.vote_average, i.vote_count, i.runtime_minutes,
	i.fetched, i.archived,
	COALESCE(p.last_file, ''), COALESCE(p.last_index, 0), COALESCE(p.position, 0),
	COALESCE(p.duration, 0), COALESCE(p.finished, 0), COALESCE(p.timestamp, '')`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (*Item, error) {
	var (
		item      Item
		id        string
		genres    string
		timestamp string
	)

	err := row.Scan(
		&id, &item.Path, &item.Folder, &item.Title, &item.Season, &item.TitleLocked,
		&genres, &item.Description, &item.PosterURL, &item.BackdropURL,
		&item.Year, &item.TMDBID, &item.VoteAverage, &item.VoteCount, &item.RuntimeMinutes,
		&item.Fetched, &item.Archived,
		&item.Playback.LastFile, &item.Playback.LastIndex, &item.Playback.Position,
		&item.Playback.Duration, &item.Playback.Finished, &timestamp,
	)
	if err != nil {
		return nil, err
	}

	item.ID, err = uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("parse item id: %w", err)
	}

	if err := json.Unmarshal([]byte(genres), &item.Genres); err != nil {
		item.Genres = nil
	}

	if timestamp != "" {
		if t, err := time.ParseInLocation(timeLayout, timestamp, time.Local); err == nil {
			item.Playback.Timestamp = t
		}
	}

	return &item, nil
}

// Items loads every stored library item, including its playback state.
func (r *Repository) Items() ([]*Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rows, err := r.db.Query(`SELECT ` + itemColumns + `
		FROM items i LEFT JOIN playback p ON p.item_id = i.id
		ORDER BY i.title COLLATE NOCASE`)
	if err != nil {
		return nil, fmt.Errorf("load items: %w", err)
	}
	defer rows.Close()

	var items []*Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// ItemByPath retrieves the item registered for the given filesystem path.
func (r *Repository) ItemByPath(path string) (*Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	row := r.db.QueryRow(`SELECT `+itemColumns+`
		FROM items i LEFT JOIN playback p ON p.item_id = i.id
		WHERE i.path = ?`, path)

	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrItemNotFound
	}
	return item, err
}

// ItemByID retrieves the item with the given identifier.
func (r *Repository) ItemByID(id uuid.UUID) (*Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	row := r.db.QueryRow(`SELECT `+itemColumns+`
		FROM items i LEFT JOIN playback p ON p.item_id = i.id
		WHERE i.id = ?`, id.String())

	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrItemNotFound
	}
	return item, err
}

// SaveItem upserts an item and its playback state atomically.
// Upserts avoid delete-and-reinsert so that ON DELETE CASCADE never wipes the
// item's watch events.
func (r *Repository) SaveItem(item *Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	genres, err := json.Marshal(item.Genres)
	if err != nil {
		return fmt.Errorf("encode genres: %w", err)
	}

	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.Exec(`INSERT INTO items
		(id, path, folder, title, season, title_locked, genres, description,
		 poster_url, backdrop_url, year, tmdb_id, vote_average, vote_count,
		 runtime_minutes, fetched, archived)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
		path=excluded.path, folder=excluded.folder, title=excluded.title,
		season=excluded.season, title_locked=excluded.title_locked,
		genres=excluded.genres, description=excluded.description,
		poster_url=excluded.poster_url, backdrop_url=excluded.backdrop_url,
		year=excluded.year, tmdb_id=excluded.tmdb_id,
		vote_average=excluded.vote_average, vote_count=excluded.vote_count,
		runtime_minutes=excluded.runtime_minutes, fetched=excluded.fetched,
		archived=excluded.archived`,
		item.ID.String(), item.Path, item.Folder, item.Title, item.Season,
		item.TitleLocked, string(genres), item.Description,
		item.PosterURL, item.BackdropURL, item.Year, item.TMDBID,
		item.VoteAverage, item.VoteCount, item.RuntimeMinutes,
		item.Fetched, item.Archived,
	)
	if err != nil {
		return fmt.Errorf("save item: %w", err)
	}

	ts := ""
	if !item.Playback.Timestamp.IsZero() {
		ts = item.Playback.Timestamp.Format(timeLayout)
	}

	_, err = tx.Exec(`INSERT INTO playback
		(item_id, last_file, last_index, position, duration, finished, timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(item_id) DO UPDATE SET
		last_file=excluded.last_file, last_index=excluded.last_index,
		position=excluded.position, duration=excluded.duration,
		finished=excluded.finished, timestamp=excluded.timestamp`,
		item.ID.String(), item.Playback.LastFile, item.Playback.LastIndex,
		item.Playback.Position, item.Playback.Duration, item.Playback.Finished, ts,
	)
	if err != nil {
		return fmt.Errorf("save playback: %w", err)
	}

	return tx.Commit()
}

// DeleteItem removes an item, its playback state and its watch events.
func (r *Repository) DeleteItem(id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`DELETE FROM items WHERE id = ?`, id.String())
	return err
}

// GetOrCreate returns the item registered at path, creating it with the given
// display title when missing.
func (r *Repository) GetOrCreate(path string, folder bool, title string) (*Item, error) {
	item, err := r.ItemByPath(path)
	if err == nil {
		return item, nil
	}
	if !errors.Is(err, ErrItemNotFound) {
		return nil, err
	}

	item = &Item{
		ID:     uuid.New(),
		Path:   path,
		Folder: folder,
		Title:  title,
	}
	if err := r.SaveItem(item); err != nil {
		return nil, err
	}
	return item, nil
}
