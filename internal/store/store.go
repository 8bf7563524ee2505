package store

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"bip-connector/internal/bip"
)

var ErrNotFound = errors.New("record not found")

// SavedQuery is a named statement bound to a connection.
type SavedQuery struct {
	ID           string
	Name         string
	ConnectionID string
	SQL          string
	RowLimit     int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Store persists connections and saved queries in a local SQLite file.
// The adapter core never touches it; handlers load records and pass them
// through as immutable inputs.
type Store struct {
	db *sql.DB
}

func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	s := &Store{db: db}
	if err := s.initialize(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS connections (
		id            TEXT PRIMARY KEY,
		name          TEXT NOT NULL,
		base_url      TEXT NOT NULL,
		username      TEXT NOT NULL DEFAULT '',
		password      TEXT NOT NULL DEFAULT '',
		soap_template TEXT NOT NULL DEFAULT '',
		proxy_url     TEXT NOT NULL DEFAULT '',
		created_at    DATETIME NOT NULL,
		updated_at    DATETIME NOT NULL
	);
	CREATE TABLE IF NOT EXISTS saved_queries (
		id            TEXT PRIMARY KEY,
		name          TEXT NOT NULL,
		connection_id TEXT NOT NULL DEFAULT '',
		sql_text      TEXT NOT NULL,
		row_limit     INTEGER NOT NULL DEFAULT 0,
		created_at    DATETIME NOT NULL,
		updated_at    DATETIME NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_saved_queries_connection ON saved_queries(connection_id);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) CreateConnection(ctx context.Context, conn bip.Connection) (bip.Connection, error) {
	conn.ID = uuid.NewString()
	now := time.Now().UTC()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO connections (id, name, base_url, username, password, soap_template, proxy_url, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		conn.ID, conn.Name, conn.BaseURL, conn.Username, conn.Password, conn.SOAPTemplate, conn.ProxyURL, now, now)
	if err != nil {
		return bip.Connection{}, err
	}
	return conn, nil
}

func (s *Store) UpdateConnection(ctx context.Context, conn bip.Connection) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE connections
		SET name = ?, base_url = ?, username = ?, password = ?, soap_template = ?, proxy_url = ?, updated_at = ?
		WHERE id = ?`,
		conn.Name, conn.BaseURL, conn.Username, conn.Password, conn.SOAPTemplate, conn.ProxyURL, time.Now().UTC(), conn.ID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (s *Store) GetConnection(ctx context.Context, id string) (bip.Connection, error) {
	var conn bip.Connection
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, base_url, username, password, soap_template, proxy_url
		FROM connections WHERE id = ?`, id).
		Scan(&conn.ID, &conn.Name, &conn.BaseURL, &conn.Username, &conn.Password, &conn.SOAPTemplate, &conn.ProxyURL)
	if errors.Is(err, sql.ErrNoRows) {
		return bip.Connection{}, ErrNotFound
	}
	if err != nil {
		return bip.Connection{}, err
	}
	return conn, nil
}

// FindConnection resolves a connection by id first, then by exact name.
func (s *Store) FindConnection(ctx context.Context, idOrName string) (bip.Connection, error) {
	conn, err := s.GetConnection(ctx, idOrName)
	if err == nil {
		return conn, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return bip.Connection{}, err
	}

	err = s.db.QueryRowContext(ctx, `
		SELECT id, name, base_url, username, password, soap_template, proxy_url
		FROM connections WHERE name = ? ORDER BY created_at LIMIT 1`, idOrName).
		Scan(&conn.ID, &conn.Name, &conn.BaseURL, &conn.Username, &conn.Password, &conn.SOAPTemplate, &conn.ProxyURL)
	if errors.Is(err, sql.ErrNoRows) {
		return bip.Connection{}, ErrNotFound
	}
	if err != nil {
		return bip.Connection{}, err
	}
	return conn, nil
}

func (s *Store) ListConnections(ctx context.Context) ([]bip.Connection, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, base_url, username, password, soap_template, proxy_url
		FROM connections ORDER BY name, created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]bip.Connection, 0)
	for rows.Next() {
		var conn bip.Connection
		if err := rows.Scan(&conn.ID, &conn.Name, &conn.BaseURL, &conn.Username, &conn.Password, &conn.SOAPTemplate, &conn.ProxyURL); err != nil {
			return nil, err
		}
		out = append(out, conn)
	}
	return out, rows.Err()
}

func (s *Store) DeleteConnection(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM connections WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (s *Store) CreateSavedQuery(ctx context.Context, q SavedQuery) (SavedQuery, error) {
	q.ID = uuid.NewString()
	now := time.Now().UTC()
	q.CreatedAt = now
	q.UpdatedAt = now
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO saved_queries (id, name, connection_id, sql_text, row_limit, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		q.ID, q.Name, q.ConnectionID, q.SQL, q.RowLimit, q.CreatedAt, q.UpdatedAt)
	if err != nil {
		return SavedQuery{}, err
	}
	return q, nil
}

func (s *Store) UpdateSavedQuery(ctx context.Context, q SavedQuery) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE saved_queries
		SET name = ?, connection_id = ?, sql_text = ?, row_limit = ?, updated_at = ?
		WHERE id = ?`,
		q.Name, q.ConnectionID, q.SQL, q.RowLimit, time.Now().UTC(), q.ID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (s *Store) GetSavedQuery(ctx context.Context, id string) (SavedQuery, error) {
	var q SavedQuery
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, connection_id, sql_text, row_limit, created_at, updated_at
		FROM saved_queries WHERE id = ?`, id).
		Scan(&q.ID, &q.Name, &q.ConnectionID, &q.SQL, &q.RowLimit, &q.CreatedAt, &q.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return SavedQuery{}, ErrNotFound
	}
	if err != nil {
		return SavedQuery{}, err
	}
	return q, nil
}

func (s *Store) ListSavedQueries(ctx context.Context) ([]SavedQuery, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, connection_id, sql_text, row_limit, created_at, updated_at
		FROM saved_queries ORDER BY name, created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]SavedQuery, 0)
	for rows.Next() {
		var q SavedQuery
		if err := rows.Scan(&q.ID, &q.Name, &q.ConnectionID, &q.SQL, &q.RowLimit, &q.CreatedAt, &q.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

func (s *Store) DeleteSavedQuery(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM saved_queries WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
