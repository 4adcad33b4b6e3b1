package state

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/danielpatrickdp/episode-engine/internal/daily"
	"github.com/danielpatrickdp/episode-engine/internal/stats"
)

// #region schema
const schema = `
CREATE TABLE IF NOT EXISTS kv_state (
	namespace   TEXT NOT NULL,
	key         TEXT NOT NULL,
	value       TEXT NOT NULL,
	updated_at  TEXT NOT NULL,
	PRIMARY KEY (namespace, key)
);

CREATE TABLE IF NOT EXISTS stat_versions (
	version_id  TEXT PRIMARY KEY,
	namespace   TEXT NOT NULL,
	parent_id   TEXT,
	stats_json  TEXT NOT NULL,
	created_at  TEXT NOT NULL,
	FOREIGN KEY (parent_id) REFERENCES stat_versions(version_id)
);

CREATE INDEX IF NOT EXISTS idx_stat_versions_namespace ON stat_versions(namespace);

CREATE TABLE IF NOT EXISTS active_stats (
	namespace   TEXT PRIMARY KEY,
	version_id  TEXT NOT NULL,
	FOREIGN KEY (version_id) REFERENCES stat_versions(version_id)
);
`

// #endregion schema

// #region store-struct
// Store persists daily engine state in SQLite, one namespace per device or
// session. It implements daily.Store.
type Store struct {
	db        *sql.DB
	namespace string
}

var _ daily.Store = (*Store)(nil)

// #endregion store-struct

// #region constructor
// NewStore opens a SQLite database, runs migrations and scopes the store to namespace.
func NewStore(dbPath, namespace string) (*Store, error) {
	if namespace == "" {
		return nil, errors.New("namespace is required")
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma fk: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db, namespace: namespace}, nil
}

// #endregion constructor

// #region close
// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Namespace returns the namespace this store reads and writes.
func (s *Store) Namespace() string {
	return s.namespace
}

// #endregion close

// #region load
// Load returns the raw value stored for key, or (nil, nil) if it was never saved.
func (s *Store) Load(key daily.Key) ([]byte, error) {
	var value string
	err := s.db.QueryRow(
		`SELECT value FROM kv_state WHERE namespace = ? AND key = ?`,
		s.namespace, string(key),
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", key, err)
	}
	return []byte(value), nil
}

// #endregion load

// #region save
// Save upserts the value for key. Saving stats also appends a stat version
// and moves the namespace's active pointer to it, in the same transaction.
func (s *Store) Save(key daily.Key, value []byte) error {
	now := time.Now().UTC()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO kv_state (namespace, key, value, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(namespace, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		s.namespace, string(key), string(value), now.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}

	if key == daily.KeyStats {
		if err := s.appendStatVersion(tx, value, now); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (s *Store) appendStatVersion(tx *sql.Tx, value []byte, now time.Time) error {
	var parent sql.NullString
	err := tx.QueryRow(`SELECT version_id FROM active_stats WHERE namespace = ?`, s.namespace).Scan(&parent)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("get active stats: %w", err)
	}

	var parentPtr interface{}
	if parent.Valid {
		parentPtr = parent.String
	}

	id := uuid.New().String()
	_, err = tx.Exec(
		`INSERT INTO stat_versions (version_id, namespace, parent_id, stats_json, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		id, s.namespace, parentPtr, string(value), now.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert stat version: %w", err)
	}

	_, err = tx.Exec(
		`INSERT INTO active_stats (namespace, version_id) VALUES (?, ?)
		 ON CONFLICT(namespace) DO UPDATE SET version_id = excluded.version_id`,
		s.namespace, id,
	)
	if err != nil {
		return fmt.Errorf("set active stats: %w", err)
	}
	return nil
}

// #endregion save

// #region entries
// Entries returns every raw key/value row in the namespace, ordered by key.
func (s *Store) Entries() ([]Entry, error) {
	rows, err := s.db.Query(
		`SELECT key, value, updated_at FROM kv_state WHERE namespace = ? ORDER BY key`,
		s.namespace,
	)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		var value, updated string
		if err := rows.Scan(&e.Key, &value, &updated); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		e.Value = []byte(value)
		e.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updated)
		out = append(out, e)
	}
	return out, rows.Err()
}

// Namespaces lists every namespace with stored state.
func (s *Store) Namespaces() ([]string, error) {
	rows, err := s.db.Query(`SELECT DISTINCT namespace FROM kv_state ORDER BY namespace`)
	if err != nil {
		return nil, fmt.Errorf("list namespaces: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var ns string
		if err := rows.Scan(&ns); err != nil {
			return nil, fmt.Errorf("scan namespace: %w", err)
		}
		out = append(out, ns)
	}
	return out, rows.Err()
}

// #endregion entries

// #region stat-history
// StatHistory returns the most recent stat versions, newest first.
func (s *Store) StatHistory(limit int) ([]StatVersion, error) {
	rows, err := s.db.Query(
		`SELECT version_id, parent_id, stats_json, created_at FROM stat_versions
		 WHERE namespace = ? ORDER BY rowid DESC LIMIT ?`,
		s.namespace, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list stat versions: %w", err)
	}
	defer rows.Close()

	var out []StatVersion
	for rows.Next() {
		var v StatVersion
		var parent sql.NullString
		var statsJSON, created string
		if err := rows.Scan(&v.VersionID, &parent, &statsJSON, &created); err != nil {
			return nil, fmt.Errorf("scan stat version: %w", err)
		}
		v.Namespace = s.namespace
		if parent.Valid {
			v.ParentID = parent.String
		}
		if err := json.Unmarshal([]byte(statsJSON), &v.Stats); err != nil {
			v.Stats = stats.Stats{}
		}
		v.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
		out = append(out, v)
	}
	return out, rows.Err()
}

// StatVersion returns one stat version by id.
func (s *Store) StatVersion(id string) (StatVersion, error) {
	var v StatVersion
	var parent sql.NullString
	var statsJSON, created string
	err := s.db.QueryRow(
		`SELECT version_id, parent_id, stats_json, created_at FROM stat_versions
		 WHERE namespace = ? AND version_id = ?`,
		s.namespace, id,
	).Scan(&v.VersionID, &parent, &statsJSON, &created)
	if err != nil {
		return StatVersion{}, fmt.Errorf("get stat version %s: %w", id, err)
	}
	v.Namespace = s.namespace
	if parent.Valid {
		v.ParentID = parent.String
	}
	if err := json.Unmarshal([]byte(statsJSON), &v.Stats); err != nil {
		v.Stats = stats.Stats{}
	}
	v.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
	return v, nil
}

// ActiveStatVersion returns the id of the namespace's newest stat version.
func (s *Store) ActiveStatVersion() (string, error) {
	var id string
	err := s.db.QueryRow(`SELECT version_id FROM active_stats WHERE namespace = ?`, s.namespace).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("get active stats: %w", err)
	}
	return id, nil
}

// #endregion stat-history
