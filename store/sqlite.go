package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/lab1702/arena-bots/waypoint"
)

// SQLite keeps graphs as blobs in a single table.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens or creates the database at path.
func OpenSQLite(path string) (*SQLite, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLite{db: db}, nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
		`CREATE TABLE IF NOT EXISTS waypoints (
			map TEXT PRIMARY KEY,
			nodes INTEGER NOT NULL,
			saved_at INTEGER NOT NULL,
			data BLOB NOT NULL
		);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return fmt.Errorf("sqlite init: %w", err)
		}
	}
	return nil
}

func (s *SQLite) Load(ctx context.Context, mapName string) (*waypoint.Graph, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx, `SELECT data FROM waypoints WHERE map = ?`, mapName).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", mapName, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", mapName, err)
	}
	g, _, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", mapName, err)
	}
	return g, nil
}

func (s *SQLite) Save(ctx context.Context, mapName string, g *waypoint.Graph) error {
	data, err := Encode(mapName, g)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO waypoints(map, nodes, saved_at, data) VALUES(?, ?, ?, ?)
		 ON CONFLICT(map) DO UPDATE SET nodes = excluded.nodes, saved_at = excluded.saved_at, data = excluded.data`,
		mapName, g.Len(), time.Now().Unix(), data)
	if err != nil {
		return fmt.Errorf("save %s: %w", mapName, err)
	}
	return nil
}

// Maps lists the stored map names.
func (s *SQLite) Maps(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT map FROM waypoints ORDER BY map`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var m string
		if err := rows.Scan(&m); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (s *SQLite) Close() error { return s.db.Close() }
