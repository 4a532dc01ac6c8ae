package storage

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	logx "cronconv/pkg/logx"
)

//go:embed migrations.sql
var migrationsSQL string

type sqliteStore struct {
	db  *sql.DB
	log logx.Logger
	ids *IDSource
}

func openSQLite(cfg Config, log logx.Logger) (Store, error) {
	path := strings.TrimSpace(cfg.Path)
	if path == "" {
		return nil, errors.New("sqlite path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// SQLite prefers a single writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if cfg.BusyTimeout > 0 {
		_, _ = db.Exec(fmt.Sprintf("PRAGMA busy_timeout = %d", cfg.BusyTimeout.Milliseconds()))
	}
	_, _ = db.Exec("PRAGMA journal_mode = WAL")
	_, _ = db.Exec("PRAGMA synchronous = NORMAL")

	if _, err := db.ExecContext(context.Background(), migrationsSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite migrate: %w", err)
	}
	return &sqliteStore{db: db, log: log, ids: NewIDSource()}, nil
}

func (s *sqliteStore) Append(ctx context.Context, r Record) (Record, error) {
	if s == nil || s.db == nil {
		return Record{}, ErrDisabled
	}
	r = s.ids.stamp(r)
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO history(id, at, channel, actor, expression, from_d, to_d, ok, result, reason)
		 VALUES(?,?,?,?,?,?,?,?,?,?)`,
		r.ID, r.At.Format(time.RFC3339Nano), r.Channel, nullStr(r.Actor), r.Expression,
		r.From, r.To, boolInt(r.OK), nullStr(r.Result), nullStr(r.Reason),
	)
	if err != nil {
		return Record{}, err
	}
	return r, nil
}

func (s *sqliteStore) Recent(ctx context.Context, limit int) ([]Record, error) {
	if s == nil || s.db == nil {
		return nil, ErrDisabled
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, at, channel, actor, expression, from_d, to_d, ok, result, reason
		 FROM history ORDER BY id DESC LIMIT ?`, clampLimit(limit))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var (
			r                     Record
			at                    string
			ok                    int
			actor, result, reason sql.NullString
		)
		if err := rows.Scan(&r.ID, &at, &r.Channel, &actor, &r.Expression, &r.From, &r.To, &ok, &result, &reason); err != nil {
			return nil, err
		}
		r.At, err = time.Parse(time.RFC3339Nano, at)
		if err != nil {
			return nil, fmt.Errorf("history %s: bad timestamp %q: %w", r.ID, at, err)
		}
		r.OK = ok != 0
		r.Actor, r.Result, r.Reason = actor.String, result.String, reason.String
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *sqliteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func nullStr(v string) any {
	if strings.TrimSpace(v) == "" {
		return nil
	}
	return v
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
