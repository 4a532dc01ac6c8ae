package storage

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.etcd.io/bbolt"

	logx "cronconv/pkg/logx"
)

var bucketHistory = []byte("history")

// boltStore keys records by ULID, so cursor order is insertion order.
type boltStore struct {
	db  *bbolt.DB
	log logx.Logger
	ids *IDSource
}

func openBolt(cfg Config, log logx.Logger) (Store, error) {
	path := strings.TrimSpace(cfg.Path)
	if path == "" {
		return nil, errors.New("bolt path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, err
	}
	if err := db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketHistory)
		return err
	}); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &boltStore{db: db, log: log, ids: NewIDSource()}, nil
}

func (s *boltStore) Append(ctx context.Context, r Record) (Record, error) {
	if err := ctx.Err(); err != nil {
		return Record{}, err
	}
	r = s.ids.stamp(r)
	b, err := json.Marshal(r)
	if err != nil {
		return Record{}, err
	}
	err = s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketHistory).Put([]byte(r.ID), b)
	})
	if err != nil {
		return Record{}, err
	}
	return r, nil
}

func (s *boltStore) Recent(ctx context.Context, limit int) ([]Record, error) {
	limit = clampLimit(limit)
	out := make([]Record, 0, limit)
	err := s.db.View(func(tx *bbolt.Tx) error {
		c := tx.Bucket(bucketHistory).Cursor()
		for k, v := c.Last(); k != nil && len(out) < limit; k, v = c.Prev() {
			if err := ctx.Err(); err != nil {
				return err
			}
			var r Record
			if err := json.Unmarshal(v, &r); err != nil {
				s.log.Debug("skipping corrupt history record", logx.String("id", string(k)), logx.Err(err))
				continue
			}
			out = append(out, r)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *boltStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
