package storage

import (
	"context"
	"errors"
	mrand "math/rand"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	logx "cronconv/pkg/logx"
)

// Store is the persistence API used by the app layer.
type Store interface {
	// Append stores r. Empty ID and zero At are filled in.
	Append(ctx context.Context, r Record) (Record, error)
	// Recent returns up to limit records, newest first.
	Recent(ctx context.Context, limit int) ([]Record, error)
	Close() error
}

// Open initializes the configured store.
// It returns (nil, nil) if storage is disabled.
func Open(cfg Config, log logx.Logger) (Store, error) {
	driver := strings.ToLower(strings.TrimSpace(cfg.Driver))
	if driver == "" || driver == "none" {
		return nil, nil
	}
	if log.IsZero() {
		log = logx.Nop()
	}
	log = log.With(logx.String("comp", "storage"), logx.String("driver", driver))

	switch driver {
	case "file":
		return openFile(cfg, log)
	case "sqlite", "sqlite3":
		return openSQLite(cfg, log)
	case "bolt", "bbolt":
		return openBolt(cfg, log)
	default:
		return nil, errors.New("unknown storage driver: " + driver)
	}
}

// IDSource hands out monotonic ULIDs so IDs sort in insertion order even
// within the same millisecond.
type IDSource struct {
	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

func NewIDSource() *IDSource {
	return &IDSource{entropy: ulid.Monotonic(mrand.New(mrand.NewSource(time.Now().UnixNano())), 0)}
}

func (s *IDSource) Next(at time.Time) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(at), s.entropy).String()
}

// stamp fills defaults on r before it is written.
func (s *IDSource) stamp(r Record) Record {
	if r.At.IsZero() {
		r.At = time.Now()
	}
	r.At = r.At.UTC()
	if r.ID == "" {
		r.ID = s.Next(r.At)
	}
	return r
}

const maxRecentLimit = 1000

func clampLimit(limit int) int {
	if limit <= 0 {
		return 20
	}
	return min(limit, maxRecentLimit)
}
