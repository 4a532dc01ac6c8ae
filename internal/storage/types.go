package storage

import (
	"errors"
	"time"
)

var ErrDisabled = errors.New("storage disabled")

// Config configures storage. If Driver is empty or "none", storage is disabled.
type Config struct {
	Driver      string
	Path        string
	BusyTimeout time.Duration // sqlite only; 0 means default
}

// Record is one conversion attempt. Keep it compact and schema-stable.
type Record struct {
	ID         string    `json:"id"`
	At         time.Time `json:"at"`
	Channel    string    `json:"channel"` // "cli" | "telegram"
	Actor      string    `json:"actor,omitempty"`
	Expression string    `json:"expression"`
	From       string    `json:"from"`
	To         string    `json:"to"`
	OK         bool      `json:"ok"`
	Result     string    `json:"result,omitempty"`
	Reason     string    `json:"reason,omitempty"`
}
