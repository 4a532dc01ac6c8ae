package config

// Config is the on-disk configuration (JSON, or YAML by file extension).
//
// Example:
//
//	logging:  { level: info, console: true }
//	engine:   { timezone: Europe/Berlin, next_count: 5 }
//	storage:  { driver: sqlite, path: ./data/history.db }
//	telegram: { enabled: true, token: "...", allowed_chat_ids: [123] }
type Config struct {
	Logging  LoggingConfig   `json:"logging"`
	Engine   EngineConfig    `json:"engine"`
	Storage  StorageConfig   `json:"storage"`
	Telegram *TelegramConfig `json:"telegram,omitempty"`
}

type LoggingConfig struct {
	Level   string      `json:"level"`
	Console bool        `json:"console"`
	File    LoggingFile `json:"file"`
}

type LoggingFile struct {
	Enabled bool   `json:"enabled"`
	Path    string `json:"path"`
}

// EngineConfig controls fire-time projection and CLI defaults.
//
// Defaults (when fields are omitted/zero):
//   - timezone: local zone of the process
//   - time_layout: "2006-01-02 15:04:05"
//   - next_count: 5
//   - default_from: unix5
//   - default_to: quartz
type EngineConfig struct {
	// Timezone is an IANA name, e.g. "Asia/Jakarta". Empty means local time.
	Timezone    string `json:"timezone,omitempty"`
	TimeLayout  string `json:"time_layout,omitempty"`
	NextCount   int    `json:"next_count,omitempty"`
	DefaultFrom string `json:"default_from,omitempty"`
	DefaultTo   string `json:"default_to,omitempty"`
}

// StorageConfig controls conversion history persistence.
//
// Driver values: "none" (default), "file", "sqlite", "bolt".
type StorageConfig struct {
	Driver string `json:"driver"`
	Path   string `json:"path"`
	// BusyTimeout is a Go duration string (sqlite only).
	BusyTimeout string `json:"busy_timeout,omitempty"`
	// HistoryLimit caps how many records `history` returns by default.
	HistoryLimit int `json:"history_limit,omitempty"`
}

// TelegramConfig controls the optional chat front-end started by `serve`.
type TelegramConfig struct {
	Enabled bool   `json:"enabled"`
	Token   string `json:"token"`
	// PollTimeout is a Go duration string (e.g. "10s", "2m").
	PollTimeout string `json:"poll_timeout,omitempty"`
	// AllowedChatIDs restricts who may use the bot. Empty allows everyone.
	AllowedChatIDs []int64 `json:"allowed_chat_ids,omitempty"`
	// RatePerSec and Burst bound commands per chat.
	RatePerSec float64 `json:"rate_per_sec,omitempty"`
	Burst      int     `json:"burst,omitempty"`
}
