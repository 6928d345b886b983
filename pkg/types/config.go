package types

import "time"

// HTTPConfig holds shared HTTP settings used by anything that talks to the
// prediction service.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "goalcast/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`
}

// SearchConfig locates the search and prediction endpoints.
type SearchConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// BaseURL is the prediction service root (e.g. "http://localhost:8000").
	BaseURL string `json:"base_url" yaml:"base_url" mapstructure:"base_url"`

	// SearchPath is the team search endpoint (default "/search_team").
	SearchPath string `json:"search_path" yaml:"search_path" mapstructure:"search_path"`

	// PredictPath is the form submission endpoint (default "/predict").
	PredictPath string `json:"predict_path" yaml:"predict_path" mapstructure:"predict_path"`

	// Token is sent as X-Auth-Token when non-empty.
	Token string `json:"token,omitempty" yaml:"token,omitempty" mapstructure:"token"`

	// MaxRetries bounds submission retries on HTTP 429 and 503 (default 2).
	// Searches are never retried.
	MaxRetries int `json:"max_retries" yaml:"max_retries" mapstructure:"max_retries"`
}

// TimerMode selects how search debounce timers are shared between the two
// sides of the form.
type TimerMode string

const (
	// TimerPerSide gives each side its own debounce timer.
	TimerPerSide TimerMode = "per_side"

	// TimerShared reuses a single timer slot for both sides, so typing on
	// one side cancels a pending search on the other.
	TimerShared TimerMode = "shared"
)

// PickerConfig tunes the team picker.
type PickerConfig struct {
	// Debounce is the quiet period before a query is sent (default 300ms).
	Debounce time.Duration `json:"debounce" yaml:"debounce" mapstructure:"debounce"`

	// MinQueryLength is the shortest trimmed query that triggers a search
	// (default 3).
	MinQueryLength int `json:"min_query_length" yaml:"min_query_length" mapstructure:"min_query_length"`

	// TimerMode is per_side (default) or shared.
	TimerMode TimerMode `json:"timer_mode" yaml:"timer_mode" mapstructure:"timer_mode"`
}

// HistoryConfig selects where submitted predictions are logged.
type HistoryConfig struct {
	// Driver is "sqlite3" (default) or "postgres".
	Driver string `json:"driver" yaml:"driver" mapstructure:"driver"`

	// DSN is the postgres connection string, or an explicit sqlite path.
	DSN string `json:"dsn,omitempty" yaml:"dsn,omitempty" mapstructure:"dsn"`

	// Dir holds the sqlite database when DSN is empty.
	Dir string `json:"dir" yaml:"dir" mapstructure:"dir"`
}

// LogConfig controls the structured log file.
type LogConfig struct {
	// Dir is where goalcast.log is written. Empty means stderr.
	Dir string `json:"dir" yaml:"dir" mapstructure:"dir"`

	// Level is DEBUG, INFO, WARN or ERROR.
	Level string `json:"level" yaml:"level" mapstructure:"level"`
}

// DevServerConfig configures the offline fixture server.
type DevServerConfig struct {
	Addr     string `json:"addr" yaml:"addr" mapstructure:"addr"`
	Fixtures string `json:"fixtures" yaml:"fixtures" mapstructure:"fixtures"`
}

// Config groups every section of goalcast.yaml.
type Config struct {
	Search    SearchConfig    `json:"search" yaml:"search" mapstructure:"search"`
	Picker    PickerConfig    `json:"picker" yaml:"picker" mapstructure:"picker"`
	History   HistoryConfig   `json:"history" yaml:"history" mapstructure:"history"`
	Log       LogConfig       `json:"log" yaml:"log" mapstructure:"log"`
	DevServer DevServerConfig `json:"devserver" yaml:"devserver" mapstructure:"devserver"`
}
