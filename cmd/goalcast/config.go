package main

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/pdiddy/goalcast/internal/history"
	"github.com/pdiddy/goalcast/internal/logging"
	"github.com/pdiddy/goalcast/internal/picker"
	"github.com/pdiddy/goalcast/internal/searchclient"
	"github.com/pdiddy/goalcast/internal/secrets"
	"github.com/pdiddy/goalcast/pkg/types"
)

// setDefaults registers every configuration key so that environment
// variables are honoured even when no config file sets them.
func setDefaults(v *viper.Viper) {
	v.SetDefault("search.base_url", "http://localhost:8000")
	v.SetDefault("search.search_path", searchclient.DefaultSearchPath)
	v.SetDefault("search.predict_path", searchclient.DefaultPredictPath)
	v.SetDefault("search.timeout", 10*time.Second)
	v.SetDefault("search.user_agent", "goalcast/"+version)
	v.SetDefault("search.token", "")
	// Submission retries only. Negative disables them; zero selects the client default.
	v.SetDefault("search.max_retries", 2)

	v.SetDefault("picker.debounce", picker.DefaultDebounce)
	v.SetDefault("picker.min_query_length", picker.DefaultMinQueryLength)
	v.SetDefault("picker.timer_mode", string(types.TimerPerSide))

	v.SetDefault("history.driver", history.DriverSQLite)
	v.SetDefault("history.dsn", "")
	v.SetDefault("history.dir", ".goalcast")

	v.SetDefault("log.dir", ".goalcast")
	v.SetDefault("log.level", "INFO")

	v.SetDefault("devserver.addr", ":8000")
	v.SetDefault("devserver.fixtures", "")
}

// loadConfig decodes v into a Config and fills the service token from
// secrets when it is not configured.
func loadConfig(v *viper.Viper) (types.Config, error) {
	var cfg types.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return types.Config{}, fmt.Errorf("decoding configuration: %w", err)
	}
	cfg.Search.Token = loadedSecrets.Resolve(secrets.SearchToken, cfg.Search.Token)
	return cfg, nil
}

func openLogger(cfg types.LogConfig) (*logging.Logger, error) {
	log, err := logging.New(cfg.Dir, cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("opening log: %w", err)
	}
	return log, nil
}

func newClient(cfg types.SearchConfig) (*searchclient.Client, error) {
	c, err := searchclient.New(cfg, nil)
	if err != nil {
		return nil, fmt.Errorf("configuring search client: %w", err)
	}
	return c, nil
}
