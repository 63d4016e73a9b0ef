package backend

import (
	"errors"
	"fmt"

	"budgetbuddy/internal/config"
)

var errNoAppConfig = errors.New("backend: no application config")

// FromAppConfig picks the storage and event settings out of the
// application config.
func FromAppConfig(app *config.Config) (Config, error) {
	if app == nil {
		return Config{}, errNoAppConfig
	}
	c := Config{
		Type:         BackendType(app.DataBackend),
		DataDir:      app.DataDir,
		SQLiteDBPath: app.SQLiteDBPath,
		PostgresURL:  app.PostgresURL,
	}
	if app.EventsEnabled() {
		c.AMQPURL, c.AMQPExchange, c.AMQPQueue = app.AMQPURL, app.AMQPExchange, app.AMQPQueue
	}
	if !c.Type.IsValid() {
		return Config{}, fmt.Errorf("backend %q is not one of %v", app.DataBackend, GetBackendTypeStrings())
	}
	return c, nil
}

// Validate checks that the selected backend has what it needs to open.
func (c Config) Validate() error {
	var missing string
	switch c.Type {
	case FileBackend:
		if c.DataDir == "" {
			missing = "data directory"
		}
	case SQLiteBackend:
		if c.SQLiteDBPath == "" {
			missing = "database path"
		}
	case PostgresBackend:
		if c.PostgresURL == "" {
			missing = "connection URL"
		}
	case MemoryBackend:
	default:
		return fmt.Errorf("backend %q is not one of %v", c.Type, GetBackendTypeStrings())
	}
	if missing != "" {
		return fmt.Errorf("%s backend needs a %s", c.Type, missing)
	}
	return nil
}

// GetBackendTypeStrings lists the accepted DATA_BACKEND values.
func GetBackendTypeStrings() []string {
	return []string{FileBackend.String(), MemoryBackend.String(), SQLiteBackend.String(), PostgresBackend.String()}
}
