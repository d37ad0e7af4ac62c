package store

import (
	"context"
	"fmt"
)

// Drivers accepted by Open.
const (
	DriverFile     = "file"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverS3       = "s3"
	DriverMemory   = "memory"
)

// Config selects and configures a backend.
type Config struct {
	Driver      string
	Dir         string
	SQLitePath  string
	PostgresDSN string
	S3          S3Config
}

// Open returns the backend named by cfg.Driver. An empty driver means file.
func Open(ctx context.Context, cfg Config) (Store, error) {
	switch cfg.Driver {
	case "", DriverFile:
		return NewFileStore(cfg.Dir)
	case DriverSQLite:
		return OpenSQLiteStore(cfg.SQLitePath)
	case DriverPostgres:
		return OpenPostgresStore(ctx, cfg.PostgresDSN)
	case DriverS3:
		return NewS3Store(ctx, cfg.S3)
	case DriverMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}
