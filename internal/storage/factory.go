package storage

import (
	"fmt"
	"log"

	"park-ticketing-platform/internal/database"
)

// Config selects and parameterizes a storage backend
type Config struct {
	Backend       string // "memory", "file", "sqlite" or "redis"
	FilePath      string // base directory for the file backend
	SQLitePath    string // database file for the sqlite backend
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// NewKV builds the configured backend. An unreachable sqlite or redis backend
// degrades to the in-memory store with a logged warning instead of failing
// startup; in-memory state then remains the source of truth for the session.
func NewKV(cfg Config) KV {
	kv, err := buildKV(cfg)
	if err != nil {
		log.Printf("Warning: %v; falling back to in-memory storage", err)
		return NewMemoryKV()
	}
	return kv
}

func buildKV(cfg Config) (KV, error) {
	switch cfg.Backend {
	case "", "memory":
		return NewMemoryKV(), nil

	case "file":
		path := cfg.FilePath
		if path == "" {
			path = "data"
		}
		return NewFileKV(path)

	case "sqlite":
		path := cfg.SQLitePath
		if path == "" {
			path = "parkpass.db"
		}
		db, err := database.Open(path)
		if err != nil {
			return nil, err
		}
		return NewSQLiteKV(db)

	case "redis":
		addr := cfg.RedisAddr
		if addr == "" {
			addr = "localhost:6379"
		}
		return NewRedisKV(addr, cfg.RedisPassword, cfg.RedisDB)

	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}
