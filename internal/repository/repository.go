package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/hirakawa-ward/sacrament-roster/backend/internal/config"
)

type Repository struct {
	cfg    *config.Config
	dbpool *sql.DB
}

func NewRepository(cfg *config.Config, dbpool *sql.DB) *Repository {
	return &Repository{
		cfg:    cfg,
		dbpool: dbpool,
	}
}

// EnsureSchema は必要なテーブルを作成する。起動時に一度だけ呼ぶ
func (r *Repository) EnsureSchema() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS members (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			priesthood TEXT NOT NULL,
			seq BIGSERIAL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS assignments (
			date_key TEXT NOT NULL,
			duty TEXT NOT NULL,
			member_id TEXT,
			PRIMARY KEY (date_key, duty)
		)`,
		`CREATE TABLE IF NOT EXISTS unavailable_members (
			date_key TEXT NOT NULL,
			position INT NOT NULL,
			member_id TEXT NOT NULL,
			PRIMARY KEY (date_key, position)
		)`,
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	for _, query := range queries {
		if _, err := r.dbpool.ExecContext(ctx, query); err != nil {
			return err
		}
	}

	return nil
}
