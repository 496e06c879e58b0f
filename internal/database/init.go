package database

import (
	"context"
	"fmt"

	"github.com/yourusername/longball/internal/config"
)

// schema holds the DDL for the tracking tables. Idempotent; applied at
// startup.
const schema = `
CREATE TABLE IF NOT EXISTS predictions (
	date            date        NOT NULL,
	game_id         text        NOT NULL,
	player_id       text        NOT NULL,
	player_name     text        NOT NULL DEFAULT '',
	team            text        NOT NULL DEFAULT '',
	opponent        text        NOT NULL DEFAULT '',
	probability     double precision NOT NULL,
	season_hr_rate  double precision NOT NULL DEFAULT 0,
	category        text        NOT NULL,
	factors         jsonb       NOT NULL DEFAULT '{}',
	weights_version text        NOT NULL,
	run_tag         text        NOT NULL,
	computed_at     timestamptz NOT NULL,
	state           text        NOT NULL DEFAULT 'recorded',
	hit_home_run    boolean,
	verified_at     timestamptz,
	PRIMARY KEY (date, game_id, player_id)
);

CREATE INDEX IF NOT EXISTS predictions_date_idx ON predictions (date);

CREATE TABLE IF NOT EXISTS accuracy_reports (
	id           uuid        PRIMARY KEY,
	date         date        NOT NULL,
	scored       integer     NOT NULL,
	correct      integer     NOT NULL,
	excluded     integer     NOT NULL,
	overall      numeric     NOT NULL,
	by_category  jsonb       NOT NULL DEFAULT '{}',
	generated_at timestamptz NOT NULL
);

CREATE INDEX IF NOT EXISTS accuracy_reports_date_idx ON accuracy_reports (date);
`

// Initialize creates a connection pool and ensures the tracking schema
// exists.
func Initialize(ctx context.Context, cfg *config.DatabaseConfig) (*DB, error) {
	db, err := NewDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if _, err := db.pool.Exec(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply tracking schema: %w", err)
	}

	return db, nil
}
