package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/game-leaderboard/internal/config"
	"github.com/game-leaderboard/internal/domain"
)

// Repository provides PostgreSQL-based data access for score records.
type Repository struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// NewRepository creates a new PostgreSQL repository
func NewRepository(cfg *config.PostgresConfig, logger *slog.Logger) (*Repository, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("parsing connection string: %w", err)
	}

	poolConfig.MaxConns = int32(cfg.MaxConnections)
	poolConfig.MinConns = int32(cfg.MinConnections)
	poolConfig.MaxConnLifetime = cfg.MaxConnLifetime
	poolConfig.MaxConnIdleTime = cfg.MaxConnIdleTime

	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	// Test connection
	if err := pool.Ping(context.Background()); err != nil {
		pool.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	return &Repository{
		pool:   pool,
		logger: logger,
	}, nil
}

// Close closes the database connection pool
func (r *Repository) Close() {
	r.pool.Close()
}

// migration is a numbered schema step. Versions are applied in order exactly
// once and recorded in schema_migrations.
type migration struct {
	version int
	stmt    string
}

var migrations = []migration{
	{
		version: 1,
		stmt: `CREATE TABLE IF NOT EXISTS scores (
			id BIGSERIAL PRIMARY KEY,
			name VARCHAR(64) NOT NULL,
			section VARCHAR(64) NOT NULL DEFAULT 'General',
			score BIGINT NOT NULL,
			skin VARCHAR(64) NOT NULL DEFAULT 'Classic',
			near_misses INT NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
	},
	{
		version: 2,
		stmt:    `CREATE INDEX IF NOT EXISTS idx_scores_section_score ON scores(section, score DESC)`,
	},
	{
		version: 3,
		stmt:    `CREATE INDEX IF NOT EXISTS idx_scores_created_at ON scores(created_at)`,
	},
}

// RunMigrations applies any unapplied schema versions. It runs once at
// process startup, never per request.
func (r *Repository) RunMigrations(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		version INT PRIMARY KEY,
		applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var current int
	err = r.pool.QueryRow(ctx, `SELECT COALESCE(MAX(version), 0) FROM schema_migrations`).Scan(&current)
	if err != nil {
		return fmt.Errorf("reading schema version: %w", err)
	}

	for _, m := range migrations {
		if m.version <= current {
			continue
		}
		if _, err := r.pool.Exec(ctx, m.stmt); err != nil {
			return fmt.Errorf("applying migration %d: %w", m.version, err)
		}
		if _, err := r.pool.Exec(ctx, `INSERT INTO schema_migrations (version) VALUES ($1)`, m.version); err != nil {
			return fmt.Errorf("recording migration %d: %w", m.version, err)
		}
		r.logger.Info("applied migration", "version", m.version)
	}

	r.logger.Info("database migrations completed", "version", migrations[len(migrations)-1].version)
	return nil
}

// Append persists a new score record. The store assigns id and created_at;
// the returned record carries both.
func (r *Repository) Append(ctx context.Context, rec domain.ScoreRecord) (domain.ScoreRecord, error) {
	query := `
		INSERT INTO scores (name, section, score, skin, near_misses)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`
	err := r.pool.QueryRow(ctx, query,
		rec.Name,
		rec.Section,
		rec.Score,
		rec.Skin,
		rec.NearMisses,
	).Scan(&rec.ID, &rec.CreatedAt)
	if err != nil {
		return domain.ScoreRecord{}, fmt.Errorf("appending score: %w", err)
	}
	return rec, nil
}

// QueryAll returns every persisted record, filtered to a section when one is
// given. Ordered by insertion so derived views are deterministic.
func (r *Repository) QueryAll(ctx context.Context, section string) ([]domain.ScoreRecord, error) {
	query := `
		SELECT id, name, section, score, skin, near_misses, created_at
		FROM scores
	`
	args := []any{}
	if section != "" {
		query += ` WHERE section = $1`
		args = append(args, section)
	}
	query += ` ORDER BY id`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying scores: %w", err)
	}
	defer rows.Close()

	var records []domain.ScoreRecord
	for rows.Next() {
		var rec domain.ScoreRecord
		err := rows.Scan(
			&rec.ID,
			&rec.Name,
			&rec.Section,
			&rec.Score,
			&rec.Skin,
			&rec.NearMisses,
			&rec.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning score: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating scores: %w", err)
	}
	return records, nil
}
