package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/talent-factory-api/internal/models"
)

const configurationColumns = `key, value, type, description, updated_by, updated_at`

// Rows whose value and type are unchanged keep their original audit stamp.
const upsertConfigurationSQL = `INSERT INTO configurations (` + configurationColumns + `)
VALUES (:key, :value, :type, :description, :updated_by, :updated_at)
ON CONFLICT (key) DO UPDATE SET
	value = EXCLUDED.value,
	type = EXCLUDED.type,
	description = COALESCE(EXCLUDED.description, configurations.description),
	updated_by = EXCLUDED.updated_by,
	updated_at = EXCLUDED.updated_at
WHERE configurations.value IS DISTINCT FROM EXCLUDED.value
   OR configurations.type IS DISTINCT FROM EXCLUDED.type`

// ConfigurationRepository stores platform settings such as the review mode
// and the export toggle in the configurations table.
type ConfigurationRepository struct {
	db  *sqlx.DB
	now func() time.Time
}

func NewConfigurationRepository(db *sqlx.DB) *ConfigurationRepository {
	return &ConfigurationRepository{db: db, now: func() time.Time { return time.Now().UTC() }}
}

// ListByKeys returns the stored subset of keys ordered by key. Unknown keys
// are simply absent from the result.
func (r *ConfigurationRepository) ListByKeys(ctx context.Context, keys []string) ([]models.Configuration, error) {
	if len(keys) == 0 {
		return nil, nil
	}
	const query = `SELECT ` + configurationColumns + ` FROM configurations WHERE key = ANY($1) ORDER BY key`
	var configs []models.Configuration
	if err := r.db.SelectContext(ctx, &configs, query, pq.Array(keys)); err != nil {
		return nil, fmt.Errorf("list configurations: %w", err)
	}
	return configs, nil
}

// Get returns sql.ErrNoRows unwrapped when the key has never been written.
func (r *ConfigurationRepository) Get(ctx context.Context, key string) (*models.Configuration, error) {
	const query = `SELECT ` + configurationColumns + ` FROM configurations WHERE key = $1`
	var cfg models.Configuration
	if err := r.db.GetContext(ctx, &cfg, query, key); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (r *ConfigurationRepository) Upsert(ctx context.Context, cfg *models.Configuration) error {
	cfg.UpdatedAt = r.now()
	if _, err := r.db.NamedExecContext(ctx, upsertConfigurationSQL, cfg); err != nil {
		return fmt.Errorf("upsert configuration %s: %w", cfg.Key, err)
	}
	return nil
}

// BulkUpsert writes every entry or none. All rows share one timestamp.
func (r *ConfigurationRepository) BulkUpsert(ctx context.Context, cfgs []models.Configuration) (err error) {
	if len(cfgs) == 0 {
		return nil
	}
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin configuration batch: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	stmt, err := tx.PrepareNamedContext(ctx, upsertConfigurationSQL)
	if err != nil {
		return fmt.Errorf("prepare configuration batch: %w", err)
	}
	defer stmt.Close()

	stamp := r.now()
	for i := range cfgs {
		cfgs[i].UpdatedAt = stamp
		if _, err = stmt.ExecContext(ctx, cfgs[i]); err != nil {
			return fmt.Errorf("upsert configuration %s: %w", cfgs[i].Key, err)
		}
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit configuration batch: %w", err)
	}
	return nil
}
