package emulator

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq" // postgres driver
	"go.uber.org/zap"

	"github.com/tidecraft/ballast/internal/properties"
)

// PostgresStore persists properties as their XML wire form, one row per
// account and service kind. Survives emulator restarts; multiple emulator
// instances can share one database.
type PostgresStore struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewPostgresStore wraps an open connection. The caller owns the pool.
func NewPostgresStore(db *sql.DB, logger *zap.Logger) *PostgresStore {
	return &PostgresStore{db: db, logger: logger}
}

// Migrate creates the backing table if needed.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS service_properties (
			account    TEXT NOT NULL,
			service    TEXT NOT NULL,
			payload    TEXT NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL,
			PRIMARY KEY (account, service)
		)
	`
	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("migrate service_properties: %w", err)
	}
	return nil
}

// Get loads and decodes the stored properties, nil when absent.
func (s *PostgresStore) Get(ctx context.Context, account string, kind properties.ServiceKind) (*properties.ServiceProperties, error) {
	query := `SELECT payload FROM service_properties WHERE account = $1 AND service = $2`

	var payload string
	err := s.db.QueryRowContext(ctx, query, account, string(kind)).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get properties %s/%s: %w", account, kind, err)
	}

	return properties.Unmarshal(bytes.NewReader([]byte(payload)))
}

// Set upserts the properties in their wire form.
func (s *PostgresStore) Set(ctx context.Context, account string, kind properties.ServiceKind, props *properties.ServiceProperties) error {
	payload, err := properties.Marshal(props)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO service_properties (account, service, payload, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (account, service)
		DO UPDATE SET payload = EXCLUDED.payload, updated_at = EXCLUDED.updated_at
	`
	if _, err := s.db.ExecContext(ctx, query, account, string(kind), string(payload), time.Now()); err != nil {
		return fmt.Errorf("set properties %s/%s: %w", account, kind, err)
	}

	s.logger.Debug("stored service properties",
		zap.String("account", account),
		zap.String("service", string(kind)))
	return nil
}
