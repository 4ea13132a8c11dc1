package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// EnsureSchema crea las tablas del sistema si no existen. Es idempotente:
// se corre en cada arranque antes de servir tráfico.
//
// data, item_snapshot y los before/after del historial usan el tipo json y
// no jsonb: jsonb reordena las claves y el orden de inserción del data de
// una fila es parte del contrato.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id            VARCHAR(36) PRIMARY KEY,
			email         VARCHAR(255) UNIQUE NOT NULL,
			password_hash VARCHAR(255) NOT NULL,
			name          VARCHAR(255) NOT NULL,
			role          VARCHAR(20)  NOT NULL DEFAULT 'user',
			status        VARCHAR(20)  NOT NULL DEFAULT 'active',
			created_at    TIMESTAMPTZ  NOT NULL,
			updated_at    TIMESTAMPTZ  NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS tables (
			id            VARCHAR(36) PRIMARY KEY,
			owner_id      VARCHAR(36)  NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			name          VARCHAR(200) NOT NULL,
			description   TEXT         NOT NULL DEFAULT '',
			visibility    VARCHAR(10)  NOT NULL DEFAULT 'private',
			table_type    VARCHAR(10)  NOT NULL DEFAULT 'default',
			rental_period VARCHAR(10)  NOT NULL DEFAULT '',
			created_at    TIMESTAMPTZ  NOT NULL,
			updated_at    TIMESTAMPTZ  NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS tables_owner_idx ON tables (owner_id, created_at DESC)`,
		`CREATE TABLE IF NOT EXISTS columns (
			id               VARCHAR(36) PRIMARY KEY,
			table_id         VARCHAR(36)  NOT NULL REFERENCES tables(id) ON DELETE CASCADE,
			name             VARCHAR(200) NOT NULL,
			column_type      VARCHAR(100) NOT NULL,
			is_required      BOOLEAN      NOT NULL DEFAULT FALSE,
			allow_duplicates BOOLEAN      NOT NULL DEFAULT TRUE,
			default_value    TEXT         NOT NULL DEFAULT '',
			position         INTEGER      NOT NULL DEFAULT 0,
			created_at       TIMESTAMPTZ  NOT NULL,
			updated_at       TIMESTAMPTZ  NOT NULL
		)`,
		// Respaldo del chequeo de duplicados del use case frente a carreras.
		`CREATE UNIQUE INDEX IF NOT EXISTS columns_table_name_key ON columns (table_id, LOWER(name))`,
		`CREATE INDEX IF NOT EXISTS columns_table_position_idx ON columns (table_id, position)`,
		`CREATE TABLE IF NOT EXISTS data_rows (
			id         VARCHAR(36) PRIMARY KEY,
			table_id   VARCHAR(36) NOT NULL REFERENCES tables(id) ON DELETE CASCADE,
			data       JSON        NOT NULL DEFAULT '{}',
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS data_rows_table_idx ON data_rows (table_id, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS data_rows_updated_idx ON data_rows (updated_at DESC)`,
		`CREATE TABLE IF NOT EXISTS sales (
			id             VARCHAR(36) PRIMARY KEY,
			sale_number    VARCHAR(30)  UNIQUE NOT NULL,
			table_id       VARCHAR(36)  NOT NULL REFERENCES tables(id) ON DELETE CASCADE,
			row_id         VARCHAR(36)  NOT NULL,
			item_snapshot  JSON,
			customer_name  VARCHAR(200) NOT NULL DEFAULT '',
			customer_email VARCHAR(255) NOT NULL DEFAULT '',
			quantity       NUMERIC(20,6) NOT NULL,
			unit_price     NUMERIC(20,6) NOT NULL,
			total          NUMERIC(20,6) NOT NULL,
			status         VARCHAR(20)  NOT NULL DEFAULT 'completed',
			payment_method VARCHAR(20)  NOT NULL DEFAULT '',
			notes          TEXT         NOT NULL DEFAULT '',
			created_by     VARCHAR(36)  NOT NULL DEFAULT '',
			created_at     TIMESTAMPTZ  NOT NULL,
			updated_at     TIMESTAMPTZ  NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS sales_table_idx ON sales (table_id, created_at DESC)`,
		`CREATE TABLE IF NOT EXISTS rentals (
			id             VARCHAR(36) PRIMARY KEY,
			rental_number  VARCHAR(30)  UNIQUE NOT NULL,
			table_id       VARCHAR(36)  NOT NULL REFERENCES tables(id) ON DELETE CASCADE,
			row_id         VARCHAR(36)  NOT NULL,
			item_snapshot  JSON,
			customer_name  VARCHAR(200) NOT NULL DEFAULT '',
			customer_email VARCHAR(255) NOT NULL DEFAULT '',
			unit_price     NUMERIC(20,6) NOT NULL,
			fee            NUMERIC(20,6) NOT NULL,
			status         VARCHAR(20)  NOT NULL DEFAULT 'active',
			rented_at      TIMESTAMPTZ  NOT NULL,
			released_at    TIMESTAMPTZ,
			notes          TEXT         NOT NULL DEFAULT '',
			created_by     VARCHAR(36)  NOT NULL DEFAULT '',
			created_at     TIMESTAMPTZ  NOT NULL,
			updated_at     TIMESTAMPTZ  NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS rentals_table_idx ON rentals (table_id, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS rentals_row_active_idx ON rentals (row_id) WHERE status = 'active'`,
		`CREATE TABLE IF NOT EXISTS inventory_transactions (
			id             VARCHAR(36) PRIMARY KEY,
			table_id       VARCHAR(36)  NOT NULL REFERENCES tables(id) ON DELETE CASCADE,
			row_id         VARCHAR(36)  NOT NULL,
			tx_type        VARCHAR(10)  NOT NULL,
			before_data    JSON,
			after_data     JSON,
			quantity_delta NUMERIC(20,6) NOT NULL DEFAULT 0,
			reference_id   VARCHAR(36)  NOT NULL DEFAULT '',
			actor_id       VARCHAR(36)  NOT NULL DEFAULT '',
			created_at     TIMESTAMPTZ  NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS inventory_tx_row_idx ON inventory_transactions (row_id, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS inventory_tx_table_idx ON inventory_transactions (table_id, created_at DESC)`,
		`CREATE TABLE IF NOT EXISTS sequences (
			kind  VARCHAR(10) NOT NULL,
			year  INTEGER     NOT NULL,
			value BIGINT      NOT NULL DEFAULT 0,
			PRIMARY KEY (kind, year)
		)`,
		`CREATE TABLE IF NOT EXISTS access_tokens (
			id           VARCHAR(64)  PRIMARY KEY,
			token        VARCHAR(128) UNIQUE NOT NULL,
			name         VARCHAR(200) NOT NULL,
			table_access TEXT[]       NOT NULL DEFAULT '{}',
			expires_at   TIMESTAMPTZ,
			created_by   VARCHAR(36)  NOT NULL DEFAULT '',
			created_at   TIMESTAMPTZ  NOT NULL
		)`,
	}

	for _, stmt := range statements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
