package migration

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"time"
)

type migrationStep struct {
	Name string
	SQL  string
}

var steps = []migrationStep{
	{
		Name: "create_extension_uuid_ossp",
		SQL:  `CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	},
	{
		Name: "create_table_clients",
		SQL: `CREATE TABLE IF NOT EXISTS clients (
  id         UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  firm_id    UUID        NOT NULL,
  name       TEXT        NOT NULL,
  status     TEXT        NOT NULL DEFAULT 'active',
  created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_periods",
		SQL: `CREATE TABLE IF NOT EXISTS periods (
  id         UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  client_id  UUID        NOT NULL REFERENCES clients (id),
  year       INT         NOT NULL,
  month      INT         NOT NULL CHECK (month BETWEEN 1 AND 12),
  status     TEXT        NOT NULL DEFAULT 'open',
  due_date   TIMESTAMPTZ,
  created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
  UNIQUE (client_id, year, month)
);`,
	},
	{
		Name: "create_table_period_requests",
		SQL: `CREATE TABLE IF NOT EXISTS period_requests (
  id         UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  period_id  UUID        NOT NULL REFERENCES periods (id),
  title      TEXT        NOT NULL,
  category   TEXT,
  required   BOOLEAN     NOT NULL DEFAULT false,
  sort_order INT         NOT NULL DEFAULT 0,
  status     TEXT        NOT NULL DEFAULT 'pending',
  created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_documents",
		SQL: `CREATE TABLE IF NOT EXISTS documents (
  id                      UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  firm_id                 UUID        NOT NULL,
  client_id               UUID        NOT NULL REFERENCES clients (id),
  period_id               UUID        NOT NULL REFERENCES periods (id),
  period_request_id       UUID        REFERENCES period_requests (id),
  file_key                TEXT        NOT NULL UNIQUE,
  filename                TEXT        NOT NULL,
  byte_size               BIGINT      NOT NULL CHECK (byte_size >= 0),
  content_type            TEXT        NOT NULL,
  sha256                  TEXT,
  version                 INT         NOT NULL DEFAULT 1,
  uploaded_by             UUID,
  uploaded_at             TIMESTAMPTZ NOT NULL DEFAULT now(),
  virus_status            TEXT        NOT NULL DEFAULT 'pending',
  ocr_status              TEXT        NOT NULL DEFAULT 'pending',
  extracted_vendor        TEXT,
  extracted_amount        DOUBLE PRECISION,
  extracted_date          TEXT,
  extracted_relative_path TEXT,
  tags                    JSONB       NOT NULL DEFAULT '[]',
  pipeline_status         TEXT        NOT NULL DEFAULT 'processing',
  progress                INT         NOT NULL DEFAULT 0,
  ready_at                TIMESTAMPTZ,
  duplicate_of_id         UUID        REFERENCES documents (id),
  approval_status         TEXT        NOT NULL DEFAULT 'pending',
  approval_note           TEXT
);`,
	},
	{
		Name: "create_index_periods_client",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_periods_client ON periods (client_id, year DESC, month DESC);`,
	},
	{
		Name: "create_index_requests_period",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_period_requests_period ON period_requests (period_id, sort_order);`,
	},
	{
		Name: "create_index_documents_period",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_documents_period ON documents (period_id, uploaded_at DESC);`,
	},
	{
		Name: "create_index_documents_request",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_documents_request ON documents (period_request_id);`,
	},
	{
		Name: "create_index_documents_pipeline_status",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_documents_pipeline_status ON documents (pipeline_status, uploaded_at);`,
	},
}

// EnsureMigrated checks if the 'periods' table exists and runs migrations if it doesn't.
func EnsureMigrated(ctx context.Context, db *sql.DB, loc *time.Location, dbHost string) error {
	start := time.Now()

	logJSON(loc, map[string]any{
		"component": "database",
		"event":     "db_migration_check",
		"status":    "starting",
		"db_host":   dbHost,
	})

	var exists bool
	query := "SELECT to_regclass('public.periods') IS NOT NULL"
	err := db.QueryRowContext(ctx, query).Scan(&exists)
	if err != nil {
		logJSON(loc, map[string]any{
			"component":     "database",
			"event":         "db_migration_failed",
			"status":        "error",
			"error_message": fmt.Sprintf("failed to check sentinel table: %v", err),
			"db_host":       dbHost,
			"duration_ms":   time.Since(start).Milliseconds(),
		})
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}

	if exists {
		logJSON(loc, map[string]any{
			"component":   "database",
			"event":       "db_migration_skip",
			"status":      "success",
			"msg":         "schema already exists, skipping migration",
			"db_host":     dbHost,
			"duration_ms": time.Since(start).Milliseconds(),
		})
		return nil
	}

	logJSON(loc, map[string]any{
		"component": "database",
		"event":     "db_migration_start",
		"status":    "in_progress",
		"db_host":   dbHost,
	})

	for _, step := range steps {
		stepStart := time.Now()
		_, err := db.ExecContext(ctx, step.SQL)
		if err != nil {
			logJSON(loc, map[string]any{
				"component":        "database",
				"event":            "db_migration_failed",
				"status":           "error",
				"migration_step":   step.Name,
				"error_message":    err.Error(),
				"db_host":          dbHost,
				"duration_ms":      time.Since(start).Milliseconds(),
				"step_duration_ms": time.Since(stepStart).Milliseconds(),
			})
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}

		logJSON(loc, map[string]any{
			"component":        "database",
			"event":            "db_migration_step",
			"status":           "success",
			"migration_step":   step.Name,
			"db_host":          dbHost,
			"step_duration_ms": time.Since(stepStart).Milliseconds(),
		})
	}

	logJSON(loc, map[string]any{
		"component":   "database",
		"event":       "db_migration_success",
		"status":      "success",
		"db_host":     dbHost,
		"duration_ms": time.Since(start).Milliseconds(),
	})

	return nil
}

func logJSON(loc *time.Location, data map[string]any) {
	data["ts"] = time.Now().In(loc).Format(time.RFC3339Nano)
	if _, ok := data["level"]; !ok {
		if data["status"] == "error" {
			data["level"] = "error"
		} else {
			data["level"] = "info"
		}
	}

	b, err := json.Marshal(data)
	if err != nil {
		log.Printf("failed to marshal migration log: %v", err)
		return
	}
	log.SetFlags(0)
	log.Println(string(b))
}
