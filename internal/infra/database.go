package infra

import (
	"fmt"

	"loteparatodos/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx, runs AutoMigrate to
// create / update all tables, then applies any idempotent SQL patches that GORM
// cannot express (partial indexes, backfills on existing DBs).
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := RunMigrations(db); err != nil {
		return nil, err
	}

	return db, nil
}

// RunMigrations applies AutoMigrate plus the manual schema patches.
// Also used by integration tests against a fresh container.
func RunMigrations(db *gorm.DB) error {
	// gen_random_uuid() requires pgcrypto on PostgreSQL < 13
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto`).Error; err != nil {
		return fmt.Errorf("pgcrypto: %w", err)
	}
	if err := db.AutoMigrate(
		&model.Emprendimiento{},
		&model.Lote{},
		&model.Cliente{},
		&model.Usuario{},
		&model.Contrato{},
		&model.HistorialContrato{},
		&model.Pago{},
		&model.ServicioCatalogo{},
		&model.ServicioContratado{},
		&model.Prestamo{},
		&model.CuotaPrestamo{},
		&model.Material{},
		&model.TicketStock{},
		&model.LineaTicket{},
		&model.Recibo{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	return applySchemaPatches(db)
}

// applySchemaPatches runs idempotent DDL that AutoMigrate cannot express.
// Each statement uses IF NOT EXISTS semantics so re-running is safe.
func applySchemaPatches(db *gorm.DB) error {
	patches := []struct{ descr, sql string }{
		{"partial index for recibo retry cron", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_recibos_pending_retry') THEN
    CREATE INDEX idx_recibos_pending_retry
        ON recibos (next_retry_at)
        WHERE estado = 'pendiente' AND next_retry_at IS NOT NULL;
  END IF;
END $$`},
		{"unique lote numero per emprendimiento", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_lotes_emprendimiento_numero') THEN
    CREATE UNIQUE INDEX idx_lotes_emprendimiento_numero
        ON lotes (emprendimiento_id, numero);
  END IF;
END $$`},
		{"historial ordered per contrato", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_historial_contratos_contrato') THEN
    CREATE INDEX idx_historial_contratos_contrato
        ON historial_contratos (contrato_id, created_at DESC);
  END IF;
END $$`},
	}

	for _, p := range patches {
		if err := db.Exec(p.sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", p.descr, err)
		}
	}
	return nil
}
