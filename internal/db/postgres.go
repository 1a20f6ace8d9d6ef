package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/homeboardhq/homeboard-backend/internal/domain/household"
	"github.com/homeboardhq/homeboard-backend/internal/pkg/envutil"
	"github.com/homeboardhq/homeboard-backend/internal/pkg/logger"
)

type PostgresService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPostgresService(log *logger.Logger) (*PostgresService, error) {
	serviceLog := log.With("service", "PostgresService")

	host := envutil.String("POSTGRES_HOST", "localhost")
	port := envutil.String("POSTGRES_PORT", "5432")
	user := envutil.String("POSTGRES_USER", "postgres")
	password := envutil.String("POSTGRES_PASSWORD", "")
	name := envutil.String("POSTGRES_NAME", "homeboard")

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", user, password, host, port, name)

	log.Info("Connecting to Postgres...")
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}

	if err := gdb.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`).Error; err != nil {
		return nil, fmt.Errorf("enable uuid-ossp extension: %w", err)
	}

	return &PostgresService{db: gdb, log: serviceLog}, nil
}

func (s *PostgresService) DB() *gorm.DB { return s.db }

func (s *PostgresService) AutoMigrateAll() error {
	s.log.Info("Auto migrating postgres tables...")
	if err := Migrate(s.db); err != nil {
		s.log.Error("Auto migration failed", "error", err)
		return err
	}
	s.log.Info("Postgres tables migrated")
	return nil
}

// Migrate creates the schema plus the water_outlook projection. It is
// shared with the sqlite-backed tests, so everything here has to be
// portable SQL.
func Migrate(gdb *gorm.DB) error {
	if err := gdb.AutoMigrate(
		&household.FamilyMember{},
		&household.RideTokenBalance{},
		&household.WaterJug{},
		&household.FamilyEvent{},
		&household.CalendarEventRef{},
		&household.Sprint{},
		&household.SaleLog{},
		&household.GreenlightPost{},
	); err != nil {
		return err
	}

	// Days-of-supply projection consumed as an opaque scalar. A fuller
	// deployment replaces this view with one fed by consumption history.
	// Drop-then-create keeps the statement portable across postgres and
	// the sqlite test databases.
	if err := gdb.Exec(`DROP VIEW IF EXISTS water_outlook`).Error; err != nil {
		return err
	}
	const outlookView = `
CREATE VIEW water_outlook AS
SELECT COUNT(*) * 1.5 AS estimated_days_left
FROM water_jugs
WHERE status = 'full'`
	if err := gdb.Exec(outlookView).Error; err != nil {
		return err
	}
	return nil
}
