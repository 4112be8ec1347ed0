package bootstrap

import (
	"fmt"
	"strconv"

	"github.com/jmoiron/sqlx"
	"github.com/partypulse/classifier/internal/config"
	"github.com/partypulse/classifier/internal/database"
	"github.com/partypulse/classifier/internal/logging"
)

// DatabaseComponents holds database connection and repositories.
type DatabaseComponents struct {
	DB             *sqlx.DB
	RulesRepo      *database.RulesRepository
	ReputationRepo *database.ReputationRepository
	HistoryRepo    *database.HistoryRepository
}

// SetupDatabase creates database connection and repositories.
func SetupDatabase(cfg *config.Config, logger logging.Logger) (*DatabaseComponents, error) {
	dbConfig := database.Config{
		Host:            cfg.Database.Host,
		Port:            strconv.Itoa(cfg.Database.Port),
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		DBName:          cfg.Database.Database,
		SSLMode:         cfg.Database.SSLMode,
		MaxOpenConns:    cfg.Database.MaxConnections,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}

	logger.Info("Connecting to PostgreSQL database",
		logging.String("host", dbConfig.Host),
		logging.String("port", dbConfig.Port),
		logging.String("database", dbConfig.DBName),
	)

	db, err := database.NewPostgresConnection(dbConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	logger.Info("Database connected successfully")

	return &DatabaseComponents{
		DB:             db,
		RulesRepo:      database.NewRulesRepository(db),
		ReputationRepo: database.NewReputationRepository(db),
		HistoryRepo:    database.NewHistoryRepository(db),
	}, nil
}
