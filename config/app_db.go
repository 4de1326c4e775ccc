package config

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/skill404/landing/internal/log"
	"github.com/skill404/landing/pkg/retry"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	defaultSQLitePath = "skill404.db"
)

type DBConfig struct {
	Driver          string // APP_DATABASE_DRIVER, postgres unless set
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
	SSLMode         string // Default: "require" for prod safety
	ConnectTimeout  time.Duration
}

func NewDBConfig() *DBConfig {
	driver := strings.ToLower(GetValueFromEnvironmentVariable("APP_DATABASE_DRIVER", ""))
	if driver == "" {
		driver = DriverPostgres
	}

	return &DBConfig{
		Driver:          driver,
		MaxIdleConns:    10,
		MaxOpenConns:    50,
		ConnMaxLifetime: 5 * time.Minute,
		SSLMode:         "require",
		ConnectTimeout:  30 * time.Second,
	}
}

func NewDatabase(logger *log.Logger, cfg *DBConfig) (*gorm.DB, error) {
	if cfg == nil {
		cfg = NewDBConfig()
	}

	dialector, err := openDialector(logger, cfg)
	if err != nil {
		return nil, err
	}

	// TranslateError turns driver-specific unique violations into gorm.ErrDuplicatedKey.
	gdb, err := gorm.Open(dialector, &gorm.Config{TranslateError: true})
	if err != nil {
		logger.Error("Failed to connect to database", "driver", cfg.Driver, "error", err)
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		logger.Error("Failed to get database instance", "error", err)
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ConnectTimeout)
	defer cancel()

	// The database container often comes up after the service does.
	err = retry.NewExponentialBackoff(nil).Execute(ctx, func(ctx context.Context) error {
		if pingErr := sqlDB.PingContext(ctx); pingErr != nil {
			logger.Warn("Database ping failed", "error", pingErr)
			return pingErr
		}
		return nil
	})
	if err != nil {
		logger.Error("Database unreachable", "error", err)
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	logger.Info("Database connection established successfully", "driver", cfg.Driver)
	return gdb, nil
}

func openDialector(logger *log.Logger, cfg *DBConfig) (gorm.Dialector, error) {
	switch cfg.Driver {
	case DriverSQLite:
		path := GetValueFromEnvironmentVariable("SQLITE_PATH", defaultSQLitePath)
		logger.Info("Using SQLite database", "path", path)
		return sqlite.Open(path), nil
	case DriverPostgres:
		dsn, err := buildPostgresDSN(logger, cfg)
		if err != nil {
			return nil, err
		}
		return postgres.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported APP_DATABASE_DRIVER %q (allowed: %s, %s)", cfg.Driver, DriverPostgres, DriverSQLite)
	}
}

// postgresEnv is the POSTGRES_* connection settings used when
// APP_DATABASE_URL is not set.
type postgresEnv struct {
	Host     string `env:"POSTGRES_HOST,notEmpty"`
	Port     int    `env:"POSTGRES_PORT,notEmpty"`
	User     string `env:"POSTGRES_USER,notEmpty"`
	Password string `env:"POSTGRES_PASSWORD"`
	DBName   string `env:"POSTGRES_DB_NAME,notEmpty"`
	SSLMode  string `env:"POSTGRES_SSLMODE"`
}

func buildPostgresDSN(logger *log.Logger, cfg *DBConfig) (string, error) {
	if url := GetValueFromEnvironmentVariable("APP_DATABASE_URL", ""); url != "" {
		logger.Info("Using APP_DATABASE_URL for database connection")
		return url, nil
	}

	var pg postgresEnv
	if err := env.Parse(&pg); err != nil {
		logger.Error("Invalid database environment", "error", err)
		return "", fmt.Errorf("database env: %w", err)
	}

	pg.Host, pg.User, pg.DBName = sanitizeEnv(pg.Host), sanitizeEnv(pg.User), sanitizeEnv(pg.DBName)
	pg.Password, pg.SSLMode = sanitizeEnv(pg.Password), sanitizeEnv(pg.SSLMode)
	if pg.SSLMode == "" {
		pg.SSLMode = cfg.SSLMode
	}

	logger.Info("Connecting to database",
		"host", pg.Host,
		"port", pg.Port,
		"user", pg.User,
		"dbname", pg.DBName,
		"sslmode", pg.SSLMode,
	)

	return pg.dsn(), nil
}

// dsn renders libpq keyword/value pairs, quoting values that need it.
func (pg postgresEnv) dsn() string {
	pairs := []struct{ key, value string }{
		{"host", pg.Host},
		{"port", strconv.Itoa(pg.Port)},
		{"user", pg.User},
		{"password", pg.Password},
		{"dbname", pg.DBName},
		{"sslmode", pg.SSLMode},
	}

	parts := make([]string, 0, len(pairs))
	for _, p := range pairs {
		if p.value == "" {
			continue
		}
		parts = append(parts, p.key+"="+quoteDSNValue(p.value))
	}
	return strings.Join(parts, " ")
}

func quoteDSNValue(v string) string {
	if !strings.ContainsAny(v, ` '\`) {
		return v
	}
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, `'`, `\'`)
	return "'" + v + "'"
}

func AutoMigrate(logger *log.Logger, db *gorm.DB, models ...interface{}) error {
	if db == nil {
		logger.Error("Cannot migrate: db is empty")
		return fmt.Errorf("cannot migrate: db is empty")
	}

	if err := db.AutoMigrate(models...); err != nil {
		logger.Error("Database migration failed", "error", err)
		return fmt.Errorf("auto-migrate failed: %w", err)
	}

	logger.Info("Database migration completed successfully")
	return nil
}

func CloseDatabase(db *gorm.DB, logger *log.Logger) {
	if db == nil {
		return
	}

	sqlDB, err := db.DB()
	if err != nil {
		logger.Error("Failed to get SQL DB instance", "error", err)
		return
	}

	if err := sqlDB.Close(); err != nil {
		logger.Error("Failed to close database", "error", err)
		return
	}

	logger.Info("Database closed successfully")
}
