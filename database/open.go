package database

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/chikhali-gp/portal/backend/config"
	"github.com/chikhali-gp/portal/backend/errs"
	"github.com/glebarez/sqlite"
	zlog "github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/dbresolver"
)

// Open connects the backing store named by DB_TYPE.
func Open(ctx context.Context, cfg map[string]string) (Backend, error) {
	dbType := strings.ToLower(config.GetString(cfg, "DB_TYPE", KindBlob))
	zlog.Info().Str("dbType", dbType).Msg("Opening backing store")

	switch dbType {
	case KindBlob:
		return NewBlobStore(
			config.GetString(cfg, "BLOB_DIR", "data"),
			config.GetString(cfg, "BLOB_KEY", "gp_portal_data"),
			config.GetInt(cfg, "BLOB_QUOTA_BYTES", DefaultBlobQuota),
		)
	case KindFirestore:
		projectID := config.GetString(cfg, "FIRESTORE_PROJECT_ID", "")
		if projectID == "" {
			return nil, errs.NewEnvironmentVariableError("FIRESTORE_PROJECT_ID")
		}
		return NewFirestoreStore(ctx, projectID)
	case "postgres", "supa", "sqlite":
		db, err := OpenGorm(cfg, dbType)
		if err != nil {
			return nil, err
		}
		store := NewGormStore(db)
		if err := store.Migrate(); err != nil {
			return nil, fmt.Errorf("migrate: %w", err)
		}
		return store, nil
	default:
		return nil, errs.NewUnsupportedBackendError(dbType)
	}
}

// OpenGorm opens a relational connection for dbType.
func OpenGorm(cfg map[string]string, dbType string) (*gorm.DB, error) {
	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             10 * time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)
	gormConfig := &gorm.Config{
		PrepareStmt: false,
		Logger:      newLogger,
	}

	var dialector gorm.Dialector
	switch dbType {
	case "sqlite":
		dialector = sqlite.Open(config.GetString(cfg, "SQLITE_PATH", "portal.db"))
	case "supa":
		dialector = postgresDialector(supabaseDSN(cfg))
	default:
		dsn := config.GetString(cfg, "DATABASE_URL", "")
		if dsn == "" {
			return nil, errs.NewEnvironmentVariableError("DATABASE_URL")
		}
		dialector = postgresDialector(dsn)
	}

	db, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		return nil, fmt.Errorf("error connecting to database: %w", err)
	}
	if dbType == "sqlite" {
		// one writer at a time
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}

	if replica := config.GetString(cfg, "DB_REPLICA_DSN", ""); replica != "" && dbType != "sqlite" {
		err := db.Use(dbresolver.Register(dbresolver.Config{
			Replicas: []gorm.Dialector{postgresDialector(replica)},
			Policy:   dbresolver.RandomPolicy{},
		}))
		if err != nil {
			return nil, fmt.Errorf("register read replica: %w", err)
		}
		zlog.Info().Msg("Read replica registered")
	}

	// Test database connection
	var result int
	if err := db.Raw("SELECT 1").Scan(&result).Error; err != nil {
		return nil, fmt.Errorf("error testing database connection: %w", err)
	}
	return db, nil
}

func postgresDialector(dsn string) gorm.Dialector {
	return postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true,
	})
}

func supabaseDSN(cfg map[string]string) string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=require",
		config.GetString(cfg, "SUPABASE_DB_HOST", ""),
		config.GetString(cfg, "SUPABASE_DB_USER", ""),
		config.GetString(cfg, "SUPABASE_DB_PASSWORD", ""),
		config.GetString(cfg, "SUPABASE_DB_NAME", ""),
		config.GetString(cfg, "SUPABASE_DB_PORT", "5432"),
	)
}
