// internal/storage/sqlstore/sqlstore.go
package sqlstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/rovshanmuradov/fairmint/internal/storage"
	"github.com/rovshanmuradov/fairmint/internal/storage/models"
)

const migrationLockID = 4242

// Dialect - тип базы, выбранный по DSN.
type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite"
)

// DetectDialect выбирает драйвер по DSN: URL postgres:// или key=value строка
// с host= означают PostgreSQL, всё остальное - путь к файлу SQLite.
func DetectDialect(dsn string) Dialect {
	lower := strings.ToLower(strings.TrimSpace(dsn))
	if strings.HasPrefix(lower, "postgres://") ||
		strings.HasPrefix(lower, "postgresql://") ||
		strings.Contains(lower, "host=") {
		return DialectPostgres
	}
	return DialectSQLite
}

// Store реализует storage.Storage через GORM
type Store struct {
	db      *gorm.DB
	dialect Dialect
	logger  *zap.Logger
}

// Open подключается к базе по DSN. Префикс sqlite:// отбрасывается.
func Open(dsn string, zapLogger *zap.Logger) (*Store, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, errors.New("empty storage dsn")
	}

	dialect := DetectDialect(dsn)
	var dialector gorm.Dialector
	switch dialect {
	case DialectPostgres:
		dialector = postgres.Open(dsn)
	default:
		dialector = sqlite.Open(strings.TrimPrefix(dsn, "sqlite://"))
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: newGormLogger(zapLogger.Named("gorm")),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
		DisableForeignKeyConstraintWhenMigrating: true,
		SkipDefaultTransaction:                   true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	// Настройка пула соединений
	if dialect == DialectSQLite {
		// SQLite не допускает параллельной записи
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxIdleConns(5)
		sqlDB.SetMaxOpenConns(20)
	}
	sqlDB.SetConnMaxLifetime(time.Hour)

	return &Store{
		db:      db,
		dialect: dialect,
		logger:  zapLogger.Named("storage"),
	}, nil
}

// Dialect возвращает тип базы.
func (s *Store) Dialect() Dialect {
	return s.dialect
}

// RunMigrations выполняет AutoMigrate. На PostgreSQL миграция защищена
// advisory lock от параллельного запуска.
func (s *Store) RunMigrations() error {
	if s.dialect == DialectPostgres {
		var lockObtained bool
		if err := s.db.Raw("SELECT pg_try_advisory_lock(?)", migrationLockID).Scan(&lockObtained).Error; err != nil {
			return fmt.Errorf("failed to acquire migration lock: %w", err)
		}
		if !lockObtained {
			return errors.New("another migration is in progress")
		}
		defer s.db.Exec("SELECT pg_advisory_unlock(?)", migrationLockID)
	}

	if err := s.db.AutoMigrate(
		&models.Operation{},
		&models.PoolInfo{},
		&models.TokenSnapshot{},
	); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	s.logger.Debug("migrations applied", zap.String("dialect", string(s.dialect)))
	return nil
}

func (s *Store) SaveOperation(ctx context.Context, op *models.Operation) error {
	if err := s.db.WithContext(ctx).Create(op).Error; err != nil {
		return fmt.Errorf("failed to save operation: %w", err)
	}
	return nil
}

// GetOperation возвращает последнюю запись с данной подписью.
func (s *Store) GetOperation(ctx context.Context, signature string) (*models.Operation, error) {
	var op models.Operation
	err := s.db.WithContext(ctx).
		Where("signature = ?", signature).
		Order("id DESC").
		First(&op).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &op, nil
}

// ListOperations возвращает записи минта, новые первыми. Пустой mint - все записи.
func (s *Store) ListOperations(ctx context.Context, mint string, limit, offset int) ([]*models.Operation, error) {
	q := s.db.WithContext(ctx).Order("id DESC")
	if mint != "" {
		q = q.Where("mint = ?", mint)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	if offset > 0 {
		q = q.Offset(offset)
	}

	var ops []*models.Operation
	if err := q.Find(&ops).Error; err != nil {
		return nil, fmt.Errorf("failed to list operations: %w", err)
	}
	return ops, nil
}

// SavePoolInfo вставляет или обновляет пул по минту.
func (s *Store) SavePoolInfo(ctx context.Context, info *models.PoolInfo) error {
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "mint"}},
		DoUpdates: clause.AssignmentColumns([]string{"pool_id", "token0", "token1", "lp_mint", "amm_config", "updated_at"}),
	}).Create(info).Error
	if err != nil {
		return fmt.Errorf("failed to save pool info: %w", err)
	}
	return nil
}

func (s *Store) GetPoolInfo(ctx context.Context, mint string) (*models.PoolInfo, error) {
	var info models.PoolInfo
	if err := s.db.WithContext(ctx).Where("mint = ?", mint).First(&info).Error; err != nil {
		return nil, notFound(err)
	}
	return &info, nil
}

func (s *Store) SaveSnapshot(ctx context.Context, snap *models.TokenSnapshot) error {
	if snap.ObservedAt.IsZero() {
		snap.ObservedAt = time.Now().UTC()
	}
	if err := s.db.WithContext(ctx).Create(snap).Error; err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}

func (s *Store) LatestSnapshot(ctx context.Context, mint string) (*models.TokenSnapshot, error) {
	var snap models.TokenSnapshot
	err := s.db.WithContext(ctx).
		Where("mint = ?", mint).
		Order("observed_at DESC, id DESC").
		First(&snap).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &snap, nil
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return storage.ErrNotFound
	}
	return err
}

var _ storage.Storage = (*Store)(nil)
