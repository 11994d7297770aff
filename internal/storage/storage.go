// internal/storage/storage.go
package storage

import (
	"context"
	"errors"

	"github.com/rovshanmuradov/fairmint/internal/storage/models"
)

// ErrNotFound возвращается, когда запись отсутствует.
var ErrNotFound = errors.New("record not found")

// Storage определяет интерфейс для работы с хранилищем истории
type Storage interface {
	// Операции
	SaveOperation(ctx context.Context, op *models.Operation) error
	GetOperation(ctx context.Context, signature string) (*models.Operation, error)
	ListOperations(ctx context.Context, mint string, limit, offset int) ([]*models.Operation, error)

	// Пулы
	SavePoolInfo(ctx context.Context, info *models.PoolInfo) error
	GetPoolInfo(ctx context.Context, mint string) (*models.PoolInfo, error)

	// Снимки состояния токена
	SaveSnapshot(ctx context.Context, s *models.TokenSnapshot) error
	LatestSnapshot(ctx context.Context, mint string) (*models.TokenSnapshot, error)

	RunMigrations() error
	Close() error
}

// Noop - хранилище, которое ничего не сохраняет. Используется без storage_dsn.
type Noop struct{}

func (Noop) SaveOperation(context.Context, *models.Operation) error { return nil }

func (Noop) GetOperation(context.Context, string) (*models.Operation, error) {
	return nil, ErrNotFound
}

func (Noop) ListOperations(context.Context, string, int, int) ([]*models.Operation, error) {
	return nil, nil
}

func (Noop) SavePoolInfo(context.Context, *models.PoolInfo) error { return nil }

func (Noop) GetPoolInfo(context.Context, string) (*models.PoolInfo, error) {
	return nil, ErrNotFound
}

func (Noop) SaveSnapshot(context.Context, *models.TokenSnapshot) error { return nil }

func (Noop) LatestSnapshot(context.Context, string) (*models.TokenSnapshot, error) {
	return nil, ErrNotFound
}

func (Noop) RunMigrations() error { return nil }

func (Noop) Close() error { return nil }

var _ Storage = Noop{}
