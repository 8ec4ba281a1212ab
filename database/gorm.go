package database

import (
	"context"
	"errors"

	"github.com/chikhali-gp/portal/backend/models"
	"gorm.io/gorm"
)

// GormStore keeps each collection in its own table.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Kind() string { return KindGorm }
func (s *GormStore) backend() {}

// DB returns the underlying database connection for debugging purposes
func (s *GormStore) DB() *gorm.DB {
	return s.db
}

func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Migrate creates or alters every record table.
func (s *GormStore) Migrate() error {
	return s.db.AutoMigrate(models.All()...)
}

type gormRepo[T any, PT models.Record[T]] struct {
	db    *gorm.DB
	order string
}

func (r *gormRepo[T, PT]) FindAll(ctx context.Context) ([]T, error) {
	q := r.db.WithContext(ctx).Order("created_at asc")
	if r.order != "" {
		q = r.db.WithContext(ctx).Order(r.order + " desc")
	}
	records := []T{}
	if err := q.Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (r *gormRepo[T, PT]) FindByID(ctx context.Context, id string) (*T, error) {
	var record T
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *gormRepo[T, PT]) Add(ctx context.Context, record T) (*T, error) {
	if err := prepareNew[T, PT](&record, newUUID); err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *gormRepo[T, PT]) Update(ctx context.Context, id string, patch models.Patch) (*T, error) {
	record, err := r.FindByID(ctx, id)
	if err != nil || record == nil {
		return nil, err
	}
	if err := applyPatch[T, PT](record, patch); err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Save(record).Error; err != nil {
		return nil, err
	}
	return record, nil
}

func (r *gormRepo[T, PT]) Delete(ctx context.Context, id string) (bool, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(new(T))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
