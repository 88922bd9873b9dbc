package history

import (
	"AgroTech-Vision/domain"
	"AgroTech-Vision/entities"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type (
	// LocalStorage is a string key/value store, the durable side of the history list.
	LocalStorage interface {
		// GetItem returns domain.ErrStorageKey when the key does not exist.
		GetItem(ctx context.Context, key string) (string, error)
		SetItem(ctx context.Context, key, value string) error
		RemoveItem(ctx context.Context, key string) error
	}

	fileLocalStorage struct {
		dir string
	}

	gormLocalStorage struct {
		db *gorm.DB
	}
)

var safeKey = regexp.MustCompile(`^[A-Za-z0-9_\-]+$`)

// NewFileLocalStorage keeps one <key>.json file per key inside dir.
func NewFileLocalStorage(dir string) (LocalStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}
	return &fileLocalStorage{dir: dir}, nil
}

func (s *fileLocalStorage) path(key string) (string, error) {
	if !safeKey.MatchString(key) {
		return "", fmt.Errorf("invalid storage key %q", key)
	}
	return filepath.Join(s.dir, key+".json"), nil
}

func (s *fileLocalStorage) GetItem(_ context.Context, key string) (string, error) {
	path, err := s.path(key)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", domain.ErrStorageKey
		}
		return "", err
	}
	return string(data), nil
}

func (s *fileLocalStorage) SetItem(_ context.Context, key, value string) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.dir, key+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(value); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func (s *fileLocalStorage) RemoveItem(_ context.Context, key string) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func NewGormLocalStorage(db *gorm.DB) LocalStorage {
	return &gormLocalStorage{db: db}
}

func (s *gormLocalStorage) GetItem(ctx context.Context, key string) (string, error) {
	var item entities.LocalStorageItem
	if err := s.db.WithContext(ctx).Where("key = ?", key).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", domain.ErrStorageKey
		}
		return "", err
	}
	return item.Value, nil
}

func (s *gormLocalStorage) SetItem(ctx context.Context, key, value string) error {
	item := &entities.LocalStorageItem{Key: key, Value: value}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at", "deleted_at"}),
	}).Create(item).Error
}

func (s *gormLocalStorage) RemoveItem(ctx context.Context, key string) error {
	return s.db.WithContext(ctx).Unscoped().Where("key = ?", key).Delete(&entities.LocalStorageItem{}).Error
}
