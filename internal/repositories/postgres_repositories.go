package repositories

import (
	"context"
	"errors"
	"time"

	"golang-food-storefront/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Cart snapshot repository
type postgresCartStore struct {
	db *gorm.DB
}

func NewPostgresCartStore(db *gorm.DB) CartStore {
	return &postgresCartStore{db: db}
}

func (r *postgresCartStore) Get(ctx context.Context, key string) ([]byte, error) {
	var snapshot models.CartSnapshot
	err := r.db.WithContext(ctx).Where("cart_key = ?", key).First(&snapshot).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return []byte(snapshot.Items), nil
}

func (r *postgresCartStore) Set(ctx context.Context, key string, value []byte) error {
	snapshot := models.CartSnapshot{
		Key:       key,
		Items:     string(value),
		UpdatedAt: time.Now(),
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "cart_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"items", "updated_at"}),
	}).Create(&snapshot).Error
}

func (r *postgresCartStore) Delete(ctx context.Context, key string) error {
	return r.db.WithContext(ctx).Where("cart_key = ?", key).Delete(&models.CartSnapshot{}).Error
}
