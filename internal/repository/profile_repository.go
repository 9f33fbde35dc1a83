package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/storyverse/storyverse/internal/model"
)

// ProfileRepository reads author profiles.
type ProfileRepository interface {
	Create(ctx context.Context, p *model.Profile) error
	Count(ctx context.Context) (int64, error)
}

type gormProfileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &gormProfileRepository{db: db}
}

func (r *gormProfileRepository) Create(ctx context.Context, p *model.Profile) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *gormProfileRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Profile{}).Count(&count).Error
	return count, err
}
