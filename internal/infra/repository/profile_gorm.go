package repository

import (
	"context"
	"errors"

	"app/internal/domain/model"
	domainrepo "app/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type profileGormRepository struct {
	db *gorm.DB
}

// DI
func NewProfileGormRepository(db *gorm.DB) domainrepo.ProfileRepository {
	return &profileGormRepository{db: db}
}

// 無ければ空のプロフィールを返す（404にはしない）。
func (r *profileGormRepository) FindByUserID(ctx context.Context, userID int64) (model.Profile, error) {
	var p model.Profile

	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&p).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Profile{UserID: userID}, nil
	}
	if err != nil {
		return model.Profile{}, err
	}

	return p, nil
}

// user_idで1件、あれば全項目を上書き。
func (r *profileGormRepository) Upsert(ctx context.Context, p model.Profile) (model.Profile, error) {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			UpdateAll: true,
		}).
		Create(&p).Error

	if err != nil {
		return model.Profile{}, err
	}

	return p, nil
}
