package repository

import (
	"context"
	"errors"

	"app/internal/domain/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// カートスナップショットのkey-value保存。
// cartエンジンのSnapshotStoreを満たす。
type CartSnapshotGormStore struct {
	db *gorm.DB
}

// DI
func NewCartSnapshotGormStore(db *gorm.DB) *CartSnapshotGormStore {
	return &CartSnapshotGormStore{db: db}
}

func (s *CartSnapshotGormStore) Load(ctx context.Context, key string) ([]byte, bool, error) {
	var snap model.CartSnapshot

	err := s.db.WithContext(ctx).
		Where("owner_key = ?", key).
		First(&snap).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	return snap.Payload, true, nil
}

// 最後に書いた者勝ちで上書き。
func (s *CartSnapshotGormStore) Save(ctx context.Context, key string, payload []byte) error {
	snap := model.CartSnapshot{
		OwnerKey: key,
		Payload:  payload,
	}

	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "owner_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"payload", "updated_at"}),
		}).
		Create(&snap).Error
}

// 無くてもエラーにしない。
func (s *CartSnapshotGormStore) Delete(ctx context.Context, key string) error {
	return s.db.WithContext(ctx).
		Where("owner_key = ?", key).
		Delete(&model.CartSnapshot{}).Error
}
