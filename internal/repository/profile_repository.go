package repository

import (
	"app/internal/domain/model"
	"context"
)

// プロフィールの保存・取得の約束。
// 無いユーザーには空のプロフィールを返す実装でもよい（呼び出し側は気にしない）。
type ProfileRepository interface {
	FindByUserID(ctx context.Context, userID int64) (model.Profile, error)
	Upsert(ctx context.Context, p model.Profile) (model.Profile, error)
}
