package usecase

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

type AdminUserUsecase struct {
	users     repo.UserRepository
	auditRepo repo.AuditLogRepository
}

func NewAdminUserUsecase(users repo.UserRepository, auditRepo repo.AuditLogRepository) *AdminUserUsecase {
	return &AdminUserUsecase{users: users, auditRepo: auditRepo}
}

type AdminUserOutput struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

type AdminUserListOutput struct {
	Items []AdminUserOutput `json:"items"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}

func (u *AdminUserUsecase) ListUsers(ctx context.Context, adminUserID int64, page, limit int, q string) (AdminUserListOutput, error) {
	if adminUserID <= 0 {
		return AdminUserListOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if page <= 0 {
		page = 1
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	users, total, err := u.users.ListAdmin(ctx, repo.AdminUserListFilter{Page: page, Limit: limit, Q: q})
	if err != nil {
		return AdminUserListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	items := make([]AdminUserOutput, 0, len(users))
	for _, usr := range users {
		items = append(items, AdminUserOutput{
			ID:        usr.ID,
			Email:     usr.Email,
			Role:      string(usr.Role),
			IsActive:  usr.IsActive,
			CreatedAt: usr.CreatedAt,
		})
	}

	return AdminUserListOutput{Items: items, Total: total, Page: page, Limit: limit}, nil
}

// SetUserActive は有効/無効を切り替える。
// 無効化時はtoken versionを進めて既存のアクセストークンを失効させる。
func (u *AdminUserUsecase) SetUserActive(ctx context.Context, adminUserID int64, targetUserID int64, active bool) error {
	if adminUserID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if targetUserID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	// 自分自身の無効化は禁止
	if targetUserID == adminUserID && !active {
		return NewHTTPError(http.StatusBadRequest, "cannot deactivate yourself")
	}

	target, err := u.users.FindByID(ctx, targetUserID)
	if err == repo.ErrUserNotFound {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if target.IsActive == active {
		return nil
	}

	before := target.IsActive
	target.IsActive = active
	if err := u.users.Update(ctx, target); err != nil {
		if err == repo.ErrUserNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if !active {
		if err := u.users.IncrementTokenVersion(ctx, targetUserID); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
	}

	_ = u.auditRepo.Create(ctx, model.AuditLog{
		ActorUserID:  adminUserID,
		Action:       model.AuditActionSetUserActive,
		ResourceType: model.AuditResourceUser,
		ResourceID:   targetUserID,
		BeforeJSON:   fmt.Sprintf(`{"is_active":%t}`, before),
		AfterJSON:    fmt.Sprintf(`{"is_active":%t}`, active),
		CreatedAt:    time.Now(),
	})

	return nil
}
