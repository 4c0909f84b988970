package usecase

import (
	"context"
	"net/http"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

// 管理者操作の履歴を閲覧する。書き込みは各usecaseが行う。
type AdminAuditUsecase struct {
	auditRepo repo.AuditLogRepository
}

func NewAdminAuditUsecase(auditRepo repo.AuditLogRepository) *AdminAuditUsecase {
	return &AdminAuditUsecase{auditRepo: auditRepo}
}

type AdminAuditListInput struct {
	ActorUserID  *int64
	Action       string
	ResourceType string
	ResourceID   *int64
	From         *time.Time
	To           *time.Time
	Limit        int
	Offset       int
}

type AdminAuditListOutput struct {
	Items []model.AuditLog `json:"items"`
}

func (u *AdminAuditUsecase) ListAuditLogs(ctx context.Context, adminUserID int64, in AdminAuditListInput) (AdminAuditListOutput, error) {
	if adminUserID <= 0 {
		return AdminAuditListOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	if in.Limit <= 0 || in.Limit > 200 {
		in.Limit = 50
	}
	if in.Offset < 0 {
		in.Offset = 0
	}

	f := repo.AuditLogFilter{
		ActorUserID: in.ActorUserID,
		ResourceID:  in.ResourceID,
		CreatedFrom: in.From,
		CreatedTo:   in.To,
		Limit:       in.Limit,
		Offset:      in.Offset,
	}
	if in.Action != "" {
		a := model.AuditAction(in.Action)
		f.Action = &a
	}
	if in.ResourceType != "" {
		rt := model.AuditResourceType(in.ResourceType)
		f.ResourceType = &rt
	}

	logs, err := u.auditRepo.List(ctx, f)
	if err != nil {
		return AdminAuditListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return AdminAuditListOutput{Items: logs}, nil
}
