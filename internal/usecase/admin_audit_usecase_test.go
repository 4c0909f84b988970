package usecase

import (
	"context"
	"net/http"
	"testing"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestAdminAuditUsecase_ListAuditLogs(t *testing.T) {
	audits := &AuditRepoMock{}
	audits.On("List", mock.Anything, mock.MatchedBy(func(f repo.AuditLogFilter) bool {
		return f.Limit == 50 && f.Offset == 0 &&
			f.Action != nil && *f.Action == model.AuditActionSetUserActive
	})).Return([]model.AuditLog{
		{ID: 1, ActorUserID: 9, Action: model.AuditActionSetUserActive},
	}, nil)

	uc := NewAdminAuditUsecase(audits)

	out, err := uc.ListAuditLogs(context.Background(), 9, AdminAuditListInput{
		Action: string(model.AuditActionSetUserActive),
	})
	assert.NoError(t, err)
	assert.Len(t, out.Items, 1)
	assert.Equal(t, int64(9), out.Items[0].ActorUserID)
}

func TestAdminAuditUsecase_ListAuditLogs_Unauthorized(t *testing.T) {
	uc := NewAdminAuditUsecase(&AuditRepoMock{})

	_, err := uc.ListAuditLogs(context.Background(), 0, AdminAuditListInput{})
	assertHTTPStatus(t, err, http.StatusUnauthorized)
}
