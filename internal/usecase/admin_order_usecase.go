package usecase

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

type AdminOrderUsecase struct {
	tx        repo.TransactionManager
	auditRepo repo.AuditLogRepository
}

func NewAdminOrderUsecase(tx repo.TransactionManager, auditRepo repo.AuditLogRepository) *AdminOrderUsecase {
	return &AdminOrderUsecase{tx: tx, auditRepo: auditRepo}
}

type AdminOrderListInput struct {
	Page   int
	Limit  int
	Status string
	UserID *int64
	From   *time.Time
	To     *time.Time
}

type AdminOrderListOutput struct {
	Items []OrderOutput `json:"items"`
	Total int64         `json:"total"`
	Page  int           `json:"page"`
	Limit int           `json:"limit"`
}

func (u *AdminOrderUsecase) ListOrders(ctx context.Context, adminUserID int64, in AdminOrderListInput) (AdminOrderListOutput, error) {
	if adminUserID <= 0 {
		return AdminOrderListOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if in.Page <= 0 {
		in.Page = 1
	}
	if in.Limit <= 0 || in.Limit > 100 {
		in.Limit = 50
	}
	if in.Status != "" && !isValidOrderStatus(in.Status) {
		return AdminOrderListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid status")
	}

	var out AdminOrderListOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orders, total, err := r.Orders().ListAdmin(ctx, repo.AdminOrderListFilter{
			Page:   in.Page,
			Limit:  in.Limit,
			Status: in.Status,
			UserID: in.UserID,
			From:   in.From,
			To:     in.To,
		})
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		items := make([]OrderOutput, 0, len(orders))
		for _, o := range orders {
			lines, err := r.OrderItems().ListByOrderID(ctx, o.ID)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			items = append(items, toOrderOutput(o, lines))
		}

		out = AdminOrderListOutput{Items: items, Total: total, Page: in.Page, Limit: in.Limit}
		return nil
	})

	if err != nil {
		return AdminOrderListOutput{}, err
	}
	return out, nil
}

// UpdateOrderStatus は読み取り→検証→更新をトランザクションで行う。
func (u *AdminOrderUsecase) UpdateOrderStatus(ctx context.Context, adminUserID int64, orderID int64, status string) error {
	if adminUserID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if !isValidOrderStatus(status) {
		return NewHTTPError(http.StatusBadRequest, "invalid status")
	}

	var before model.OrderStatus

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		before = o.Status

		if err := r.Orders().UpdateStatus(ctx, orderID, model.OrderStatus(status)); err != nil {
			if err == repo.ErrNotFound {
				return NewHTTPError(http.StatusNotFound, "not found")
			}
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		return nil
	})

	if err != nil {
		return err
	}

	//監査ログは失敗しても操作自体は成功扱い
	_ = u.auditRepo.Create(ctx, model.AuditLog{
		ActorUserID:  adminUserID,
		Action:       model.AuditActionUpdateOrderStatus,
		ResourceType: model.AuditResourceOrder,
		ResourceID:   orderID,
		BeforeJSON:   fmt.Sprintf(`{"status":%q}`, before),
		AfterJSON:    fmt.Sprintf(`{"status":%q}`, status),
		CreatedAt:    time.Now(),
	})

	return nil
}

func isValidOrderStatus(s string) bool {
	switch model.OrderStatus(s) {
	case model.OrderStatusPending, model.OrderStatusPaid, model.OrderStatusShipped, model.OrderStatusCanceled:
		return true
	default:
		return false
	}
}
