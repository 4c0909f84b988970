package usecase

import (
	"context"
	"net/http"
	"strings"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

type ProfileUsecase struct {
	profiles repo.ProfileRepository
	users    repo.UserRepository
}

func NewProfileUsecase(profiles repo.ProfileRepository, users repo.UserRepository) *ProfileUsecase {
	return &ProfileUsecase{profiles: profiles, users: users}
}

// roleは読み取り専用でプロフィールに同梱する。
type ProfileOutput struct {
	ID          int64                `json:"id"`
	FullName    string               `json:"full_name"`
	AvatarURL   string               `json:"avatar_url"`
	Phone       string               `json:"phone"`
	Address     model.ProfileAddress `json:"address"`
	Role        string               `json:"role"`
	CountryCode string               `json:"country_code"`
}

type UpdateProfileInput struct {
	FullName    string               `json:"full_name"`
	AvatarURL   string               `json:"avatar_url"`
	Phone       string               `json:"phone"`
	Address     model.ProfileAddress `json:"address"`
	CountryCode string               `json:"country_code"`
}

func (u *ProfileUsecase) GetProfile(ctx context.Context, userID int64) (ProfileOutput, error) {
	if userID <= 0 {
		return ProfileOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	user, err := u.users.FindByID(ctx, userID)
	if err != nil || user == nil {
		return ProfileOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	// 無い・壊れている場合も空のプロフィールとして返す（エラーにしない）
	p, err := u.profiles.FindByUserID(ctx, userID)
	if err != nil {
		p = model.Profile{UserID: userID}
	}

	return toProfileOutput(p, user.Role), nil
}

func (u *ProfileUsecase) UpdateProfile(ctx context.Context, userID int64, in UpdateProfileInput) (ProfileOutput, error) {
	if userID <= 0 {
		return ProfileOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if len(in.FullName) > 255 {
		return ProfileOutput{}, NewHTTPError(http.StatusBadRequest, "full_name too long")
	}

	user, err := u.users.FindByID(ctx, userID)
	if err != nil || user == nil {
		return ProfileOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	saved, err := u.profiles.Upsert(ctx, model.Profile{
		UserID:      userID,
		FullName:    strings.TrimSpace(in.FullName),
		AvatarURL:   strings.TrimSpace(in.AvatarURL),
		Phone:       strings.TrimSpace(in.Phone),
		Address:     in.Address,
		CountryCode: strings.TrimSpace(in.CountryCode),
	})
	if err != nil {
		return ProfileOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return toProfileOutput(saved, user.Role), nil
}

func toProfileOutput(p model.Profile, role model.Role) ProfileOutput {
	return ProfileOutput{
		ID:          p.UserID,
		FullName:    p.FullName,
		AvatarURL:   p.AvatarURL,
		Phone:       p.Phone,
		Address:     p.Address,
		Role:        string(role),
		CountryCode: p.CountryCode,
	}
}
