package auth

import (
	"context"

	"app/internal/domain/model"
)

type RefreshResult struct {
	Body              JwtAccessToken
	RefreshTokenPlain string
}

// Refresh はrefresh tokenのローテーション。
// 使用済みtokenの再利用はreplay扱いで全tokenを落とす。
func (u *AuthUsecase) Refresh(ctx context.Context, refreshTokenPlain string, userAgent string) (*RefreshResult, error) {
	if refreshTokenPlain == "" {
		return nil, ErrUnauthorized
	}

	//DB照合
	rt, err := u.rtRepo.FindByTokenHash(ctx, hashToken(refreshTokenPlain))
	if err != nil || rt == nil {
		return nil, ErrUnauthorized
	}

	now := u.clock.Now()

	//期限切れ
	if rt.ExpiresAt.Before(now) {
		return nil, ErrUnauthorized
	}

	//revoked
	if rt.RevokedAt != nil {
		return nil, ErrUnauthorized
	}

	//used済みが来たら replay → 全削除
	if rt.UsedAt != nil {
		_ = u.rtRepo.DeleteAllByUserID(ctx, rt.UserID)
		return nil, ErrSecurityIncident
	}

	//user_agent違い（再認証扱い。全削除）
	if userAgent != "" && rt.UserAgent != "" && userAgent != rt.UserAgent {
		_ = u.rtRepo.DeleteAllByUserID(ctx, rt.UserID)
		return nil, ErrSecurityIncident
	}

	//user取得
	user, err := u.users.FindByID(ctx, rt.UserID)
	if err != nil || user == nil {
		return nil, ErrUnauthorized
	}
	if !user.IsActive {
		return nil, ErrUserInactive
	}

	//旧tokenをusedにする
	if err := u.rtRepo.MarkUsed(ctx, rt.ID); err != nil {
		_ = u.rtRepo.DeleteAllByUserID(ctx, rt.UserID)
		return nil, ErrSecurityIncident
	}

	//新tokenを作って保存
	newPlain, err := generateSecureToken(32)
	if err != nil {
		return nil, err
	}

	newRT := &model.RefreshToken{
		ID:        u.idGen.NewID(),
		UserID:    user.ID,
		TokenHash: hashToken(newPlain),
		UserAgent: userAgent,
		ExpiresAt: now.Add(u.refreshTTL),
	}

	if err := u.rtRepo.Create(ctx, newRT); err != nil {
		return nil, err
	}

	//access再発行
	accessToken, accessExp, err := u.issuer.Issue(user.ID, user.Role, user.TokenVersion, now)
	if err != nil {
		return nil, err
	}

	return &RefreshResult{
		Body: JwtAccessToken{
			AccessToken:  accessToken,
			ExpiresIn:    int(accessExp.Sub(now).Seconds()),
			TokenVersion: user.TokenVersion,
		},
		RefreshTokenPlain: newPlain,
	}, nil
}
