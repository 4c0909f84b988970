package auth

import "context"

// Logout は提示されたrefresh tokenを失効させる。
// カートの持ち替えはクライアントがguestキーでloadForOwnerし直すだけで、
// ユーザーのカートスナップショットはそのまま残る。
func (u *AuthUsecase) Logout(ctx context.Context, refreshTokenPlain string) error {
	if refreshTokenPlain == "" {
		return ErrUnauthorized
	}

	rt, err := u.rtRepo.FindByTokenHash(ctx, hashToken(refreshTokenPlain))
	if err != nil || rt == nil {
		return ErrUnauthorized
	}

	//refreshを失効
	if err := u.rtRepo.Revoke(ctx, rt.ID); err != nil {
		return err
	}

	return nil
}
