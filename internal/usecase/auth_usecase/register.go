package auth

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	"app/internal/domain/model"
	"app/internal/repository"
)

// 会員登録の入力
type RegisterInput struct {
	Email    string
	Password string
}

// 会員登録の出力
type RegisterOutput struct {
	User model.User
}

// Register は会員登録を実行する。
func (u *AuthUsecase) Register(ctx context.Context, in RegisterInput) (RegisterOutput, error) {
	var out RegisterOutput

	// emailの形式チェック
	if !isValidEmailFormat(in.Email) {
		return out, ErrInvalidEmailFormat
	}

	// passwordの長さチェック（最小12文字）
	if len(in.Password) < 12 {
		return out, ErrPasswordTooShort
	}

	// よくある弱いパスワードの拒否
	if isWeakPassword(in.Password) {
		return out, ErrWeakPassword
	}

	// email重複チェック
	existing, err := u.users.FindByEmail(ctx, in.Email)
	if err == nil && existing != nil {
		return out, ErrEmailAlreadyExists
	}
	if err != nil && !errors.Is(err, repository.ErrUserNotFound) {
		return out, err
	}

	// パスワードをハッシュ化
	hashed, err := u.hasher.Hash(in.Password)
	if err != nil {
		return out, err
	}

	now := u.clock.Now()

	user := &model.User{
		Email:        strings.TrimSpace(in.Email),
		PasswordHash: hashed, // ハッシュを保存（平文は保存しない）
		Role:         model.RoleUser,
		TokenVersion: 0,
		IsActive:     true,
		LastLoginAt:  nil,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	// DBへ保存
	if err := u.users.Create(ctx, user); err != nil {
		// 事前チェックをすり抜けた同時登録は一意制約で拾う
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return out, ErrEmailAlreadyExists
		}
		return out, err
	}

	// 返すときはハッシュを空にして漏洩防止
	safeUser := *user
	safeUser.PasswordHash = ""

	out.User = safeUser
	return out, nil
}

// メールチェック
func isValidEmailFormat(email string) bool {
	trimmed := strings.TrimSpace(email)
	if trimmed == "" {
		return false
	}
	_, err := mail.ParseAddress(trimmed)
	return err == nil
}

// よくある弱いパスワード
func isWeakPassword(password string) bool {
	normalized := strings.ToLower(strings.TrimSpace(password))

	weak := map[string]struct{}{
		"password":     {},
		"password123":  {},
		"123456789012": {},
		"1234567890":   {},
		"12345678":     {},
		"qwerty":       {},
		"qwertyuiop":   {},
		"letmein":      {},
		"admin":        {},
		"admin123":     {},
	}

	_, ok := weak[normalized]
	return ok
}
