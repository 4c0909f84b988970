package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"app/internal/repository"
)

var (
	//メールまたはパスワードが違う
	ErrInvalidCredentials = errors.New("invalid credentials")
	//停止済みユーザー
	ErrUserInactive = errors.New("user is inactive")
	//401 認証失敗
	ErrUnauthorized = errors.New("unauthorized")
	//401 再利用されてしまっている
	ErrSecurityIncident = errors.New("security incident")

	// 入力が不正
	ErrInvalidEmailFormat = errors.New("invalid email format")
	ErrPasswordTooShort   = errors.New("password too short")
	ErrWeakPassword       = errors.New("weak password")

	// 競合
	ErrEmailAlreadyExists = errors.New("email already exists")
)

// AuthUsecase は会員登録・ログイン・refresh・ログアウトをまとめる。
type AuthUsecase struct {
	users      repository.UserRepository
	rtRepo     repository.RefreshTokenRepository
	hasher     PasswordHasher
	verifier   PasswordVerifier
	issuer     AccessTokenIssuer
	idGen      IDGenerator
	clock      Clock
	refreshTTL time.Duration
}

// DI
func NewAuthUsecase(
	users repository.UserRepository,
	rtRepo repository.RefreshTokenRepository,
	hasher PasswordHasher,
	verifier PasswordVerifier,
	issuer AccessTokenIssuer,
	idGen IDGenerator,
	clock Clock,
	refreshTTL time.Duration,
) *AuthUsecase {
	return &AuthUsecase{
		users:      users,
		rtRepo:     rtRepo,
		hasher:     hasher,
		verifier:   verifier,
		issuer:     issuer,
		idGen:      idGen,
		clock:      clock,
		refreshTTL: refreshTTL,
	}
}

func generateSecureToken(bytesLen int) (string, error) {
	if bytesLen <= 0 {
		return "", fmt.Errorf("bytesLen must be positive")
	}

	// ランダムなバイト列を作る（OSが持つ安全な乱数）
	b := make([]byte, bytesLen)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}

	return base64.RawURLEncoding.EncodeToString(b), nil
}

func hashToken(plain string) string {
	h := sha256.Sum256([]byte(plain))
	return hex.EncodeToString(h[:])
}
