package identity

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// カートの持ち主を表すキー。
// ログイン済みは user:<id>、未ログインは guest:<uuid>。
// ログイン/ログアウトでキーが切り替わり、カートはキーごとに分離される。

const (
	userPrefix  = "user:"
	guestPrefix = "guest:"
)

func UserOwnerKey(userID int64) string {
	return fmt.Sprintf("%s%d", userPrefix, userID)
}

func GuestOwnerKey(guestID uuid.UUID) string {
	return guestPrefix + guestID.String()
}

// ParseGuestOwnerKey はクライアントが申告したguest idを検証してキーにする。
func ParseGuestOwnerKey(raw string) (string, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", fmt.Errorf("invalid guest id: %w", err)
	}
	return GuestOwnerKey(id), nil
}

// NewGuestOwnerKey は新しいguestキーを発行する。
func NewGuestOwnerKey() string {
	return GuestOwnerKey(uuid.New())
}
