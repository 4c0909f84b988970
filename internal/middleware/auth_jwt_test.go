package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"app/internal/config"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

const testSecret = "test-secret"

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString([]byte(testSecret))
	assert.NoError(t, err)
	return signed
}

func validClaims() jwt.MapClaims {
	now := time.Now()
	return jwt.MapClaims{
		"sub":  int64(42),
		"role": "USER",
		"tv":   1,
		"iat":  now.Unix(),
		"exp":  now.Add(15 * time.Minute).Unix(),
	}
}

func doRequest(mw echo.MiddlewareFunc, setup func(req *http.Request)) (*httptest.ResponseRecorder, echo.Context) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if setup != nil {
		setup(req)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := mw(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	_ = handler(c)
	return rec, c
}

func TestAuthJWT_ValidToken(t *testing.T) {
	cfg := config.Config{JWTSecret: testSecret}
	token := signToken(t, validClaims())

	rec, c := doRequest(AuthJWT(cfg), func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+token)
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(42), c.Get(CtxUserIDKey))
	assert.Equal(t, "USER", c.Get(CtxUserRoleKey))
	assert.Equal(t, 1, c.Get(CtxTokenVersionKey))
}

func TestAuthJWT_Rejected(t *testing.T) {
	cfg := config.Config{JWTSecret: testSecret}

	expired := validClaims()
	expired["exp"] = time.Now().Add(-time.Minute).Unix()

	wrongKey := jwt.NewWithClaims(jwt.SigningMethodHS256, validClaims())
	wrongSigned, _ := wrongKey.SignedString([]byte("other-secret"))

	cases := []struct {
		name  string
		setup func(req *http.Request)
	}{
		{"no header", nil},
		{"not bearer", func(req *http.Request) { req.Header.Set("Authorization", "Basic abc") }},
		{"garbage token", func(req *http.Request) { req.Header.Set("Authorization", "Bearer garbage") }},
		{"expired", func(req *http.Request) { req.Header.Set("Authorization", "Bearer "+signToken(t, expired)) }},
		{"wrong key", func(req *http.Request) { req.Header.Set("Authorization", "Bearer "+wrongSigned) }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec, _ := doRequest(AuthJWT(cfg), tc.setup)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestCartIdentity_Bearer(t *testing.T) {
	cfg := config.Config{JWTSecret: testSecret}
	token := signToken(t, validClaims())

	rec, c := doRequest(CartIdentity(cfg), func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+token)
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user:42", c.Get(CtxCartOwnerKey))
}

func TestCartIdentity_GuestHeader(t *testing.T) {
	cfg := config.Config{JWTSecret: testSecret}

	rec, c := doRequest(CartIdentity(cfg), func(req *http.Request) {
		req.Header.Set(GuestIDHeader, "7f9c4e8a-1b2c-4d3e-9f00-123456789abc")
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "guest:7f9c4e8a-1b2c-4d3e-9f00-123456789abc", c.Get(CtxCartOwnerKey))
}

func TestCartIdentity_MissingIdentity(t *testing.T) {
	cfg := config.Config{JWTSecret: testSecret}

	rec, _ := doRequest(CartIdentity(cfg), nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCartIdentity_InvalidGuestID(t *testing.T) {
	cfg := config.Config{JWTSecret: testSecret}

	rec, _ := doRequest(CartIdentity(cfg), func(req *http.Request) {
		req.Header.Set(GuestIDHeader, "not-a-uuid")
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// トークン付きで壊れている場合はゲスト扱いにしない
func TestCartIdentity_BrokenBearerRejected(t *testing.T) {
	cfg := config.Config{JWTSecret: testSecret}

	rec, _ := doRequest(CartIdentity(cfg), func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer garbage")
		req.Header.Set(GuestIDHeader, "7f9c4e8a-1b2c-4d3e-9f00-123456789abc")
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
