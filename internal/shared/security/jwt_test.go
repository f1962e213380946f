package security

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func TestAward_缺少JWT_SECRET应失败(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	_, err := Award(1)
	require.ErrorIs(t, err, ErrJWTSecretMissing)
}

func TestAward_非法玩家id(t *testing.T) {
	t.Setenv("JWT_SECRET", "s")
	_, err := Award(0)
	require.Error(t, err)
}

func TestAwardParse_正常签发并解析(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret-123")

	token, err := Award(42)
	require.NoError(t, err)
	_, claims, err := ParseToken(token)
	require.NoError(t, err)
	require.EqualValues(t, 42, claims.PlayerID)
	require.Equal(t, issuer, claims.Issuer)
}

func TestParseToken_换密钥后失效(t *testing.T) {
	t.Setenv("JWT_SECRET", "a")
	token, err := Award(7)
	require.NoError(t, err)

	t.Setenv("JWT_SECRET", "b")
	_, _, err = ParseToken(token)
	require.ErrorIs(t, err, ErrTokenInvalid)
}

func TestParseToken_过期(t *testing.T) {
	t.Setenv("JWT_SECRET", "s")
	past := time.Now().Add(-time.Hour)
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		PlayerID: 5,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(past),
			IssuedAt:  jwt.NewNumericDate(past.Add(-time.Hour)),
			Issuer:    issuer,
		},
	}).SignedString([]byte("s"))
	require.NoError(t, err)

	_, _, err = ParseToken(token)
	require.ErrorIs(t, err, ErrTokenExpired)
}

func TestParseToken_签发方不符(t *testing.T) {
	t.Setenv("JWT_SECRET", "s")
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		PlayerID:         5,
		RegisteredClaims: jwt.RegisteredClaims{Issuer: "someone-else"},
	}).SignedString([]byte("s"))
	require.NoError(t, err)

	_, _, err = ParseToken(token)
	require.ErrorIs(t, err, ErrTokenInvalid)
}

func TestSetTokenTTL_影响过期时间(t *testing.T) {
	t.Setenv("JWT_SECRET", "s")
	SetTokenTTL(time.Hour)
	t.Cleanup(func() { SetTokenTTL(0) })

	token, err := Award(3)
	require.NoError(t, err)
	_, claims, err := ParseToken(token)
	require.NoError(t, err)
	require.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, time.Minute)
}
