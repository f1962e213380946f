package security

import (
	"errors"
	"fmt"
	"os"
	"sync/atomic"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	issuer     = "idle-city"
	defaultTTL = 30 * 24 * time.Hour
)

var (
	ErrJWTSecretMissing = errors.New("JWT_SECRET is not set")
	ErrTokenExpired     = errors.New("token expired")
	ErrTokenInvalid     = errors.New("token invalid")
)

var tokenTTL atomic.Int64

// SetTokenTTL 修改之后签发的令牌有效期，<=0 恢复默认 30 天。
func SetTokenTTL(d time.Duration) {
	if d <= 0 {
		d = 0
	}
	tokenTTL.Store(int64(d))
}

func ttl() time.Duration {
	if d := time.Duration(tokenTTL.Load()); d > 0 {
		return d
	}
	return defaultTTL
}

// Claims 只带玩家 id，玩家没有账号体系，令牌就是身份。
type Claims struct {
	PlayerID int64 `json:"pid"`
	jwt.RegisteredClaims
}

func jwtSecret() ([]byte, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, ErrJWTSecretMissing
	}
	return []byte(secret), nil
}

// Award 给玩家签发 HS256 令牌。
func Award(playerID int64) (string, error) {
	if playerID <= 0 {
		return "", fmt.Errorf("award token: invalid player id %d", playerID)
	}
	key, err := jwtSecret()
	if err != nil {
		return "", err
	}
	now := time.Now()
	claims := &Claims{
		PlayerID: playerID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl())),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    issuer,
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
}

// ParseToken 校验签名、签发方和有效期。过期返回 ErrTokenExpired，其余失败都是 ErrTokenInvalid。
func ParseToken(tokenStr string) (*jwt.Token, *Claims, error) {
	key, err := jwtSecret()
	if err != nil {
		return nil, nil, err
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(*jwt.Token) (any, error) {
		return key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithIssuer(issuer))
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, nil, fmt.Errorf("%w: %v", ErrTokenExpired, err)
	case err != nil:
		return nil, nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	case !token.Valid || claims.PlayerID <= 0:
		return nil, nil, ErrTokenInvalid
	}
	return token, claims, nil
}
