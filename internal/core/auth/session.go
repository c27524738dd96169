package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionClaims 会话 cookie 的载荷
type SessionClaims struct {
	UID  uint   `json:"uid"`
	Name string `json:"name"`
	jwt.RegisteredClaims
}

// Sessions 签发/校验放在 cookie 里的 HS256 会话令牌
type Sessions struct {
	Secret []byte
	Issuer string
	TTL    time.Duration
}

func (s *Sessions) Issue(uid uint, name string) (string, error) {
	now := time.Now()
	claims := SessionClaims{
		UID:  uid,
		Name: name,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.TTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.Secret)
}

// Parse 解析失败一律视为匿名（fail closed），调用方不需要区分原因
func (s *Sessions) Parse(tokenStr string) (*SessionClaims, error) {
	t, err := jwt.ParseWithClaims(tokenStr, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected alg")
		}
		return s.Secret, nil
	}, jwt.WithIssuer(s.Issuer), jwt.WithLeeway(60*time.Second))

	if err != nil {
		return nil, err
	}
	if c, ok := t.Claims.(*SessionClaims); ok && t.Valid {
		return c, nil
	}
	return nil, errors.New("invalid session token")
}
