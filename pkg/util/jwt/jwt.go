// Package jwt 签发和校验会话 Cookie
// Cookie 值为 HS256 签名的 token，内含不透明的会话 ID；签名通过后才会去查库
package jwt

import (
	"errors"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	issuer         = "pulse_chat"
	sessionSubject = "session"
)

var (
	secretMu sync.RWMutex
	secret   []byte
)

// ErrInvalidToken token 签名错误、过期或用途不符
var ErrInvalidToken = errors.New("invalid session token")

// Init 设置签名密钥
func Init(signingSecret string) {
	secretMu.Lock()
	defer secretMu.Unlock()
	secret = []byte(signingSecret)
}

func signingKey() []byte {
	secretMu.RLock()
	defer secretMu.RUnlock()
	return secret
}

// Claims 会话 token 声明
type Claims struct {
	SessionID string `json:"sid"`
	UserID    string `json:"uid"`
	jwt.RegisteredClaims
}

// GenerateSessionToken 为会话签发 token，过期时间与会话记录一致
func GenerateSessionToken(sessionID, userID string, expiresAt time.Time) (string, error) {
	claims := Claims{
		SessionID: sessionID,
		UserID:    userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sessionID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    issuer,
			Subject:   sessionSubject,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(signingKey())
}

// ParseSessionToken 解析并校验 token（签名、过期、用途）
func ParseSessionToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return signingKey(), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithIssuer(issuer))
	if err != nil {
		return nil, errors.Join(ErrInvalidToken, err)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Subject != sessionSubject || claims.SessionID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
