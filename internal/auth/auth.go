package auth

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/paperie/shop-backend/internal/config"
)

var ErrInvalidToken = errors.New("invalid token")

// Admin — единственный администратор, заданный конфигурацией.
// Пароль из конфига хэшируется один раз при старте, дальше сравнивается
// только хэш.
type Admin struct {
	user     string
	passHash []byte
	secret   []byte
	tokenTTL time.Duration
}

func NewAdmin(adminCfg config.AdminConfig, jwtCfg config.JWTConfig) (*Admin, error) {
	passHash, err := bcrypt.GenerateFromPassword([]byte(adminCfg.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash admin password: %w", err)
	}
	return &Admin{
		user:     adminCfg.User,
		passHash: passHash,
		secret:   []byte(jwtCfg.Secret),
		tokenTTL: time.Duration(jwtCfg.TokenTTL) * time.Minute,
	}, nil
}

// Verify проверяет пару логин/пароль из Basic-авторизации.
func (a *Admin) Verify(user, pass string) bool {
	if subtle.ConstantTimeCompare([]byte(user), []byte(a.user)) != 1 {
		return false
	}
	return bcrypt.CompareHashAndPassword(a.passHash, []byte(pass)) == nil
}

// NewToken выдаёт JWT для админ-панели, чтобы браузер не хранил Basic-учётку.
func (a *Admin) NewToken() (string, error) {
	claims := jwt.MapClaims{
		"sub": a.user,
		"exp": time.Now().Add(a.tokenTTL).Unix(),
		"iat": time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(a.secret)
}

// VerifyToken проверяет подпись, срок жизни и субъект токена.
func (a *Admin) VerifyToken(tokenStr string) error {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		// Проверка алгоритма
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return a.secret, nil
	})
	if err != nil || !token.Valid {
		return ErrInvalidToken
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return ErrInvalidToken
	}
	sub, ok := claims["sub"].(string)
	if !ok || sub != a.user {
		return ErrInvalidToken
	}
	return nil
}
