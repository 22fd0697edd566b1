package usecase

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// AuthUsecase validates bearer tokens minted by the external auth provider.
// Login, registration and token refresh happen outside this service.
type AuthUsecase interface {
	// ValidateToken verifies the signed token and returns the subject user id.
	ValidateToken(token string) (string, error)
}

type authUsecase struct {
	secret []byte
}

func NewAuthUsecase(secret string) AuthUsecase {
	return &authUsecase{secret: []byte(secret)}
}

func (u *authUsecase) ValidateToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return u.secret, nil
	})
	if err != nil {
		return "", err
	}
	if !token.Valid {
		return "", errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", errors.New("invalid token claims")
	}
	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return "", errors.New("token has no subject")
	}
	return sub, nil
}
