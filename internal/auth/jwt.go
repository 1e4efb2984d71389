package auth

import (
	"errors"
	"serwer-zasobow/internal/models"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is the only error verification returns. Callers (and clients)
// cannot tell a bad signature from an expired or malformed token.
var ErrInvalidToken = errors.New("invalid or expired token")

type AppClaims struct {
	UserID int64  `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// resetTokenScope marks a token as a password-reset token. Access tokens never
// carry a scope claim, so the two token kinds are not interchangeable even
// though they share a signing secret.
const resetTokenScope = "password_reset"

type ResetClaims struct {
	Email string `json:"email"`
	Scope string `json:"scope"`
	jwt.RegisteredClaims
}

func GenerateJWT(user *models.User, secret string, ttl time.Duration) (string, error) {
	now := time.Now()

	claims := &AppClaims{
		UserID: user.ID,
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    "resource-server",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

func VerifyJWT(tokenString, secret string) (*AppClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &AppClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	})

	if err != nil {
		return nil, ErrInvalidToken
	}

	if claims, ok := token.Claims.(*AppClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, ErrInvalidToken
}

// GenerateResetToken issues a password-reset token for the given email address.
// Reset tokens carry an nbf claim and are not usable before their issue time.
func GenerateResetToken(email, secret string, ttl time.Duration) (string, error) {
	now := time.Now()

	claims := &ResetClaims{
		Email: email,
		Scope: resetTokenScope,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			Issuer:    "resource-server",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return token.SignedString([]byte(secret))
}

// VerifyResetToken returns the email address a reset token was issued for.
// Any token without the reset scope claim is rejected, access tokens included.
func VerifyResetToken(tokenString, secret string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &ResetClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	})

	if err != nil {
		return "", ErrInvalidToken
	}

	claims, ok := token.Claims.(*ResetClaims)
	if !ok || !token.Valid || claims.Email == "" || claims.Scope != resetTokenScope {
		return "", ErrInvalidToken
	}

	return claims.Email, nil
}
