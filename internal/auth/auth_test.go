package auth

import (
	"serwer-zasobow/internal/models"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	password := "mySecretPassword123"
	hash, err := HashPassword(password)

	require.NoError(t, err)
	require.NotEmpty(t, hash)
	require.NotEqual(t, password, hash)

	// Fresh salt on each call, yet both digests verify.
	hash2, err := HashPassword(password)
	require.NoError(t, err)
	require.NotEqual(t, hash, hash2)
	require.True(t, CheckPasswordHash(password, hash))
	require.True(t, CheckPasswordHash(password, hash2))
}

func TestCheckPasswordHash(t *testing.T) {
	password := "mySecretPassword123"
	hash, err := HashPassword(password)
	require.NoError(t, err)

	match := CheckPasswordHash(password, hash)
	require.True(t, match, "Password should match the hash")

	match = CheckPasswordHash("wrongPassword", hash)
	require.False(t, match, "Wrong password should not match the hash")
}

func TestGenerateAndVerifyJWT(t *testing.T) {
	secret := "my_super_secret_key_for_testing"
	user := &models.User{
		ID:    123,
		Email: "testuser@example.com",
	}

	tokenString, err := GenerateJWT(user, secret, time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, tokenString)

	claims, err := VerifyJWT(tokenString, secret)
	require.NoError(t, err)
	require.NotNil(t, claims)
	require.Equal(t, user.ID, claims.UserID)
	require.Equal(t, user.Email, claims.Email)
	require.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, 5*time.Second)
}

func TestVerifyJWT_UniformFailures(t *testing.T) {
	secret := "my_super_secret_key_for_testing"
	user := &models.User{ID: 123, Email: "testuser@example.com"}

	tokenString, err := GenerateJWT(user, secret, time.Hour)
	require.NoError(t, err)

	// Wrong secret, expired token and plain garbage all fail with the same error
	// kind, so a caller cannot build an oracle out of the failure reason.
	_, err = VerifyJWT(tokenString, "wrong_secret")
	require.ErrorIs(t, err, ErrInvalidToken)

	expiredClaims := &AppClaims{
		UserID: user.ID,
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-1 * time.Minute)),
		},
	}
	tokenExpired := jwt.NewWithClaims(jwt.SigningMethodHS256, expiredClaims)
	tokenStringExpired, err := tokenExpired.SignedString([]byte(secret))
	require.NoError(t, err)

	_, err = VerifyJWT(tokenStringExpired, secret)
	require.ErrorIs(t, err, ErrInvalidToken)

	_, err = VerifyJWT("not.a.token", secret)
	require.ErrorIs(t, err, ErrInvalidToken)

	_, err = VerifyJWT("", secret)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestGenerateAndVerifyResetToken(t *testing.T) {
	secret := "reset_secret"
	email := "reset@example.com"

	tokenString, err := GenerateResetToken(email, secret, time.Hour)
	require.NoError(t, err)

	got, err := VerifyResetToken(tokenString, secret)
	require.NoError(t, err)
	require.Equal(t, email, got)

	_, err = VerifyResetToken(tokenString, "wrong_secret")
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyResetToken_NotBefore(t *testing.T) {
	secret := "reset_secret"

	claims := &ResetClaims{
		Email: "early@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "early@example.com",
			NotBefore: jwt.NewNumericDate(time.Now().Add(10 * time.Minute)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(secret))
	require.NoError(t, err)

	_, err = VerifyResetToken(tokenString, secret)
	require.ErrorIs(t, err, ErrInvalidToken, "Token must not validate before its nbf claim")
}

func TestVerifyResetToken_RejectsAccessToken(t *testing.T) {
	secret := "shared_secret"
	user := &models.User{ID: 7, Email: "victim@example.com"}

	// An access token carries an email claim and verifies under the same
	// secret, but it is not a reset token and must never reset a password.
	accessToken, err := GenerateJWT(user, secret, time.Hour)
	require.NoError(t, err)

	_, err = VerifyResetToken(accessToken, secret)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyResetToken_RejectsMissingScope(t *testing.T) {
	secret := "reset_secret"

	// A hand-rolled token with the right shape but no scope claim.
	claims := &ResetClaims{
		Email: "noscope@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "noscope@example.com",
			NotBefore: jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(secret))
	require.NoError(t, err)

	_, err = VerifyResetToken(tokenString, secret)
	require.ErrorIs(t, err, ErrInvalidToken)
}
