package auth

import (
	"testing"
	"time"

	"github.com/dmitrijs2005/labagenda/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParse_Success(t *testing.T) {
	t.Parallel()

	secret := []byte("super-secret")

	tok, err := GenerateToken("user-123", secret, time.Hour)
	require.NoError(t, err)

	got, err := GetUserIDFromToken(tok, secret)
	require.NoError(t, err)
	assert.Equal(t, "user-123", got)
}

func TestGetUserIDFromToken_Expired(t *testing.T) {
	t.Parallel()

	secret := []byte("secret")
	tok, err := GenerateToken("u1", secret, -1*time.Minute)
	require.NoError(t, err)

	_, err = GetUserIDFromToken(tok, secret)
	require.ErrorIs(t, err, common.ErrTokenExpired)
}

func TestGetUserIDFromToken_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := GenerateToken("u2", []byte("right-secret"), time.Hour)
	require.NoError(t, err)

	_, err = GetUserIDFromToken(tok, []byte("wrong-secret"))
	require.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestGetUserIDFromToken_MalformedString(t *testing.T) {
	t.Parallel()

	_, err := GetUserIDFromToken("not.a.jwt", []byte("k"))
	require.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestGetUserIDFromToken_RejectsOtherAlgorithms(t *testing.T) {
	t.Parallel()

	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS512, Claims{UserID: "u", Purpose: PurposeAccess}).SignedString([]byte("k"))
	require.NoError(t, err)

	_, err = GetUserIDFromToken(tok, []byte("k"))
	require.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestPurposesDoNotMix(t *testing.T) {
	t.Parallel()

	secret := []byte("k")
	reset, err := GenerateResetToken("u3", secret, time.Hour)
	require.NoError(t, err)
	access, err := GenerateToken("u3", secret, time.Hour)
	require.NoError(t, err)

	_, err = GetUserIDFromToken(reset, secret)
	require.ErrorIs(t, err, common.ErrInvalidToken)
	_, err = ParseResetToken(access, secret)
	require.ErrorIs(t, err, common.ErrInvalidToken)

	got, err := ParseResetToken(reset, secret)
	require.NoError(t, err)
	assert.Equal(t, "u3", got)
}

func TestPassword(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("segredo1")
	require.NoError(t, err)

	ok, err := CheckPassword(hash, "segredo1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = CheckPassword(hash, "outra")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = CheckPassword([]byte("garbage"), "x")
	require.Error(t, err)
}
