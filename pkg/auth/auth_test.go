package auth

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/arnavshah/task-planner-api/pkg/database"
)

func testAuth() *Authenticator {
	a := New("jwt-secret", "master-secret")
	a.BcryptCost = bcrypt.MinCost
	return a
}

func TestHMACKey(t *testing.T) {
	a := testAuth()
	key := a.GenerateHMACKey("team.alpha")

	userID, err := a.VerifyHMACKey(key)
	require.NoError(t, err)
	assert.Equal(t, "team.alpha", userID, "user ids may contain dots")
	assert.Equal(t, key, GenerateHMACKey([]byte("master-secret"), "team.alpha"))

	for _, bad := range []string{"", "nodot", ".sig", "user.", "team.alpha.deadbeef"} {
		_, err := a.VerifyHMACKey(bad)
		assert.ErrorIs(t, err, ErrInvalidKey, bad)
	}

	_, err = New("jwt-secret", "other-secret").VerifyHMACKey(key)
	assert.ErrorIs(t, err, ErrInvalidKey, "keys from another master secret are rejected")
}

func TestKeyPreview(t *testing.T) {
	assert.Equal(t, "abc...6789", KeyPreview("abcdef0123456789"))
	assert.Equal(t, "****", KeyPreview("short"))
}

func TestToken(t *testing.T) {
	a := testAuth()
	token, err := a.CreateToken("admin")
	require.NoError(t, err)

	claims, err := a.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Username)

	_, err = New("other", "master-secret").VerifyToken(token)
	assert.Error(t, err)

	a.TokenTTL = -time.Minute
	expired, err := a.CreateToken("admin")
	require.NoError(t, err)
	_, err = a.VerifyToken(expired)
	assert.Error(t, err)
}

func TestToken_RejectsOtherAlgorithms(t *testing.T) {
	a := testAuth()
	claims := &Claims{Username: "admin", RegisteredClaims: jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}}
	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("jwt-secret"))
	require.NoError(t, err)

	_, err = a.VerifyToken(forged)
	assert.Error(t, err)
}

func TestPasswordHash(t *testing.T) {
	a := testAuth()
	hash, err := a.HashPassword("hunter2")
	require.NoError(t, err)
	assert.True(t, CheckPasswordHash("hunter2", hash))
	assert.False(t, CheckPasswordHash("hunter3", hash))
}

func TestEnsureAdmin(t *testing.T) {
	db, err := database.Open(database.Config{Path: filepath.Join(t.TempDir(), "auth.db")})
	require.NoError(t, err)
	a := testAuth()

	created, err := a.EnsureAdmin(db, "admin", "admin123")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = a.EnsureAdmin(db, "other", "secret")
	require.NoError(t, err)
	assert.False(t, created, "an existing admin is left alone")

	var user database.MasterUser
	require.NoError(t, db.First(&user).Error)
	assert.Equal(t, "admin", user.Username)
	assert.True(t, CheckPasswordHash("admin123", user.PasswordHash))
}
