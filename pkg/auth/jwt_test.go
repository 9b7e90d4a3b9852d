package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/WinsonMARS/hospitalmanagement/internal/model"
)

func testService() JWTService {
	return NewJWTService(Config{
		Secret:        "access-secret",
		RefreshSecret: "refresh-secret",
	})
}

func testUser(role model.Role) *model.User {
	user := &model.User{
		Email: "user@example.com",
		Role:  role,
	}
	user.ID = uuid.New()
	return user
}

func TestAccessTokenRoundTrip(t *testing.T) {
	svc := testService()
	user := testUser(model.RoleDoctor)

	token, err := svc.GenerateAccessToken(user)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)

	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, user.Email, claims.Email)
	assert.Equal(t, model.RoleDoctor, claims.Role)
}

func TestRefreshTokenUsesSeparateSecret(t *testing.T) {
	svc := testService()
	user := testUser(model.RolePatient)

	refresh, err := svc.GenerateRefreshToken(user)
	require.NoError(t, err)

	_, err = svc.ValidateToken(refresh)
	assert.Error(t, err)

	claims, err := svc.ValidateRefreshToken(refresh)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
}

func TestUnknownRoleClaimResolvesToRoleUnknown(t *testing.T) {
	svc := testService()

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": uuid.New().String(),
		"email":   "user@example.com",
		"role":    "superuser",
		"iat":     now.Unix(),
		"exp":     now.Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte("access-secret"))
	require.NoError(t, err)

	claims, err := svc.ValidateToken(signed)
	require.NoError(t, err)
	assert.Equal(t, model.RoleUnknown, claims.Role)
}

func TestTamperedTokenRejected(t *testing.T) {
	svc := testService()
	user := testUser(model.RoleAdmin)

	token, err := svc.GenerateAccessToken(user)
	require.NoError(t, err)

	_, err = svc.ValidateToken(token + "x")
	assert.Error(t, err)
}
