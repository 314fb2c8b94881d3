package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"fms/internal/model"
)

func testUser() *model.User {
	return &model.User{
		ID:       uuid.New(),
		Username: "admin",
		Email:    "admin@example.com",
		Name:     "مدير النظام",
		Role:     model.RoleSystemAdmin,
		IsActive: true,
	}
}

func TestJWTService_IssueAndVerify(t *testing.T) {
	service := NewJWTService("test-secret")
	user := testUser()

	token, err := service.Issue(user)
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := service.Verify(token)
	assert.NoError(t, err)
	assert.Equal(t, user.ID.String(), claims.UserID)
	assert.Equal(t, user.Username, claims.Username)
	assert.Equal(t, user.Email, claims.Email)
	assert.Equal(t, user.Name, claims.Name)
	assert.Equal(t, model.RoleSystemAdmin, claims.UserRole())

	remaining := time.Until(claims.ExpiresAt.Time)
	assert.Greater(t, remaining, 23*time.Hour)
	assert.LessOrEqual(t, remaining, TokenExpiry)
}

func TestJWTService_VerifyRejectsWrongSecret(t *testing.T) {
	token, err := NewJWTService("secret-a").Issue(testUser())
	assert.NoError(t, err)

	_, err = NewJWTService("secret-b").Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTService_VerifyRejectsTamperedToken(t *testing.T) {
	service := NewJWTService("test-secret")
	token, err := service.Issue(testUser())
	assert.NoError(t, err)

	tampered := token[:len(token)-2] + "xx"
	_, err = service.Verify(tampered)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTService_VerifyRejectsExpiredToken(t *testing.T) {
	service := NewJWTService("test-secret")

	claims := &Claims{
		UserID:   uuid.NewString(),
		Username: "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-25 * time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	assert.NoError(t, err)

	_, err = service.Verify(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestJWTService_VerifyRejectsNoneAlgorithm(t *testing.T) {
	service := NewJWTService("test-secret")

	claims := &Claims{UserID: uuid.NewString()}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	assert.NoError(t, err)

	_, err = service.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
