package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-12345"

func TestGenerateToken(t *testing.T) {
	actor := Actor{ID: 50, Role: RoleFrontdesk, TenantID: 1, BranchID: 2}

	t.Run("Successfully generate token", func(t *testing.T) {
		token, err := GenerateToken(actor, testSecret)

		assert.NoError(t, err)
		assert.NotEmpty(t, token)
	})

	t.Run("Empty secret", func(t *testing.T) {
		_, err := GenerateToken(actor, "")
		assert.ErrorIs(t, err, ErrEmptyJWTSecret)
	})
}

func TestValidateToken(t *testing.T) {
	actor := Actor{ID: 50, Role: RoleFrontdesk, TenantID: 1, BranchID: 2}

	t.Run("Round trip", func(t *testing.T) {
		token, err := GenerateToken(actor, testSecret)
		require.NoError(t, err)

		claims, err := ValidateToken(token, testSecret)
		require.NoError(t, err)

		assert.Equal(t, 50, claims.UserID)
		assert.Equal(t, RoleFrontdesk, claims.Role)
		assert.Equal(t, 1, claims.TenantID)
		assert.Equal(t, 2, claims.BranchID)
	})

	t.Run("Wrong secret", func(t *testing.T) {
		token, _ := GenerateToken(actor, testSecret)
		_, err := ValidateToken(token, "other-secret")
		assert.Error(t, err)
	})

	t.Run("Expired token", func(t *testing.T) {
		now := time.Now().Add(-time.Hour)
		claims := &Claims{
			UserID:   50,
			Role:     RoleFrontdesk,
			TenantID: 1,
			BranchID: 2,
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    "gymdesk-api",
				Audience:  []string{"gymdesk-staff"},
				ExpiresAt: jwt.NewNumericDate(now.Add(AccessTokenTTL)),
				IssuedAt:  jwt.NewNumericDate(now),
			},
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
		require.NoError(t, err)

		_, err = ValidateToken(token, testSecret)
		assert.ErrorIs(t, err, ErrTokenExpired)
	})

	t.Run("Garbage token", func(t *testing.T) {
		_, err := ValidateToken("not.a.token", testSecret)
		assert.Error(t, err)
	})

	t.Run("Wrong issuer", func(t *testing.T) {
		claims := &Claims{
			UserID: 50,
			Role:   RoleFrontdesk,
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    "someone-else",
				Audience:  []string{"gymdesk-staff"},
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(AccessTokenTTL)),
				IssuedAt:  jwt.NewNumericDate(time.Now()),
			},
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
		require.NoError(t, err)

		_, err = ValidateToken(token, testSecret)
		assert.Error(t, err)
	})
}

func TestActorRoles(t *testing.T) {
	assert.False(t, Actor{Role: RoleMember}.IsStaff())
	assert.True(t, Actor{Role: RoleCoach}.IsStaff())
	assert.True(t, Actor{Role: RoleFrontdesk}.IsStaff())
	assert.True(t, Actor{Role: RoleManager}.IsStaff())
	assert.True(t, Actor{Role: RoleAdmin}.IsStaff())

	assert.False(t, Actor{Role: RoleFrontdesk}.IsPrivileged())
	assert.True(t, Actor{Role: RoleManager}.IsPrivileged())
	assert.True(t, Actor{Role: RoleAdmin}.IsPrivileged())
}

func TestScopePolicy(t *testing.T) {
	strict := StrictScope()
	tenant := TenantScope()

	frontdesk := Actor{ID: 50, Role: RoleFrontdesk, TenantID: 1, BranchID: 2}
	admin := Actor{ID: 70, Role: RoleAdmin, TenantID: 1, BranchID: 2}

	assert.True(t, strict.BranchAllowed(frontdesk, 2))
	assert.False(t, strict.BranchAllowed(frontdesk, 3))
	assert.True(t, strict.BranchAllowed(admin, 3))

	assert.True(t, tenant.BranchAllowed(frontdesk, 3))
}
