package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	jwtIssuer   = "gymdesk-api"
	jwtAudience = "gymdesk-staff"

	AccessTokenTTL = 15 * time.Minute
)

const (
	RoleMember    = "member"
	RoleCoach     = "coach"
	RoleFrontdesk = "frontdesk"
	RoleManager   = "manager"
	RoleAdmin     = "admin"
)

var (
	ErrTokenExpired   = errors.New("token expired")
	ErrInvalidToken   = errors.New("invalid token")
	ErrEmptyJWTSecret = errors.New("jwt secret cannot be empty")
)

// Actor is the resolved identity attached to every request: who is acting,
// in which tenant, and from which branch. This is the only thing the core
// needs from the identity provider.
type Actor struct {
	ID       int    `json:"id"`
	Role     string `json:"role"`
	TenantID int    `json:"tenant_id"`
	BranchID int    `json:"branch_id"`
}

func (a Actor) IsStaff() bool {
	return a.Role == RoleCoach || a.Role == RoleFrontdesk || a.Role == RoleManager || a.Role == RoleAdmin
}

func (a Actor) IsPrivileged() bool {
	return a.Role == RoleManager || a.Role == RoleAdmin
}

// ScopePolicy decides whether an actor may touch entities of another branch.
// It is constructed once at startup and threaded through every call that
// needs it; there is deliberately no global switch to relax it.
type ScopePolicy struct {
	enforceBranch bool
}

// StrictScope is the production policy: admins see the whole tenant,
// everyone else is confined to their own branch.
func StrictScope() ScopePolicy {
	return ScopePolicy{enforceBranch: true}
}

// TenantScope allows any branch within the tenant. Used in tests and
// single-branch deployments.
func TenantScope() ScopePolicy {
	return ScopePolicy{enforceBranch: false}
}

func (p ScopePolicy) BranchAllowed(actor Actor, branchID int) bool {
	if !p.enforceBranch {
		return true
	}
	if actor.Role == RoleAdmin {
		return true
	}
	return actor.BranchID == branchID
}

type Claims struct {
	UserID   int    `json:"user_id"`
	Role     string `json:"role"`
	TenantID int    `json:"tenant_id"`
	BranchID int    `json:"branch_id"`
	jwt.RegisteredClaims
}

func GenerateToken(actor Actor, secret string) (string, error) {
	if secret == "" {
		return "", ErrEmptyJWTSecret
	}

	now := time.Now()
	claims := &Claims{
		UserID:   actor.ID,
		Role:     actor.Role,
		TenantID: actor.TenantID,
		BranchID: actor.BranchID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    jwtIssuer,
			Audience:  []string{jwtAudience},
			ExpiresAt: jwt.NewNumericDate(now.Add(AccessTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func ValidateToken(tokenString, secret string) (*Claims, error) {
	if secret == "" {
		return nil, ErrEmptyJWTSecret
	}

	token, err := jwt.ParseWithClaims(
		tokenString,
		&Claims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("unexpected signing method")
			}
			return []byte(secret), nil
		},
		jwt.WithIssuer(jwtIssuer),
		jwt.WithAudience(jwtAudience),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
