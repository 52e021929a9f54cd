package auth

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// Credentials is what login needs to verify an employee.
type Credentials struct {
	EmployeeID   int64   `gorm:"column:id"`
	PasswordHash string  `gorm:"column:password_hash"`
	PinHash      *string `gorm:"column:pin_hash"`
	IsActive     bool    `gorm:"column:is_active"`
}

type RepositoryAPI interface {
	GetCredentialsByPhone(ctx context.Context, phone string) (*Credentials, error)
	// GetActor returns nil when the employee does not exist or is inactive.
	GetActor(ctx context.Context, employeeID int64) (*Actor, error)
}

type ServiceAPI interface {
	Authenticate(ctx context.Context, dto LoginDTO) (AuthTokens, error)
	RefreshTokens(ctx context.Context, refreshToken string) (AuthTokens, error)
	ValidateAccessToken(tokenString string) (*Claims, error)
	LoadActor(ctx context.Context, employeeID int64) (*Actor, error)
}

type AuthTokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

// Claims represents JWT token claims
type Claims struct {
	EmployeeID int64  `json:"employee_id"`
	Role       string `json:"role"`
	TokenType  string `json:"token_type"`
	jwt.RegisteredClaims
}

type JWTTokenGenerator struct {
	AccessTokenSecret  []byte
	RefreshTokenSecret []byte
	AccessTokenTTL     time.Duration
	RefreshTokenTTL    time.Duration
}
