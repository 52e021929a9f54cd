package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/frahmantamala/pos-platform/internal"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

type Service struct {
	repo           RepositoryAPI
	tokenGenerator *JWTTokenGenerator
	logger         *slog.Logger
}

func NewService(repo RepositoryAPI, tokenGen *JWTTokenGenerator, logger *slog.Logger) *Service {
	return &Service{
		repo:           repo,
		tokenGenerator: tokenGen,
		logger:         logger,
	}
}

func NewJWTTokenGenerator(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *JWTTokenGenerator {
	if accessTTL <= 0 {
		accessTTL = 15 * time.Minute
	}
	if refreshTTL <= 0 {
		refreshTTL = 7 * 24 * time.Hour
	}
	return &JWTTokenGenerator{
		AccessTokenSecret:  []byte(accessSecret),
		RefreshTokenSecret: []byte(refreshSecret),
		AccessTokenTTL:     accessTTL,
		RefreshTokenTTL:    refreshTTL,
	}
}

// Authenticate verifies a phone plus password or PIN and issues a token pair.
// Unknown phones and bad secrets produce the same error.
func (s *Service) Authenticate(ctx context.Context, dto LoginDTO) (AuthTokens, error) {
	dto.Normalize()
	if err := dto.Validate(); err != nil {
		return AuthTokens{}, err
	}

	creds, err := s.repo.GetCredentialsByPhone(ctx, dto.Phone)
	if err != nil {
		s.logger.Error("failed to load credentials", "error", err)
		return AuthTokens{}, internal.NewInternalError("failed to authenticate", err)
	}
	if creds == nil {
		return AuthTokens{}, internal.ErrInvalidCredentials
	}

	if !s.verifySecret(creds, dto) {
		s.logger.Warn("login rejected", "employee_id", creds.EmployeeID)
		return AuthTokens{}, internal.ErrInvalidCredentials
	}
	if !creds.IsActive {
		return AuthTokens{}, internal.ErrUserInactive
	}

	actor, err := s.LoadActor(ctx, creds.EmployeeID)
	if err != nil {
		return AuthTokens{}, err
	}

	return s.issueTokens(actor)
}

func (s *Service) verifySecret(creds *Credentials, dto LoginDTO) bool {
	if dto.PIN != "" {
		if creds.PinHash == nil || *creds.PinHash == "" {
			return false
		}
		return bcrypt.CompareHashAndPassword([]byte(*creds.PinHash), []byte(dto.PIN)) == nil
	}
	return bcrypt.CompareHashAndPassword([]byte(creds.PasswordHash), []byte(dto.Password)) == nil
}

// RefreshTokens rotates the pair. The employee must still be active and the
// role embedded in the new tokens is re-read from storage.
func (s *Service) RefreshTokens(ctx context.Context, refreshToken string) (AuthTokens, error) {
	claims, err := s.tokenGenerator.ValidateRefreshToken(refreshToken)
	if err != nil {
		return AuthTokens{}, err
	}

	actor, err := s.LoadActor(ctx, claims.EmployeeID)
	if err != nil {
		return AuthTokens{}, err
	}

	return s.issueTokens(actor)
}

func (s *Service) ValidateAccessToken(tokenString string) (*Claims, error) {
	return s.tokenGenerator.ValidateAccessToken(tokenString)
}

// LoadActor reads the employee's current role and permissions.
func (s *Service) LoadActor(ctx context.Context, employeeID int64) (*Actor, error) {
	actor, err := s.repo.GetActor(ctx, employeeID)
	if err != nil {
		s.logger.Error("failed to load actor", "employee_id", employeeID, "error", err)
		return nil, internal.NewInternalError("failed to load employee", err)
	}
	if actor == nil {
		return nil, internal.ErrUserInactive
	}
	return actor, nil
}

func (s *Service) issueTokens(actor *Actor) (AuthTokens, error) {
	accessToken, err := s.tokenGenerator.GenerateAccessToken(actor.EmployeeID, actor.Role)
	if err != nil {
		return AuthTokens{}, internal.NewInternalError("failed to issue token", err)
	}

	refreshToken, err := s.tokenGenerator.GenerateRefreshToken(actor.EmployeeID, actor.Role)
	if err != nil {
		return AuthTokens{}, internal.NewInternalError("failed to issue token", err)
	}

	return AuthTokens{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    int64(s.tokenGenerator.AccessTokenTTL.Seconds()),
	}, nil
}

func (j *JWTTokenGenerator) GenerateAccessToken(employeeID int64, role Role) (string, error) {
	return j.sign(employeeID, role, TokenTypeAccess, j.AccessTokenTTL, j.AccessTokenSecret)
}

func (j *JWTTokenGenerator) GenerateRefreshToken(employeeID int64, role Role) (string, error) {
	return j.sign(employeeID, role, TokenTypeRefresh, j.RefreshTokenTTL, j.RefreshTokenSecret)
}

func (j *JWTTokenGenerator) sign(employeeID int64, role Role, tokenType string, ttl time.Duration, secret []byte) (string, error) {
	now := time.Now()
	claims := &Claims{
		EmployeeID: employeeID,
		Role:       role.String(),
		TokenType:  tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Subject:   strconv.FormatInt(employeeID, 10),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

func (j *JWTTokenGenerator) ValidateAccessToken(tokenString string) (*Claims, error) {
	return j.validate(tokenString, TokenTypeAccess, j.AccessTokenSecret)
}

func (j *JWTTokenGenerator) ValidateRefreshToken(tokenString string) (*Claims, error) {
	return j.validate(tokenString, TokenTypeRefresh, j.RefreshTokenSecret)
}

func (j *JWTTokenGenerator) validate(tokenString, tokenType string, secret []byte) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, internal.ErrTokenExpired
		}
		return nil, internal.ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.TokenType != tokenType || claims.EmployeeID <= 0 {
		return nil, internal.ErrInvalidToken
	}

	return claims, nil
}

// HashSecret creates a bcrypt hash of a password or PIN.
func HashSecret(secret string, cost int) (string, error) {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
