package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/DaviHS/badaoburguer/internal/models"
	"github.com/DaviHS/badaoburguer/internal/repo"
	"github.com/DaviHS/badaoburguer/internal/transport"
	"github.com/DaviHS/badaoburguer/pkg/hash"
	"github.com/DaviHS/badaoburguer/pkg/logging"
	"github.com/DaviHS/badaoburguer/pkg/tokens"
)

const (
	AccessTokenTTL  = 15 * time.Minute
	RefreshTokenTTL = 7 * 24 * time.Hour
)

type AuthService struct {
	Repo          *repo.GormRepo
	JWTSecret     []byte
	RefreshSecret []byte
}

type LoginResult struct {
	AccessToken  string
	RefreshToken string
	AccessExp    time.Time
	RefreshExp   time.Time
	IsAdmin      bool
}

func (s *AuthService) CreateAccessToken(role, sub string, accessExp time.Time) (string, error) {
	claims := tokens.AccessClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sub,
			ExpiresAt: jwt.NewNumericDate(accessExp),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.JWTSecret)
}

func (s *AuthService) CreateRefreshToken(sub string, refreshExp time.Time) (string, string, error) {
	jti := tokens.NewJTI()
	claims := tokens.RefreshClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sub,
			ExpiresAt: jwt.NewNumericDate(refreshExp),
			ID:        jti,
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.RefreshSecret)
	return token, jti, err
}

func (s *AuthService) Register(ctx context.Context, req transport.RegisterRequest) (*models.User, error) {
	if req.Email == "" || req.Password == "" || req.FullName == "" {
		return nil, fmt.Errorf("%w: full_name, email and password required", ErrValidation)
	}

	pwHash, err := hash.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		FullName:     req.FullName,
		Email:        req.Email,
		Phone:        req.Phone,
		PasswordHash: pwHash,
		Role:         "user",
		Active:       true,
	}
	if err := s.Repo.CreateUserIfNotExists(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login")

	user, err := s.Repo.UserByCredentials(ctx, email, password)
	if err != nil {
		l.Warn("login_failed", "error", err)
		return nil, err
	}

	return s.issueTokens(ctx, user.ID, user.Role)
}

// Refresh rotates the token pair: the presented refresh token is revoked and
// a fresh pair is issued.
func (s *AuthService) Refresh(ctx context.Context, rawRefresh string) (*LoginResult, error) {
	claims, err := tokens.RefreshClaimsFromToken(rawRefresh, s.RefreshSecret)
	if err != nil {
		return nil, repo.ErrInvalidCredentials
	}

	stored, err := s.Repo.RefreshTokenByJTI(ctx, claims.ID)
	if err != nil {
		return nil, repo.ErrInvalidCredentials
	}
	if stored.Revoked || time.Now().Unix() > stored.ExpiresAt {
		return nil, repo.ErrInvalidCredentials
	}

	userID64, err := strconv.ParseUint(claims.Subject, 10, 32)
	if err != nil {
		return nil, repo.ErrInvalidCredentials
	}
	user, err := s.Repo.GetUserByID(ctx, uint(userID64))
	if err != nil || !user.Active {
		return nil, repo.ErrInvalidCredentials
	}

	if err := s.Repo.RevokeRefreshToken(ctx, rawRefresh); err != nil {
		return nil, err
	}

	return s.issueTokens(ctx, user.ID, user.Role)
}

func (s *AuthService) Logout(ctx context.Context, rawRefresh string) error {
	return s.Repo.RevokeRefreshToken(ctx, rawRefresh)
}

func (s *AuthService) issueTokens(ctx context.Context, userID uint, role string) (*LoginResult, error) {
	sub := strconv.FormatUint(uint64(userID), 10)

	accessExp := time.Now().Add(AccessTokenTTL)
	accessToken, err := s.CreateAccessToken(role, sub, accessExp)
	if err != nil {
		return nil, err
	}

	refreshExp := time.Now().Add(RefreshTokenTTL)
	refreshToken, jti, err := s.CreateRefreshToken(sub, refreshExp)
	if err != nil {
		return nil, err
	}

	if err := s.Repo.SaveRefreshToken(ctx, refreshToken, userID, jti, refreshExp.Unix()); err != nil {
		return nil, err
	}

	return &LoginResult{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		AccessExp:    accessExp,
		RefreshExp:   refreshExp,
		IsAdmin:      role == "admin",
	}, nil
}
