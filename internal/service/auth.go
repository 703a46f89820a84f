package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"

	"github.com/Skotchmaster/meat_shop/internal/hash"
	"github.com/Skotchmaster/meat_shop/internal/logging"
	"github.com/Skotchmaster/meat_shop/internal/models"
	"github.com/Skotchmaster/meat_shop/internal/repo"
	"github.com/Skotchmaster/meat_shop/internal/tokens"
	"github.com/Skotchmaster/meat_shop/internal/transport"
)

type AuthService struct {
	Repo          *repo.GormRepo
	JWTSecret     []byte
	RefreshSecret []byte
	Validate      *validator.Validate
}

func NewAuthService(r *repo.GormRepo, accessSecret, refreshSecret []byte) *AuthService {
	return &AuthService{Repo: r, JWTSecret: accessSecret, RefreshSecret: refreshSecret, Validate: NewValidator()}
}

type LoginResult struct {
	AccessToken  string
	RefreshToken string
	AccessExp    time.Time
	RefreshExp   time.Time
	Role         string
	Username     string
}

func (s *AuthService) Register(ctx context.Context, req transport.Credentials) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	req.Username = strings.TrimSpace(req.Username)
	if err := s.Validate.Struct(&req); err != nil {
		return nil, invalid("Username and password are required")
	}

	pwHash, err := hash.HashPassword(req.Password)
	if err != nil {
		l.Error("register_error", "status", 500, "reason", "cannot hash the password", "error", err)
		return nil, err
	}
	user := &models.User{Username: req.Username, PasswordHash: pwHash, Role: models.RoleUser}
	if err := s.Repo.CreateUserIfNotExists(ctx, user); err != nil {
		if errors.Is(err, repo.ErrUserAlreadyExist) || errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("user %q: %w", req.Username, ErrConflict)
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	return s.issue(ctx, user)
}

func (s *AuthService) Login(ctx context.Context, req transport.Credentials) (*LoginResult, error) {
	req.Username = strings.TrimSpace(req.Username)
	if err := s.Validate.Struct(&req); err != nil {
		return nil, invalid("Username and password are required")
	}

	user, err := s.Repo.UserExist(ctx, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, repo.ErrInvalidCredentials) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return s.issue(ctx, user)
}

// Refresh rotates a refresh token and mints a new pair.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*LoginResult, error) {
	claims, err := tokens.RefreshClaimsFromToken(refreshToken, s.RefreshSecret)
	if err != nil {
		return nil, fmt.Errorf("parse refresh token: %w: %v", ErrUnauthorized, err)
	}
	id, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("refresh subject %q: %w", claims.Subject, ErrUnauthorized)
	}
	user, err := s.Repo.GetUserByID(ctx, uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("refresh user: %w", ErrUnauthorized)
		}
		return nil, err
	}

	res, rec, err := s.mint(user)
	if err != nil {
		return nil, err
	}
	if err := s.Repo.RotateRefreshToken(ctx, claims.ID, rec); err != nil {
		if errors.Is(err, repo.ErrTokenRevoked) || errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("rotate refresh token: %w", ErrUnauthorized)
		}
		return nil, fmt.Errorf("rotate refresh token: %w", err)
	}
	return res, nil
}

func (s *AuthService) LogOut(ctx context.Context, refreshToken string) error {
	return s.Repo.RevokeRefreshToken(ctx, refreshToken)
}

func (s *AuthService) issue(ctx context.Context, user *models.User) (*LoginResult, error) {
	res, rec, err := s.mint(user)
	if err != nil {
		return nil, err
	}
	if err := s.Repo.AddRefreshToken(ctx, rec); err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}
	return res, nil
}

func (s *AuthService) mint(user *models.User) (*LoginResult, *models.RefreshToken, error) {
	subject := strconv.FormatUint(uint64(user.ID), 10)

	accessExp := time.Now().Add(tokens.AccessTTL)
	access, err := tokens.CreateAccessToken(s.JWTSecret, subject, user.Role, user.Username, accessExp)
	if err != nil {
		return nil, nil, fmt.Errorf("sign access token: %w", err)
	}

	refreshExp := time.Now().Add(tokens.RefreshTTL)
	refresh, jti, err := tokens.CreateRefreshToken(s.RefreshSecret, subject, user.Role, refreshExp)
	if err != nil {
		return nil, nil, fmt.Errorf("sign refresh token: %w", err)
	}

	rec := &models.RefreshToken{
		Role:      user.Role,
		Token:     tokens.Sha256Hex(refresh),
		UserID:    user.ID,
		JTI:       jti,
		ExpiresAt: refreshExp.Unix(),
	}
	return &LoginResult{
		AccessToken:  access,
		RefreshToken: refresh,
		AccessExp:    accessExp,
		RefreshExp:   refreshExp,
		Role:         user.Role,
		Username:     user.Username,
	}, rec, nil
}
