package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/Skotchmaster/refurb_shop/internal/models"
	"github.com/Skotchmaster/refurb_shop/internal/repo"
	"github.com/Skotchmaster/refurb_shop/internal/transport"
	pkg_hash "github.com/Skotchmaster/refurb_shop/pkg/hash"
	"github.com/Skotchmaster/refurb_shop/pkg/logging"
	middleware "github.com/Skotchmaster/refurb_shop/pkg/middleware/auth"
	"github.com/Skotchmaster/refurb_shop/pkg/tokens"
)

const minPasswordLen = 8

type AuthService struct {
	Repo          *repo.GormRepo
	AccessSecret  []byte
	RefreshSecret []byte
}

func userView(u *models.User) transport.UserView {
	return transport.UserView{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		IsStaff:  u.Role == middleware.RoleAdmin,
	}
}

func (s *AuthService) newUser(in transport.RegisterRequest, role string) (*models.User, error) {
	username := strings.TrimSpace(in.Username)
	email := strings.TrimSpace(in.Email)
	if username == "" || email == "" || in.Password == "" {
		return nil, validationf("username, email and password are required")
	}
	if len([]rune(username)) > 150 {
		return nil, validationf("username must be at most 150 characters")
	}
	if len(email) > 254 || !validEmail(email) {
		return nil, validationf("email is not a valid address")
	}
	if len(in.Password) < minPasswordLen {
		return nil, validationf("password must be at least %d characters", minPasswordLen)
	}

	pwHash, err := pkg_hash.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	return &models.User{Username: username, Email: strings.ToLower(email), PasswordHash: pwHash, Role: role}, nil
}

func (s *AuthService) Register(ctx context.Context, in transport.RegisterRequest) (*transport.UserView, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	u, err := s.newUser(in, middleware.RoleUser)
	if err != nil {
		return nil, err
	}
	if err := s.Repo.CreateUser(ctx, u); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("username or email already taken: %w", ErrConflict)
		}
		l.Error("register_error", "reason", "cannot create user", "error", err)
		return nil, err
	}
	v := userView(u)
	return &v, nil
}

// EnsureAdmin creates the staff account on first start; an existing username is left untouched.
func (s *AuthService) EnsureAdmin(ctx context.Context, in transport.RegisterRequest) error {
	if _, err := s.Repo.UserByUsername(ctx, strings.TrimSpace(in.Username)); err == nil {
		return nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	u, err := s.newUser(in, middleware.RoleAdmin)
	if err != nil {
		return err
	}
	if err := s.Repo.CreateUser(ctx, u); err != nil && !errors.Is(err, gorm.ErrDuplicatedKey) {
		return err
	}
	return nil
}

func (s *AuthService) issue(ctx context.Context, u *models.User) (*transport.LoginResult, string, error) {
	now := time.Now()
	accessExp := now.Add(tokens.AccessTTL)
	access, err := tokens.NewAccessToken(s.AccessSecret, u.ID, u.Role, accessExp)
	if err != nil {
		return nil, "", err
	}
	refreshExp := now.Add(tokens.RefreshTTL)
	refresh, jti, err := tokens.NewRefreshToken(s.RefreshSecret, u.ID, refreshExp)
	if err != nil {
		return nil, "", err
	}
	return &transport.LoginResult{
		AccessToken:  access,
		RefreshToken: refresh,
		AccessExp:    accessExp,
		RefreshExp:   refreshExp,
		User:         userView(u),
	}, jti, nil
}

func (s *AuthService) Login(ctx context.Context, username, password string) (*transport.LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login", "username", username)

	u, err := s.Repo.UserByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("invalid username or password: %w", ErrUnauthorized)
		}
		return nil, err
	}
	if !pkg_hash.CheckPassword(u.PasswordHash, password) {
		l.Warn("login_failed", "reason", "wrong password")
		return nil, fmt.Errorf("invalid username or password: %w", ErrUnauthorized)
	}

	res, jti, err := s.issue(ctx, u)
	if err != nil {
		return nil, err
	}
	if err := s.Repo.StoreRefreshToken(ctx, u.ID, jti, res.RefreshToken, res.RefreshExp); err != nil {
		return nil, err
	}
	return res, nil
}

// Refresh revokes the presented refresh token and issues a new pair.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*transport.LoginResult, error) {
	if refreshToken == "" {
		return nil, fmt.Errorf("refresh token is required: %w", ErrUnauthorized)
	}
	claims, err := tokens.RefreshClaimsFromToken(refreshToken, s.RefreshSecret)
	if err != nil {
		return nil, fmt.Errorf("invalid refresh token: %w", ErrUnauthorized)
	}
	userID, err := claims.UserID()
	if err != nil {
		return nil, fmt.Errorf("invalid refresh token: %w", ErrUnauthorized)
	}
	u, err := s.Repo.UserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user no longer exists: %w", ErrUnauthorized)
		}
		return nil, err
	}

	res, jti, err := s.issue(ctx, u)
	if err != nil {
		return nil, err
	}
	if err := s.Repo.RotateRefreshToken(ctx, claims.ID, refreshToken, u.ID, jti, res.RefreshToken, res.RefreshExp); err != nil {
		if errors.Is(err, repo.ErrTokenRevoked) {
			return nil, fmt.Errorf("refresh token expired or revoked: %w", ErrUnauthorized)
		}
		return nil, err
	}
	return res, nil
}

func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	_, err := s.Repo.RevokeRefreshToken(ctx, refreshToken)
	return err
}

func (s *AuthService) Me(ctx context.Context, userID uint) (*transport.UserView, error) {
	u, err := s.Repo.UserByID(ctx, userID)
	if err != nil {
		return nil, storeErr(err, "user")
	}
	v := userView(u)
	return &v, nil
}
