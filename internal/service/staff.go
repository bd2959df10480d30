package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/Skotchmaster/colormania/internal/hash"
	"github.com/Skotchmaster/colormania/internal/logging"
	"github.com/Skotchmaster/colormania/internal/models"
	"github.com/Skotchmaster/colormania/internal/repo"
	"github.com/Skotchmaster/colormania/internal/tokens"
)

type StaffService struct {
	Repo          *repo.GormRepo
	AccessSecret  []byte
	RefreshSecret []byte
}

func (s *StaffService) issue(ctx context.Context, staff *models.Staff) (*tokens.Pair, *models.RefreshToken, error) {
	now := time.Now()
	accessExp := now.Add(tokens.AccessTTL)
	access, err := tokens.CreateAccessToken(s.AccessSecret, tokens.RoleStaff, staff.ID, accessExp)
	if err != nil {
		return nil, nil, err
	}

	jti := tokens.NewJTI()
	refreshExp := now.Add(tokens.RefreshTTL)
	refresh, err := tokens.CreateRefreshToken(s.RefreshSecret, staff.ID, jti, refreshExp)
	if err != nil {
		return nil, nil, err
	}

	record := &models.RefreshToken{
		Token:     tokens.Sha256Hex(refresh),
		StaffID:   staff.ID,
		JTI:       jti,
		ExpiresAt: refreshExp.Unix(),
	}
	return &tokens.Pair{
		AccessToken:  access,
		RefreshToken: refresh,
		AccessExp:    accessExp,
		RefreshExp:   refreshExp,
		RefreshJTI:   jti,
	}, record, nil
}

// Login accepts only accounts carrying the staff flag.
func (s *StaffService) Login(ctx context.Context, username, password string) (*tokens.Pair, error) {
	l := logging.FromContext(ctx).With("svc", "staff.login", "username", username)

	staff, err := s.Repo.GetStaffByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("login failed", "status", 401, "reason", "unknown username")
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !hash.CheckPassword(staff.PasswordHash, password) {
		l.Warn("login failed", "status", 401, "reason", "wrong password")
		return nil, ErrInvalidCredentials
	}
	if !staff.IsStaff {
		l.Warn("login failed", "status", 403, "reason", "not staff")
		return nil, ErrInvalidCredentials
	}

	pair, record, err := s.issue(ctx, staff)
	if err != nil {
		l.Error("login failed", "status", 500, "error", err)
		return nil, err
	}
	if err := s.Repo.AddRefreshToken(ctx, record); err != nil {
		l.Error("login failed", "status", 500, "error", err)
		return nil, err
	}
	return pair, nil
}

// Refresh rotates a refresh token: the old one is revoked and a fresh pair
// is issued. Reusing a rotated token fails.
func (s *StaffService) Refresh(ctx context.Context, refreshToken string) (*tokens.Pair, error) {
	l := logging.FromContext(ctx).With("svc", "staff.refresh")

	claims, err := tokens.RefreshClaimsFromToken(refreshToken, s.RefreshSecret)
	if err != nil {
		return nil, fmt.Errorf("parse refresh: %v: %w", err, ErrUnauthenticated)
	}
	staffID, err := claims.StaffID()
	if err != nil {
		return nil, ErrUnauthenticated
	}
	staff, err := s.Repo.GetStaff(ctx, staffID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, err
	}
	if !staff.IsStaff {
		return nil, ErrUnauthenticated
	}

	pair, record, err := s.issue(ctx, staff)
	if err != nil {
		return nil, err
	}
	if err := s.Repo.RotateRefreshToken(ctx, claims.ID, record); err != nil {
		if errors.Is(err, repo.ErrTokenRevoked) || errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("refresh failed", "status", 401, "reason", "revoked or unknown token", "staff_id", staffID)
			return nil, ErrUnauthenticated
		}
		return nil, err
	}
	return pair, nil
}

func (s *StaffService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	claims, err := tokens.RefreshClaimsFromToken(refreshToken, s.RefreshSecret)
	if err != nil {
		return nil
	}
	return s.Repo.RevokeRefreshToken(ctx, claims.ID)
}

// EnsureStaff creates the bootstrap staff account when it does not exist.
func (s *StaffService) EnsureStaff(ctx context.Context, username, password string) (*models.Staff, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, invalid("Usuario y contraseña de staff son obligatorios.")
	}
	existing, err := s.Repo.GetStaffByUsername(ctx, username)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	pwHash, err := hash.HashPassword(password)
	if err != nil {
		return nil, err
	}
	staff := &models.Staff{Username: username, PasswordHash: pwHash, IsStaff: true}
	if err := s.Repo.CreateStaff(ctx, staff); err != nil {
		return nil, err
	}
	logging.FromContext(ctx).Info("staff account created", "username", username)
	return staff, nil
}
