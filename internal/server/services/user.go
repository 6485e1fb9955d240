// Package services contains server-side business logic. This file implements
// UserService: accounts, sign-in, JWT access tokens with server-stored
// refresh tokens, and the mailed password-reset flow.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/labagenda/internal/common"
	"github.com/dmitrijs2005/labagenda/internal/dbx"
	"github.com/dmitrijs2005/labagenda/internal/logging"
	"github.com/dmitrijs2005/labagenda/internal/server/auth"
	"github.com/dmitrijs2005/labagenda/internal/server/config"
	"github.com/dmitrijs2005/labagenda/internal/server/mail"
	"github.com/dmitrijs2005/labagenda/internal/server/models"
	"github.com/dmitrijs2005/labagenda/internal/server/repositories/repomanager"
)

// TokenPair bundles a short-lived access token and a long-lived refresh token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// AuthResult is what a successful sign-up, sign-in or refresh hands back.
type AuthResult struct {
	User   *models.User
	Tokens *TokenPair
}

const refreshTokenBytes = 32

type UserService struct {
	db                           *sql.DB
	repomanager                  repomanager.RepositoryManager
	mailer                       mail.Mailer
	log                          logging.Logger
	jwtSecret                    []byte
	accessTokenValidityDuration  time.Duration
	refreshTokenValidityDuration time.Duration
	resetTokenValidityDuration   time.Duration
	resetLinkBase                string
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, mailer mail.Mailer, cfg *config.Config, log logging.Logger) *UserService {
	return &UserService{
		db:                           db,
		repomanager:                  m,
		mailer:                       mailer,
		log:                          log.With("module", "users"),
		jwtSecret:                    []byte(cfg.SecretKey),
		accessTokenValidityDuration:  cfg.AccessTokenValidityDuration,
		refreshTokenValidityDuration: cfg.RefreshTokenValidityDuration,
		resetTokenValidityDuration:   cfg.ResetTokenValidityDuration,
		resetLinkBase:                cfg.ResetLinkBase,
	}
}

// SignUp creates an account and signs it in. A taken email yields
// common.ErrAlreadyExists.
func (s *UserService) SignUp(ctx context.Context, email, password, displayName, lab string) (*AuthResult, error) {
	in := signUpInput{
		Email:       normalizeEmail(email),
		Password:    password,
		DisplayName: strings.TrimSpace(displayName),
		Lab:         strings.TrimSpace(lab),
	}
	if err := check(in); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	var result *AuthResult
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		user, err := s.repomanager.Users(tx).Create(ctx, &models.User{
			Email:        in.Email,
			DisplayName:  in.DisplayName,
			Lab:          in.Lab,
			PasswordHash: hash,
		})
		if err != nil {
			return err
		}
		pair, err := s.generateTokenPair(ctx, user.ID, tx)
		if err != nil {
			return err
		}
		result = &AuthResult{User: user, Tokens: pair}
		return nil
	})
	if err != nil {
		if errors.Is(err, common.ErrAlreadyExists) {
			return nil, err
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}
	s.log.Info(ctx, "user signed up", "user_id", result.User.ID)
	return result, nil
}

// SignIn verifies credentials. Unknown email and wrong password are
// indistinguishable: both yield common.ErrUnauthenticated.
func (s *UserService) SignIn(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.repomanager.Users(s.db).GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrUnauthenticated
		}
		return nil, common.ErrInternal
	}

	ok, err := auth.CheckPassword(user.PasswordHash, password)
	if err != nil {
		s.log.Error(ctx, "stored password hash unusable", "user_id", user.ID, "error", err)
		return nil, common.ErrInternal
	}
	if !ok {
		return nil, common.ErrUnauthenticated
	}

	pair, err := s.generateTokenPair(ctx, user.ID, s.db)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: user, Tokens: pair}, nil
}

// RefreshToken validates a refresh token, rotates it transactionally, and
// returns a fresh pair. Expired tokens yield common.ErrRefreshTokenExpired,
// unknown ones common.ErrUnauthenticated.
func (s *UserService) RefreshToken(ctx context.Context, refreshToken string) (*AuthResult, error) {
	token, err := s.repomanager.RefreshTokens(s.db).Find(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrUnauthenticated
		}
		return nil, fmt.Errorf("error searching refresh token: %w", err)
	}
	if token.Expires.Before(time.Now()) {
		return nil, common.ErrRefreshTokenExpired
	}

	var result *AuthResult
	if err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.RefreshTokens(tx).Delete(ctx, refreshToken); err != nil {
			return fmt.Errorf("error deleting refresh token: %w", err)
		}
		user, err := s.repomanager.Users(tx).GetByID(ctx, token.UserID)
		if err != nil {
			if errors.Is(err, common.ErrNotFound) {
				return common.ErrUnauthenticated
			}
			return fmt.Errorf("error loading user: %w", err)
		}
		pair, err := s.generateTokenPair(ctx, user.ID, tx)
		if err != nil {
			return err
		}
		result = &AuthResult{User: user, Tokens: pair}
		return nil
	}); err != nil {
		return nil, err
	}
	return result, nil
}

// SignOut revokes refreshToken. An empty or unknown token is not an error.
func (s *UserService) SignOut(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	if err := s.repomanager.RefreshTokens(s.db).Delete(ctx, refreshToken); err != nil {
		return fmt.Errorf("error deleting refresh token: %w", err)
	}
	return nil
}

func (s *UserService) Whoami(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.repomanager.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrUnauthenticated
		}
		return nil, common.ErrInternal
	}
	return user, nil
}

// UpdateProfile changes the display name and lab of userID.
func (s *UserService) UpdateProfile(ctx context.Context, userID, displayName, lab string) (*models.User, error) {
	in := profileInput{DisplayName: strings.TrimSpace(displayName), Lab: strings.TrimSpace(lab)}
	if err := check(in); err != nil {
		return nil, err
	}

	user, err := s.repomanager.Users(s.db).UpdateProfile(ctx, userID, in.DisplayName, in.Lab)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrUnauthenticated
		}
		return nil, fmt.Errorf("error updating profile: %w", err)
	}
	s.log.Info(ctx, "profile updated", "user_id", userID)
	return user, nil
}

// ChangePassword replaces the password of userID after confirming the
// current one. Existing sessions stay valid.
func (s *UserService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	in := changePasswordInput{Current: currentPassword, Password: newPassword}
	if err := check(in); err != nil {
		return err
	}

	user, err := s.repomanager.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.ErrUnauthenticated
		}
		return common.ErrInternal
	}

	ok, err := auth.CheckPassword(user.PasswordHash, in.Current)
	if err != nil {
		s.log.Error(ctx, "stored password hash unusable", "user_id", user.ID, "error", err)
		return common.ErrInternal
	}
	if !ok {
		return common.NewValidationError("currentPassword", reasonWrongPassword)
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.repomanager.Users(s.db).UpdatePassword(ctx, userID, hash); err != nil {
		return fmt.Errorf("error changing password: %w", err)
	}
	s.log.Info(ctx, "password changed", "user_id", userID)
	return nil
}

// SendPasswordReset mails a reset link to email. It answers the same way
// whether or not the account exists.
func (s *UserService) SendPasswordReset(ctx context.Context, email string) error {
	in := resetRequestInput{Email: normalizeEmail(email)}
	if err := check(in); err != nil {
		return err
	}

	user, err := s.repomanager.Users(s.db).GetByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			s.log.Debug(ctx, "password reset for unknown email")
			return nil
		}
		return common.ErrInternal
	}

	token, err := auth.GenerateResetToken(user.ID, s.jwtSecret, s.resetTokenValidityDuration)
	if err != nil {
		return common.ErrInternal
	}
	msg := mail.PasswordReset(user.Email, user.DisplayName, s.resetLinkBase+token)
	if err := s.mailer.Send(ctx, msg); err != nil {
		s.log.Error(ctx, "sending password reset", "user_id", user.ID, "error", err)
		return common.ErrInternal
	}
	return nil
}

// ResetPassword sets a new password from a mailed token and signs the
// account out everywhere.
func (s *UserService) ResetPassword(ctx context.Context, token, newPassword string) error {
	in := resetPasswordInput{Token: token, Password: newPassword}
	if err := check(in); err != nil {
		return err
	}

	userID, err := auth.ParseResetToken(in.Token, s.jwtSecret)
	if err != nil {
		return common.NewValidationError("token", reasonBadResetToken)
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Users(tx).UpdatePassword(ctx, userID, hash); err != nil {
			return err
		}
		return s.repomanager.RefreshTokens(tx).DeleteByUser(ctx, userID)
	})
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.NewValidationError("token", reasonBadResetToken)
		}
		return fmt.Errorf("error resetting password: %w", err)
	}
	s.log.Info(ctx, "password reset", "user_id", userID)
	return nil
}

// UserIDFromAccessToken is used by the auth interceptor.
func (s *UserService) UserIDFromAccessToken(token string) (string, error) {
	return auth.GetUserIDFromToken(token, s.jwtSecret)
}

func (s *UserService) generateTokenPair(ctx context.Context, userID string, tx dbx.DBTX) (*TokenPair, error) {
	access, err := auth.GenerateToken(userID, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return nil, common.ErrInternal
	}
	refresh, err := common.MakeRandHexString(refreshTokenBytes)
	if err != nil {
		return nil, common.ErrInternal
	}
	if err := s.repomanager.RefreshTokens(tx).Create(ctx, userID, refresh, s.refreshTokenValidityDuration); err != nil {
		return nil, common.ErrInternal
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
