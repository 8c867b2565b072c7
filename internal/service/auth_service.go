package service

import (
	"context"
	"fmt"
	"time"

	"github.com/dmbruno/Ananda/internal/config"
	"github.com/dmbruno/Ananda/internal/dto"
	"github.com/dmbruno/Ananda/internal/middleware"
	"github.com/dmbruno/Ananda/internal/model"
	"github.com/dmbruno/Ananda/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 12

// MailQueue enqueues transactional emails for the worker pool. Failures on
// the queue side never surface to the API caller.
type MailQueue interface {
	EnqueuePasswordReset(ctx context.Context, to, nombre, resetURL string) error
	EnqueuePasswordChanged(ctx context.Context, to, nombre string) error
}

type AuthService struct {
	usuarios repository.UsuarioRepository
	mail     MailQueue
	cfg      *config.Config
}

func NewAuthService(usuarios repository.UsuarioRepository, mail MailQueue, cfg *config.Config) *AuthService {
	return &AuthService{usuarios: usuarios, mail: mail, cfg: cfg}
}

// Login checks credentials and issues the access/refresh token pair.
func (s *AuthService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	u, err := s.usuarios.FindByEmail(ctx, req.Email)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrCredencialesInvalidas
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)) != nil {
		return nil, ErrCredencialesInvalidas
	}

	access, err := s.mintToken(u, middleware.TokenAccess, time.Duration(s.cfg.JWTExpirationHours)*time.Hour)
	if err != nil {
		return nil, err
	}
	refresh, err := s.mintToken(u, middleware.TokenRefresh, time.Duration(s.cfg.JWTRefreshHours)*time.Hour)
	if err != nil {
		return nil, err
	}

	return &dto.LoginResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "Bearer",
		ExpiresIn:    s.cfg.JWTExpirationHours * 3600,
		User:         ToUsuarioResponse(u),
	}, nil
}

// Refresh exchanges a refresh token for a new access token. The user is
// re-loaded so deactivations take effect on the next refresh.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*dto.RefreshResponse, error) {
	claims, err := middleware.ParseToken(refreshToken, s.cfg.JWTSecret)
	if err != nil || claims.Type != middleware.TokenRefresh {
		return nil, ErrTokenInvalido
	}

	id, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, ErrTokenInvalido
	}
	u, err := s.usuarios.FindByID(ctx, id)
	if err != nil || !u.Activo {
		return nil, ErrTokenInvalido
	}

	access, err := s.mintToken(u, middleware.TokenAccess, time.Duration(s.cfg.JWTExpirationHours)*time.Hour)
	if err != nil {
		return nil, err
	}
	return &dto.RefreshResponse{AccessToken: access}, nil
}

// Me returns the projection of the authenticated user.
func (s *AuthService) Me(ctx context.Context, userID uuid.UUID) (*dto.UsuarioResponse, error) {
	u, err := s.usuarios.FindByID(ctx, userID)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	resp := ToUsuarioResponse(u)
	return &resp, nil
}

// ForgotPassword issues a one-hour reset token and enqueues the email.
// A queue failure is logged but the caller still gets success.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	u, err := s.usuarios.FindByEmail(ctx, email)
	if err != nil {
		if isNotFound(err) {
			return ErrNotFound
		}
		return err
	}

	token, err := s.mintToken(u, middleware.TokenPasswordReset, time.Hour)
	if err != nil {
		return err
	}

	resetURL := fmt.Sprintf("%s/reset-password?token=%s", s.cfg.FrontendURL, token)
	if err := s.mail.EnqueuePasswordReset(ctx, u.Email, u.NombreCompleto(), resetURL); err != nil {
		log.Error().Err(err).Str("email", u.Email).Msg("no se pudo encolar el email de recuperacion")
	}
	return nil
}

// VerifyResetToken checks a reset token without consuming it, so the front
// end can validate the link before showing the form.
func (s *AuthService) VerifyResetToken(ctx context.Context, token string) (*dto.VerifyResetTokenResponse, error) {
	claims, err := middleware.ParseToken(token, s.cfg.JWTSecret)
	if err != nil || claims.Type != middleware.TokenPasswordReset {
		return nil, ErrTokenInvalido
	}

	id, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, ErrTokenInvalido
	}
	u, err := s.usuarios.FindByID(ctx, id)
	if err != nil || !u.Activo {
		return nil, ErrTokenInvalido
	}

	return &dto.VerifyResetTokenResponse{Mensaje: "Token valido", Email: u.Email}, nil
}

// ResetPassword validates a reset token and replaces the password hash.
func (s *AuthService) ResetPassword(ctx context.Context, req dto.ResetPasswordRequest) error {
	claims, err := middleware.ParseToken(req.Token, s.cfg.JWTSecret)
	if err != nil || claims.Type != middleware.TokenPasswordReset {
		return ErrTokenInvalido
	}

	id, err := uuid.Parse(claims.UserID)
	if err != nil {
		return ErrTokenInvalido
	}
	u, err := s.usuarios.FindByID(ctx, id)
	if err != nil || !u.Activo {
		return ErrTokenInvalido
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	if err := s.usuarios.Update(ctx, u); err != nil {
		return err
	}

	// Best-effort notification.
	if err := s.mail.EnqueuePasswordChanged(ctx, u.Email, u.NombreCompleto()); err != nil {
		log.Warn().Err(err).Str("email", u.Email).Msg("no se pudo encolar la notificacion de cambio de contrasena")
	}
	return nil
}

func (s *AuthService) mintToken(u *model.Usuario, tokenType string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := middleware.JWTClaims{
		UserID:  u.ID.String(),
		Email:   u.Email,
		IsAdmin: u.IsAdmin,
		Type:    tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			Subject:   u.ID.String(),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.JWTSecret))
}
