// api/service/auth_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/dev-mohitbeniwal/teamaccess/api/audit"
	ta_errors "github.com/dev-mohitbeniwal/teamaccess/api/errors"
	logger "github.com/dev-mohitbeniwal/teamaccess/api/logging"
	"github.com/dev-mohitbeniwal/teamaccess/api/model"
	"github.com/dev-mohitbeniwal/teamaccess/api/util"
)

// TokenClaims are the claims carried by a login token. The subject is the user id.
type TokenClaims struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	jwt.RegisteredClaims
}

func (c TokenClaims) Actor() model.Actor {
	return model.Actor{ID: c.Subject, Name: c.Name, Email: c.Email}
}

type AuthConfig struct {
	Secret   []byte
	TokenTTL time.Duration
	Issuer   string
}

type IAuthService interface {
	// Login never fails on bad credentials; it reports them in the result.
	Login(ctx context.Context, email, password string) (*model.AuthResult, error)
	Logout(ctx context.Context, token string) error
	ParseToken(ctx context.Context, token string) (*TokenClaims, error)
}

type AuthService struct {
	base
	cfg      AuthConfig
	denylist util.TokenDenylist
}

var _ IAuthService = &AuthService{}

func NewAuthService(deps Dependencies, cfg AuthConfig, denylist util.TokenDenylist) *AuthService {
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = 12 * time.Hour
	}
	if denylist == nil {
		denylist = util.NewMemoryTokenDenylist()
	}
	return &AuthService{base: newBase(deps), cfg: cfg, denylist: denylist}
}

const invalidCredentialsMessage = "Invalid email or password"

func (s *AuthService) Login(ctx context.Context, email, password string) (*model.AuthResult, error) {
	email = NormalizeEmail(email)
	user, err := s.deps.Store.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ta_errors.ErrUserNotFound) {
			logger.Info("Login rejected: unknown email", zap.String("email", email))
			return &model.AuthResult{Success: false, Message: invalidCredentialsMessage}, nil
		}
		logger.Error("Error loading user for login", zap.Error(err), zap.String("email", email))
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		logger.Info("Login rejected: wrong password", zap.String("userID", user.ID))
		return &model.AuthResult{Success: false, Message: invalidCredentialsMessage}, nil
	}
	if !user.IsActive {
		logger.Info("Login rejected: user inactive", zap.String("userID", user.ID))
		return &model.AuthResult{Success: false, Message: "User account is inactive"}, nil
	}

	token, err := s.issue(*user)
	if err != nil {
		logger.Error("Error signing token", zap.Error(err), zap.String("userID", user.ID))
		return nil, err
	}

	actor := model.Actor{ID: user.ID, Name: user.Name, Email: user.Email}
	s.record(ctx, actor, audit.ActionLogin, audit.EntityUser, user.ID)

	logger.Info("User logged in", zap.String("userID", user.ID))
	return &model.AuthResult{Success: true, Token: token, User: user}, nil
}

func (s *AuthService) issue(user model.User) (string, error) {
	now := s.now()
	claims := TokenClaims{
		Name:  user.Name,
		Email: user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   user.ID,
			Issuer:    s.cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.TokenTTL)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.cfg.Secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ParseToken verifies signature, issuer and expiry, then checks the revocation list.
func (s *AuthService) ParseToken(ctx context.Context, tokenString string) (*TokenClaims, error) {
	claims := &TokenClaims{}
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	}
	if s.cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.cfg.Issuer))
	}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return s.cfg.Secret, nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ta_errors.ErrUnauthorized, err)
	}
	if claims.Subject == "" || claims.ID == "" {
		return nil, fmt.Errorf("%w: token lacks subject or id", ta_errors.ErrUnauthorized)
	}

	revoked, err := s.denylist.IsRevoked(ctx, claims.ID)
	if err != nil {
		logger.Error("Error checking token revocation", zap.Error(err), zap.String("tokenID", claims.ID))
		return nil, err
	}
	if revoked {
		return nil, ta_errors.ErrTokenRevoked
	}
	return claims, nil
}

// Logout revokes the token until it would have expired.
func (s *AuthService) Logout(ctx context.Context, tokenString string) error {
	claims, err := s.ParseToken(ctx, tokenString)
	if err != nil {
		return err
	}
	if err := s.denylist.Revoke(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		logger.Error("Error revoking token", zap.Error(err), zap.String("tokenID", claims.ID))
		return err
	}
	logger.Info("User logged out", zap.String("userID", claims.Subject), zap.String("tokenID", claims.ID))
	return nil
}
