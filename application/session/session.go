package session

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/mkravchenko/warehouse-manager/cmd/config"
	"github.com/mkravchenko/warehouse-manager/constant"
	"github.com/mkravchenko/warehouse-manager/model"
	redisrepo "github.com/mkravchenko/warehouse-manager/repository/redis"
	"github.com/mkravchenko/warehouse-manager/utils/errors"
	"github.com/mkravchenko/warehouse-manager/utils/logger"
	"go.uber.org/zap"
)

// SessionApp authenticates database accounts. Credentials are opaque: they
// are never stored, only forwarded to the store once for verification. A
// successful login issues a JWT whose session id lives in Redis for the
// configured TTL.
type SessionApp interface {
	Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error)
	ValidateToken(ctx context.Context, tokenString string) (string, error)
	Logout(ctx context.Context, tokenString string) error
}

// CredentialVerifier checks a username/password pair against the store.
type CredentialVerifier interface {
	Verify(ctx context.Context, username, password string) error
}

type dbVerifier struct {
	config *config.Config
}

// NewDBVerifier verifies credentials by opening a connection with them.
func NewDBVerifier(cfg *config.Config) CredentialVerifier {
	return &dbVerifier{config: cfg}
}

func (v *dbVerifier) Verify(ctx context.Context, username, password string) error {
	db, err := sqlx.ConnectContext(ctx, "mysql", v.config.DSNFor(username, password))
	if err != nil {
		return err
	}
	return db.Close()
}

type sessionAppImpl struct {
	config    *config.Config
	verifier  CredentialVerifier
	redisRepo redisrepo.Repository
}

func NewSessionApp(cfg *config.Config, verifier CredentialVerifier, redisRepo redisrepo.Repository) SessionApp {
	return &sessionAppImpl{
		config:    cfg,
		verifier:  verifier,
		redisRepo: redisRepo,
	}
}

func (s *sessionAppImpl) Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error) {
	if err := s.verifier.Verify(ctx, req.Username, req.Password); err != nil {
		logger.Info("[Login] credential check failed", zap.String("username", req.Username))
		return nil, errors.SetCustomError(constant.ErrUnauthorize)
	}

	jti := uuid.NewString()
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   req.Username,
		ID:        jti,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.config.Session.TTL)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.config.Session.JWTSecret))
	if err != nil {
		logger.Error("[Login] sign token", zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInternal)
	}

	if err := s.redisRepo.SetSession(ctx, jti, req.Username, s.config.Session.TTL); err != nil {
		logger.Error("[Login] store session", zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInternal)
	}

	return &model.LoginResponse{Username: req.Username, Token: token}, nil
}

// ValidateToken returns the username behind a token, rejecting expired or
// revoked sessions.
func (s *sessionAppImpl) ValidateToken(ctx context.Context, tokenString string) (string, error) {
	claims, err := s.parseClaims(tokenString)
	if err != nil {
		return "", errors.SetCustomError(constant.ErrUnauthorize)
	}

	username, err := s.redisRepo.GetSession(ctx, claims.ID)
	if stderrors.Is(err, redisrepo.ErrNoSessionStore) {
		// Without a session store there is no revocation list; the signed
		// claims are all there is to check.
		return claims.Subject, nil
	}
	if err != nil || username == "" || username != claims.Subject {
		return "", errors.SetCustomError(constant.ErrUnauthorize)
	}
	return username, nil
}

func (s *sessionAppImpl) Logout(ctx context.Context, tokenString string) error {
	claims, err := s.parseClaims(tokenString)
	if err != nil {
		return errors.SetCustomError(constant.ErrUnauthorize)
	}
	if err := s.redisRepo.DeleteSession(ctx, claims.ID); err != nil {
		logger.Error("[Logout] delete session", zap.String("error", err.Error()))
		return errors.SetCustomError(constant.ErrInternal)
	}
	return nil
}

func (s *sessionAppImpl) parseClaims(tokenString string) (*jwt.RegisteredClaims, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(s.config.Session.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}
