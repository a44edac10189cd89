package session_test

import (
	"context"
	"errors"
	"testing"
	"time"

	appsession "github.com/mkravchenko/warehouse-manager/application/session"
	"github.com/mkravchenko/warehouse-manager/cmd/config"
	"github.com/mkravchenko/warehouse-manager/constant"
	sessionmocks "github.com/mkravchenko/warehouse-manager/mocks/application/session"
	redismocks "github.com/mkravchenko/warehouse-manager/mocks/repository/redis"
	"github.com/mkravchenko/warehouse-manager/model"
	redisrepo "github.com/mkravchenko/warehouse-manager/repository/redis"
	cerr "github.com/mkravchenko/warehouse-manager/utils/errors"
	"github.com/stretchr/testify/mock"
)

func testConfig() *config.Config {
	return &config.Config{
		Session: config.SessionConfig{
			JWTSecret: "test-secret",
			TTL:       time.Hour,
		},
	}
}

func assertErrCode(t *testing.T, err error, errCode constant.ErrorType) {
	t.Helper()
	var ce cerr.CustomError
	if !errors.As(err, &ce) {
		t.Fatalf("error type = %T, want CustomError", err)
	}
	if ce.ErrorCode() != constant.ErrorTypeCode[errCode] {
		t.Fatalf("error code = %s, want %s", ce.ErrorCode(), constant.ErrorTypeCode[errCode])
	}
}

func TestSessionApp_Login(t *testing.T) {
	t.Run("success issues a token and stores the session", func(t *testing.T) {
		verifier := sessionmocks.NewCredentialVerifier(t)
		redisRepo := redismocks.NewRepository(t)

		verifier.On("Verify", mock.Anything, "clerk", "secret").Return(nil).Once()
		redisRepo.On("SetSession", mock.Anything, mock.Anything, "clerk", time.Hour).Return(nil).Once()

		app := appsession.NewSessionApp(testConfig(), verifier, redisRepo)
		resp, err := app.Login(context.Background(), &model.LoginRequest{Username: "clerk", Password: "secret"})
		if err != nil {
			t.Fatalf("Login() error = %v", err)
		}
		if resp.Username != "clerk" || resp.Token == "" {
			t.Fatalf("Login() = %+v, want username and token", resp)
		}
	})

	t.Run("bad credentials are unauthorized", func(t *testing.T) {
		verifier := sessionmocks.NewCredentialVerifier(t)
		redisRepo := redismocks.NewRepository(t)

		verifier.On("Verify", mock.Anything, "clerk", "wrong").Return(errors.New("access denied")).Once()

		app := appsession.NewSessionApp(testConfig(), verifier, redisRepo)
		_, err := app.Login(context.Background(), &model.LoginRequest{Username: "clerk", Password: "wrong"})
		if err == nil {
			t.Fatal("Login() expected error")
		}
		assertErrCode(t, err, constant.ErrUnauthorize)
	})
}

func TestSessionApp_ValidateToken(t *testing.T) {
	login := func(t *testing.T, redisRepo *redismocks.Repository) (appsession.SessionApp, string, string) {
		t.Helper()
		verifier := sessionmocks.NewCredentialVerifier(t)
		verifier.On("Verify", mock.Anything, "clerk", "secret").Return(nil).Once()

		var jti string
		redisRepo.On("SetSession", mock.Anything, mock.MatchedBy(func(id string) bool {
			jti = id
			return true
		}), "clerk", time.Hour).Return(nil).Once()

		app := appsession.NewSessionApp(testConfig(), verifier, redisRepo)
		resp, err := app.Login(context.Background(), &model.LoginRequest{Username: "clerk", Password: "secret"})
		if err != nil {
			t.Fatalf("Login() error = %v", err)
		}
		return app, resp.Token, jti
	}

	t.Run("valid token resolves to its username", func(t *testing.T) {
		redisRepo := redismocks.NewRepository(t)
		app, token, jti := login(t, redisRepo)

		redisRepo.On("GetSession", mock.Anything, jti).Return("clerk", nil).Once()

		username, err := app.ValidateToken(context.Background(), token)
		if err != nil {
			t.Fatalf("ValidateToken() error = %v", err)
		}
		if username != "clerk" {
			t.Fatalf("ValidateToken() = %s, want clerk", username)
		}
	})

	t.Run("revoked session is unauthorized", func(t *testing.T) {
		redisRepo := redismocks.NewRepository(t)
		app, token, jti := login(t, redisRepo)

		redisRepo.On("GetSession", mock.Anything, jti).Return("", nil).Once()

		_, err := app.ValidateToken(context.Background(), token)
		if err == nil {
			t.Fatal("ValidateToken() expected error")
		}
		assertErrCode(t, err, constant.ErrUnauthorize)
	})

	t.Run("no session store falls back to token claims", func(t *testing.T) {
		redisRepo := redismocks.NewRepository(t)
		app, token, jti := login(t, redisRepo)

		redisRepo.On("GetSession", mock.Anything, jti).Return("", redisrepo.ErrNoSessionStore).Once()

		username, err := app.ValidateToken(context.Background(), token)
		if err != nil {
			t.Fatalf("ValidateToken() error = %v", err)
		}
		if username != "clerk" {
			t.Fatalf("ValidateToken() = %s, want clerk", username)
		}
	})

	t.Run("garbage token is unauthorized", func(t *testing.T) {
		verifier := sessionmocks.NewCredentialVerifier(t)
		redisRepo := redismocks.NewRepository(t)
		app := appsession.NewSessionApp(testConfig(), verifier, redisRepo)

		_, err := app.ValidateToken(context.Background(), "not-a-token")
		if err == nil {
			t.Fatal("ValidateToken() expected error")
		}
		assertErrCode(t, err, constant.ErrUnauthorize)
	})

	t.Run("token signed with another secret is unauthorized", func(t *testing.T) {
		otherCfg := testConfig()
		otherCfg.Session.JWTSecret = "other-secret"
		otherRedis := redismocks.NewRepository(t)
		otherVerifier := sessionmocks.NewCredentialVerifier(t)
		otherVerifier.On("Verify", mock.Anything, "clerk", "secret").Return(nil).Once()
		otherRedis.On("SetSession", mock.Anything, mock.Anything, "clerk", time.Hour).Return(nil).Once()

		otherApp := appsession.NewSessionApp(otherCfg, otherVerifier, otherRedis)
		resp, err := otherApp.Login(context.Background(), &model.LoginRequest{Username: "clerk", Password: "secret"})
		if err != nil {
			t.Fatalf("Login() error = %v", err)
		}

		verifier := sessionmocks.NewCredentialVerifier(t)
		redisRepo := redismocks.NewRepository(t)
		app := appsession.NewSessionApp(testConfig(), verifier, redisRepo)

		_, err = app.ValidateToken(context.Background(), resp.Token)
		if err == nil {
			t.Fatal("ValidateToken() expected error")
		}
		assertErrCode(t, err, constant.ErrUnauthorize)
	})
}

func TestSessionApp_Logout(t *testing.T) {
	t.Run("logout deletes the session", func(t *testing.T) {
		verifier := sessionmocks.NewCredentialVerifier(t)
		redisRepo := redismocks.NewRepository(t)

		verifier.On("Verify", mock.Anything, "clerk", "secret").Return(nil).Once()

		var jti string
		redisRepo.On("SetSession", mock.Anything, mock.MatchedBy(func(id string) bool {
			jti = id
			return true
		}), "clerk", time.Hour).Return(nil).Once()

		app := appsession.NewSessionApp(testConfig(), verifier, redisRepo)
		resp, err := app.Login(context.Background(), &model.LoginRequest{Username: "clerk", Password: "secret"})
		if err != nil {
			t.Fatalf("Login() error = %v", err)
		}

		redisRepo.On("DeleteSession", mock.Anything, mock.MatchedBy(func(id string) bool {
			return id == jti
		})).Return(nil).Once()

		if err := app.Logout(context.Background(), resp.Token); err != nil {
			t.Fatalf("Logout() error = %v", err)
		}
	})
}
