package auth

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
)

// newTestModule returns a started-looking module backed by SQLite, without
// going through Start.
func newTestModule(t *testing.T) *AuthModule {
	t.Helper()

	service, db := newTestService(t)
	m := NewModuleWithConfig(DefaultConfig())
	m.db = db
	m.service = service
	return m
}

// roundTrip encodes v as JSON and decodes it into out, as the service
// container does.
func roundTrip(t *testing.T, v, out any) {
	t.Helper()

	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("json.Marshal() error = %v", err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		t.Fatalf("json.Unmarshal() error = %v", err)
	}
}

func TestAuthModule_ServiceHandlers(t *testing.T) {
	ctx := context.Background()
	m := newTestModule(t)

	reg, err := m.handleRegister(ctx, RegisterRequest{Username: "alice", Email: "alice@example.com", Password: "secret123"}, nil)
	if err != nil || reg.Error != "" {
		t.Fatalf("handleRegister() = %+v, %v", reg, err)
	}

	dup, err := m.handleRegister(ctx, RegisterRequest{Username: "alice", Email: "other@example.com", Password: "secret123"}, nil)
	if err != nil {
		t.Fatalf("handleRegister() error = %v", err)
	}
	var dupWire RegisterResponse
	roundTrip(t, dup, &dupWire)
	if got := remoteError(dupWire.Error, dupWire.Message); !errors.Is(got, ErrUsernameTaken) {
		t.Errorf("decoded register error = %v, want %v", got, ErrUsernameTaken)
	}

	login, err := m.handleLogin(ctx, LoginRequest{Email: "alice@example.com", Password: "secret123"}, nil)
	if err != nil || login.Error != "" {
		t.Fatalf("handleLogin() = %+v, %v", login, err)
	}
	var loginWire LoginResponse
	roundTrip(t, login, &loginWire)
	if !loginWire.RefreshExpiresAt.Equal(login.RefreshExpiresAt) {
		t.Errorf("RefreshExpiresAt = %v, want %v", loginWire.RefreshExpiresAt, login.RefreshExpiresAt)
	}

	me, err := m.handleAuthenticatedUser(ctx, AuthenticatedUserRequest{Authorization: "Bearer " + login.AccessToken}, nil)
	if err != nil || me.Error != "" {
		t.Fatalf("handleAuthenticatedUser() = %+v, %v", me, err)
	}
	var meWire AuthenticatedUserResponse
	roundTrip(t, me, &meWire)
	if meWire.User == nil || meWire.User.ID != reg.UserID {
		t.Fatalf("decoded user = %+v, want id %v", meWire.User, reg.UserID)
	}
	if meWire.User.PasswordHash != "" {
		t.Error("password hash crossed the service container")
	}

	refreshed, err := m.handleRefresh(ctx, RefreshRequest{RefreshToken: login.RefreshToken}, nil)
	if err != nil || refreshed.Error != "" || refreshed.AccessToken == "" {
		t.Fatalf("handleRefresh() = %+v, %v", refreshed, err)
	}

	out, err := m.handleLogout(ctx, LogoutRequest{RefreshToken: login.RefreshToken}, nil)
	if err != nil || out.Error != "" {
		t.Fatalf("handleLogout() = %+v, %v", out, err)
	}

	again, err := m.handleRefresh(ctx, RefreshRequest{RefreshToken: login.RefreshToken}, nil)
	if err != nil {
		t.Fatalf("handleRefresh() error = %v", err)
	}
	if got := remoteError(again.Error, again.Message); !errors.Is(got, ErrUnauthenticated) {
		t.Errorf("decoded refresh error = %v, want %v", got, ErrUnauthenticated)
	}
}

func TestAuthModule_Health(t *testing.T) {
	ctx := context.Background()

	if status := NewModuleWithConfig(DefaultConfig()).Health(ctx); status.Healthy {
		t.Error("Health() healthy before Start")
	}

	if status := newTestModule(t).Health(ctx); !status.Healthy {
		t.Errorf("Health() = %+v, want healthy", status)
	}
}

func TestAuthModule_StartRejectsInvalidConfig(t *testing.T) {
	config := DefaultConfig()
	config.JWT.RefreshSecret = config.JWT.AccessSecret

	if err := NewModuleWithConfig(config).Start(context.Background()); err == nil {
		t.Error("Start() error = nil with identical secrets")
	}
}

func TestAuthModule_StartAndStop(t *testing.T) {
	config := DefaultConfig()
	config.DBDSN = filepath.Join(t.TempDir(), "auth.db")
	m := NewModuleWithConfig(config)

	if err := m.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if m.Service() == nil {
		t.Fatal("Service() = nil after Start")
	}
	if err := m.Stop(context.Background()); err != nil {
		t.Errorf("Stop() error = %v", err)
	}
}

func TestAuthModule_StartWithRedisStore(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis.Run failed: %v", err)
	}
	t.Cleanup(mr.Close)

	config := DefaultConfig()
	config.DBDSN = filepath.Join(t.TempDir(), "auth.db")
	config.RefreshStore = RefreshStoreRedis
	config.RedisAddr = mr.Addr()
	m := NewModuleWithConfig(config)

	if err := m.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if status := m.Health(context.Background()); !status.Healthy {
		t.Errorf("Health() = %+v, want healthy", status)
	}
	if err := m.Stop(context.Background()); err != nil {
		t.Errorf("Stop() error = %v", err)
	}
	if m.db != nil || m.redis != nil {
		t.Error("connections still set after Stop")
	}
}

func TestAuthModule_StartRedisUnreachableClosesConnections(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis.Run failed: %v", err)
	}
	addr := mr.Addr()
	mr.Close()

	config := DefaultConfig()
	config.DBDSN = filepath.Join(t.TempDir(), "auth.db")
	config.RefreshStore = RefreshStoreRedis
	config.RedisAddr = addr
	m := NewModuleWithConfig(config)

	if err := m.Start(context.Background()); err == nil {
		t.Fatal("Start() error = nil with unreachable Redis")
	}
	if m.db != nil {
		t.Error("database left open after failed Start")
	}
	if m.redis != nil {
		t.Error("Redis client left open after failed Start")
	}
	if m.Service() != nil {
		t.Error("Service() set after failed Start")
	}
}
