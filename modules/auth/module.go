package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// AuthModule provides authentication services.
type AuthModule struct {
	config  Config
	db      *gorm.DB
	redis   *redis.Client
	service *AuthService
}

// Compile-time interface checks.
var _ mono.Module = (*AuthModule)(nil)
var _ mono.ServiceProviderModule = (*AuthModule)(nil)
var _ mono.HealthCheckableModule = (*AuthModule)(nil)

// NewModule creates a new AuthModule configured from the environment.
func NewModule() *AuthModule {
	return NewModuleWithConfig(LoadConfig())
}

// NewModuleWithConfig creates a new AuthModule with an explicit configuration.
func NewModuleWithConfig(config Config) *AuthModule {
	return &AuthModule{
		config: config,
	}
}

// Name returns the module name.
func (m *AuthModule) Name() string {
	return "auth"
}

// Start opens the stores and builds the auth service.
func (m *AuthModule) Start(ctx context.Context) error {
	if err := m.config.Validate(); err != nil {
		return fmt.Errorf("invalid auth configuration: %w", err)
	}

	db, err := openDatabase(m.config.DBDriver, m.config.DBDSN)
	if err != nil {
		return err
	}
	m.db = db

	var tokens RefreshTokenStore
	switch m.config.RefreshStore {
	case RefreshStoreRedis:
		m.redis = redis.NewClient(&redis.Options{
			Addr:         m.config.RedisAddr,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		})
		if err := m.redis.Ping(ctx).Err(); err != nil {
			m.closeConnections()
			return fmt.Errorf("failed to connect to Redis: %w", err)
		}
		tokens = NewRedisTokenStore(m.redis, m.config.RedisPrefix)
	default:
		tokens = NewRefreshTokenRepository(db)
	}

	m.service = NewAuthService(
		NewUserRepository(db),
		tokens,
		NewPasswordHasher(),
		NewTokenManager(m.config.JWT),
	)

	log.Printf("[auth] Module started (database: %s, refresh store: %s)", m.config.DBDriver, m.config.RefreshStore)
	return nil
}

// Stop closes the database and Redis connections.
func (m *AuthModule) Stop(_ context.Context) error {
	m.closeConnections()
	log.Println("[auth] Module stopped")
	return nil
}

func (m *AuthModule) closeConnections() {
	if m.db != nil {
		if sqlDB, err := m.db.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				log.Printf("[auth] Error closing database connection: %v", err)
			}
		}
		m.db = nil
	}
	if m.redis != nil {
		if err := m.redis.Close(); err != nil {
			log.Printf("[auth] Error closing Redis connection: %v", err)
		}
		m.redis = nil
	}
}

// Health returns the health status of the module.
func (m *AuthModule) Health(ctx context.Context) mono.HealthStatus {
	if m.db == nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: "database not initialized",
		}
	}

	sqlDB, err := m.db.DB()
	if err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("failed to get database connection: %v", err),
		}
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("database ping failed: %v", err),
		}
	}

	if m.redis != nil {
		if err := m.redis.Ping(ctx).Err(); err != nil {
			return mono.HealthStatus{
				Healthy: false,
				Message: fmt.Sprintf("redis ping failed: %v", err),
			}
		}
	}

	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"database":      m.config.DBDriver,
			"refresh_store": m.config.RefreshStore,
		},
	}
}

// Service returns the auth service, or nil before Start.
func (m *AuthModule) Service() *AuthService {
	return m.service
}

// RegisterServices registers request-reply services in the service container.
func (m *AuthModule) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container,
		"register",
		json.Unmarshal,
		json.Marshal,
		m.handleRegister,
	); err != nil {
		return fmt.Errorf("failed to register register service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container,
		"login",
		json.Unmarshal,
		json.Marshal,
		m.handleLogin,
	); err != nil {
		return fmt.Errorf("failed to register login service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container,
		"authenticated-user",
		json.Unmarshal,
		json.Marshal,
		m.handleAuthenticatedUser,
	); err != nil {
		return fmt.Errorf("failed to register authenticated-user service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container,
		"refresh",
		json.Unmarshal,
		json.Marshal,
		m.handleRefresh,
	); err != nil {
		return fmt.Errorf("failed to register refresh service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container,
		"logout",
		json.Unmarshal,
		json.Marshal,
		m.handleLogout,
	); err != nil {
		return fmt.Errorf("failed to register logout service: %w", err)
	}

	log.Printf("[auth] Registered services: register, login, authenticated-user, refresh, logout")
	return nil
}

// Handlers report failures inside the response rather than as an error, so
// the caller can tell which failure occurred.

func (m *AuthModule) handleRegister(ctx context.Context, req RegisterRequest, _ *mono.Msg) (RegisterResponse, error) {
	id, err := m.service.Register(ctx, req.Username, req.Email, req.Password)
	if err != nil {
		return RegisterResponse{Error: errorCode(err), Message: err.Error()}, nil
	}
	return RegisterResponse{UserID: id}, nil
}

func (m *AuthModule) handleLogin(ctx context.Context, req LoginRequest, _ *mono.Msg) (LoginResponse, error) {
	result, err := m.service.Login(ctx, req.Email, req.Password)
	if err != nil {
		return LoginResponse{Error: errorCode(err), Message: err.Error()}, nil
	}
	return LoginResponse{
		AccessToken:      result.AccessToken,
		RefreshToken:     result.RefreshToken,
		RefreshExpiresAt: result.RefreshExpiresAt,
	}, nil
}

func (m *AuthModule) handleAuthenticatedUser(ctx context.Context, req AuthenticatedUserRequest, _ *mono.Msg) (AuthenticatedUserResponse, error) {
	user, err := m.service.AuthenticatedUser(ctx, req.Authorization)
	if err != nil {
		return AuthenticatedUserResponse{Error: errorCode(err), Message: err.Error()}, nil
	}
	return AuthenticatedUserResponse{User: user}, nil
}

func (m *AuthModule) handleRefresh(ctx context.Context, req RefreshRequest, _ *mono.Msg) (RefreshResponse, error) {
	token, err := m.service.Refresh(ctx, req.RefreshToken)
	if err != nil {
		return RefreshResponse{Error: errorCode(err), Message: err.Error()}, nil
	}
	return RefreshResponse{AccessToken: token}, nil
}

func (m *AuthModule) handleLogout(ctx context.Context, req LogoutRequest, _ *mono.Msg) (LogoutResponse, error) {
	if err := m.service.Logout(ctx, req.RefreshToken); err != nil {
		return LogoutResponse{Error: errorCode(err), Message: err.Error()}, nil
	}
	return LogoutResponse{}, nil
}
