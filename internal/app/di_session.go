package app

import (
	"context"
	"fmt"
	"time"

	"github.com/allisson/sessions/internal/config"
	sessionHTTP "github.com/allisson/sessions/internal/session/http"
	sessionRepository "github.com/allisson/sessions/internal/session/repository"
	sessionService "github.com/allisson/sessions/internal/session/service"
	sessionUseCase "github.com/allisson/sessions/internal/session/usecase"
	userHTTP "github.com/allisson/sessions/internal/user/http"
	userRepository "github.com/allisson/sessions/internal/user/repository"
	userUseCase "github.com/allisson/sessions/internal/user/usecase"
)

const redisConnectTimeout = 5 * time.Second

// UserRepository returns the user repository instance.
func (c *Container) UserRepository() (userUseCase.UserRepository, error) {
	var err error
	c.userRepoInit.Do(func() {
		c.userRepo, err = c.initUserRepository()
		if err != nil {
			c.initErrors["userRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["userRepo"]; exists {
		return nil, storedErr
	}
	return c.userRepo, nil
}

// UserUseCase returns the user use case instance.
func (c *Container) UserUseCase() (*userUseCase.UserUseCase, error) {
	var err error
	c.userUseCaseInit.Do(func() {
		c.userUseCase, err = c.initUserUseCase()
		if err != nil {
			c.initErrors["userUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["userUseCase"]; exists {
		return nil, storedErr
	}
	return c.userUseCase, nil
}

// KeyProvider returns the provider of the token signing key.
func (c *Container) KeyProvider(ctx context.Context) (sessionService.KeyProvider, error) {
	var err error
	c.keyProviderInit.Do(func() {
		c.keyProvider, err = sessionService.NewKeyProvider(ctx, sessionService.KeyConfig{
			Secret:    c.config.JWTSecret,
			KMSKeyURI: c.config.KMSKeyURI,
		})
		if err != nil {
			c.initErrors["keyProvider"] = fmt.Errorf("failed to create key provider: %w", err)
			err = c.initErrors["keyProvider"]
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["keyProvider"]; exists {
		return nil, storedErr
	}
	return c.keyProvider, nil
}

// TokenCodec returns the codec used to encode and decode session tokens.
func (c *Container) TokenCodec(ctx context.Context) (sessionService.TokenCodec, error) {
	var err error
	c.tokenCodecInit.Do(func() {
		var keyProvider sessionService.KeyProvider
		keyProvider, err = c.KeyProvider(ctx)
		if err != nil {
			c.initErrors["tokenCodec"] = err
			return
		}
		c.tokenCodec = sessionService.NewTokenCodec(keyProvider)
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["tokenCodec"]; exists {
		return nil, storedErr
	}
	return c.tokenCodec, nil
}

// TokenRepository returns the token store selected by the TOKEN_STORE setting.
func (c *Container) TokenRepository(ctx context.Context) (sessionUseCase.TokenRepository, error) {
	var err error
	c.tokenRepoInit.Do(func() {
		c.tokenRepo, err = c.initTokenRepository(ctx)
		if err != nil {
			c.initErrors["tokenRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["tokenRepo"]; exists {
		return nil, storedErr
	}
	return c.tokenRepo, nil
}

// ActivityLogRepository returns the activity log repository instance.
func (c *Container) ActivityLogRepository() (sessionUseCase.ActivityLogRepository, error) {
	var err error
	c.activityRepoInit.Do(func() {
		c.activityRepo, err = c.initActivityLogRepository()
		if err != nil {
			c.initErrors["activityRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["activityRepo"]; exists {
		return nil, storedErr
	}
	return c.activityRepo, nil
}

// ActivityUseCase returns the activity log use case instance.
func (c *Container) ActivityUseCase() (sessionUseCase.ActivityUseCase, error) {
	var err error
	c.activityUseCaseInit.Do(func() {
		c.activityUseCase, err = c.initActivityUseCase()
		if err != nil {
			c.initErrors["activityUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["activityUseCase"]; exists {
		return nil, storedErr
	}
	return c.activityUseCase, nil
}

// TokenUseCase returns the token service instance.
func (c *Container) TokenUseCase(ctx context.Context) (sessionUseCase.TokenUseCase, error) {
	var err error
	c.tokenUseCaseInit.Do(func() {
		c.tokenUseCase, err = c.initTokenUseCase(ctx)
		if err != nil {
			c.initErrors["tokenUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["tokenUseCase"]; exists {
		return nil, storedErr
	}
	return c.tokenUseCase, nil
}

// SessionUseCase returns the session authenticator, wrapped with metrics when enabled.
func (c *Container) SessionUseCase(ctx context.Context) (sessionUseCase.SessionUseCase, error) {
	var err error
	c.sessionUseCaseInit.Do(func() {
		c.sessionUseCase, err = c.initSessionUseCase(ctx)
		if err != nil {
			c.initErrors["sessionUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["sessionUseCase"]; exists {
		return nil, storedErr
	}
	return c.sessionUseCase, nil
}

// SessionHandler returns the HTTP handler for the auth endpoints.
func (c *Container) SessionHandler(ctx context.Context) (*sessionHTTP.SessionHandler, error) {
	var err error
	c.sessionHandlerInit.Do(func() {
		var useCase sessionUseCase.SessionUseCase
		useCase, err = c.SessionUseCase(ctx)
		if err != nil {
			c.initErrors["sessionHandler"] = fmt.Errorf("failed to get session use case for session handler: %w", err)
			err = c.initErrors["sessionHandler"]
			return
		}
		c.sessionHandler = sessionHTTP.NewSessionHandler(useCase, c.Logger())
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["sessionHandler"]; exists {
		return nil, storedErr
	}
	return c.sessionHandler, nil
}

// UserHandler returns the HTTP handler for user registration.
func (c *Container) UserHandler() (*userHTTP.UserHandler, error) {
	var err error
	c.userHandlerInit.Do(func() {
		var useCase *userUseCase.UserUseCase
		useCase, err = c.UserUseCase()
		if err != nil {
			c.initErrors["userHandler"] = fmt.Errorf("failed to get user use case for user handler: %w", err)
			err = c.initErrors["userHandler"]
			return
		}
		c.userHandler = userHTTP.NewUserHandler(useCase, c.Logger())
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["userHandler"]; exists {
		return nil, storedErr
	}
	return c.userHandler, nil
}

func (c *Container) initUserRepository() (userUseCase.UserRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for user repository: %w", err)
	}

	switch c.config.DBDriver {
	case "postgres":
		return userRepository.NewPostgreSQLUserRepository(db), nil
	case "mysql":
		return userRepository.NewMySQLUserRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

func (c *Container) initUserUseCase() (*userUseCase.UserUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for user use case: %w", err)
	}

	userRepo, err := c.UserRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get user repository for user use case: %w", err)
	}

	useCase, err := userUseCase.NewUserUseCase(txManager, userRepo)
	if err != nil {
		return nil, fmt.Errorf("failed to create user use case: %w", err)
	}
	return useCase, nil
}

func (c *Container) initTokenRepository(ctx context.Context) (sessionUseCase.TokenRepository, error) {
	switch c.config.TokenStore {
	case config.TokenStoreMemory:
		return sessionRepository.NewMemoryTokenRepository(), nil
	case config.TokenStoreRedis:
		client, err := c.RedisClient(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get redis client for token repository: %w", err)
		}
		return sessionRepository.NewRedisTokenRepository(client), nil
	case config.TokenStoreDatabase:
		db, err := c.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get database for token repository: %w", err)
		}
		switch c.config.DBDriver {
		case "postgres":
			return sessionRepository.NewPostgreSQLTokenRepository(db), nil
		case "mysql":
			return sessionRepository.NewMySQLTokenRepository(db), nil
		default:
			return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
		}
	default:
		return nil, fmt.Errorf("unsupported token store: %s", c.config.TokenStore)
	}
}

func (c *Container) initActivityLogRepository() (sessionUseCase.ActivityLogRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for activity log repository: %w", err)
	}

	switch c.config.DBDriver {
	case "postgres":
		return sessionRepository.NewPostgreSQLActivityLogRepository(db), nil
	case "mysql":
		return sessionRepository.NewMySQLActivityLogRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

func (c *Container) initActivityUseCase() (sessionUseCase.ActivityUseCase, error) {
	activityRepo, err := c.ActivityLogRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get activity log repository for activity use case: %w", err)
	}

	users, err := c.UserUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get user use case for activity use case: %w", err)
	}

	return sessionUseCase.NewActivityUseCase(activityRepo, users), nil
}

func (c *Container) initTokenUseCase(ctx context.Context) (sessionUseCase.TokenUseCase, error) {
	tokenRepo, err := c.TokenRepository(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get token repository for token use case: %w", err)
	}

	codec, err := c.TokenCodec(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get token codec for token use case: %w", err)
	}

	return sessionUseCase.NewTokenUseCase(tokenRepo, codec), nil
}

func (c *Container) initSessionUseCase(ctx context.Context) (sessionUseCase.SessionUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for session use case: %w", err)
	}

	codec, err := c.TokenCodec(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get token codec for session use case: %w", err)
	}

	activity, err := c.ActivityUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get activity use case for session use case: %w", err)
	}

	tokens, err := c.TokenUseCase(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get token use case for session use case: %w", err)
	}

	credentials, err := c.UserUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get user use case for session use case: %w", err)
	}

	baseUseCase := sessionUseCase.NewSessionUseCase(
		txManager,
		codec,
		activity,
		tokens,
		credentials,
		sessionUseCase.SessionConfig{
			AccessTokenTTL:  c.config.AccessTokenExpiration,
			RefreshTokenTTL: c.config.RefreshTokenExpiration,
		},
	)

	if !c.config.MetricsEnabled {
		return baseUseCase, nil
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for session use case: %w", err)
	}

	return sessionUseCase.NewSessionUseCaseWithMetrics(baseUseCase, businessMetrics), nil
}
