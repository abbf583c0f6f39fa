package setup

import (
	"github.com/paharnama-dev/paharnama/internal/config"
	"github.com/paharnama-dev/paharnama/internal/email"
	"github.com/paharnama-dev/paharnama/internal/handler"
	"github.com/paharnama-dev/paharnama/internal/jwt"
	"github.com/paharnama-dev/paharnama/internal/service"
	"github.com/paharnama-dev/paharnama/internal/storage/pg"
)

// Dependencies struct to hold all initialized dependencies.
type Dependencies struct {
	Config  *config.Config
	Storage *pg.Storage
	Handler *handler.Handler
	Jwt     jwt.TokenService
}

// SetupDependencies initializes all dependencies required for the application.
func SetupDependencies(cfg *config.Config) (*Dependencies, error) {
	storage, err := pg.New(cfg)
	if err != nil {
		return nil, err
	}

	mailer := email.New(&cfg.Private.Email, cfg.Public.FrontendURL)
	tokenService := jwt.New(cfg.Private.JwtKey, cfg.Public.AccessTokenTTL, cfg.Public.RefreshTokenTTL)

	auth := service.NewAuth(storage, mailer, tokenService, &cfg.Public)
	mountains := service.NewMountain(storage, &cfg.Public)
	users := service.NewUser(storage)

	h := handler.New(auth, mountains, users, storage, cfg)

	return &Dependencies{
		Config:  cfg,
		Storage: storage,
		Handler: h,
		Jwt:     tokenService,
	}, nil
}
