package api

import (
	"github.com/skinatlas/skinrest/internal/config"
	"github.com/skinatlas/skinrest/internal/infrastructure"
	"github.com/skinatlas/skinrest/pkg/auth"
	"github.com/skinatlas/skinrest/pkg/pagination"
)

// Runtime extends Infrastructure with API-scoped configuration and the token
// system shared by middleware and handlers.
type Runtime struct {
	*infrastructure.Infrastructure
	Pagination pagination.Config
	MaxUpload  int64
	Tokens     *auth.Tokens
}

// NewRuntime creates an API runtime with a module-scoped logger.
func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure) *Runtime {
	return &Runtime{
		Infrastructure: &infrastructure.Infrastructure{
			Lifecycle: infra.Lifecycle,
			Logger:    infra.Logger.With("module", "api"),
			Database:  infra.Database,
			Storage:   infra.Storage,
		},
		Pagination: cfg.API.Pagination,
		MaxUpload:  cfg.API.MaxUploadSizeBytes(),
		Tokens:     auth.NewTokens(&cfg.Auth),
	}
}
