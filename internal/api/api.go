// Package api assembles the domain modules, their middleware stacks, and
// route registration.
package api

import (
	"github.com/skinatlas/skinrest/internal/config"
	"github.com/skinatlas/skinrest/internal/infrastructure"
	"github.com/skinatlas/skinrest/pkg/auth"
	"github.com/skinatlas/skinrest/pkg/module"
)

// Modules holds the mounted route modules of the service.
type Modules struct {
	Auth            *module.Module
	Images          *module.Module
	Classifications *module.Module
	Admin           *module.Module
}

// NewModules wires domain systems, handlers, and middleware into the four
// route modules. Every module except /auth runs behind bearer-token auth;
// /admin additionally requires the admin role.
func NewModules(cfg *config.Config, infra *infrastructure.Infrastructure) (*Modules, error) {
	runtime := NewRuntime(cfg, infra)
	domain := NewDomain(runtime)

	requireAuth := auth.Require(runtime.Tokens, domain.Users, runtime.Logger)
	requireAdmin := auth.RequireAdmin(runtime.Logger)

	return &Modules{
		Auth:            authModule(domain, runtime, cfg, requireAuth),
		Images:          imagesModule(domain, runtime, cfg, requireAuth),
		Classifications: classificationsModule(domain, runtime, cfg, requireAuth),
		Admin:           adminModule(domain, runtime, cfg, requireAuth, requireAdmin),
	}, nil
}

// Mount registers every module on the router.
func (m *Modules) Mount(router *module.Router) {
	router.Mount(m.Auth)
	router.Mount(m.Images)
	router.Mount(m.Classifications)
	router.Mount(m.Admin)
}
