package api

import (
	"net/http"

	"github.com/skinatlas/skinrest/internal/classifications"
	"github.com/skinatlas/skinrest/internal/config"
	"github.com/skinatlas/skinrest/internal/images"
	"github.com/skinatlas/skinrest/internal/metrics"
	"github.com/skinatlas/skinrest/internal/users"
	"github.com/skinatlas/skinrest/pkg/middleware"
	"github.com/skinatlas/skinrest/pkg/module"
	"github.com/skinatlas/skinrest/pkg/routes"
)

type guard = func(http.Handler) http.Handler

func authModule(domain *Domain, runtime *Runtime, cfg *config.Config, requireAuth guard) *module.Module {
	handler := users.NewHandler(domain.Users, runtime.Logger)

	protect := func(h http.HandlerFunc) http.HandlerFunc {
		return requireAuth(h).ServeHTTP
	}

	mux := http.NewServeMux()
	routes.Register(mux, handler.Routes(protect))

	m := module.New("/auth", mux)
	m.Use(middleware.CORS(&cfg.API.CORS))
	m.Use(middleware.Logger(runtime.Logger))
	return m
}

func imagesModule(domain *Domain, runtime *Runtime, cfg *config.Config, requireAuth guard) *module.Module {
	handler := images.NewHandler(
		domain.Images,
		domain.Classifications,
		runtime.Pagination,
		runtime.MaxUpload,
		runtime.Logger,
	)

	mux := http.NewServeMux()
	routes.Register(mux, handler.Routes())

	m := module.New("/images", mux)
	m.Use(middleware.CORS(&cfg.API.CORS))
	m.Use(middleware.Logger(runtime.Logger))
	m.Use(requireAuth)
	return m
}

func classificationsModule(domain *Domain, runtime *Runtime, cfg *config.Config, requireAuth guard) *module.Module {
	handler := classifications.NewHandler(domain.Classifications, runtime.Pagination, runtime.Logger)

	mux := http.NewServeMux()
	routes.Register(mux, handler.Routes())

	m := module.New("/classifications", mux)
	m.Use(middleware.CORS(&cfg.API.CORS))
	m.Use(middleware.Logger(runtime.Logger))
	m.Use(requireAuth)
	return m
}

func adminModule(domain *Domain, runtime *Runtime, cfg *config.Config, requireAuth, requireAdmin guard) *module.Module {
	metricsHandler := metrics.NewHandler(domain.Metrics, runtime.Logger)
	usersHandler := users.NewHandler(domain.Users, runtime.Logger)

	mux := http.NewServeMux()
	routes.Register(mux,
		metricsHandler.Routes(),
		usersHandler.AdminRoutes(),
	)

	m := module.New("/admin", mux)
	m.Use(middleware.CORS(&cfg.API.CORS))
	m.Use(middleware.Logger(runtime.Logger))
	m.Use(requireAuth)
	m.Use(requireAdmin)
	return m
}
