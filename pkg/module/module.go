// Package module mounts prefixed HTTP routers with their own middleware stacks.
package module

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/skinatlas/skinrest/pkg/middleware"
)

// Module is an HTTP handler that strips its prefix and delegates to an inner
// router wrapped in the module's middleware stack.
type Module struct {
	prefix     string
	router     http.Handler
	middleware middleware.Stack
}

// New creates a Module for a single-level prefix such as "/auth" or "/admin".
// Panics on an empty, unrooted, or multi-level prefix.
func New(prefix string, router http.Handler) *Module {
	if err := validatePrefix(prefix); err != nil {
		panic(err)
	}
	return &Module{
		prefix:     prefix,
		router:     router,
		middleware: middleware.NewStack(),
	}
}

// Prefix returns the module's path prefix.
func (m *Module) Prefix() string {
	return m.prefix
}

// Use appends middleware to the module's stack.
func (m *Module) Use(mw func(http.Handler) http.Handler) {
	m.middleware.Use(mw)
}

// Serve strips the module prefix from the request path and dispatches to the
// wrapped inner router.
func (m *Module) Serve(w http.ResponseWriter, req *http.Request) {
	stripped := strings.TrimPrefix(req.URL.Path, m.prefix)
	if stripped == "" {
		stripped = "/"
	}
	m.middleware.Apply(m.router).ServeHTTP(w, rebase(req, stripped))
}

func rebase(req *http.Request, path string) *http.Request {
	r := new(http.Request)
	*r = *req
	r.URL = new(url.URL)
	*r.URL = *req.URL
	r.URL.Path = path
	r.URL.RawPath = ""
	return r
}

func validatePrefix(prefix string) error {
	if prefix == "" {
		return fmt.Errorf("module prefix cannot be empty")
	}
	if !strings.HasPrefix(prefix, "/") {
		return fmt.Errorf("module prefix must start with /: %s", prefix)
	}
	if strings.Count(prefix, "/") != 1 {
		return fmt.Errorf("module prefix must be a single-level sub-path: %s", prefix)
	}
	return nil
}
