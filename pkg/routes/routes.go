// Package routes defines declarative route groups for registration on a ServeMux.
package routes

import "net/http"

// Route binds an HTTP method and path pattern to a handler.
type Route struct {
	Method  string
	Pattern string
	Handler http.HandlerFunc
}

// Group collects routes under a shared prefix. Children inherit the
// accumulated prefix of their ancestors.
type Group struct {
	Prefix   string
	Routes   []Route
	Children []Group
}

// Register adds every route from the given groups to the mux using
// method-qualified patterns ("GET /images/{id}").
func Register(mux *http.ServeMux, groups ...Group) {
	for _, g := range groups {
		register(mux, "", g)
	}
}

func register(mux *http.ServeMux, parent string, g Group) {
	prefix := parent + g.Prefix
	for _, r := range g.Routes {
		mux.HandleFunc(r.Method+" "+prefix+r.Pattern, r.Handler)
	}
	for _, child := range g.Children {
		register(mux, prefix, child)
	}
}
