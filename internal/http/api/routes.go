package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

type Access string

const (
	AccessPublic    Access = "public"
	AccessProtected Access = "protected"
)

var ErrUnknownRoute = errors.New("unknown route")

// Route is one entry of the declared endpoint table.
type Route struct {
	Method  string
	Path    string
	Access  Access
	Handler gin.HandlerFunc
}

// Key identifies a route in access overrides, e.g. "GET /blogs/:id".
func (r Route) Key() string {
	return r.Method + " " + r.Path
}

// Policy adjusts the declared access of routes at startup.
type Policy struct {
	// Disabled makes every route public.
	Disabled  bool
	Overrides map[string]string
}

// Apply returns a copy of routes with the policy applied. An override for
// a route that does not exist, or with a value other than "public" or
// "protected", is an error.
func (p Policy) Apply(routes []Route) ([]Route, error) {
	const op = "api.Policy.Apply"

	known := make(map[string]struct{}, len(routes))
	for _, r := range routes {
		known[r.Key()] = struct{}{}
	}

	for key, value := range p.Overrides {
		if _, ok := known[key]; !ok {
			return nil, fmt.Errorf("%s: %w: %q", op, ErrUnknownRoute, key)
		}
		if a := Access(value); a != AccessPublic && a != AccessProtected {
			return nil, fmt.Errorf("%s: invalid access %q for %q", op, value, key)
		}
	}

	applied := make([]Route, len(routes))
	for i, r := range routes {
		if value, ok := p.Overrides[r.Key()]; ok {
			r.Access = Access(value)
		}
		if p.Disabled {
			r.Access = AccessPublic
		}
		applied[i] = r
	}

	return applied, nil
}

// Register mounts public routes directly and protected routes behind guard.
func Register(router gin.IRouter, routes []Route, guard gin.HandlerFunc) error {
	const op = "api.Register"

	open := router.Group("/")

	prot := router.Group("/")
	prot.Use(guard)

	for _, r := range routes {
		switch r.Access {
		case AccessPublic:
			open.Handle(r.Method, r.Path, r.Handler)
		case AccessProtected:
			prot.Handle(r.Method, r.Path, r.Handler)
		default:
			return fmt.Errorf("%s: route %q has no access level", op, r.Key())
		}
	}

	return nil
}

// Routes is the endpoint table of the service with its default access.
func (h *Handlers) Routes() []Route {
	return []Route{
		{http.MethodGet, "/", AccessPublic, h.status},
		{http.MethodPost, "/jwt", AccessPublic, h.respond(h.issueToken)},
		{http.MethodPost, "/logout", AccessPublic, h.respond(h.logout)},

		{http.MethodGet, "/blogs", AccessProtected, h.respond(h.listBlogs)},
		{http.MethodGet, "/blogs/recent", AccessPublic, h.respond(h.recentBlogs)},
		{http.MethodGet, "/blogs/:id", AccessProtected, h.respond(h.getBlog)},
		{http.MethodGet, "/blogsFeatured", AccessProtected, h.respond(h.featuredBlogs)},
		{http.MethodPut, "/blogs/:id", AccessProtected, h.respond(h.updateBlog)},
		{http.MethodPost, "/blogs", AccessProtected, h.respond(h.addBlog)},

		{http.MethodPost, "/newsletters/subscribe", AccessPublic, h.respond(h.subscribe)},

		{http.MethodPost, "/wishlist", AccessPublic, h.respond(h.addToWishlist)},
		{http.MethodGet, "/wishlist", AccessPublic, h.respond(h.listWishlist)},
		{http.MethodDelete, "/wishlist/:_id", AccessProtected, h.respond(h.removeFromWishlist)},

		{http.MethodGet, "/comments/:blogId", AccessProtected, h.respond(h.listComments)},
		{http.MethodPost, "/comments", AccessProtected, h.respond(h.addComment)},
	}
}
