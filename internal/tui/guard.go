package tui

import "github.com/aplusgen/aplus/internal/session"

// Route is a logical navigation target inside the studio.
type Route int

const (
	RouteEntry Route = iota
	RouteCollection
)

// Protected reports whether a route requires an authenticated session.
func (r Route) Protected() bool {
	return r != RouteEntry
}

// Resolve applies the route guard. It runs before a view is constructed, on
// every navigation attempt: a protected route without a session falls back
// to the entry route, and the entry route bounces an authenticated session
// straight to the collection.
func Resolve(s *session.Session, requested Route) Route {
	if requested.Protected() && !s.IsAuthenticated() {
		return RouteEntry
	}
	if requested == RouteEntry && s.IsAuthenticated() {
		return RouteCollection
	}
	return requested
}
