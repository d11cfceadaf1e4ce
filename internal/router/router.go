// Package router maps view paths to views and guards views that need a session.
package router

import (
	"strings"
	"sync"
)

// View names.
const (
	ViewHome            = "home"
	ViewLogin           = "login"
	ViewProfile         = "profile"
	ViewPlaylists       = "playlists"
	ViewRecommendations = "recommendations"
)

const (
	HomePath  = "/"
	LoginPath = "/login"
)

// Route is one entry of the view table. Path segments starting with ":" are parameters.
type Route struct {
	Path         string
	Name         string
	RequiresAuth bool
}

// Routes is the view table.
var Routes = []Route{
	{Path: HomePath, Name: ViewHome},
	{Path: LoginPath, Name: ViewLogin},
	{Path: "/profile", Name: ViewProfile, RequiresAuth: true},
	{Path: "/playlists", Name: ViewPlaylists, RequiresAuth: true},
	{Path: "/recommendations/:country", Name: ViewRecommendations, RequiresAuth: true},
}

// Decision is the guard's verdict for a navigation.
type Decision int

const (
	Allow Decision = iota
	RedirectLogin
	RedirectHome
)

func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case RedirectLogin:
		return "redirect-login"
	case RedirectHome:
		return "redirect-home"
	}
	return "unknown"
}

// Match is a resolved route with its path parameters.
type Match struct {
	Route  Route
	Path   string
	Params map[string]string
}

// Param returns the named path parameter, or "".
func (m Match) Param(name string) string { return m.Params[name] }

// AuthChecker reports whether a session and user are both present.
type AuthChecker interface {
	IsAuthenticated() bool
}

// Listener is notified after every completed navigation.
type Listener func(m Match)

// Router tracks the current view and applies the auth guard on every navigation.
type Router struct {
	auth AuthChecker

	mu        sync.RWMutex
	current   Match
	listeners []Listener
}

// New creates a router positioned at the home view.
func New(auth AuthChecker) *Router {
	home, _ := lookup(HomePath)
	return &Router{auth: auth, current: home}
}

// Resolve decides where a navigation to path ends up.
// Unknown paths and the login view while authenticated go home.
func (r *Router) Resolve(path string) (Match, Decision) {
	m, ok := lookup(path)
	if !ok {
		home, _ := lookup(HomePath)
		return home, RedirectHome
	}

	authed := r.auth.IsAuthenticated()
	switch {
	case m.Route.RequiresAuth && !authed:
		login, _ := lookup(LoginPath)
		return login, RedirectLogin
	case m.Route.Name == ViewLogin && authed:
		home, _ := lookup(HomePath)
		return home, RedirectHome
	}
	return m, Allow
}

// Navigate applies the guard, records the resulting view, notifies listeners
// and returns the path actually shown.
func (r *Router) Navigate(path string) string {
	m, _ := r.Resolve(path)

	r.mu.Lock()
	r.current = m
	listeners := append([]Listener(nil), r.listeners...)
	r.mu.Unlock()

	for _, l := range listeners {
		l(m)
	}
	return m.Path
}

// Current returns the view being shown.
func (r *Router) Current() Match {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current
}

// OnNavigate registers l for every future navigation.
func (r *Router) OnNavigate(l Listener) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listeners = append(r.listeners, l)
}

// RecommendationsPath builds the recommendations path for country.
func RecommendationsPath(country string) string {
	return "/recommendations/" + country
}

func lookup(path string) (Match, bool) {
	if path == "" {
		path = HomePath
	}
	if len(path) > 1 {
		path = strings.TrimSuffix(path, "/")
	}
	segs := strings.Split(path, "/")

	for _, route := range Routes {
		rsegs := strings.Split(route.Path, "/")
		if len(rsegs) != len(segs) {
			continue
		}

		params := map[string]string{}
		matched := true
		for i, rs := range rsegs {
			switch {
			case strings.HasPrefix(rs, ":"):
				if segs[i] == "" {
					matched = false
				}
				params[rs[1:]] = segs[i]
			case rs != segs[i]:
				matched = false
			}
			if !matched {
				break
			}
		}
		if matched {
			return Match{Route: route, Path: path, Params: params}, true
		}
	}
	return Match{}, false
}
