// Package guards decides what to render for a route given the auth state.
//
// These guards are a rendering decision, not access control. They keep a
// member from being shown admin screens; the backend must still refuse
// every request the caller is not entitled to, and does, whatever the
// client renders.
package guards

import (
	"strings"

	"github.com/dooddles07/cyaadnu-frontend/store"
)

const Home = "/"

type Access int

const (
	Public Access = iota
	Authenticated
	Admin
)

func (a Access) String() string {
	switch a {
	case Authenticated:
		return "authenticated"
	case Admin:
		return "admin"
	default:
		return "public"
	}
}

type Outcome int

const (
	// Wait means the session is still being confirmed; show a neutral
	// placeholder instead of redirecting.
	Wait Outcome = iota
	Allow
	Redirect
)

func (o Outcome) String() string {
	switch o {
	case Allow:
		return "allow"
	case Redirect:
		return "redirect"
	default:
		return "wait"
	}
}

type Decision struct {
	Outcome Outcome
	// To is the redirect target when Outcome is Redirect.
	To string
}

var (
	allow  = Decision{Outcome: Allow}
	wait   = Decision{Outcome: Wait}
	goHome = Decision{Outcome: Redirect, To: Home}
)

type Route struct {
	Pattern string
	Access  Access
}

// Routes is the storefront's route table.
var Routes = []Route{
	{"/", Public},
	{"/products", Public},
	{"/products/:id", Public},
	{"/gallery", Public},
	{"/login", Public},
	{"/register", Public},
	{"/cart", Authenticated},
	{"/checkout", Authenticated},
	{"/profile", Authenticated},
	{"/orders", Authenticated},
	{"/admin/*", Admin},
}

func RequireAuth(auth store.AuthState) Decision {
	switch {
	case auth.Confirming():
		return wait
	case !auth.Authenticated:
		return goHome
	default:
		return allow
	}
}

func RequireAdmin(auth store.AuthState) Decision {
	switch {
	case auth.Confirming():
		return wait
	case !auth.IsAdmin():
		return goHome
	default:
		return allow
	}
}

// AccessFor looks path up in Routes. Unknown paths are public.
func AccessFor(path string) Access {
	for _, r := range Routes {
		if match(r.Pattern, path) {
			return r.Access
		}
	}
	return Public
}

// Resolve applies the guard protecting path.
func Resolve(path string, auth store.AuthState) Decision {
	switch AccessFor(path) {
	case Authenticated:
		return RequireAuth(auth)
	case Admin:
		return RequireAdmin(auth)
	default:
		return allow
	}
}

// match supports ":param" segments and a trailing "/*" that matches the
// prefix itself and anything below it.
func match(pattern, path string) bool {
	path = strings.TrimRight(path, "/")
	if path == "" {
		path = "/"
	}
	if prefix, ok := strings.CutSuffix(pattern, "/*"); ok {
		return path == prefix || strings.HasPrefix(path, prefix+"/")
	}
	ps := strings.Split(pattern, "/")
	xs := strings.Split(path, "/")
	if len(ps) != len(xs) {
		return false
	}
	for i := range ps {
		if strings.HasPrefix(ps[i], ":") && xs[i] != "" {
			continue
		}
		if ps[i] != xs[i] {
			return false
		}
	}
	return true
}
