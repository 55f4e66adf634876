package session

// LoginPath is where unauthenticated users are sent.
const LoginPath = "/login"

// Access tags a route with who may see it.
type Access int

const (
	AccessAny Access = iota
	AccessRequiresAuth
	AccessPublicOnly
)

// Route is a navigation target. From carries the path the user originally
// asked for when they were redirected to the login page.
type Route struct {
	Path   string
	Access Access
	From   string
}

// Outcome is what the navigator should do with a route.
type Outcome int

const (
	OutcomeRender Outcome = iota
	OutcomeRedirect
	// OutcomeWait means an auth request is pending; decide again once it settles.
	OutcomeWait
)

// Decision is the result of Guard.
type Decision struct {
	Outcome  Outcome
	Location string
	// From is set on redirects to the login page so the original path can
	// be restored after signing in.
	From string
}

// Guard decides whether route may be rendered in state st.
func Guard(route Route, st State) Decision {
	if st.Loading {
		return Decision{Outcome: OutcomeWait}
	}

	switch route.Access {
	case AccessRequiresAuth:
		if !st.Authenticated() {
			return Decision{Outcome: OutcomeRedirect, Location: LoginPath, From: route.Path}
		}
	case AccessPublicOnly:
		if st.Authenticated() {
			to := route.From
			if to == "" {
				to = "/"
			}
			return Decision{Outcome: OutcomeRedirect, Location: to}
		}
	}
	return Decision{Outcome: OutcomeRender}
}
