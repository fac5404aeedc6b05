package tui

// access rules per view
type route struct {
	protected bool // requires an authenticated session
	guestOnly bool // pointless once authenticated
}

var routes = map[View]route{
	ViewLanding:   {guestOnly: true},
	ViewLogin:     {guestOnly: true},
	ViewRegister:  {guestOnly: true},
	ViewDashboard: {protected: true},
}

// returns the view actually shown when target is requested
func resolve(target View, authenticated bool) View {
	r, ok := routes[target]
	if !ok {
		return ViewLanding
	}

	switch {
	case r.protected && !authenticated:
		return ViewLogin
	case r.guestOnly && authenticated:
		return ViewDashboard
	default:
		return target
	}
}
