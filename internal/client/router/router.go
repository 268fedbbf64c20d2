// Package router is the client's finite-state view router. Transition is a
// pure function of the current view and an action.
package router

import "strings"

type View int

const (
	Home View = iota
	About
	Ministries
	IDCard
	Menorah
	Contact
	AboutValparai
	Hebrew
	BaruchHashem
	Developer
	AI
	UserDashboard
	AdminDashboard
)

var names = map[View]string{
	Home:           "home",
	About:          "about",
	Ministries:     "ministries",
	IDCard:         "idcard",
	Menorah:        "menorah",
	Contact:        "contact",
	AboutValparai:  "valparai",
	Hebrew:         "hebrew",
	BaruchHashem:   "baruchhashem",
	Developer:      "developer",
	AI:             "ai",
	UserDashboard:  "dashboard",
	AdminDashboard: "admin",
}

// Views lists every view in declaration order.
func Views() []View {
	out := make([]View, 0, len(names))
	for v := Home; v <= AdminDashboard; v++ {
		out = append(out, v)
	}
	return out
}

func (v View) String() string {
	if n, ok := names[v]; ok {
		return n
	}
	return "unknown"
}

// Valid reports whether v is one of the declared views.
func (v View) Valid() bool {
	_, ok := names[v]
	return ok
}

// Protected reports whether entering v needs a signed-in member.
func (v View) Protected() bool {
	return v == UserDashboard || v == AdminDashboard
}

// ParseView resolves a view name case-insensitively.
func ParseView(s string) (View, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for v, n := range names {
		if n == s {
			return v, true
		}
	}
	return 0, false
}

type Kind int

const (
	Navigate Kind = iota
	SignedIn
	SignedOut
	Registered
)

// Action is an event fed to Transition. To is only read for Navigate;
// Authorized says whether the session may enter a protected view.
type Action struct {
	Kind       Kind
	To         View
	Authorized bool
}

// Transition returns the view that follows current after a.
func Transition(current View, a Action) View {
	switch a.Kind {
	case SignedIn, Registered:
		return UserDashboard
	case SignedOut:
		return Home
	case Navigate:
		if !a.To.Valid() {
			return current
		}
		if a.To.Protected() && !a.Authorized {
			return current
		}
		return a.To
	default:
		return current
	}
}
