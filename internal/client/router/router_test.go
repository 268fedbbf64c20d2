package router

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTransition(t *testing.T) {
	tests := []struct {
		name    string
		current View
		action  Action
		want    View
	}{
		{"sign in lands on dashboard", Home, Action{Kind: SignedIn}, UserDashboard},
		{"registration lands on dashboard", IDCard, Action{Kind: Registered}, UserDashboard},
		{"sign out returns home", AdminDashboard, Action{Kind: SignedOut}, Home},
		{"public navigation", Home, Action{Kind: Navigate, To: Hebrew}, Hebrew},
		{"dashboard needs authorization", Home, Action{Kind: Navigate, To: UserDashboard}, Home},
		{"admin needs authorization", About, Action{Kind: Navigate, To: AdminDashboard}, About},
		{"authorized admin", Home, Action{Kind: Navigate, To: AdminDashboard, Authorized: true}, AdminDashboard},
		{"unknown view is ignored", AI, Action{Kind: Navigate, To: View(99)}, AI},
		{"unknown action kind is ignored", Contact, Action{Kind: Kind(42)}, Contact},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Transition(tt.current, tt.action))
		})
	}
}

// Every view/action pair yields a valid view.
func TestTransition_Total(t *testing.T) {
	for _, cur := range Views() {
		for _, to := range append(Views(), View(-1), View(100)) {
			for _, kind := range []Kind{Navigate, SignedIn, SignedOut, Registered} {
				for _, auth := range []bool{false, true} {
					got := Transition(cur, Action{Kind: kind, To: to, Authorized: auth})
					assert.True(t, got.Valid(), "%v %v %v %v", cur, to, kind, auth)
				}
			}
		}
	}
}

func TestParseView(t *testing.T) {
	for _, v := range Views() {
		got, ok := ParseView(v.String())
		assert.True(t, ok)
		assert.Equal(t, v, got)
	}
	got, ok := ParseView("  AI ")
	assert.True(t, ok)
	assert.Equal(t, AI, got)

	_, ok = ParseView("nowhere")
	assert.False(t, ok)
	assert.Equal(t, "unknown", View(77).String())
}
