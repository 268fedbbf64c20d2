package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/entrust/internal/client/notice"
	"github.com/dmitrijs2005/entrust/internal/client/router"
)

var (
	errNotSignedIn = errors.New("please sign in first")
	errAdminOnly   = errors.New("admin access required")
)

func (a *App) isAdmin() bool {
	return a.session.IsAdmin()
}

// apply moves the router and clears the assistant transcript when the AI
// view is left.
func (a *App) apply(act router.Action) router.View {
	next := router.Transition(a.view, act)
	if a.view == router.AI && next != router.AI {
		a.conversation.Reset()
	}
	a.view = next
	return next
}

func (a *App) authorizedFor(v router.View) bool {
	if v == router.AdminDashboard {
		return a.session.IsAdmin()
	}
	return a.session.SignedIn()
}

func (a *App) Views(ctx context.Context, args []string) error {
	for _, v := range router.Views() {
		line := "  " + v.String()
		if v == a.view {
			line = "* " + v.String()
		}
		if v.Protected() {
			line += " (sign-in required)"
		}
		fmt.Fprintln(a.out, line)
	}
	return nil
}

func (a *App) Go(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: go <view>")
	}
	v, ok := router.ParseView(args[0])
	if !ok {
		return fmt.Errorf("unknown view %q, type 'views' for the list", args[0])
	}

	if a.apply(router.Action{Kind: router.Navigate, To: v, Authorized: a.authorizedFor(v)}) != v {
		a.notify(notice.Warningf("You are not allowed to open %s.", v))
		return nil
	}
	a.notify(notice.Infof("Now viewing %s.", v))

	switch v {
	case router.UserDashboard:
		return a.Card(ctx, nil)
	case router.AdminDashboard:
		return a.Members(ctx, nil)
	}
	return nil
}
