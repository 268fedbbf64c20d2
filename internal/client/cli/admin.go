package cli

import (
	"context"
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/dmitrijs2005/entrust/internal/client/notice"
	"github.com/dmitrijs2005/entrust/internal/client/router"
	domain "github.com/dmitrijs2005/entrust/internal/members"
)

// Members lists the collection for admins.
func (a *App) Members(ctx context.Context, args []string) error {
	if !a.isAdmin() {
		return errAdminOnly
	}
	a.apply(router.Action{Kind: router.Navigate, To: router.AdminDashboard, Authorized: true})

	list := a.store.ListMembers(ctx)
	if len(list) == 0 {
		fmt.Fprintln(a.out, "No members.")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tPHONE\tROLE\tSTATUS")
	for _, m := range list {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", m.ID, m.Name, m.Phone, m.Role, m.Status)
	}
	return tw.Flush()
}

// Verify sets a member's verification status.
func (a *App) Verify(ctx context.Context, args []string) error {
	if !a.isAdmin() {
		return errAdminOnly
	}
	if len(args) < 1 || len(args) > 2 {
		return errors.New("usage: verify <id> [active|rejected|pending]")
	}
	status := domain.StatusActive
	if len(args) == 2 {
		st, err := domain.LookupStatus(args[1])
		if err != nil {
			return err
		}
		status = st
	}

	m, err := a.store.SetStatus(ctx, args[0], status)
	if err != nil {
		a.notify(notice.Errorf("Could not update %s: %v", args[0], err))
		return nil
	}
	a.session.Update(m)
	a.notify(notice.Successf("%s is now %s.", m.ID, m.Status))
	return nil
}
