package cotadmin

import (
	"fmt"
	"text/tabwriter"

	domain "github.com/dmitrijs2005/entrust/internal/members"
	"github.com/spf13/cobra"
)

func listCommand(a *admin) *cobra.Command {
	var pending bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List members",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := a.api.ListMembers(cmd.Context())
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tPHONE\tROLE\tSTATUS\tJOINED")
			for _, m := range list {
				if pending && m.Status != domain.StatusPending {
					continue
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", m.ID, m.Name, m.Phone, m.Role, m.Status, m.JoinedDate)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().BoolVar(&pending, "pending", false, "only members awaiting verification")
	return cmd
}

func statusCommand(a *admin) *cobra.Command {
	return &cobra.Command{
		Use:   "status <id> <status>",
		Short: "Set a member's verification status (active, rejected, pending)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := domain.LookupStatus(args[1])
			if err != nil {
				return err
			}
			m, err := a.api.SetStatus(cmd.Context(), args[0], st)
			if err != nil {
				return err
			}
			a.logger.Info(cmd.Context(), "status changed", "id", m.ID, "status", string(m.Status))
			fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", m.ID, m.Status)
			return nil
		},
	}
}

func publishCommand(a *admin) *cobra.Command {
	return &cobra.Command{
		Use:   "publish <id>",
		Short: "Publish a verified member's card and print a temporary link",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pub, err := a.api.PublishCard(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), pub.URL)
			if !pub.Expires.IsZero() {
				fmt.Fprintf(cmd.OutOrStdout(), "expires %s\n", pub.Expires.Format("2006-01-02 15:04:05 MST"))
			}
			return nil
		},
	}
}
