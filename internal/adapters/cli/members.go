package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newMembersCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "members",
		Short: "Manage the member roster",
	}
	cmd.AddCommand(
		newMembersAddCmd(app),
		newMembersListCmd(app),
		newMembersShowCmd(app),
		newMembersRemoveCmd(app),
	)
	return cmd
}

func newMembersAddCmd(app *App) *cobra.Command {
	var contact string
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Register a new member",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			member, err := app.library.RegisterMember(cmd.Context(), args[0], contact)
			if err != nil {
				return err
			}
			fmt.Fprintf(app.out, "Registered member %d: %s\n", member.ID, member.Name)
			return nil
		},
	}
	cmd.Flags().StringVar(&contact, "contact", "", "contact address for the member")
	return cmd
}

func newMembersListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all registered members",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(app.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tCONTACT")
			for _, m := range app.library.ListMembers() {
				fmt.Fprintf(w, "%d\t%s\t%s\n", m.ID, m.Name, m.Contact)
			}
			return w.Flush()
		},
	}
}

func newMembersShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <member-id>",
		Short: "Show one member",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseIDArg(args[0], "member-id")
			if err != nil {
				return err
			}
			member, err := app.library.LookupMember(id)
			if err != nil {
				return err
			}
			fmt.Fprintf(app.out, "Member %d: %s (%s)\n", member.ID, member.Name, member.Contact)
			return nil
		},
	}
}

func newMembersRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <member-id>",
		Short: "Remove a member from the roster",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseIDArg(args[0], "member-id")
			if err != nil {
				return err
			}
			if err := app.library.RemoveMember(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(app.out, "Removed member %d\n", id)
			return nil
		},
	}
}
