package cli

import (
	"fmt"
	"text/tabwriter"

	"shelfwise/internal/core/domain"

	"github.com/spf13/cobra"
)

func newBorrowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "borrow <book-id> <member-id>",
		Short: "Lend a book to a member",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			bookID, err := parseIDArg(args[0], "book-id")
			if err != nil {
				return err
			}
			memberID, err := parseIDArg(args[1], "member-id")
			if err != nil {
				return err
			}
			loan, err := app.library.Borrow(cmd.Context(), bookID, memberID)
			if err != nil {
				return err
			}
			fmt.Fprintf(app.out, "Book %d borrowed by member %d (loan %s)\n", loan.BookID, loan.MemberID, loan.ID)
			return nil
		},
	}
}

func newReturnCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "return <book-id>",
		Short: "Return a borrowed book",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bookID, err := parseIDArg(args[0], "book-id")
			if err != nil {
				return err
			}
			loan, err := app.library.ReturnBook(cmd.Context(), bookID)
			if err != nil {
				return err
			}
			fmt.Fprintf(app.out, "Book %d returned by member %d\n", loan.BookID, loan.MemberID)
			return nil
		},
	}
}

func newLoansCmd(app *App) *cobra.Command {
	var bookID, memberID int64
	cmd := &cobra.Command{
		Use:   "loans",
		Short: "Show loan history for a book or a member",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				loans []domain.Loan
				err   error
			)
			switch {
			case bookID > 0 && memberID > 0:
				return fmt.Errorf("use either --book or --member, not both")
			case bookID > 0:
				loans, err = app.library.LoanHistoryByBook(bookID)
			case memberID > 0:
				loans, err = app.library.LoanHistoryByMember(memberID)
			default:
				return fmt.Errorf("one of --book or --member is required")
			}
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(app.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "BOOK\tMEMBER\tBORROWED\tRETURNED")
			for _, l := range loans {
				returned := "active"
				if l.ReturnedAt != nil {
					returned = l.ReturnedAt.Format("2006-01-02 15:04")
				}
				fmt.Fprintf(w, "%d\t%d\t%s\t%s\n",
					l.BookID, l.MemberID, l.BorrowedAt.Format("2006-01-02 15:04"), returned)
			}
			return w.Flush()
		},
	}
	cmd.Flags().Int64Var(&bookID, "book", 0, "book id")
	cmd.Flags().Int64Var(&memberID, "member", 0, "member id")
	return cmd
}
