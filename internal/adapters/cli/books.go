package cli

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"shelfwise/internal/core/domain"

	"github.com/spf13/cobra"
)

func newBooksCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "books",
		Short: "Manage the book catalog",
	}
	cmd.AddCommand(
		newBooksAddCmd(app),
		newBooksListCmd(app),
		newBooksAvailableCmd(app),
		newBooksSearchCmd(app),
		newBooksRemoveCmd(app),
	)
	return cmd
}

func newBooksAddCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "add <title> <author>",
		Short: "Add a book to the catalog",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			book, err := app.library.AddBook(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(app.out, "Added book %d: %s by %s\n", book.ID, book.Title, book.Author)
			return nil
		},
	}
}

func newBooksListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all books with availability",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			printBookViews(app, app.library.ListBooks())
			return nil
		},
	}
}

func newBooksAvailableCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "available",
		Short: "List books available for borrowing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(app.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTITLE\tAUTHOR")
			for _, b := range app.library.ListAvailable() {
				fmt.Fprintf(w, "%d\t%s\t%s\n", b.ID, b.Title, b.Author)
			}
			return w.Flush()
		},
	}
}

func newBooksSearchCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Search books by title or author",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			printBookViews(app, app.library.SearchBooks(args[0]))
			return nil
		},
	}
}

func newBooksRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <book-id>",
		Short: "Remove a book from the catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseIDArg(args[0], "book-id")
			if err != nil {
				return err
			}
			if err := app.library.RemoveBook(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(app.out, "Removed book %d\n", id)
			return nil
		},
	}
}

func printBookViews(app *App, views []domain.BookView) {
	w := tabwriter.NewWriter(app.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tAUTHOR\tSTATUS\tBORROWER")
	for _, v := range views {
		borrower := "-"
		if v.MemberID != nil {
			borrower = strconv.FormatInt(*v.MemberID, 10)
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", v.ID, v.Title, v.Author, v.Status, borrower)
	}
	_ = w.Flush()
}

// parseIDArg parses a positive integer id argument
func parseIDArg(arg, name string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid %s: %q", name, arg)
	}
	return id, nil
}
