package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"shelfwise/internal/adapters/persistence"
	"shelfwise/internal/config"
	"shelfwise/internal/core/domain"
	"shelfwise/internal/core/services"
	"shelfwise/internal/pkg/logger"

	"github.com/spf13/cobra"
)

// Exit codes by error kind
const (
	exitOK         = 0
	exitValidation = 1
	exitNotFound   = 2
	exitConflict   = 3
	exitStorage    = 4
)

// App wires the CLI commands to the library facade. Every invocation loads
// state from the configured store, performs one operation and saves, so the
// CLI and a running API server against the same database observe the same
// state.
type App struct {
	cfg     *config.Config
	store   persistence.Store
	library *services.Library
	out     io.Writer

	verbose bool
}

// NewRootCmd builds the shelfwise command tree
func NewRootCmd() *cobra.Command {
	app := &App{out: os.Stdout}

	root := &cobra.Command{
		Use:           "shelfwise",
		Short:         "Manage the library catalog, members and loans",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.init(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if app.store != nil {
				return app.store.Close()
			}
			return nil
		},
	}
	root.PersistentFlags().BoolVarP(&app.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		newBooksCmd(app),
		newMembersCmd(app),
		newBorrowCmd(app),
		newReturnCmd(app),
		newLoansCmd(app),
	)
	return root
}

// init loads configuration and builds the facade over the configured store
func (a *App) init(cmd *cobra.Command) error {
	a.out = cmd.OutOrStdout()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	a.cfg = cfg

	log := logger.NewNop()
	if a.verbose {
		log, err = logger.New(cfg.AppMode)
		if err != nil {
			return err
		}
	}

	store, err := persistence.NewStore(cfg)
	if err != nil {
		return err
	}
	a.store = store

	library, err := services.NewLibrary(cmd.Context(), store, log, services.Options{
		MaxLoansPerMember: cfg.MaxLoansPerMember,
	})
	if err != nil {
		_ = store.Close()
		return err
	}
	a.library = library
	return nil
}

// Execute runs the CLI and returns the process exit code
func Execute() int {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return exitCode(err)
	}
	return exitOK
}

// exitCode maps a domain error kind to the process exit code
func exitCode(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return exitNotFound
	case errors.Is(err, domain.ErrConflict):
		return exitConflict
	case errors.Is(err, domain.ErrStorage):
		return exitStorage
	default:
		return exitValidation
	}
}
