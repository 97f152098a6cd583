package cli

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"

	"shelfwise/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runCmd executes one CLI invocation against the configured store, like a
// user would from the shell
func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	buf := &bytes.Buffer{}
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func useTempDB(t *testing.T) {
	t.Helper()
	t.Setenv("STORAGE_DRIVER", "sqlite")
	t.Setenv("SQLITE_PATH", filepath.Join(t.TempDir(), "cli_test.db"))
}

func TestCLI_BookLifecycle(t *testing.T) {
	useTempDB(t)

	out, err := runCmd(t, "books", "add", "Dune", "Herbert")
	require.NoError(t, err)
	assert.Contains(t, out, "Added book 1: Dune by Herbert")

	out, err = runCmd(t, "members", "add", "Ann", "--contact", "a@x.com")
	require.NoError(t, err)
	assert.Contains(t, out, "Registered member 1: Ann")

	out, err = runCmd(t, "borrow", "1", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Book 1 borrowed by member 1")

	// State persisted across invocations: the book is now listed as borrowed
	out, err = runCmd(t, "books", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "BORROWED")

	out, err = runCmd(t, "return", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Book 1 returned by member 1")

	out, err = runCmd(t, "books", "available")
	require.NoError(t, err)
	assert.Contains(t, out, "Dune")
}

func TestCLI_DoubleBorrowConflicts(t *testing.T) {
	useTempDB(t)

	_, err := runCmd(t, "books", "add", "Dune", "Herbert")
	require.NoError(t, err)
	_, err = runCmd(t, "members", "add", "Ann")
	require.NoError(t, err)
	_, err = runCmd(t, "members", "add", "Bob")
	require.NoError(t, err)

	_, err = runCmd(t, "borrow", "1", "1")
	require.NoError(t, err)

	_, err = runCmd(t, "borrow", "1", "2")
	assert.True(t, errors.Is(err, domain.ErrConflict))
}

func TestCLI_UnknownIDs(t *testing.T) {
	useTempDB(t)

	_, err := runCmd(t, "return", "42")
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	_, err = runCmd(t, "members", "show", "42")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestCLI_LoanHistory(t *testing.T) {
	useTempDB(t)

	_, err := runCmd(t, "books", "add", "Dune", "Herbert")
	require.NoError(t, err)
	_, err = runCmd(t, "members", "add", "Ann")
	require.NoError(t, err)
	_, err = runCmd(t, "borrow", "1", "1")
	require.NoError(t, err)

	out, err := runCmd(t, "loans", "--book", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "active")

	_, err = runCmd(t, "loans")
	assert.Error(t, err)
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, exitNotFound, exitCode(domain.NotFoundf("book 1 not found")))
	assert.Equal(t, exitConflict, exitCode(domain.Conflictf("book 1 already borrowed")))
	assert.Equal(t, exitStorage, exitCode(domain.Storagef(errors.New("disk full"), "save")))
	assert.Equal(t, exitValidation, exitCode(domain.Validationf("title required")))
	assert.Equal(t, exitValidation, exitCode(errors.New("bad flag")))
}
