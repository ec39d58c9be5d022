package main

import (
	"os"
	"path/filepath"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

// testApp returns the CLI app with exit handling disabled so error-grade
// runs surface as returned errors instead of terminating the test binary.
func testApp() *cli.App {
	app := newApp()
	app.ExitErrHandler = func(*cli.Context, error) {}
	return app
}

func touch(t *testing.T, dir, name string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
}

func TestApp_BatchErrorsExitNonzero(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()
	touch(t, in, "scan.tif") // no channel token, error grade

	err := testApp().Run([]string{"chanmerge", "--dry-run", in, out})
	require.Error(t, err)
}

func TestApp_CleanBatchExitsZero(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()
	touch(t, in, "01-red.tif")
	touch(t, in, "01-green.tif")
	touch(t, in, "01-blue.tif")

	err := testApp().Run([]string{"chanmerge", "--dry-run", in, out})
	require.NoError(t, err)
}

func TestApp_MissingArgs(t *testing.T) {
	err := testApp().Run([]string{"chanmerge", t.TempDir()})
	require.Error(t, err)
}

func TestApp_WatchPropagatesBatchFailure(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()
	touch(t, in, "scan.tif")

	errCh := make(chan error, 1)
	go func() {
		errCh <- testApp().Run([]string{
			"chanmerge", "--dry-run", "--watch", "--settle", "100ms", in, out,
		})
	}()

	// Let the initial batch finish and the signal handler register before
	// interrupting the session.
	time.Sleep(500 * time.Millisecond)
	require.NoError(t, syscall.Kill(os.Getpid(), syscall.SIGINT))

	select {
	case err := <-errCh:
		require.Error(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("watch session did not shut down on interrupt")
	}
}
