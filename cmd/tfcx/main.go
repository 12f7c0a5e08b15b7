package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/bodrovis/tfcx/internal/utils"
)

// Injected at build time via ldflags.
var version = "dev"

const (
	exitOK      = 0
	exitFailure = 1
)

func main() {
	// A missing .env is fine.
	_ = utils.LoadDotEnv()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	os.Exit(run(ctx, os.Args[1:]))
}

func run(ctx context.Context, args []string) int {
	root := rootCmd()
	root.SetArgs(args)

	if err := root.ExecuteContext(ctx); err != nil {
		// Per-URL failures are already on stdout.
		if !errors.Is(err, errFetchFailed) {
			fmt.Fprintln(root.ErrOrStderr(), "Error:", err)
		}
		return exitFailure
	}
	return exitOK
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "tfcx",
		Short:         "Query the Terraform Cloud / Enterprise JSON:API",
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.AddCommand(getCmd())
	return root
}
