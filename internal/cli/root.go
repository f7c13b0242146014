// Package cli implements mqlectl, the admin command line for the milk ledger.
package cli

import (
	"context"
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"milkledger/internal/app"
	"milkledger/internal/config"
)

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"json", "text"}

// Opener returns a wired backend for one command invocation.
type Opener func(ctx context.Context) (*app.Backend, error)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Format  string
	Actor   string
	Verbose bool

	open Opener
}

// EnvOpener opens the backend described by the environment and .env file.
func EnvOpener(ctx context.Context) (*app.Backend, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return app.Open(ctx, cfg)
}

// NewRootCommand creates the root command. A nil opener means EnvOpener.
func NewRootCommand(open Opener) *cobra.Command {
	if open == nil {
		open = EnvOpener
	}
	opts := &RootOptions{open: open}

	cmd := &cobra.Command{
		Use:   "mqlectl",
		Short: "Milk quality ledger admin tool",
		Long: `Administer the milk quality ledger: seed reference data, print the
milk quality ledger report and preview FAT/SNF milk rates.

Storage is selected from DATABASE_URL; without it an in-memory store is used
and nothing survives the process.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "log to stderr")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "json", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.Actor, "actor", "", "identity recorded on writes (default \"system\")")

	cmd.AddCommand(NewSeedCommand(opts))
	cmd.AddCommand(NewLedgerCommand(opts))
	cmd.AddCommand(NewRateCommand(opts))
	cmd.AddCommand(NewReportCommand(opts))

	return cmd
}

// withBackend opens the backend, runs fn and closes it.
func (o *RootOptions) withBackend(cmd *cobra.Command, fn func(ctx context.Context, b *app.Backend) error) error {
	ctx, err := o.context(cmd)
	if err != nil {
		return WrapExitError(ExitCommandError, "init logger", err)
	}
	b, err := o.open(ctx)
	if err != nil {
		return WrapExitError(ExitCommandError, "open backend", err)
	}
	defer b.Close()
	return fn(ctx, b)
}
