// Package cli implements ticketctl, a command-line client that works on the
// same storage as the HTTP server.
package cli

import (
	"context"
	"fmt"
	"io"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spec-kit/ticket-desk/internal/app"
	"github.com/spec-kit/ticket-desk/internal/config"
	"github.com/spec-kit/ticket-desk/internal/domain"
	"github.com/spec-kit/ticket-desk/internal/observability"
)

// Version information (set at build time via ldflags)
var Version = "dev"

// Opener builds the application graph for a loaded configuration.
type Opener func(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*app.App, error)

var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

type runtime struct {
	open       Opener
	configPath string
	jsonOut    bool
	quiet      bool
	verbose    bool

	app *app.App
}

// Execute runs ticketctl against args and returns the process exit code.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root := NewRootCmd(app.Open)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(stderr, FormatErrorMessage(err))
		return ExitCode(err)
	}
	return ExitSuccess
}

// NewRootCmd builds the command tree. open is called lazily by commands
// that touch storage.
func NewRootCmd(open Opener) *cobra.Command {
	rt := &runtime{open: open}

	root := &cobra.Command{
		Use:   "ticketctl",
		Short: "Help-desk tickets from the command line",
		Long: `ticketctl registers users, keeps a login session, and manages
help-desk tickets in the configured storage (Bolt file by default).

Use "ticketctl register" then "ticketctl login" to get started.`,
		Version:       Version,
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return ErrInvalidArgs("%v", err)
	})

	root.PersistentFlags().StringVarP(&rt.configPath, "config", "c", "", "Path to TOML config file (default $CONFIG_FILE)")
	root.PersistentFlags().BoolVarP(&rt.jsonOut, "json", "j", false, "Output in JSON format")
	root.PersistentFlags().BoolVarP(&rt.quiet, "quiet", "q", false, "Suppress non-essential output")
	root.PersistentFlags().BoolVarP(&rt.verbose, "verbose", "v", false, "Log storage and service activity to stderr")

	root.AddCommand(
		newRegisterCmd(rt),
		newLoginCmd(rt),
		newLogoutCmd(rt),
		newWhoamiCmd(rt),
		newTicketCmd(rt),
		newStatsCmd(rt),
		newSettingsCmd(rt),
	)
	return root
}

// application opens storage on first use.
func (rt *runtime) application(cmd *cobra.Command) (*app.App, error) {
	if rt.app != nil {
		return rt.app, nil
	}
	cfg, err := config.LoadFile(rt.configPath)
	if err != nil {
		return nil, ErrInvalidArgsWithCause(err, "load config")
	}
	if !rt.verbose {
		cfg.Logger.Level = "warn"
	}
	logger, err := observability.NewCLILogger(cfg.Logger)
	if err != nil {
		return nil, err
	}
	a, err := rt.open(cmd.Context(), cfg, logger)
	if err != nil {
		return nil, ErrStorage(err, "open %s storage", cfg.Storage.Driver)
	}
	rt.app = a
	return a, nil
}

// run wraps a RunE so storage opened during the command is closed after it.
func (rt *runtime) run(fn func(cmd *cobra.Command, args []string) error) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		err := fn(cmd, args)
		if cerr := rt.close(); err == nil && cerr != nil {
			err = ErrStorage(cerr, "close storage")
		}
		return err
	}
}

func (rt *runtime) close() error {
	if rt.app == nil {
		return nil
	}
	err := rt.app.Close()
	rt.app = nil
	return err
}

// requireSession returns the logged-in user.
func (rt *runtime) requireSession(cmd *cobra.Command) (*app.App, *domain.Session, error) {
	a, err := rt.application(cmd)
	if err != nil {
		return nil, nil, err
	}
	session, err := a.Sessions.Current(cmd.Context())
	if err != nil {
		return nil, nil, withSuggestion(err, SuggestLogin)
	}
	return a, session, nil
}

func (rt *runtime) printJSON(cmd *cobra.Command, v any) error {
	out, err := jsonAPI.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}

func (rt *runtime) outputLine(cmd *cobra.Command, format string, args ...any) {
	if !rt.quiet {
		fmt.Fprintf(cmd.OutOrStdout(), format+"\n", args...)
	}
}
