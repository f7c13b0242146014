package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"milkledger/internal/core/apperror"
	appctx "milkledger/internal/core/context"
	"milkledger/pkg/logger"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0
	ExitFailure      = 1 // domain error (validation, missing input, ...)
	ExitCommandError = 2 // bad flags or unreachable backend
)

// ExitError carries an exit code out of a command.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	if appErr, ok := apperror.AsAppError(err); ok && appErr.HTTPStatus < 500 {
		return ExitFailure
	}
	return ExitCommandError
}

// context prepares the per-command context: actor, trace and a logger that
// stays silent unless --verbose is set.
func (o *RootOptions) context(cmd *cobra.Command) (context.Context, error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if o.Actor != "" {
		ctx = appctx.WithActor(ctx, o.Actor)
	}
	ctx = appctx.WithTrace(ctx, appctx.NewTraceContext())

	log := logger.NewNop()
	if o.Verbose {
		var err error
		log, err = logger.New(logger.Config{Level: "debug", Development: true, OutputPaths: []string{"stderr"}})
		if err != nil {
			return nil, err
		}
	}
	return logger.WithLogger(ctx, log), nil
}

// writeJSON writes v as indented JSON.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeTable writes tab-separated rows aligned into columns.
func writeTable(w io.Writer, header []string, rows [][]string) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	writeRow(tw, header)
	for _, r := range rows {
		writeRow(tw, r)
	}
	return tw.Flush()
}

func writeRow(w io.Writer, cells []string) {
	for i, c := range cells {
		if i > 0 {
			fmt.Fprint(w, "\t")
		}
		fmt.Fprint(w, c)
	}
	fmt.Fprintln(w)
}
