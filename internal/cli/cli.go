package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/vk/tfexecgo/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated app.Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("tfexecgo", flag.ContinueOnError)
	flagSet.SetOutput(output)

	// Custom usage/help text function
	flagSet.Usage = func() {
		fmt.Fprint(output, `
tfexecgo - A command-line driver for the terraform binary.

Usage:
  tfexecgo [options] OPERATION [ARG...]

Operations:
  init [DIR]              Initialize the working directory and its backend.
  plan [DIR|PLAN]         Show pending changes; exit code 2 means a diff exists.
  apply [DIR|PLAN]        Apply a configuration or a saved plan file.
  destroy [DIR]           Destroy managed infrastructure.
  output [NAME]           Print outputs from the state as JSON.
  workspace SUB [NAME]    Manage workspaces: select, new, delete, or show.
  run COMMAND [ARG...]    Run any other terraform command verbatim.

Options:
`)
		flagSet.PrintDefaults()
	}

	profileFlag := flagSet.String("profile", "", "Path to an HCL run profile.")
	pFlag := flagSet.String("p", "", "Path to an HCL run profile (shorthand).")
	chdirFlag := flagSet.String("chdir", "", "Working directory for the terraform binary.")
	binaryFlag := flagSet.String("binary", "", "Path to the terraform binary. Defaults to 'terraform' on PATH.")
	streamFlag := flagSet.Bool("stream", false, "Pass the child's output through instead of capturing it.")
	detachFlag := flagSet.Bool("detach", false, "Start the command and return without waiting for it.")
	logFormatFlag := flagSet.String("log-format", "json", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	if flagSet.NArg() == 0 {
		slog.Debug("No operation provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

	profilePath := *profileFlag
	if profilePath == "" {
		profilePath = *pFlag
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}
	slog.Debug("CLI parameter validation complete.")

	config, err := app.NewConfig(app.Config{
		ProfilePath: profilePath,
		Chdir:       *chdirFlag,
		Binary:      *binaryFlag,
		Stream:      *streamFlag,
		Detach:      *detachFlag,
		LogFormat:   logFormat,
		LogLevel:    logLevel,
		Operation:   flagSet.Arg(0),
		Args:        flagSet.Args()[1:],
	})

	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "operation", config.Operation)
	return config, false, nil
}
