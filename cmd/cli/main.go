package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/vk/tfexecgo/internal/app"
	"github.com/vk/tfexecgo/internal/cli"
	"github.com/vk/tfexecgo/tfexec"
)

// main is the entrypoint for the tfexecgo application.
func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	// The real main function handles errors and exit codes.
	if err := run(os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		var exitErr *cli.ExitError
		if errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}

		// A failed terraform command carries the child's exit code through;
		// its stderr was already logged.
		var cmdErr *tfexec.CommandError
		if errors.As(err, &cmdErr) {
			fmt.Fprintln(os.Stderr, cmdErr.Error())
			os.Exit(cmdErr.ExitCode)
		}

		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run encapsulates the main application logic for easier testing and error
// handling. Captured command output goes to outW, logs to errW.
func run(outW, errW io.Writer, args []string) error {
	appConfig, shouldExit, err := cli.Parse(args, outW)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	driverApp, err := app.NewApp(outW, errW, appConfig)
	if err != nil {
		return err
	}

	return driverApp.Run(context.Background())
}
