package tfexec

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/vk/tfexecgo/internal/ctxlog"
	"github.com/vk/tfexecgo/tfstate"
)

// CaptureMode selects what happens to the child's stdout and stderr. The
// modes are mutually exclusive per invocation.
type CaptureMode int

const (
	// CaptureBuffers redirects both streams into buffers returned on the
	// Result. This is the default.
	CaptureBuffers CaptureMode = iota
	// CaptureInherit passes both streams through to the ambient terminal;
	// nothing is captured.
	CaptureInherit
	// CaptureNone passes both streams through untouched, for embedding an
	// invocation inside a larger framework that manages stdio itself.
	// Nothing is captured.
	CaptureNone
)

// ExecConfig tunes a single invocation. The zero value captures output,
// waits for completion, and surfaces a nonzero exit as a *CommandError.
type ExecConfig struct {
	Capture CaptureMode
	// AllowFailure returns a nonzero exit code on the Result instead of a
	// *CommandError, leaving it for the caller to inspect.
	AllowFailure bool
	// Detach starts the child and returns immediately without waiting.
	// Lifecycle of the child, including its variable files, passes to the
	// caller.
	Detach bool
}

// Result is the normalized outcome of one invocation. All fields are zero
// for a detached run. Stdout and Stderr are populated only when the run
// captured (Captured reports this).
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
	// Waited is false when the run was detached and the child may still be
	// executing.
	Waited   bool
	Captured bool
}

// Config describes a Terraform driver at construction time. The zero value
// of each field means "unset": the binary defaults to "terraform" on PATH,
// the working directory to the ambient one, and the environment is
// inherited unless IsolateEnv is set.
type Config struct {
	Binary     string
	WorkingDir string
	// IsolateEnv runs the child with an explicitly empty environment
	// instead of a snapshot of the ambient one.
	IsolateEnv bool

	// Defaults merged into every fixed-shape operation (Apply, Plan, ...).
	State       string
	Targets     []string
	Variables   map[string]string
	VarFiles    []string
	Parallelism int
}

// Terraform drives one terraform binary against one working directory. The
// struct is safe to share across goroutines for encoding, but concurrent
// invocations race on State reloads and on the persisted state file itself;
// ordering between them is the caller's responsibility.
type Terraform struct {
	binary      string
	workingDir  string
	isolateEnv  bool
	state       string
	targets     []string
	variables   map[string]string
	varFiles    []string
	parallelism int

	// State holds the most recently loaded persisted state. It is replaced
	// after every successful synchronous invocation.
	State *tfstate.State
}

// New builds a driver from cfg and performs the initial state read. A
// malformed state file fails construction; a missing one does not.
func New(cfg Config) (*Terraform, error) {
	if cfg.Binary == "" {
		cfg.Binary = "terraform"
	}
	t := &Terraform{
		binary:      cfg.Binary,
		workingDir:  cfg.WorkingDir,
		isolateEnv:  cfg.IsolateEnv,
		state:       cfg.State,
		targets:     cfg.Targets,
		variables:   cfg.Variables,
		varFiles:    cfg.VarFiles,
		parallelism: cfg.Parallelism,
	}
	if err := t.reloadState(); err != nil {
		return nil, err
	}
	return t, nil
}

// reloadState re-reads the persisted state from disk into t.State.
func (t *Terraform) reloadState() error {
	state, err := tfstate.Load(tfstate.ResolvePath(t.workingDir, t.state))
	if err != nil {
		return err
	}
	t.State = state
	return nil
}

// Run executes a terraform command with default exec configuration:
// captured output, synchronous wait, nonzero exit reported as error.
func (t *Terraform) Run(ctx context.Context, command string, args []string, opts *Options) (Result, error) {
	return t.RunWith(ctx, ExecConfig{}, command, args, opts)
}

// RunWith executes a terraform command. It encodes the argv (materializing
// variable maps as ephemeral files), spawns the child in the resolved
// working directory and environment, waits unless detached, reloads the
// persisted state on exit code zero, and removes the invocation's variable
// files on every synchronous exit path.
func (t *Terraform) RunWith(ctx context.Context, cfg ExecConfig, command string, args []string, opts *Options) (Result, error) {
	logger := ctxlog.FromContext(ctx)

	files := &varFileSet{}
	cleanupFiles := true
	defer func() {
		if cleanupFiles {
			files.cleanup(logger)
		}
	}()

	tokens, err := encodeArgs(t.binary, command, args, opts, files)
	if err != nil {
		return Result{}, err
	}
	cmdline := strings.Join(tokens, " ")
	logger.Debug("running terraform command", "command", cmdline, "dir", t.workingDir)

	// The context carries the logger only. Cancellation never propagates to
	// the child: a synchronous run waits unboundedly, and a detached child
	// keeps running with no lifecycle management here.
	child := exec.Command(tokens[0], tokens[1:]...)
	child.Dir = t.workingDir
	if t.isolateEnv {
		child.Env = []string{}
	}

	var stdout, stderr bytes.Buffer
	switch cfg.Capture {
	case CaptureBuffers:
		child.Stdout = &stdout
		child.Stderr = &stderr
	case CaptureInherit, CaptureNone:
		// Both modes are pass-throughs to the ambient stdio; os/exec would
		// otherwise send unwired streams to the null device.
		child.Stdout = os.Stdout
		child.Stderr = os.Stderr
	default:
		return Result{}, fmt.Errorf("tfexec: unknown capture mode %d", cfg.Capture)
	}

	if cfg.Detach {
		if err := child.Start(); err != nil {
			return Result{}, fmt.Errorf("tfexec: starting %q: %w", cmdline, err)
		}
		// The child may still need its variable files; ownership of both
		// passes to the caller.
		cleanupFiles = false
		logger.Debug("detached from child process", "pid", child.Process.Pid)
		return Result{}, nil
	}

	runErr := child.Run()

	exitCode := 0
	if runErr != nil {
		var exitErr *exec.ExitError
		if !errors.As(runErr, &exitErr) {
			return Result{}, fmt.Errorf("tfexec: running %q: %w", cmdline, runErr)
		}
		exitCode = exitErr.ExitCode()
	}

	result := Result{ExitCode: exitCode, Waited: true}
	if cfg.Capture == CaptureBuffers {
		result.Stdout = stdout.String()
		result.Stderr = stderr.String()
		result.Captured = true
	}

	if exitCode == 0 {
		if err := t.reloadState(); err != nil {
			return result, err
		}
		return result, nil
	}

	logger.Error("terraform command failed", "command", cmdline, "exit_code", exitCode, "stderr", result.Stderr)
	if !cfg.AllowFailure {
		return result, &CommandError{
			ExitCode: exitCode,
			Command:  cmdline,
			Stdout:   result.Stdout,
			Stderr:   result.Stderr,
		}
	}
	return result, nil
}
