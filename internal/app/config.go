package app

import (
	"errors"
	"fmt"
)

// Operations accepted on the command line.
const (
	OpInit      = "init"
	OpPlan      = "plan"
	OpApply     = "apply"
	OpDestroy   = "destroy"
	OpOutput    = "output"
	OpWorkspace = "workspace"
	OpRun       = "run"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	ProfilePath string
	Chdir       string
	Binary      string

	Stream bool
	Detach bool

	LogFormat string
	LogLevel  string

	Operation string
	Args      []string
}

// NewConfig validates cfg and returns it. Operation shapes are checked here
// so a malformed invocation fails before any process is spawned.
func NewConfig(cfg Config) (*Config, error) {
	switch cfg.Operation {
	case OpInit, OpPlan, OpApply, OpDestroy:
		if len(cfg.Args) > 1 {
			return nil, fmt.Errorf("%s takes at most one argument, got %d", cfg.Operation, len(cfg.Args))
		}
	case OpOutput:
		if len(cfg.Args) > 1 {
			return nil, fmt.Errorf("output takes at most one name, got %d arguments", len(cfg.Args))
		}
		if cfg.Stream || cfg.Detach {
			return nil, errors.New("output reads the child's stdout and cannot be combined with -stream or -detach")
		}
	case OpWorkspace:
		if len(cfg.Args) == 0 {
			return nil, errors.New("workspace requires a subcommand: select, new, delete, or show")
		}
		switch sub := cfg.Args[0]; sub {
		case "select", "new", "delete":
			if len(cfg.Args) != 2 {
				return nil, fmt.Errorf("workspace %s requires exactly one workspace name", sub)
			}
		case "show":
			if len(cfg.Args) != 1 {
				return nil, errors.New("workspace show takes no arguments")
			}
		default:
			return nil, fmt.Errorf("unknown workspace subcommand %q", sub)
		}
	case OpRun:
		if len(cfg.Args) == 0 {
			return nil, errors.New("run requires a terraform command")
		}
	case "":
		return nil, errors.New("an operation is required")
	default:
		return nil, fmt.Errorf("unknown operation %q", cfg.Operation)
	}

	return &cfg, nil
}
