package app

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/zclconf/go-cty/cty"
	ctyjson "github.com/zclconf/go-cty/cty/json"

	"github.com/vk/tfexecgo/internal/ctxlog"
	"github.com/vk/tfexecgo/tfexec"
)

// Run dispatches the configured operation to the driver. Captured child
// output is written to the App's output writer; failures propagate as-is so
// the entrypoint can map a *tfexec.CommandError to the child's exit code.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.", "operation", a.config.Operation)

	execCfg := tfexec.ExecConfig{Detach: a.config.Detach}
	if a.config.Stream {
		execCfg.Capture = tfexec.CaptureInherit
	}

	if a.config.Operation == OpOutput {
		return a.runOutput(ctx, execCfg)
	}

	args := a.config.Args
	first := ""
	if len(args) > 0 {
		first = args[0]
	}

	var result tfexec.Result
	var err error
	switch a.config.Operation {
	case OpInit:
		result, err = a.driver.Init(ctx, execCfg, first, a.backendConfig, nil)
	case OpPlan:
		result, err = a.driver.Plan(ctx, execCfg, first, nil)
	case OpApply:
		result, err = a.driver.Apply(ctx, execCfg, first, nil)
	case OpDestroy:
		result, err = a.driver.Destroy(ctx, execCfg, first, nil)
	case OpWorkspace:
		switch args[0] {
		case "select":
			result, err = a.driver.SelectWorkspace(ctx, execCfg, args[1], nil)
		case "new":
			result, err = a.driver.NewWorkspace(ctx, execCfg, args[1], nil)
		case "delete":
			result, err = a.driver.DeleteWorkspace(ctx, execCfg, args[1], nil)
		case "show":
			result, err = a.driver.ShowWorkspace(ctx, execCfg, nil)
		}
	case OpRun:
		result, err = a.driver.RunWith(ctx, execCfg, args[0], args[1:], nil)
	default:
		return fmt.Errorf("unknown operation %q", a.config.Operation)
	}
	if err != nil {
		return err
	}

	if result.Captured {
		fmt.Fprint(a.outW, result.Stdout)
	}
	a.logger.Debug("App.Run method finished.", "exit_code", result.ExitCode, "waited", result.Waited)
	return nil
}

// runOutput prints outputs from the persisted state as JSON: the whole
// document when no name was given, a single value otherwise.
func (a *App) runOutput(ctx context.Context, execCfg tfexec.ExecConfig) error {
	if len(a.config.Args) == 1 {
		name := a.config.Args[0]
		value, err := a.driver.Output(ctx, execCfg, name, nil)
		if err != nil {
			return err
		}
		if value == cty.NilVal {
			return fmt.Errorf("output %q is not available", name)
		}
		encoded, err := ctyjson.Marshal(value, value.Type())
		if err != nil {
			return fmt.Errorf("encoding output %q: %w", name, err)
		}
		fmt.Fprintln(a.outW, string(encoded))
		return nil
	}

	outputs, err := a.driver.Outputs(ctx, execCfg, nil)
	if err != nil {
		return err
	}
	if outputs == nil {
		return fmt.Errorf("no outputs are available")
	}
	encoded, err := json.MarshalIndent(outputs, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding outputs: %w", err)
	}
	fmt.Fprintln(a.outW, string(encoded))
	return nil
}
