package tfexec

import (
	"context"
)

// defaultOptions pre-populates the option set shared by the lifecycle
// operations from the driver's construction-time defaults. Insertion order
// here fixes the rendered flag order; overrides replace values in place.
func (t *Terraform) defaultOptions() *Options {
	opts := NewOptions()
	if t.state != "" {
		opts.Set("state", String(t.state))
	}
	if len(t.targets) > 0 {
		opts.Set("target", List(t.targets...))
	}
	if len(t.variables) > 0 {
		opts.Set("var", Vars(t.variables))
	}
	if len(t.varFiles) > 0 {
		opts.Set("var_file", List(t.varFiles...))
	}
	if t.parallelism > 0 {
		opts.Set("parallelism", Int(t.parallelism))
	}
	opts.Set("no_color", Flagged)
	opts.Set("input", Bool(false))
	return opts
}

// positional wraps an optional single positional argument.
func positional(arg string) []string {
	if arg == "" {
		return nil
	}
	return []string{arg}
}

// Apply runs `terraform apply`. dirOrPlan is an optional plan file or
// directory relative to the working directory; overrides win key-for-key
// over the driver defaults.
func (t *Terraform) Apply(ctx context.Context, cfg ExecConfig, dirOrPlan string, overrides *Options) (Result, error) {
	opts := t.defaultOptions().Merge(overrides)
	return t.RunWith(ctx, cfg, "apply", positional(dirOrPlan), opts)
}

// Plan runs `terraform plan` with -detailed-exitcode flagged by default, so
// a pending diff surfaces as exit code 2.
func (t *Terraform) Plan(ctx context.Context, cfg ExecConfig, dirOrPlan string, overrides *Options) (Result, error) {
	opts := t.defaultOptions().Set("detailed_exitcode", Flagged).Merge(overrides)
	return t.RunWith(ctx, cfg, "plan", positional(dirOrPlan), opts)
}

// Destroy runs `terraform destroy`. The force flag is present but
// un-flagged by default; pass Flagged as an override to skip confirmation
// on older terraform versions.
func (t *Terraform) Destroy(ctx context.Context, cfg ExecConfig, dirOrPlan string, overrides *Options) (Result, error) {
	opts := t.defaultOptions().Set("force", NotFlagged).Merge(overrides)
	return t.RunWith(ctx, cfg, "destroy", positional(dirOrPlan), opts)
}

// Init runs `terraform init` with -reconfigure and -backend=true by
// default. backendConfig entries expand into repeated
// -backend-config=key=value tokens.
func (t *Terraform) Init(ctx context.Context, cfg ExecConfig, dir string, backendConfig map[string]string, overrides *Options) (Result, error) {
	opts := t.defaultOptions()
	if len(backendConfig) > 0 {
		opts.Set("backend_config", BackendConfig(backendConfig))
	}
	opts.Set("reconfigure", Flagged)
	opts.Set("backend", Bool(true))
	return t.RunWith(ctx, cfg, "init", positional(dir), opts.Merge(overrides))
}

// SelectWorkspace runs `terraform workspace select <name>`.
func (t *Terraform) SelectWorkspace(ctx context.Context, cfg ExecConfig, name string, overrides *Options) (Result, error) {
	return t.RunWith(ctx, cfg, "workspace", []string{"select", name}, overrides)
}

// NewWorkspace runs `terraform workspace new <name>`.
func (t *Terraform) NewWorkspace(ctx context.Context, cfg ExecConfig, name string, overrides *Options) (Result, error) {
	return t.RunWith(ctx, cfg, "workspace", []string{"new", name}, overrides)
}

// DeleteWorkspace runs `terraform workspace delete <name>`.
func (t *Terraform) DeleteWorkspace(ctx context.Context, cfg ExecConfig, name string, overrides *Options) (Result, error) {
	return t.RunWith(ctx, cfg, "workspace", []string{"delete", name}, overrides)
}

// ShowWorkspace runs `terraform workspace show`.
func (t *Terraform) ShowWorkspace(ctx context.Context, cfg ExecConfig, overrides *Options) (Result, error) {
	return t.RunWith(ctx, cfg, "workspace", []string{"show"}, overrides)
}
