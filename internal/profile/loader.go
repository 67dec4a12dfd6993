package profile

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"

	"github.com/vk/tfexecgo/internal/ctxlog"
	"github.com/vk/tfexecgo/internal/fsutil"
)

// fileSchema is the HCL shape of a profile file.
type fileSchema struct {
	Terraform *terraformBlock `hcl:"terraform,block"`
	Defaults  *defaultsBlock  `hcl:"defaults,block"`
	Backends  []*backendBlock `hcl:"backend,block"`
}

type terraformBlock struct {
	Binary     string `hcl:"binary,optional"`
	WorkingDir string `hcl:"working_dir,optional"`
	InheritEnv *bool  `hcl:"inherit_env,optional"`
}

type defaultsBlock struct {
	State       string            `hcl:"state,optional"`
	Targets     []string          `hcl:"targets,optional"`
	Parallelism int               `hcl:"parallelism,optional"`
	Variables   map[string]string `hcl:"variables,optional"`
	VarFiles    []string          `hcl:"var_files,optional"`
	VarFileDir  string            `hcl:"var_file_dir,optional"`
}

// backendBlock keeps its body raw: backend settings are an open key/value
// set, not a fixed schema.
type backendBlock struct {
	Type string   `hcl:"type,label"`
	Body hcl.Body `hcl:",remain"`
}

// Load parses and decodes the profile file at path. HCL syntax errors and
// schema mismatches are load errors; an absent optional block simply leaves
// its fields zero.
func Load(ctx context.Context, path string) (*Profile, error) {
	logger := ctxlog.FromContext(ctx)

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("profile: parsing %s: %w", path, diags)
	}

	var schema fileSchema
	if diags := gohcl.DecodeBody(file.Body, nil, &schema); diags.HasErrors() {
		return nil, fmt.Errorf("profile: decoding %s: %w", path, diags)
	}

	p := &Profile{}
	if schema.Terraform != nil {
		p.Binary = schema.Terraform.Binary
		p.WorkingDir = schema.Terraform.WorkingDir
		if schema.Terraform.InheritEnv != nil {
			p.IsolateEnv = !*schema.Terraform.InheritEnv
		}
	}
	if schema.Defaults != nil {
		p.State = schema.Defaults.State
		p.Targets = schema.Defaults.Targets
		p.Parallelism = schema.Defaults.Parallelism
		p.Variables = schema.Defaults.Variables
		p.VarFiles = schema.Defaults.VarFiles

		if dir := schema.Defaults.VarFileDir; dir != "" {
			found, err := fsutil.FindFilesByExtensions(dir, ".tfvars", ".tfvars.json")
			if err != nil {
				return nil, fmt.Errorf("profile: expanding var_file_dir %s: %w", dir, err)
			}
			p.VarFiles = append(p.VarFiles, found...)
			logger.Debug("expanded var_file_dir", "dir", dir, "count", len(found))
		}
	}

	for _, backend := range schema.Backends {
		config, err := decodeBackendBody(backend.Body)
		if err != nil {
			return nil, fmt.Errorf("profile: backend %q in %s: %w", backend.Type, path, err)
		}
		if p.BackendConfig == nil {
			p.BackendConfig = map[string]string{}
		}
		for key, value := range config {
			p.BackendConfig[key] = value
		}
		p.BackendType = backend.Type
	}

	logger.Debug("profile loaded", "path", path, "backend", p.BackendType)
	return p, nil
}

// decodeBackendBody evaluates every attribute of a backend block and
// converts it to a string, since backend config travels to terraform as
// `key=value` command-line tokens.
func decodeBackendBody(body hcl.Body) (map[string]string, error) {
	attrs, diags := body.JustAttributes()
	if diags.HasErrors() {
		return nil, diags
	}

	config := make(map[string]string, len(attrs))
	for name, attr := range attrs {
		value, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return nil, diags
		}
		converted, err := convert.Convert(value, cty.String)
		if err != nil {
			return nil, fmt.Errorf("attribute %q: %w", name, err)
		}
		if converted.IsNull() {
			return nil, fmt.Errorf("attribute %q: must not be null", name)
		}
		config[name] = converted.AsString()
	}
	return config, nil
}
