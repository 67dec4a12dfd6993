package tfexec

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/zclconf/go-cty/cty"
	ctyjson "github.com/zclconf/go-cty/cty/json"
)

// OutputMeta is one root output value as reported by `terraform output
// -json`: the decoded value, its cty type, and the sensitivity marker.
type OutputMeta struct {
	Value     cty.Value
	Type      cty.Type
	Sensitive bool
}

// UnmarshalJSON decodes a single output descriptor. The descriptor's "type"
// field is a cty type in its JSON serialization, which lets the value be
// decoded into a fully typed cty.Value rather than untyped interface soup.
func (m *OutputMeta) UnmarshalJSON(data []byte) error {
	var raw struct {
		Value     json.RawMessage `json:"value"`
		Type      json.RawMessage `json:"type"`
		Sensitive bool            `json:"sensitive"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	ty := cty.DynamicPseudoType
	if len(raw.Type) > 0 {
		var err error
		ty, err = ctyjson.UnmarshalType(raw.Type)
		if err != nil {
			return fmt.Errorf("decoding output type: %w", err)
		}
	} else if len(raw.Value) > 0 {
		// Older terraform versions omit the type; fall back to the type
		// implied by the value's JSON shape.
		var err error
		ty, err = ctyjson.ImpliedType(raw.Value)
		if err != nil {
			return fmt.Errorf("implying output type: %w", err)
		}
	}

	value := cty.NullVal(ty)
	if len(raw.Value) > 0 {
		var err error
		value, err = ctyjson.Unmarshal(raw.Value, ty)
		if err != nil {
			return fmt.Errorf("decoding output value: %w", err)
		}
	}

	m.Value = value
	m.Type = ty
	m.Sensitive = raw.Sensitive
	return nil
}

// MarshalJSON renders the descriptor back into the same shape terraform
// emits, so callers can round-trip outputs to their own stdout.
func (m OutputMeta) MarshalJSON() ([]byte, error) {
	typeJSON, err := ctyjson.MarshalType(m.Type)
	if err != nil {
		return nil, err
	}
	valueJSON, err := ctyjson.Marshal(m.Value, m.Type)
	if err != nil {
		return nil, err
	}
	return json.Marshal(struct {
		Value     json.RawMessage `json:"value"`
		Type      json.RawMessage `json:"type"`
		Sensitive bool            `json:"sensitive"`
	}{Value: valueJSON, Type: typeJSON, Sensitive: m.Sensitive})
}

// checkOutputConfig rejects exec configurations that cannot produce a
// readable result. This is a configuration error, caught before any
// process is spawned.
func checkOutputConfig(cfg ExecConfig) error {
	if cfg.Capture != CaptureBuffers || cfg.Detach {
		return ErrCaptureRequired
	}
	return nil
}

// Outputs runs `terraform output -json` and decodes the full map of root
// output descriptors. A nonzero exit (for example, no state yet) yields an
// explicitly absent result: (nil, nil).
func (t *Terraform) Outputs(ctx context.Context, cfg ExecConfig, overrides *Options) (map[string]OutputMeta, error) {
	if err := checkOutputConfig(cfg); err != nil {
		return nil, err
	}
	cfg.AllowFailure = true

	opts := NewOptions().Merge(overrides).Set("json", Flagged)
	result, err := t.RunWith(ctx, cfg, "output", nil, opts)
	if err != nil {
		return nil, err
	}
	if result.ExitCode != 0 {
		return nil, nil
	}

	outputs := map[string]OutputMeta{}
	if err := json.Unmarshal([]byte(strings.TrimSpace(result.Stdout)), &outputs); err != nil {
		return nil, fmt.Errorf("tfexec: decoding outputs: %w", err)
	}
	return outputs, nil
}

// Output runs `terraform output -json <name>` and decodes the single value
// with the type implied by its JSON shape. A nonzero exit yields
// (cty.NilVal, nil).
func (t *Terraform) Output(ctx context.Context, cfg ExecConfig, name string, overrides *Options) (cty.Value, error) {
	if err := checkOutputConfig(cfg); err != nil {
		return cty.NilVal, err
	}
	cfg.AllowFailure = true

	opts := NewOptions().Merge(overrides).Set("json", Flagged)
	result, err := t.RunWith(ctx, cfg, "output", []string{name}, opts)
	if err != nil {
		return cty.NilVal, err
	}
	if result.ExitCode != 0 {
		return cty.NilVal, nil
	}

	data := []byte(strings.TrimSpace(result.Stdout))
	ty, err := ctyjson.ImpliedType(data)
	if err != nil {
		return cty.NilVal, fmt.Errorf("tfexec: implying type of output %q: %w", name, err)
	}
	value, err := ctyjson.Unmarshal(data, ty)
	if err != nil {
		return cty.NilVal, fmt.Errorf("tfexec: decoding output %q: %w", name, err)
	}
	return value, nil
}

// OutputDescriptor fetches the full descriptor record for one named output
// from the complete map. The boolean reports whether the output exists.
func (t *Terraform) OutputDescriptor(ctx context.Context, cfg ExecConfig, name string, overrides *Options) (OutputMeta, bool, error) {
	outputs, err := t.Outputs(ctx, cfg, overrides)
	if err != nil {
		return OutputMeta{}, false, err
	}
	meta, ok := outputs[name]
	return meta, ok, nil
}
