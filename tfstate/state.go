// Package tfstate reads the JSON state files Terraform persists to disk.
//
// The package is deliberately thin: it decodes the handful of top-level
// fields a driver cares about and keeps the rest as raw JSON. A missing
// state file is not an error; Terraform simply has not written one yet.
package tfstate

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// backendDir is the metadata directory `terraform init` creates inside a
// working directory. A local backend keeps its state file in there.
const backendDir = ".terraform"

// defaultStateFile is the file name Terraform uses when no state path is
// configured.
const defaultStateFile = "terraform.tfstate"

// Output is one named output value as recorded in the state file. Value and
// Type are kept raw; the tfexec package decodes live outputs with full type
// information via `terraform output -json` instead.
type Output struct {
	Value     json.RawMessage `json:"value"`
	Type      json.RawMessage `json:"type"`
	Sensitive bool            `json:"sensitive"`
}

// State is the decoded content of a terraform.tfstate file. The zero value
// (with only Path set) is the sentinel for "no state file exists yet".
type State struct {
	Path             string            `json:"-"`
	Version          int               `json:"version"`
	TerraformVersion string            `json:"terraform_version"`
	Serial           uint64            `json:"serial"`
	Lineage          string            `json:"lineage"`
	Outputs          map[string]Output `json:"outputs"`
	Resources        []json.RawMessage `json:"resources"`

	loaded bool
}

// Loaded reports whether the state was actually read from disk, as opposed
// to the missing-file sentinel.
func (s *State) Loaded() bool {
	return s.loaded
}

// Load reads and decodes the state file at path. A missing file yields a
// sentinel State and no error. Malformed JSON is surfaced as an error: it
// indicates corrupted external state and must not be swallowed.
func Load(path string) (*State, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &State{Path: path}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("tfstate: reading %s: %w", path, err)
	}

	state := &State{Path: path}
	if err := json.Unmarshal(data, state); err != nil {
		return nil, fmt.Errorf("tfstate: parsing %s: %w", path, err)
	}
	state.loaded = true
	return state, nil
}

// ResolvePath determines where the state file for a working directory lives.
// An explicit path always wins and is joined to the working directory. With
// no explicit path, the backend-local file under the init metadata directory
// is preferred when it exists; otherwise the default file name in the
// working directory is used.
func ResolvePath(workingDir, explicit string) string {
	if explicit != "" {
		return filepath.Join(workingDir, explicit)
	}

	backendPath := filepath.Join(workingDir, backendDir, defaultStateFile)
	if _, err := os.Stat(backendPath); err == nil {
		return backendPath
	}

	return filepath.Join(workingDir, defaultStateFile)
}
