package tfexec

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
)

// varFileSuffix marks the ephemeral files this package writes so that a
// crashed process leaves recognizable litter in the temp directory.
const varFileSuffix = ".tfvars.json"

// varFileSet tracks the ephemeral variable files created while encoding one
// invocation. The set is scoped to exactly that invocation: concurrent runs
// each hold their own set, so they cannot interfere with each other.
type varFileSet struct {
	paths []string
}

// create writes vars as a single flat JSON object to a uniquely named file
// and records the path for later cleanup. The file survives create; it must
// outlive the encoder so the child process can read it.
func (s *varFileSet) create(vars map[string]string) (string, error) {
	file, err := os.CreateTemp("", "tfexec-*"+varFileSuffix)
	if err != nil {
		return "", fmt.Errorf("tfexec: creating variable file: %w", err)
	}
	s.paths = append(s.paths, file.Name())

	data, err := json.Marshal(vars)
	if err != nil {
		file.Close()
		return "", fmt.Errorf("tfexec: encoding variables: %w", err)
	}
	if _, err := file.Write(data); err != nil {
		file.Close()
		return "", fmt.Errorf("tfexec: writing %s: %w", file.Name(), err)
	}
	if err := file.Close(); err != nil {
		return "", fmt.Errorf("tfexec: closing %s: %w", file.Name(), err)
	}
	return file.Name(), nil
}

// cleanup removes every recorded file and clears the set. Already-removed
// files are tolerated; removal failures are logged but never mask the
// invocation's primary outcome. Calling cleanup on an empty set is a no-op.
func (s *varFileSet) cleanup(logger *slog.Logger) {
	for _, path := range s.paths {
		err := os.Remove(path)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			logger.Warn("failed to remove variable file", "path", path, "error", err)
			continue
		}
		logger.Debug("removed variable file", "path", path)
	}
	s.paths = nil
}
