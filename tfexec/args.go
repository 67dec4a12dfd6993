package tfexec

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// compoundCommands are the commands whose second word is itself a
// sub-command selecting a distinct operation. For these the first
// positional argument is spliced in as a literal token right after the
// command, e.g. `terraform workspace select staging`.
var compoundCommands = map[string]struct{}{
	"workspace": {},
}

// normalizeOptionName rewrites the Go-style separator to the CLI dash,
// exactly once per encoding pass.
func normalizeOptionName(name string) string {
	return strings.ReplaceAll(name, "_", "-")
}

// encodeArgs builds the full argv for one invocation: the binary, the
// command (split on whitespace), a spliced sub-command for compound
// commands, the expanded options in insertion order, and the remaining
// positional arguments. Its only side effect is asking files to
// materialize non-empty variable maps; it performs no process I/O.
func encodeArgs(binary, command string, args []string, opts *Options, files *varFileSet) ([]string, error) {
	if strings.TrimSpace(command) == "" {
		return nil, fmt.Errorf("tfexec: command must not be empty")
	}

	tokens := append([]string{binary}, strings.Fields(command)...)

	if _, compound := compoundCommands[command]; compound && len(args) > 0 {
		tokens = append(tokens, args[0])
		args = args[1:]
	}

	if opts != nil {
		for _, entry := range opts.entries {
			if entry.name == "" {
				return nil, fmt.Errorf("tfexec: option with empty name")
			}
			name := normalizeOptionName(entry.name)

			switch value := entry.value.(type) {
			case listValue:
				for _, item := range value {
					tokens = append(tokens, fmt.Sprintf("-%s=%s", name, item))
				}

			case backendValue:
				for _, key := range sortedKeys(value) {
					tokens = append(tokens, fmt.Sprintf("-%s=%s=%s", name, key, value[key]))
				}

			case varsValue:
				if len(value) == 0 {
					continue
				}
				path, err := files.create(map[string]string(value))
				if err != nil {
					return nil, err
				}
				tokens = append(tokens, "-var-file="+path)

			case flagValue:
				if value {
					tokens = append(tokens, "-"+name)
				}

			case boolValue:
				tokens = append(tokens, fmt.Sprintf("-%s=%s", name, strconv.FormatBool(bool(value))))

			case stringValue:
				tokens = append(tokens, fmt.Sprintf("-%s=%s", name, value))

			case intValue:
				tokens = append(tokens, fmt.Sprintf("-%s=%d", name, value))

			case nil:
				return nil, fmt.Errorf("tfexec: option %q has no value", entry.name)

			default:
				return nil, fmt.Errorf("tfexec: option %q has unsupported value type %T", entry.name, entry.value)
			}
		}
	}

	tokens = append(tokens, args...)
	return tokens, nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
