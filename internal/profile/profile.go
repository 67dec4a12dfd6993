package profile

// Profile is the decoded, format-agnostic run profile: which binary to
// drive, where, and the default options merged into every lifecycle
// operation.
type Profile struct {
	Binary     string
	WorkingDir string
	IsolateEnv bool

	State       string
	Targets     []string
	Parallelism int
	Variables   map[string]string
	VarFiles    []string

	// BackendConfig is the merge of all backend blocks, key-for-key with
	// later blocks winning. BackendType records the last block's label,
	// for logging only.
	BackendType   string
	BackendConfig map[string]string
}
