package tfexec

// Value is the closed set of shapes an option value can take. Each shape has
// its own encoding rule; see encodeArgs. Implementations live in this file
// only, which keeps the encoder's type switch exhaustive.
type Value interface {
	isValue()
}

type flagValue bool

func (flagValue) isValue() {}

// Flagged requests a bare flag token (`-name`) with no value.
// NotFlagged suppresses the option entirely; it exists so that a shim's
// default flag can be switched off by a caller override.
var (
	Flagged    Value = flagValue(true)
	NotFlagged Value = flagValue(false)
)

type boolValue bool

func (boolValue) isValue() {}

// Bool encodes as `-name=true` or `-name=false`.
func Bool(v bool) Value { return boolValue(v) }

type stringValue string

func (stringValue) isValue() {}

// String encodes as `-name=value`.
func String(v string) Value { return stringValue(v) }

type intValue int

func (intValue) isValue() {}

// Int encodes as `-name=value`.
func Int(v int) Value { return intValue(v) }

type listValue []string

func (listValue) isValue() {}

// List encodes as one `-name=item` token per item, preserving item order.
// An empty list emits nothing.
func List(items ...string) Value { return listValue(items) }

type varsValue map[string]string

func (varsValue) isValue() {}

// Vars is a variable map. A non-empty map is written to an ephemeral
// .tfvars.json file and referenced with a single `-var-file=path` token.
// An empty map emits nothing and creates no file: Terraform rejects an
// empty variable file.
func Vars(vars map[string]string) Value { return varsValue(vars) }

type backendValue map[string]string

func (backendValue) isValue() {}

// BackendConfig expands inline as one `-name=key=value` token per entry,
// sorted by key. No single token is emitted for the map itself.
func BackendConfig(cfg map[string]string) Value { return backendValue(cfg) }

// optionEntry pairs an option name with its value.
type optionEntry struct {
	name  string
	value Value
}

// Options is an insertion-ordered collection of named option values. Keys
// are unique; setting an existing key replaces its value in place, so a
// deterministic caller always renders the same command line. Map iteration
// never touches encoding.
type Options struct {
	entries []optionEntry
}

// NewOptions returns an empty option set.
func NewOptions() *Options {
	return &Options{}
}

// Set stores value under name, replacing an existing entry in place. It
// returns the receiver for chaining.
func (o *Options) Set(name string, value Value) *Options {
	for i := range o.entries {
		if o.entries[i].name == name {
			o.entries[i].value = value
			return o
		}
	}
	o.entries = append(o.entries, optionEntry{name: name, value: value})
	return o
}

// Len returns the number of entries. A nil receiver is an empty set.
func (o *Options) Len() int {
	if o == nil {
		return 0
	}
	return len(o.entries)
}

// Merge returns a new option set containing the receiver's entries with the
// overrides applied key-for-key: an override for an existing key replaces
// the value but keeps the base position, new keys are appended in override
// order. Either side may be nil.
func (o *Options) Merge(overrides *Options) *Options {
	merged := NewOptions()
	if o != nil {
		merged.entries = append(merged.entries, o.entries...)
	}
	if overrides != nil {
		for _, entry := range overrides.entries {
			merged.Set(entry.name, entry.value)
		}
	}
	return merged
}
