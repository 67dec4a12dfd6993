package tfexec

import (
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func encode(t *testing.T, command string, args []string, opts *Options) ([]string, *varFileSet) {
	t.Helper()
	files := &varFileSet{}
	tokens, err := encodeArgs("terraform", command, args, opts, files)
	require.NoError(t, err)
	return tokens, files
}

func TestEncodeArgs_ScalarsAndFlags(t *testing.T) {
	t.Parallel()

	opts := NewOptions().
		Set("state", String("prod.tfstate")).
		Set("parallelism", Int(10)).
		Set("input", Bool(false)).
		Set("no_color", Flagged).
		Set("lock", NotFlagged)

	tokens, _ := encode(t, "plan", nil, opts)

	require.Equal(t, []string{
		"terraform", "plan",
		"-state=prod.tfstate",
		"-parallelism=10",
		"-input=false",
		"-no-color",
	}, tokens)
}

func TestEncodeArgs_IsDeterministic(t *testing.T) {
	t.Parallel()

	opts := NewOptions().
		Set("no_color", Flagged).
		Set("input", Bool(true)).
		Set("state", String("a"))

	first, _ := encode(t, "apply", []string{"dir"}, opts)
	second, _ := encode(t, "apply", []string{"dir"}, opts)

	require.Equal(t, first, second)
}

func TestEncodeArgs_ListPreservesOrder(t *testing.T) {
	t.Parallel()

	tokens, _ := encode(t, "plan", nil, NewOptions().Set("target", List("a", "b")))
	require.Equal(t, []string{"terraform", "plan", "-target=a", "-target=b"}, tokens)

	tokens, _ = encode(t, "plan", nil, NewOptions().Set("target", List()))
	require.Equal(t, []string{"terraform", "plan"}, tokens)
}

func TestEncodeArgs_UnderscoreBecomesDash(t *testing.T) {
	t.Parallel()

	tokens, _ := encode(t, "plan", nil, NewOptions().Set("detailed_exitcode", Flagged))
	require.Equal(t, []string{"terraform", "plan", "-detailed-exitcode"}, tokens)
}

func TestEncodeArgs_CompoundCommandSplicesSubcommand(t *testing.T) {
	t.Parallel()

	opts := NewOptions().Set("no_color", Flagged)
	tokens, _ := encode(t, "workspace", []string{"select", "staging"}, opts)

	// "select" rides immediately after the command; "staging" stays a
	// trailing positional behind the options.
	require.Equal(t, []string{"terraform", "workspace", "select", "-no-color", "staging"}, tokens)
}

func TestEncodeArgs_MultiWordCommandSplits(t *testing.T) {
	t.Parallel()

	tokens, _ := encode(t, "state list", nil, nil)
	require.Equal(t, []string{"terraform", "state", "list"}, tokens)
}

func TestEncodeArgs_TrailingPositionals(t *testing.T) {
	t.Parallel()

	opts := NewOptions().Set("input", Bool(true))
	tokens, _ := encode(t, "import", []string{"aws_instance.foo", "i-abcd1234"}, opts)

	require.Equal(t, []string{
		"terraform", "import", "-input=true", "aws_instance.foo", "i-abcd1234",
	}, tokens)
}

func TestEncodeArgs_VarMapMaterializesOneFile(t *testing.T) {
	t.Parallel()

	tokens, files := encode(t, "apply", nil, NewOptions().Set("var", Vars(map[string]string{"a": "b"})))

	require.Len(t, tokens, 3)
	require.True(t, strings.HasPrefix(tokens[2], "-var-file="))
	require.Len(t, files.paths, 1)

	data, err := os.ReadFile(strings.TrimPrefix(tokens[2], "-var-file="))
	require.NoError(t, err)
	var decoded map[string]string
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Equal(t, map[string]string{"a": "b"}, decoded)

	files.cleanup(testLogger())
}

func TestEncodeArgs_EmptyVarMapEmitsNothing(t *testing.T) {
	t.Parallel()

	tokens, files := encode(t, "apply", nil, NewOptions().Set("var", Vars(map[string]string{})))

	require.Equal(t, []string{"terraform", "apply"}, tokens)
	require.Empty(t, files.paths)
}

func TestEncodeArgs_BackendConfigExpandsInline(t *testing.T) {
	t.Parallel()

	opts := NewOptions().Set("backend_config", BackendConfig(map[string]string{
		"key":    "prod",
		"bucket": "tf-state",
	}))
	tokens, files := encode(t, "init", nil, opts)

	require.Equal(t, []string{
		"terraform", "init",
		"-backend-config=bucket=tf-state",
		"-backend-config=key=prod",
	}, tokens)
	require.Empty(t, files.paths)
}

func TestEncodeArgs_Errors(t *testing.T) {
	t.Parallel()

	files := &varFileSet{}

	_, err := encodeArgs("terraform", "", nil, nil, files)
	require.Error(t, err)

	_, err = encodeArgs("terraform", "plan", nil, NewOptions().Set("", Flagged), files)
	require.Error(t, err)

	_, err = encodeArgs("terraform", "plan", nil, NewOptions().Set("state", nil), files)
	require.Error(t, err)
}

func TestOptionsMerge(t *testing.T) {
	t.Parallel()

	base := NewOptions().
		Set("state", String("base.tfstate")).
		Set("no_color", Flagged)
	overrides := NewOptions().
		Set("no_color", NotFlagged).
		Set("refresh", Bool(false))

	tokens, _ := encode(t, "plan", nil, base.Merge(overrides))

	// Override replaces in place, new keys append, base is untouched.
	require.Equal(t, []string{"terraform", "plan", "-state=base.tfstate", "-refresh=false"}, tokens)

	tokens, _ = encode(t, "plan", nil, base)
	require.Equal(t, []string{"terraform", "plan", "-state=base.tfstate", "-no-color"}, tokens)
}
