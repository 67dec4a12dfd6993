package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vk/tfexecgo/internal/app"
)

func TestParse_HelpExitsCleanly(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}
	config, shouldExit, err := Parse([]string{"-h"}, out)

	require.NoError(t, err)
	require.True(t, shouldExit)
	require.Nil(t, config)
	require.Contains(t, out.String(), "Usage:")
}

func TestParse_NoOperationPrintsUsage(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}
	config, shouldExit, err := Parse([]string{"-log-level", "debug"}, out)

	require.NoError(t, err)
	require.True(t, shouldExit)
	require.Nil(t, config)
	require.Contains(t, out.String(), "Operations:")
}

func TestParse_UnknownFlag(t *testing.T) {
	t.Parallel()

	_, _, err := Parse([]string{"--not-a-flag", "plan"}, &bytes.Buffer{})

	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	require.Equal(t, 2, exitErr.Code)
}

func TestParse_PopulatesConfig(t *testing.T) {
	t.Parallel()

	args := []string{
		"-profile", "prod.hcl",
		"-chdir", "/srv/infra",
		"-binary", "/opt/terraform",
		"-stream",
		"-log-format", "text",
		"-log-level", "DEBUG",
		"apply", "plan.out",
	}
	config, shouldExit, err := Parse(args, &bytes.Buffer{})

	require.NoError(t, err)
	require.False(t, shouldExit)
	require.Equal(t, "prod.hcl", config.ProfilePath)
	require.Equal(t, "/srv/infra", config.Chdir)
	require.Equal(t, "/opt/terraform", config.Binary)
	require.True(t, config.Stream)
	require.False(t, config.Detach)
	require.Equal(t, "text", config.LogFormat)
	require.Equal(t, "debug", config.LogLevel)
	require.Equal(t, app.OpApply, config.Operation)
	require.Equal(t, []string{"plan.out"}, config.Args)
}

func TestParse_ProfileShorthand(t *testing.T) {
	t.Parallel()

	config, _, err := Parse([]string{"-p", "prod.hcl", "plan"}, &bytes.Buffer{})

	require.NoError(t, err)
	require.Equal(t, "prod.hcl", config.ProfilePath)
}

func TestParse_InvalidLogSettings(t *testing.T) {
	t.Parallel()

	_, _, err := Parse([]string{"-log-format", "xml", "plan"}, &bytes.Buffer{})
	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	require.Equal(t, 2, exitErr.Code)

	_, _, err = Parse([]string{"-log-level", "loud", "plan"}, &bytes.Buffer{})
	require.ErrorAs(t, err, &exitErr)
	require.Equal(t, 2, exitErr.Code)
}

func TestParse_RejectsMalformedOperations(t *testing.T) {
	t.Parallel()

	var exitErr *ExitError

	_, _, err := Parse([]string{"teleport"}, &bytes.Buffer{})
	require.ErrorAs(t, err, &exitErr)
	require.Contains(t, exitErr.Message, "unknown operation")

	_, _, err = Parse([]string{"workspace", "select"}, &bytes.Buffer{})
	require.ErrorAs(t, err, &exitErr)
	require.Contains(t, exitErr.Message, "workspace name")

	_, _, err = Parse([]string{"-detach", "output"}, &bytes.Buffer{})
	require.ErrorAs(t, err, &exitErr)
	require.Contains(t, exitErr.Message, "-detach")
}
