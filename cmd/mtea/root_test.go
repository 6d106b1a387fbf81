package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func newGoldie(t *testing.T) *goldie.Goldie {
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}

func TestCommandPresence(t *testing.T) {
	cmd := newRootCommand()
	for _, name := range []string{"list", "run", "wit", "tui"} {
		t.Run(name, func(t *testing.T) {
			sub, _, err := cmd.Find([]string{name})
			require.NoError(t, err)
			assert.Equal(t, name, sub.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := newRootCommand()

	format := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, format)
	assert.Equal(t, "text", format.DefValue)

	level := cmd.PersistentFlags().Lookup("log-level")
	require.NotNil(t, level)
	assert.Equal(t, "warn", level.DefValue)
}

func TestInvalidGlobalFlags(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"format", []string{"list", "--format", "yaml"}, "invalid format"},
		{"log level", []string{"list", "--log-level", "loud"}, "invalid log level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
			assert.Equal(t, exitCommandError, exitCode(err))
		})
	}
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, exitSuccess, exitCode(nil))
	assert.Equal(t, exitFailure, exitCode(newExitError(exitFailure, "failed")))
	assert.Equal(t, exitCommandError, exitCode(errors.New("unknown flag")))

	wrapped := wrapExitError(exitCommandError, "loading", errors.New("boom"))
	assert.Equal(t, "loading: boom", wrapped.Error())
	assert.Equal(t, "boom", errors.Unwrap(wrapped).Error())
}

func TestListGolden(t *testing.T) {
	out, err := execute(t, "list")
	require.NoError(t, err)
	newGoldie(t).Assert(t, "list", []byte(out))
}

func TestListJSON(t *testing.T) {
	out, err := execute(t, "list", "--format", "json")
	require.NoError(t, err)

	var rows []familyRow
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, 27)
	assert.Equal(t, familyRow{
		Name: "add", Alias: "+", Shape: "size", Kinds: 1, Types: "integral|floating", Default: "f64",
	}, rows[9])
	assert.Equal(t, 2, rows[8].Kinds)
}

func TestWITGolden(t *testing.T) {
	out, err := execute(t, "wit")
	require.NoError(t, err)
	newGoldie(t).Assert(t, "wit", []byte(out))
}
