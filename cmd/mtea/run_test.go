package main

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunPass(t *testing.T) {
	out, err := execute(t, "run", "testdata/scenarios/pass.yaml")
	require.NoError(t, err)
	assert.Equal(t, `scenario: sub-s32
block: sub<s32, 3>
tick 0 step value=5
tick 1 step value=11
result: pass
`, out)
}

func TestRunFail(t *testing.T) {
	out, err := execute(t, "run", "testdata/scenarios/pass.yaml", "testdata/scenarios/fail.yaml")
	require.Error(t, err)
	assert.Equal(t, exitFailure, exitCode(err))
	assert.Contains(t, err.Error(), "1 of 2 scenarios failed")
	assert.Contains(t, out, "result: pass")
	assert.Contains(t, out, "mismatch tick 0 value: expected true, got false")
}

func TestRunCommandErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"missing file", []string{"run", "testdata/scenarios/missing.yaml"}},
		{"invalid scenario", []string{"run", "testdata/scenarios/invalid.yaml"}},
		{"no files", []string{"run"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Equal(t, exitCommandError, exitCode(err))
		})
	}
}

func TestRunJSON(t *testing.T) {
	out, err := execute(t, "run", "--format", "json", "testdata/scenarios/pass.yaml", "testdata/scenarios/fail.yaml")
	require.Error(t, err)
	assert.Equal(t, exitFailure, exitCode(err))

	var reports []scenarioReport
	require.NoError(t, json.Unmarshal([]byte(out), &reports))
	require.Len(t, reports, 2)

	assert.True(t, reports[0].Passed)
	assert.Equal(t, "sub<s32, 3>", reports[0].Block)
	assert.Equal(t, map[string]string{"value": "11"}, reports[0].Ticks[1].Outputs)

	assert.False(t, reports[1].Passed)
	assert.Equal(t, []string{"tick 0 value: expected true, got false"}, reports[1].Mismatches)
}
