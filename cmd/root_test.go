package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/delivery-sim/delivery-sim/sim/trace"
)

const exampleScenario = "../testdata/example.in"

func readGolden(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("..", "testdata", name))
	require.NoError(t, err)
	return string(data)
}

func TestRunSimulation_SolutionOnStdout(t *testing.T) {
	for _, policy := range []string{"first-fit", "heavy-lifting"} {
		t.Run(policy, func(t *testing.T) {
			// GIVEN the example scenario and no output file
			opts := runOptions{Scenario: exampleScenario, Policy: policy}
			var stdout bytes.Buffer

			// WHEN the simulation runs
			res, err := runSimulation(opts, &stdout)
			require.NoError(t, err)

			// THEN the solution on stdout matches the golden command log
			want := readGolden(t, "example_"+strings.ReplaceAll(policy, "-", "_")+".golden")
			assert.Equal(t, want, stdout.String())
			assert.Equal(t, 228, res.Score)
			assert.Equal(t, 3, res.Completed)
		})
	}
}

func TestRunSimulation_OutputFileAndSummary(t *testing.T) {
	// GIVEN an output path and summary printing
	out := filepath.Join(t.TempDir(), "solution.txt")
	opts := runOptions{Scenario: exampleScenario, Policy: "first-fit", Output: out, Summary: true}
	var stdout bytes.Buffer

	// WHEN the simulation runs
	_, err := runSimulation(opts, &stdout)
	require.NoError(t, err)

	// THEN the solution goes to the file and only metrics reach stdout
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, readGolden(t, "example_first_fit.golden"), string(data))
	assert.Contains(t, stdout.String(), "Total Score          : 228")
	assert.NotContains(t, stdout.String(), "0 L 0 0 1")
}

func TestRunSimulation_DeadlineOverride(t *testing.T) {
	// GIVEN a deadline too short for any delivery
	opts := runOptions{Scenario: exampleScenario, Policy: "first-fit", Deadline: 3}
	var stdout bytes.Buffer

	// WHEN the simulation runs
	res, err := runSimulation(opts, &stdout)

	// THEN the run ends normally with nothing completed
	require.NoError(t, err)
	assert.Equal(t, 0, res.Score)
	assert.Equal(t, 3, res.Ticks)
	assert.NotEmpty(t, res.Incomplete)
}

func TestRunSimulation_WritesTrace(t *testing.T) {
	traceFile := filepath.Join(t.TempDir(), "run.trace.zst")
	opts := runOptions{
		Scenario:    exampleScenario,
		Policy:      "heavy-lifting",
		TraceLevel:  "decisions",
		TraceOutput: traceFile,
	}
	var stdout bytes.Buffer

	_, err := runSimulation(opts, &stdout)
	require.NoError(t, err)

	st, err := trace.ReadFile(traceFile)
	require.NoError(t, err)
	assert.Equal(t, "heavy-lifting", st.Config.Policy)
	assert.Len(t, st.Commands, 8)
	assert.Len(t, st.Completions, 3)

	var summary bytes.Buffer
	printTraceSummary(&summary, st)
	assert.Contains(t, summary.String(), "Total Score          : 228")
	assert.Contains(t, summary.String(), "Commands             : 8 (load 4, deliver 4)")
}

func TestRunSimulation_InvalidInputs(t *testing.T) {
	tests := []struct {
		name string
		opts runOptions
		want string
	}{
		{"no scenario", runOptions{Policy: "first-fit"}, "no scenario"},
		{"unknown policy", runOptions{Scenario: exampleScenario, Policy: "random"}, "unknown scheduling policy"},
		{"unknown trace level", runOptions{Scenario: exampleScenario, TraceLevel: "all"}, "unknown trace level"},
		{"missing file", runOptions{Scenario: "../testdata/missing.in"}, "missing.in"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := runSimulation(tc.opts, &bytes.Buffer{})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestRunSimulation_InvalidWorld(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.in")
	// deadline 0
	require.NoError(t, os.WriteFile(path, []byte("10 10 1 0 100\n1\n1\n1\n0 0\n1\n0\n"), 0o644))

	_, err := runSimulation(runOptions{Scenario: path}, &bytes.Buffer{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "deadline must be positive")
}

func TestValidateScenario_PrintsTotals(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, validateScenario(exampleScenario, "", &out))
	assert.Contains(t, out.String(), "Orders               : 3")
	assert.Contains(t, out.String(), "Ordered Items        : 6")
	assert.NotContains(t, out.String(), "Shortfall")
}

func TestValidateScenario_BadRunConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, os.WriteFile(path, []byte("policy: random\n"), 0o644))

	err := validateScenario(exampleScenario, path, &bytes.Buffer{})

	assert.Error(t, err)
}

func TestResolveRunOptions_FlagsOverrideConfig(t *testing.T) {
	// GIVEN a run config selecting heavy-lifting and a trace file
	path := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"policy: heavy-lifting\ndeadline: 40\nlog: info\ntrace:\n  level: decisions\n  output: run.trace.zst\n"), 0o644))

	// AND an explicit --policy flag
	defer func(old string) { configPath = old }(configPath)
	defer func(old string) { policyName = old }(policyName)
	configPath = path
	require.NoError(t, runCmd.Flags().Set("policy", "first-fit"))

	// WHEN options are resolved
	opts, level, err := resolveRunOptions(runCmd)
	require.NoError(t, err)

	// THEN the flag wins and unset flags take config values
	assert.Equal(t, "first-fit", opts.Policy)
	assert.Equal(t, 40, opts.Deadline)
	assert.Equal(t, "info", level)
	assert.Equal(t, "decisions", opts.TraceLevel)
	assert.Equal(t, "run.trace.zst", opts.TraceOutput)
}
