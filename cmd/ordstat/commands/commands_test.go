package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/Sumatoshi-tech/ordstat/pkg/ordstat"
	"github.com/Sumatoshi-tech/ordstat/pkg/report"
	"github.com/Sumatoshi-tech/ordstat/pkg/solve"
)

type cliResult struct {
	stdout string
	stderr string
	err    error
}

// writeFile writes content under a fresh temp dir and returns its path.
func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

// runCLI executes the root command against an isolated config file with
// colors off.
func runCLI(t *testing.T, stdin string, args ...string) cliResult {
	t.Helper()

	cfgPath := writeFile(t, ".ordstat.yaml", "output:\n  color: false\n")

	var stdout, stderr bytes.Buffer

	root := NewRootCommand()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(append([]string{"--config", cfgPath}, args...))

	err := root.ExecuteContext(context.Background())

	return cliResult{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

func decodeJSONResponses(t *testing.T, out string) []solve.Response {
	t.Helper()

	var responses []solve.Response

	require.NoError(t, json.Unmarshal([]byte(out), &responses))

	return responses
}

func TestTolerance_SampleSize(t *testing.T) {
	t.Parallel()

	res := runCLI(t, "", "tolerance", "n", "--k", "2", "--p", "0.99", "--c", "0.9", "-o", "json")
	require.NoError(t, res.err)

	responses := decodeJSONResponses(t, res.stdout)
	require.Len(t, responses, 1)
	assert.True(t, responses[0].Feasible)
	assert.InDelta(t, 667.0, responses[0].Value, 0)
}

func TestTolerance_ConfidenceFromConfig(t *testing.T) {
	t.Parallel()

	res := runCLI(t, "", "tolerance", "n", "--k", "2", "--p", "0.99", "-o", "json")
	require.NoError(t, res.err)

	responses := decodeJSONResponses(t, res.stdout)
	require.Len(t, responses, 1)
	assert.InDelta(t, 0.95, responses[0].Request.C, 0)
	assert.Equal(t, 10_000_000, responses[0].Request.NMax)
}

func TestTolerance_Table(t *testing.T) {
	t.Parallel()

	res := runCLI(t, "", "tolerance", "k", "--n", "667", "--p", "0.99", "--c", "0.9")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "tolerance")
	assert.Contains(t, res.stdout, "n=667 p=0.99 c=0.9 2-sided")
	assert.Empty(t, res.stderr)
}

func TestTolerance_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		args    []string
		want    error
		message string
	}{
		{
			name:    "missing_flags",
			args:    []string{"tolerance", "p", "--n", "667"},
			want:    ErrMissingFlag,
			message: "--k",
		},
		{
			name:    "invalid_proportion",
			args:    []string{"tolerance", "c", "--n", "10", "--k", "1", "--p", "2"},
			want:    ordstat.ErrInvalidInput,
			message: "p=2",
		},
		{
			name:    "bad_bound",
			args:    []string{"tolerance", "c", "--n", "10", "--k", "1", "--p", "0.5", "--bound", "1-sided upper"},
			want:    ordstat.ErrInvalidInput,
			message: "tolerance bound",
		},
		{
			name: "conflicting_verbosity",
			args: []string{"-v", "-q", "version"},
			want: ErrConflictingFlags,
		},
		{
			name:    "unknown_output",
			args:    []string{"-o", "xml", "version"},
			want:    report.ErrUnknownFormat,
			message: "xml",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			res := runCLI(t, "", tt.args...)
			require.ErrorIs(t, res.err, tt.want)
			assert.Contains(t, res.err.Error(), tt.message)
		})
	}
}

func TestTolerance_InfeasibleWarns(t *testing.T) {
	t.Parallel()

	res := runCLI(t, "", "tolerance", "n", "--k", "2", "--p", "0.99", "--c", "0.9", "--nmax", "100")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "infeasible")
	assert.Contains(t, res.stderr, "warning: tolerance sample size")
	assert.Contains(t, res.stderr, "increase nmax")
	assert.Contains(t, res.stderr, "level=WARN")
	assert.NotContains(t, res.stderr, "\x1b[")
}

func TestTolerance_InfeasibleQuiet(t *testing.T) {
	t.Parallel()

	res := runCLI(t, "", "-q", "tolerance", "n", "--k", "2", "--p", "0.99", "--c", "0.9", "--nmax", "100")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "infeasible")
	assert.Empty(t, res.stderr)
}

func TestPercentile_YAML(t *testing.T) {
	t.Parallel()

	res := runCLI(t, "", "percentile", "k", "--n", "100", "--p", "0.5", "--c", "0.95", "-o", "yaml")
	require.NoError(t, res.err)

	var responses []solve.Response

	require.NoError(t, yaml.Unmarshal([]byte(res.stdout), &responses))
	require.Len(t, responses, 1)
	assert.InDelta(t, 10.0, responses[0].Value, 0)
	assert.Equal(t, solve.FamilyPercentile, responses[0].Request.Family)
}

func TestPercentile_HasNoPTol(t *testing.T) {
	t.Parallel()

	res := runCLI(t, "", "percentile", "n", "--k", "10", "--p", "0.5", "--ptol", "0.1")
	require.Error(t, res.err)
	assert.Contains(t, res.err.Error(), "unknown flag: --ptol")
}

func TestSigma(t *testing.T) {
	t.Parallel()

	res := runCLI(t, "", "sigma", "to-pct", "3", "--bound", "1-sided", "-o", "json")
	require.NoError(t, res.err)

	responses := decodeJSONResponses(t, res.stdout)
	require.Len(t, responses, 1)
	assert.InDelta(t, 0.99865, responses[0].Value, 1e-5)

	res = runCLI(t, "", "sigma", "to-sigma", "0.9973002", "-o", "json")
	require.NoError(t, res.err)

	responses = decodeJSONResponses(t, res.stdout)
	assert.InDelta(t, 3.0, responses[0].Value, 1e-4)

	res = runCLI(t, "", "sigma", "to-sigma", "abc")
	require.ErrorIs(t, res.err, ErrInvalidNumber)
}

func TestBounds(t *testing.T) {
	t.Parallel()

	tolPath := writeFile(t, "samples.txt", "5,1\n4 2\n3\n")

	res := runCLI(t, "", "bounds", tolPath, "--k", "1", "--p", "0.5", "--bound", "1-sided", "-o", "json")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, `"lower": null`)
	assert.Contains(t, res.stdout, `"upper": 5`)
	assert.Contains(t, res.stdout, `"confidence": 0.96875`)
	assert.Contains(t, res.stdout, `"bound": "1-sided"`)

	res = runCLI(t, "9\n1\n8\n2\n7\n3\n6\n4\n5\n", "bounds", "-", "--family", "percentile",
		"--k", "1", "--p", "0.5", "-o", "json")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, `"lower": 4`)
	assert.Contains(t, res.stdout, `"upper": 6`)
	assert.Contains(t, res.stdout, `"family": "percentile"`)
}

func TestBounds_Errors(t *testing.T) {
	t.Parallel()

	res := runCLI(t, "1,x,3", "bounds", "-", "--k", "1", "--p", "0.5")
	require.ErrorIs(t, res.err, ErrInvalidSample)
	assert.Contains(t, res.err.Error(), "sample 2")

	res = runCLI(t, "1,2,3", "bounds", "-", "--k", "1")
	require.ErrorIs(t, res.err, ErrMissingFlag)

	res = runCLI(t, "1,2,3", "bounds", "-", "--k", "3", "--p", "0.5")
	require.ErrorIs(t, res.err, ordstat.ErrInvalidInput)

	res = runCLI(t, "1,2,3", "bounds", "-", "--family", "sigma", "--k", "1", "--p", "0.5")
	require.ErrorIs(t, res.err, solve.ErrUnknownFamily)
}

func TestParseSamples(t *testing.T) {
	t.Parallel()

	samples, err := parseSamples(" 1.5, 2\r\n3e2\t-4\n\n")
	require.NoError(t, err)
	assert.Equal(t, []float64{1.5, 2, 300, -4}, samples)

	samples, err = parseSamples("")
	require.NoError(t, err)
	assert.Empty(t, samples)
}

func TestBatch(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "batch.yaml", `requests:
  - family: tolerance
    solve: n
    k: 2
    p: 0.99
    c: 0.9
  - family: percentile
    solve: k
    n: 100
    p: 0.5
    c: 0.95
`)

	res := runCLI(t, "", "batch", path, "--workers", "2", "-o", "json")
	require.NoError(t, res.err)

	responses := decodeJSONResponses(t, res.stdout)
	require.Len(t, responses, 2)
	assert.InDelta(t, 667.0, responses[0].Value, 0)
	assert.InDelta(t, 10.0, responses[1].Value, 0)
}

func TestBatch_FailedRequests(t *testing.T) {
	t.Parallel()

	body := `{"requests":[{"family":"sigma","solve":"pct","sigma":1},{"family":"sigma","solve":"pct","sigma":1,"bound":"sideways"}]}`

	res := runCLI(t, body, "batch", "-", "--format", "json", "-o", "json")
	require.ErrorIs(t, res.err, ErrBatchFailed)
	assert.Contains(t, res.err.Error(), "1 of 2")

	responses := decodeJSONResponses(t, res.stdout)
	require.Len(t, responses, 2)
	assert.Empty(t, responses[0].Error)
	assert.NotEmpty(t, responses[1].Error)
}

func TestBatch_SchemaViolation(t *testing.T) {
	t.Parallel()

	res := runCLI(t, `{"requests":[]}`, "batch", "-", "--format", "json")
	require.ErrorIs(t, res.err, solve.ErrSchemaViolation)
}

func TestPlot(t *testing.T) {
	t.Parallel()

	out := filepath.Join(t.TempDir(), "curve.html")

	res := runCLI(t, "", "plot", "tolerance", "--k", "2", "--p", "0.9", "--to", "50", "--out", out)
	require.NoError(t, res.err)

	html, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(html), "Tolerance coverage")
	assert.Contains(t, string(html), "0.95")
	assert.Contains(t, res.stderr, "wrote coverage curve")

	res = runCLI(t, "", "plot", "percentile", "--k", "3", "--p", "0.5", "--c", "0.9", "--from", "10", "--to", "20")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "Percentile coverage")

	res = runCLI(t, "", "plot", "tolerance", "--from", "20", "--to", "10")
	require.ErrorIs(t, res.err, report.ErrInvalidRange)
}

func TestVersion(t *testing.T) {
	t.Parallel()

	res := runCLI(t, "", "version")
	require.NoError(t, res.err)
	assert.True(t, strings.HasPrefix(res.stdout, "ordstat "))
}

func TestRootCommand_Subcommands(t *testing.T) {
	t.Parallel()

	names := make([]string, 0)
	for _, cmd := range NewRootCommand().Commands() {
		names = append(names, cmd.Name())
	}

	for _, want := range []string{"tolerance", "percentile", "sigma", "bounds", "batch", "plot", "mcp", "serve", "version"} {
		assert.Contains(t, names, want)
	}
}
