//go:build basic || database

// Package integration contains end-to-end tests for the dqscore binary.
// These tests are excluded from normal test runs due to build tags.
// To run these tests: go test -tags basic ./integration
// Database backends: go test -tags database ./integration
package integration

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

var (
	// sharedBinaryPath holds the path to a shared dqscore binary built once for all tests.
	sharedBinaryPath string

	// buildOnce ensures we only build the binary once.
	buildOnce sync.Once

	// buildMutex protects the shared binary path.
	buildMutex sync.Mutex

	// tempDir holds the temp directory for cleanup.
	tempDir string
)

const tripChecksYAML = `
- expectation_type: expect_column_values_to_not_be_null
  kwargs: {column: trip_distance}
  meta: {label: distance_not_null, quality_score: 10}
- expectation_type: expect_column_values_to_be_between
  kwargs: {column: trip_distance, min_value: 0, max_value: 5}
  meta: {label: distance_in_range, quality_score: 20}
- expectation_type: expect_column_values_to_match_regex
  kwargs: {column: medallion, regex: "^A[0-9]+$"}
  meta: {label: medallion_format, quality_score: 10}
- expectation_type: expect_table_row_count_to_be_between
  kwargs: {min_value: 1}
  meta: {label: has_rows, quality_score: 5}
`

const fareChecksYAML = `
- expectation_type: ExpectColumnToExist
  kwargs: {column: fare_amount}
  meta: {label: has_fare_amount, quality_score: 10}
- expectation_type: expect_column_values_to_be_between
  kwargs: {column: fare_amount, min_value: 2.5}
  meta: {label: fare_minimum, quality_score: 10}
`

// TestMain handles setup and cleanup for all integration tests.
func TestMain(m *testing.M) {
	// Run all tests
	code := m.Run()

	// Cleanup the shared binary after all tests
	if tempDir != "" {
		_ = os.RemoveAll(tempDir)
	}

	os.Exit(code)
}

// getBinary returns the path to the dqscore binary, building it once if needed.
func getBinary() string {
	buildMutex.Lock()
	defer buildMutex.Unlock()

	buildOnce.Do(func() {
		// Create a temp directory for the binary
		var err error
		tempDir, err = os.MkdirTemp("", "dqscore-integration-*")
		if err != nil {
			panic(fmt.Sprintf("failed to create temp dir: %v", err))
		}

		binaryPath := filepath.Join(tempDir, "dqscore")
		buildCmd := exec.Command("go", "build", "-o", binaryPath, ".")
		buildCmd.Dir = ".." // Build from parent directory (project root)
		if err := buildCmd.Run(); err != nil {
			panic(fmt.Sprintf("failed to build dqscore: %v", err))
		}

		sharedBinaryPath = binaryPath
	})

	return sharedBinaryPath
}

// newWorkspace writes checks and batches using the default workspace layout.
func newWorkspace(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	files := map[string]string{
		filepath.Join("checks", "trip_data_checks.yaml"):                   tripChecksYAML,
		filepath.Join("checks", "trip_fare_checks.yml"):                    fareChecksYAML,
		filepath.Join("data", "input", "trip_data", "trip_data_batch.csv"): "medallion,trip_distance\nA1,1.0\nA2,9.0\nB3,\n",
		filepath.Join("data", "input", "trip_fare", "trip_fare_batch.csv"): "medallion,fare_amount\nA1,5.5\nA2,1.0\n",
	}
	for rel, content := range files {
		path := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}

// runCommand runs dqscore inside the workspace and returns its stdout.
func runCommand(t *testing.T, workspace string, env []string, args ...string) ([]byte, error) {
	t.Helper()
	cmd := exec.Command(getBinary(), args...)
	cmd.Dir = workspace
	cmd.Env = append(os.Environ(), env...)
	var stderr []byte
	output, err := cmd.Output()
	if exitErr, ok := err.(*exec.ExitError); ok {
		stderr = exitErr.Stderr
	}
	if err != nil {
		t.Logf("Command failed: %s\nStdout: %s\nStderr: %s", cmd.String(), output, stderr)
	}
	return output, err
}
