package contract

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetPlainLabel(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected string
	}{
		{
			name:     "smallest value possible",
			input:    0.0,
			expected: PoorValue,
		},
		{
			name:     "just before fair",
			input:    49.9,
			expected: PoorValue,
		},
		{
			name:     "exactly fair",
			input:    50.0,
			expected: FairValue,
		},
		{
			name:     "just before good",
			input:    74.9,
			expected: FairValue,
		},
		{
			name:     "exactly good",
			input:    75.0,
			expected: GoodValue,
		},
		{
			name:     "just before excellent",
			input:    89.9,
			expected: GoodValue,
		},
		{
			name:     "exactly excellent",
			input:    90.0,
			expected: ExcellentValue,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetPlainLabel(tt.input))
		})
	}
}

func TestGetColorLabel(t *testing.T) {
	tests := []struct {
		name    string
		percent float64
		label   string
	}{
		{"poor", 30, PoorValue},
		{"fair", 60, FairValue},
		{"good", 80, GoodValue},
		{"excellent", 95, ExcellentValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := GetColorLabel(tt.percent)
			// Should contain the plain label
			assert.Contains(t, result, tt.label)
		})
	}
}

func TestSelectOutputFile(t *testing.T) {
	t.Run("empty path returns stdout", func(t *testing.T) {
		file, err := SelectOutputFile("")
		require.NoError(t, err)
		assert.Equal(t, os.Stdout, file)
	})

	t.Run("valid path creates file", func(t *testing.T) {
		tempFile := filepath.Join(t.TempDir(), "test_output.txt")

		file, err := SelectOutputFile(tempFile)
		require.NoError(t, err)
		assert.NotNil(t, file)
		_ = file.Close()

		_, err = os.Stat(tempFile)
		assert.NoError(t, err)
	})
}

func TestGetHistoryDBFilePath(t *testing.T) {
	path := GetHistoryDBFilePath()
	assert.NotEmpty(t, path)
	assert.Contains(t, path, ".dqscore_history.db")

	homeDir, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(path, homeDir), "path %s should start with home dir %s", path, homeDir)
}

func TestTruncateText(t *testing.T) {
	assert.Equal(t, "passenger_count", TruncateText("passenger_count", 20))
	assert.Equal(t, "passe...", TruncateText("passenger_count", 8))
	assert.Equal(t, "passenger_count", TruncateText("passenger_count", 3))
}

func TestParseBoolString(t *testing.T) {
	for _, s := range []string{"yes", "TRUE", "1"} {
		v, err := ParseBoolString(s)
		require.NoError(t, err)
		assert.True(t, v, s)
	}
	for _, s := range []string{"no", "False", "0"} {
		v, err := ParseBoolString(s)
		require.NoError(t, err)
		assert.False(t, v, s)
	}
	_, err := ParseBoolString("maybe")
	assert.Error(t, err)
}

func TestParseLogLevel(t *testing.T) {
	tests := map[string]zerolog.Level{
		"debug":   zerolog.DebugLevel,
		"INFO":    zerolog.InfoLevel,
		"":        zerolog.WarnLevel,
		"warning": zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
	}
	for in, want := range tests {
		got, err := ParseLogLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLogLevel("verbose")
	assert.Error(t, err)
}

func TestSetupLogger(t *testing.T) {
	var buf bytes.Buffer
	SetupLogger(&buf, zerolog.WarnLevel)
	t.Cleanup(func() { SetupLogger(os.Stderr, zerolog.WarnLevel) })

	Logger().Info().Msg("hidden")
	LogWarn("loading checks", errors.New("duplicate label"))

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "loading checks")
	assert.Contains(t, out, "duplicate label")
}
