package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = &out
	app.ExitErrHandler = func(*cli.Context, error) {}

	err := app.Run(append([]string{"meshmap"}, args...))
	return out.String(), err
}

func TestMapCommand_JSON(t *testing.T) {
	path := writeFile(t, "case.toml", planeCase)

	out, err := run(t, "map", "--json", "--ranks", "2", "--workers", "2", path)
	require.NoError(t, err)

	var rep report
	require.NoError(t, json.Unmarshal([]byte(out), &rep))

	assert.Equal(t, "nearest_element", rep.Mode)
	assert.Equal(t, 2, rep.Ranks)
	require.Len(t, rep.Points, 3)
	assert.True(t, rep.Points[2].Approximate)
	assert.Equal(t, []int{1, 2, 3}, rep.Points[2].NodeIDs)
}

func TestMapCommand_Text(t *testing.T) {
	path := writeFile(t, "case.toml", planeCase)

	out, err := run(t, "map", "-n", "2", "--index", "flat", path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 5)
	assert.Contains(t, lines[0], "mode=nearest_element ranks=2 iterations=3")
	assert.Contains(t, lines[1], "POINT")
	assert.Contains(t, lines[2], "exact")
	assert.Contains(t, lines[4], "approx")
	assert.Contains(t, lines[4], "0,1,0")
}

func TestMapCommand_ModeOverride(t *testing.T) {
	path := writeFile(t, "case.toml", planeCase)

	out, err := run(t, "map", "--json", "--mode", "nearest_neighbor", "-n", "2", path)
	require.NoError(t, err)

	var rep report
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	assert.Equal(t, "nearest_neighbor", rep.Mode)

	// nodes 1 and 3 are owned by rank 0, nodes 2 and 4 by rank 1
	assert.Equal(t, 4, rep.Points[1].ObjectID)
	assert.Equal(t, 3, rep.Points[2].ObjectID)
	assert.Equal(t, []float64{1}, rep.Points[2].Weights)
}

func TestMapCommand_Errors(t *testing.T) {
	path := writeFile(t, "case.toml", planeCase)

	tests := []struct {
		name string
		args []string
		msg  string
	}{
		{"MissingCase", []string{"map"}, "expected exactly one case file"},
		{"UnknownMode", []string{"map", "--mode", "barycentric", path}, "unsupported mapping mode"},
		{"UnknownIndex", []string{"map", "--index", "kdtree", path}, "unknown index type"},
		{"RankOutOfRange", []string{"map", path}, "out of range"},
		{"LogLevel", []string{"--log-level", "loud", "map", path}, "invalid log level"},
		{"NoFile", []string{"map", filepath.Join(t.TempDir(), "missing.toml")}, "failed to open case"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestSettingsCommand(t *testing.T) {
	path := writeFile(t, "settings.toml", "search_radius = 0.5\nmax_num_search_iterations = 4\n")

	out, err := run(t, "settings", path)
	require.NoError(t, err)

	assert.Contains(t, out, "search_radius = 0.5")
	assert.Contains(t, out, "max_num_search_iterations = 4")
	assert.NotContains(t, out, "max_search_radius")

	t.Run("Invalid", func(t *testing.T) {
		path := writeFile(t, "settings.toml", "search_radius = 0.0\n")
		_, err := run(t, "settings", path)
		assert.Error(t, err)
	})
}
